package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mybookconnect/go-session"
)

func TestLoginRequestValidation(t *testing.T) {
	assert.NoError(t, session.LoginRequest{Identifier: "reader42", Password: "pw"}.Validate())
	assert.Error(t, session.LoginRequest{Password: "pw"}.Validate())
	assert.Error(t, session.LoginRequest{Identifier: "reader42"}.Validate())
}

func TestRegisterRequestValidation(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		assert.NoError(t, validRegistration().Validate())
	})

	t.Run("rejects short password", func(t *testing.T) {
		req := validRegistration()
		req.Password = "short"
		req.ConfirmPassword = "short"
		assert.Error(t, req.Validate())
	})

	t.Run("rejects mismatched confirmation", func(t *testing.T) {
		req := validRegistration()
		req.ConfirmPassword = "different-password"
		assert.Error(t, req.Validate())
	})

	t.Run("rejects bad email", func(t *testing.T) {
		req := validRegistration()
		req.Email = "not-an-address"
		assert.Error(t, req.Validate())
	})

	t.Run("rejects missing username", func(t *testing.T) {
		req := validRegistration()
		req.Username = ""
		assert.Error(t, req.Validate())
	})
}

func TestProfileUpdateValidatesOnlyPopulatedFields(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	t.Run("zero update is valid", func(t *testing.T) {
		update := session.ProfileUpdate{}
		assert.True(t, update.IsZero())
		assert.NoError(t, update.Validate())
	})

	t.Run("valid partial update", func(t *testing.T) {
		update := session.ProfileUpdate{
			Bio:          strPtr("collects first editions"),
			BirthDate:    strPtr("1990-04-01"),
			PrivacyLevel: strPtr(session.PrivacyFollowers),
		}
		assert.False(t, update.IsZero())
		assert.NoError(t, update.Validate())
	})

	t.Run("rejects malformed birth date", func(t *testing.T) {
		update := session.ProfileUpdate{BirthDate: strPtr("01/04/1990")}
		assert.Error(t, update.Validate())
	})

	t.Run("rejects unknown privacy level", func(t *testing.T) {
		update := session.ProfileUpdate{PrivacyLevel: strPtr("friends-only")}
		assert.Error(t, update.Validate())
	})

	t.Run("rejects bad email", func(t *testing.T) {
		update := session.ProfileUpdate{Email: strPtr("nope")}
		assert.Error(t, update.Validate())
	})
}

func TestValidateStringEquals(t *testing.T) {
	rule := session.ValidateStringEquals("expected")
	assert.NoError(t, rule("expected"))
	assert.Error(t, rule("other"))
	assert.Error(t, rule(nil))
}
