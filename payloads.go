package session

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// LoginRequest carries the credentials for Login. The identifier is the
// username (the backend's token endpoint authenticates by username, not
// email), so no address format is enforced here.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Identifier
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Identifier,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// RegisterRequest is the account creation payload. The confirmation check is
// the presentation layer's job first, but the core rejects mismatches too.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"password2"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Bio             string `json:"bio,omitempty"`
}

// Validate will validate the payload
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 150)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
		validation.Field(&r.Bio, validation.Length(0, 500)),
	)
}

// ProfileUpdate is a partial profile edit: nil fields are left untouched by
// the backend. Marshalled as the PATCH body.
type ProfileUpdate struct {
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	BirthDate    *string `json:"birth_date,omitempty"`
	Location     *string `json:"location,omitempty"`
	PrivacyLevel *string `json:"privacy_level,omitempty"`
}

// IsZero reports whether the update touches nothing.
func (r ProfileUpdate) IsZero() bool {
	return r.FirstName == nil && r.LastName == nil && r.Email == nil &&
		r.Bio == nil && r.BirthDate == nil && r.Location == nil &&
		r.PrivacyLevel == nil
}

// Validate will validate the populated fields only
func (r ProfileUpdate) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.By(validateOptional(func(s string) error {
			return validation.Validate(s, validation.Required, is.Email)
		}))),
		validation.Field(&r.Bio, validation.By(validateOptional(func(s string) error {
			return validation.Validate(s, validation.Length(0, 500))
		}))),
		validation.Field(&r.BirthDate, validation.By(validateOptional(func(s string) error {
			return validation.Validate(s, validation.Date("2006-01-02"))
		}))),
		validation.Field(&r.PrivacyLevel, validation.By(validateOptional(func(s string) error {
			return validation.Validate(s, validation.In(PrivacyPublic, PrivacyFollowers, PrivacyPrivate))
		}))),
	)
}

// ValidateStringEquals checks that the validated value equals str.
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values do not match")
		}
		return nil
	}
}

func validateOptional(rule func(string) error) validation.RuleFunc {
	return func(value any) error {
		s, ok := value.(*string)
		if !ok || s == nil {
			return nil
		}
		return rule(*s)
	}
}
