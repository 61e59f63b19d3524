package session

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTransitionTable(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusAnonymous, StatusAuthenticating, true},
		{StatusAnonymous, StatusProfileLoading, true},
		{StatusAnonymous, StatusAuthenticated, false},
		{StatusAuthenticating, StatusProfileLoading, true},
		{StatusAuthenticating, StatusAnonymous, true},
		{StatusAuthenticating, StatusAuthenticated, false},
		{StatusProfileLoading, StatusAuthenticated, true},
		{StatusProfileLoading, StatusAnonymous, true},
		{StatusProfileLoading, StatusAuthenticating, false},
		{StatusAuthenticated, StatusAnonymous, true},
		{StatusAuthenticated, StatusAuthenticating, true},
		{StatusAuthenticated, StatusProfileLoading, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, canTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestSameStateTransitionAlwaysAllowed(t *testing.T) {
	for _, status := range []Status{
		StatusAnonymous,
		StatusAuthenticating,
		StatusProfileLoading,
		StatusAuthenticated,
	} {
		assert.NoError(t, checkTransition(status, status))
	}
}

func TestCheckTransitionReportsTheRejectedMove(t *testing.T) {
	err := checkTransition(StatusAnonymous, StatusAuthenticated)
	require.Error(t, err)

	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	assert.Equal(t, goerrors.CategoryValidation, richErr.Category)
	assert.Equal(t, StatusAnonymous, richErr.Metadata["from"])
	assert.Equal(t, StatusAuthenticated, richErr.Metadata["to"])
}

func TestCheckTransitionRejectsEmptyTarget(t *testing.T) {
	err := checkTransition(StatusAnonymous, "")
	assert.Error(t, err)
}

func TestTransitionErrorsCarryIndependentMetadata(t *testing.T) {
	first := checkTransition(StatusAnonymous, StatusAuthenticated)
	second := checkTransition(StatusAuthenticating, StatusAuthenticated)

	var firstErr, secondErr *goerrors.Error
	require.True(t, goerrors.As(first, &firstErr))
	require.True(t, goerrors.As(second, &secondErr))

	// the second rejection must not overwrite the first one's details
	assert.Equal(t, StatusAnonymous, firstErr.Metadata["from"])
	assert.Equal(t, StatusAuthenticating, secondErr.Metadata["from"])

	// and the shared definition stays pristine
	assert.Empty(t, ErrInvalidTransition.Metadata)
}
