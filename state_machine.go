package session

import (
	goerrors "github.com/goliatone/go-errors"
)

const textCodeInvalidTransition = "INVALID_SESSION_TRANSITION"

// ErrInvalidTransition is returned when a commit would move the session
// through a transition the state machine does not allow.
var ErrInvalidTransition = goerrors.New("invalid session state transition", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

// transitions is the legal-move table. Same-state commits are always allowed
// (profile replacement, retried profile fetch) and are not listed.
var transitions = map[Status]map[Status]struct{}{
	StatusAnonymous: {
		StatusAuthenticating: {},
		// rehydration from a persisted token skips the credential roundtrip
		StatusProfileLoading: {},
	},
	StatusAuthenticating: {
		StatusProfileLoading: {},
		StatusAnonymous:      {},
	},
	StatusProfileLoading: {
		StatusAuthenticated: {},
		StatusAnonymous:     {},
	},
	StatusAuthenticated: {
		StatusAnonymous: {},
		// re-login replaces the current session
		StatusAuthenticating: {},
	},
}

func canTransition(from, to Status) bool {
	if from == to {
		return true
	}
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, exists := allowed[to]
	return exists
}

// checkTransition validates a prospective commit.
func checkTransition(from, to Status) error {
	if to == "" {
		return ErrInvalidTransition.Clone().WithMetadata(map[string]any{
			"reason": "target status is empty",
		})
	}
	if !canTransition(from, to) {
		return ErrInvalidTransition.Clone().WithMetadata(map[string]any{
			"from": from,
			"to":   to,
		})
	}
	return nil
}
