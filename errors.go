package session

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to the structured errors of this package.
const (
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeValidationFailed   = "VALIDATION_FAILED"
	TextCodeSessionRejected    = "SESSION_REJECTED"
	TextCodeNotAuthenticated   = "NOT_AUTHENTICATED"
	TextCodeNetworkError       = "NETWORK_ERROR"
	TextCodeMalformedResponse  = "MALFORMED_RESPONSE"
	TextCodeOperationInFlight  = "CREDENTIAL_OP_IN_FLIGHT"
)

// metadataFieldsKey is where validation errors carry their field map.
const metadataFieldsKey = "fields"

// ErrInvalidCredentials is returned when the backend rejects a login.
var ErrInvalidCredentials = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrUnauthorized is returned when the backend rejects the session's bearer
// token mid-session. The manager always transitions to anonymous on this.
var ErrUnauthorized = goerrors.New("session token rejected by the backend", goerrors.CategoryAuth).
	WithTextCode(TextCodeSessionRejected).
	WithCode(goerrors.CodeUnauthorized)

// ErrNotAuthenticated is returned when an operation that requires an
// authenticated session is invoked from an anonymous one.
var ErrNotAuthenticated = goerrors.New("operation requires an authenticated session", goerrors.CategoryAuth).
	WithTextCode(TextCodeNotAuthenticated).
	WithCode(goerrors.CodeUnauthorized)

// ErrBusy is returned when a credential operation is already in flight.
// Login and Register never interleave commits; the second caller fails fast.
var ErrBusy = goerrors.New("another credential operation is in flight", goerrors.CategoryConflict).
	WithTextCode(TextCodeOperationInFlight).
	WithCode(goerrors.CodeConflict)

// NewValidationError builds the per-field rejection error for registration
// and profile updates. The field map travels in the error metadata.
func NewValidationError(msg string, fields map[string]string) *goerrors.Error {
	if msg == "" {
		msg = "the submitted fields were rejected"
	}
	err := goerrors.New(msg, goerrors.CategoryValidation).
		WithTextCode(TextCodeValidationFailed).
		WithCode(goerrors.CodeBadRequest)
	if len(fields) > 0 {
		err = err.WithMetadata(map[string]any{metadataFieldsKey: fields})
	}
	return err
}

// NewNetworkError wraps a transport failure for the given operation.
func NewNetworkError(op string, cause error) *goerrors.Error {
	return goerrors.Wrap(cause, goerrors.CategoryOperation, "network failure during "+op).
		WithTextCode(TextCodeNetworkError)
}

// NewMalformedError wraps a response that could not be parsed.
func NewMalformedError(op string, cause error) *goerrors.Error {
	return goerrors.Wrap(cause, goerrors.CategoryBadInput, "malformed response from "+op).
		WithTextCode(TextCodeMalformedResponse)
}

// IsInvalidCredentialsError reports whether err is a rejected login.
func IsInvalidCredentialsError(err error) bool {
	return hasTextCode(err, TextCodeInvalidCredentials)
}

// IsUnauthorizedError reports whether err is a mid-session token rejection.
func IsUnauthorizedError(err error) bool {
	return hasTextCode(err, TextCodeSessionRejected)
}

// IsValidationError reports whether err carries per-field rejections.
func IsValidationError(err error) bool {
	return hasTextCode(err, TextCodeValidationFailed)
}

// IsNetworkError reports whether err is a transport failure.
func IsNetworkError(err error) bool {
	return hasTextCode(err, TextCodeNetworkError)
}

// IsBusyError reports whether err is the credential serialization rejection.
func IsBusyError(err error) bool {
	return hasTextCode(err, TextCodeOperationInFlight)
}

// ValidationFields extracts the field→reason map from a validation error,
// or nil when err carries none.
func ValidationFields(err error) map[string]string {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return nil
	}
	raw, ok := richErr.Metadata[metadataFieldsKey]
	if !ok {
		return nil
	}
	switch fields := raw.(type) {
	case map[string]string:
		return fields
	case map[string]any:
		out := make(map[string]string, len(fields))
		for k, v := range fields {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
		return out
	}
	return nil
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}
