package session

import (
	"context"
	"fmt"
	"io"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// TokenStore owns the persisted copy of the bearer token. Implementations
// read durable storage at most once per process and keep an in-memory copy
// that stays authoritative even when writes fail; Set and Clear therefore
// report nothing.
type TokenStore interface {
	Get() string
	Set(token string)
	Clear()
}

// ProfileFetcher retrieves the authenticated user's profile record. It is a
// pure remote read: no state, no side effects.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, token string) (*User, error)
}

// Backend is the REST surface the session manager drives. The api subpackage
// provides the HTTP implementation.
type Backend interface {
	ProfileFetcher

	// IssueToken exchanges credentials for a bearer token. Fails with
	// ErrInvalidCredentials when the backend rejects the login.
	IssueToken(ctx context.Context, identifier, password string) (string, error)

	// RegisterAccount creates a new account. Per-field rejections surface as
	// a validation error carrying the field map.
	RegisterAccount(ctx context.Context, req RegisterRequest) error

	// UpdateProfile sends a partial profile update and returns the updated
	// record. The avatar variant streams a multipart upload alongside it.
	UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*User, error)
	UpdateProfileWithAvatar(ctx context.Context, token string, update ProfileUpdate, avatar AvatarUpload) (*User, error)
}

// AvatarUpload carries a binary avatar image for multipart profile updates.
type AvatarUpload struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
