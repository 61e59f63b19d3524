package session

import (
	"context"
)

var snapshotCtxKey = &contextKey{"snapshot"}
var userCtxKey = &contextKey{"user"}

type contextKey struct {
	name string
}

// WithContext sets the session Snapshot in the given context.
func WithContext(ctx context.Context, snap Snapshot) context.Context {
	return context.WithValue(ctx, snapshotCtxKey, snap)
}

// FromContext finds the session Snapshot in the context.
func FromContext(ctx context.Context) (Snapshot, bool) {
	raw, ok := ctx.Value(snapshotCtxKey).(Snapshot)
	return raw, ok
}

// WithUserContext sets the User in the given context.
func WithUserContext(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// UserFromContext finds the user from the context.
func UserFromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok
}
