package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mybookconnect/go-session"
)

func TestSnapshotContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, ok := session.FromContext(ctx)
	assert.False(t, ok)

	snap := session.Snapshot{Token: "tok", Status: session.StatusAuthenticated, User: testUser()}
	ctx = session.WithContext(ctx, snap)

	got, ok := session.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, snap.Token, got.Token)
	assert.Equal(t, snap.Status, got.Status)
}

func TestUserContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, ok := session.UserFromContext(ctx)
	assert.False(t, ok)

	user := testUser()
	ctx = session.WithUserContext(ctx, user)

	got, ok := session.UserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user.ID, got.ID)
}
