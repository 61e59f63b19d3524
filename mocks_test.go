package session_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/mybookconnect/go-session"
)

// MockBackend implements session.Backend
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) IssueToken(ctx context.Context, identifier, password string) (string, error) {
	args := m.Called(ctx, identifier, password)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) RegisterAccount(ctx context.Context, req session.RegisterRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockBackend) FetchProfile(ctx context.Context, token string) (*session.User, error) {
	args := m.Called(ctx, token)
	if user := args.Get(0); user != nil {
		return user.(*session.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) UpdateProfile(ctx context.Context, token string, update session.ProfileUpdate) (*session.User, error) {
	args := m.Called(ctx, token, update)
	if user := args.Get(0); user != nil {
		return user.(*session.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) UpdateProfileWithAvatar(ctx context.Context, token string, update session.ProfileUpdate, avatar session.AvatarUpload) (*session.User, error) {
	args := m.Called(ctx, token, update, avatar)
	if user := args.Get(0); user != nil {
		return user.(*session.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// capturingSink records every activity event it sees.
type capturingSink struct {
	mu     sync.Mutex
	events []session.ActivityEvent
}

func (s *capturingSink) Record(_ context.Context, event session.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *capturingSink) Events() []session.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]session.ActivityEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *capturingSink) Types() []session.ActivityEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]session.ActivityEventType, 0, len(s.events))
	for _, event := range s.events {
		out = append(out, event.EventType)
	}
	return out
}

// snapshotRecorder subscribes to a manager and records every commit.
type snapshotRecorder struct {
	mu        sync.Mutex
	snapshots []session.Snapshot
}

func (r *snapshotRecorder) observe(snap session.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snap)
}

func (r *snapshotRecorder) statuses() []session.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]session.Status, 0, len(r.snapshots))
	for _, snap := range r.snapshots {
		out = append(out, snap.Status)
	}
	return out
}

func testUser() *session.User {
	return &session.User{
		ID:           42,
		Username:     "reader42",
		Email:        "reader42@example.com",
		FirstName:    "Rita",
		LastName:     "Reader",
		Bio:          "collects first editions",
		PrivacyLevel: session.PrivacyPublic,
		Following:    []int64{7, 9},
	}
}

func validRegistration() session.RegisterRequest {
	return session.RegisterRequest{
		Username:        "reader42",
		Email:           "reader42@example.com",
		Password:        "correct-horse-battery",
		ConfirmPassword: "correct-horse-battery",
	}
}
