package session

import "fmt"

// Status is the session state machine's current state.
type Status string

const (
	// StatusAnonymous means no token and no user.
	StatusAnonymous Status = "anonymous"
	// StatusAuthenticating means a credential operation is in flight.
	StatusAuthenticating Status = "authenticating"
	// StatusProfileLoading means a token is committed but the profile fetch
	// has not resolved yet. The session already counts as authenticated.
	StatusProfileLoading Status = "profile_loading"
	// StatusAuthenticated means both token and user are present.
	StatusAuthenticated Status = "authenticated"
)

// Snapshot is one complete, immutable view of the session. Operations commit
// whole snapshots; consumers never observe a partial mutation.
type Snapshot struct {
	Token  string
	User   *User
	Status Status
}

// IsAuthenticated is derived state: true iff the snapshot holds a token that
// was issued by a successful credential operation and has not been
// invalidated since. A nil User while authenticated means "profile not yet
// loaded", not an error.
func (s Snapshot) IsAuthenticated() bool {
	return s.Status == StatusProfileLoading || s.Status == StatusAuthenticated
}

func (s Snapshot) String() string {
	user := "<nil>"
	if s.User != nil {
		user = s.User.Username
	}
	return fmt.Sprintf("status=%s authenticated=%t user=%s", s.Status, s.IsAuthenticated(), user)
}

func (s Snapshot) clone() Snapshot {
	s.User = s.User.Clone()
	return s
}

func anonymousSnapshot() Snapshot {
	return Snapshot{Status: StatusAnonymous}
}
