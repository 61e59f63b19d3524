package session

import (
	"context"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
)

// Manager is the session state machine: the process-wide single source of
// truth for `{token, user, isAuthenticated}`. All writes go through its four
// public operations; everything else reads snapshots.
//
// Managers are explicitly owned and injectable rather than ambient globals:
// construct one per process (or per test) and hand it to consumers.
type Manager struct {
	backend Backend
	store   TokenStore
	logger  Logger
	sink    ActivitySink
	now     func() time.Time
	debug   bool

	mu        sync.Mutex
	notifyMu  sync.Mutex
	current   Snapshot
	prev      Status
	credBusy  bool
	listeners map[int]func(Snapshot)
	nextID    int
}

// ManagerOption customizes Manager construction.
type ManagerOption func(*Manager)

// WithTokenStore sets the durable token store. Defaults to an in-memory
// store, which keeps nothing across restarts.
func WithTokenStore(store TokenStore) ManagerOption {
	return func(m *Manager) {
		if store != nil {
			m.store = store
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(logger Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithActivitySink sets the ActivitySink used to publish session events.
func WithActivitySink(sink ActivitySink) ManagerOption {
	return func(m *Manager) {
		m.sink = normalizeActivitySink(sink)
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) ManagerOption {
	return func(m *Manager) {
		if clock != nil {
			m.now = clock
		}
	}
}

// WithDebug enables verbose snapshot logging.
func WithDebug(debug bool) ManagerOption {
	return func(m *Manager) {
		m.debug = debug
	}
}

// NewManager builds a Manager and rehydrates it from the token store: a
// persisted token from a previous run restores an authenticated session in
// the profile-loading sub-state, unless the token's exp claim already
// passed, in which case it is discarded.
func NewManager(backend Backend, opts ...ManagerOption) *Manager {
	m := &Manager{
		backend:   backend,
		store:     NewMemoryTokenStore(),
		logger:    defLogger{},
		sink:      noopActivitySink{},
		now:       time.Now,
		current:   anonymousSnapshot(),
		prev:      StatusAnonymous,
		listeners: map[int]func(Snapshot){},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	if token := m.store.Get(); token != "" {
		if TokenExpired(token, m.now()) {
			m.logger.Info("discarding expired persisted token")
			m.store.Clear()
		} else {
			m.current = Snapshot{Token: token, Status: StatusProfileLoading}
			m.emit(context.Background(), ActivityEventSessionRestored, m.current, nil)
		}
	}

	return m
}

// Current returns the last committed snapshot. The copy is the caller's.
func (m *Manager) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.clone()
}

// Subscribe registers fn to run after every commit with the new snapshot.
// Callbacks run synchronously in commit order; they must not call back into
// the Manager. The returned function unsubscribes.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// Decide runs the route guard against the current snapshot.
func (m *Manager) Decide(requiresAuth bool) Decision {
	return Decide(requiresAuth, m.Current())
}

// Login exchanges credentials for a token, persists it, and loads the
// profile. On a rejected login or a token the backend immediately refuses,
// the session reverts fully to anonymous. A transport failure during the
// profile fetch leaves the session authenticated in the profile-loading
// sub-state (the committed token stands); resolve it with RefreshProfile.
func (m *Manager) Login(ctx context.Context, identifier, password string) error {
	payload := LoginRequest{Identifier: identifier, Password: password}
	if err := payload.Validate(); err != nil {
		return NewValidationError("login payload is invalid", validationFieldMap(err))
	}

	release, err := m.acquireCredentialGate()
	if err != nil {
		return err
	}
	defer release()

	return m.runCredentialFlow(ctx, identifier, password, ActivityEventLoginSuccess, ActivityEventLoginFailure)
}

// Register creates the account, then performs the login flow with the new
// credentials so one user gesture yields a full session. Mismatched password
// confirmation is rejected here even though forms check it first.
func (m *Manager) Register(ctx context.Context, req RegisterRequest) error {
	if err := req.Validate(); err != nil {
		return NewValidationError("registration payload is invalid", validationFieldMap(err))
	}

	release, err := m.acquireCredentialGate()
	if err != nil {
		return err
	}
	defer release()

	if err := m.commit(ctx, Snapshot{Status: StatusAuthenticating}); err != nil {
		return err
	}

	if err := m.backend.RegisterAccount(ctx, req); err != nil {
		m.rollbackToAnonymous(ctx)
		m.emit(ctx, ActivityEventRegisterFailure, m.Current(), map[string]any{
			"username": req.Username,
			"error":    err.Error(),
		})
		return err
	}

	if err := m.issueAndLoad(ctx, req.Username, req.Password, ActivityEventRegisterFailure); err != nil {
		return err
	}

	m.emit(ctx, ActivityEventRegisterSuccess, m.Current(), map[string]any{"username": req.Username})
	return nil
}

// Logout unconditionally transitions to anonymous and clears the persisted
// token. It never fails and is idempotent.
func (m *Manager) Logout(ctx context.Context) {
	m.store.Clear()
	if err := m.commit(ctx, anonymousSnapshot()); err != nil {
		// every state may reach anonymous; this is unreachable
		m.logger.Error("logout commit rejected: %v", err)
		return
	}
	m.emit(ctx, ActivityEventLogout, m.Current(), nil)
}

// UpdateProfile sends a partial profile update. The caller must hold an
// authenticated session; a backend token rejection logs the session out.
func (m *Manager) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	return m.updateProfile(ctx, update, nil)
}

// UpdateProfileWithAvatar is UpdateProfile plus a multipart avatar upload.
func (m *Manager) UpdateProfileWithAvatar(ctx context.Context, update ProfileUpdate, avatar AvatarUpload) error {
	return m.updateProfile(ctx, update, &avatar)
}

// RefreshProfile resolves the profile-loading sub-state: it refetches the
// profile with the committed token. Call it after rehydration, or after a
// login whose profile fetch failed in transit.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	snap := m.Current()
	if !snap.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return m.loadProfile(ctx, snap.Token)
}

func (m *Manager) updateProfile(ctx context.Context, update ProfileUpdate, avatar *AvatarUpload) error {
	if err := update.Validate(); err != nil {
		return NewValidationError("profile update is invalid", validationFieldMap(err))
	}

	snap := m.Current()
	if !snap.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	var user *User
	var err error
	if avatar != nil {
		user, err = m.backend.UpdateProfileWithAvatar(ctx, snap.Token, update, *avatar)
	} else {
		user, err = m.backend.UpdateProfile(ctx, snap.Token, update)
	}
	if err != nil {
		if IsUnauthorizedError(err) {
			m.invalidate(ctx, err)
		}
		return err
	}

	if err := m.commitUser(ctx, snap.Token, user); err != nil {
		return err
	}

	m.emit(ctx, ActivityEventProfileUpdated, m.Current(), map[string]any{"user_id": user.ID})
	return nil
}

// runCredentialFlow is the shared body of Login and the post-registration
// login: commit authenticating, issue the token, load the profile.
func (m *Manager) runCredentialFlow(ctx context.Context, identifier, password string, success, failure ActivityEventType) error {
	if err := m.commit(ctx, Snapshot{Status: StatusAuthenticating}); err != nil {
		return err
	}

	if err := m.issueAndLoad(ctx, identifier, password, failure); err != nil {
		return err
	}

	m.emit(ctx, success, m.Current(), map[string]any{"identifier": identifier})
	return nil
}

// issueAndLoad runs from the authenticating state: token roundtrip, persist,
// profile fetch. Callers hold the credential gate.
func (m *Manager) issueAndLoad(ctx context.Context, identifier, password string, failure ActivityEventType) error {
	token, err := m.backend.IssueToken(ctx, identifier, password)
	if err != nil {
		m.rollbackToAnonymous(ctx)
		m.emit(ctx, failure, m.Current(), map[string]any{
			"identifier": identifier,
			"error":      err.Error(),
		})
		return err
	}

	m.store.Set(token)
	if err := m.commit(ctx, Snapshot{Token: token, Status: StatusProfileLoading}); err != nil {
		return err
	}

	return m.loadProfile(ctx, token)
}

// loadProfile fetches the profile for token and commits the authenticated
// snapshot. An unauthorized answer invalidates the whole session; any other
// failure keeps the committed token and reports the error.
func (m *Manager) loadProfile(ctx context.Context, token string) error {
	user, err := m.backend.FetchProfile(ctx, token)
	if err != nil {
		if IsUnauthorizedError(err) {
			m.invalidate(ctx, err)
			return err
		}
		m.logger.Warn("profile fetch failed, session stays profile-pending: %v", err)
		return err
	}

	return m.commitUser(ctx, token, user)
}

// invalidate is the single reaction to an authentication rejection: clear
// the persisted token and commit anonymous.
func (m *Manager) invalidate(ctx context.Context, cause error) {
	m.store.Clear()
	if err := m.commit(ctx, anonymousSnapshot()); err != nil {
		m.logger.Error("session invalidation commit rejected: %v", err)
		return
	}
	m.emit(ctx, ActivityEventSessionRejected, m.Current(), map[string]any{"error": cause.Error()})
}

// rollbackToAnonymous aborts a credential flow. Anonymous sessions keep no
// persisted record, even when the flow replaced an authenticated session.
func (m *Manager) rollbackToAnonymous(ctx context.Context) {
	m.store.Clear()
	if err := m.commit(ctx, anonymousSnapshot()); err != nil {
		m.logger.Error("rollback commit rejected: %v", err)
	}
}

// commitUser commits the fully authenticated snapshot, unless the session
// moved on (logout, re-login) while the response was in transit, in which
// case the stale result is dropped.
func (m *Manager) commitUser(ctx context.Context, token string, user *User) error {
	m.mu.Lock()
	if m.current.Token != token {
		m.mu.Unlock()
		m.logger.Info("dropping profile response for a superseded session")
		return ErrNotAuthenticated
	}
	m.mu.Unlock()

	return m.commit(ctx, Snapshot{Token: token, User: user, Status: StatusAuthenticated})
}

// commit is the single commit point: it validates the transition, replaces
// the snapshot, and notifies subscribers. Either the whole snapshot lands or
// nothing does. notifyMu is taken before mu is released so concurrent
// writers deliver notifications in commit order.
func (m *Manager) commit(ctx context.Context, next Snapshot) error {
	m.mu.Lock()
	if err := checkTransition(m.current.Status, next.Status); err != nil {
		m.mu.Unlock()
		return err
	}
	m.prev = m.current.Status
	m.current = next
	listeners := make([]func(Snapshot), 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.notifyMu.Lock()
	m.mu.Unlock()
	defer m.notifyMu.Unlock()

	if m.debug {
		m.logger.Debug("session commit: %s", next)
	}

	for _, fn := range listeners {
		if fn != nil {
			fn(next.clone())
		}
	}
	return nil
}

// acquireCredentialGate serializes Login/Register. The release func must be
// called exactly once.
func (m *Manager) acquireCredentialGate() (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.credBusy {
		return nil, ErrBusy
	}
	m.credBusy = true
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.credBusy = false
	}, nil
}

func (m *Manager) emit(ctx context.Context, eventType ActivityEventType, snap Snapshot, metadata map[string]any) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["correlation_id"] = uuid.New().String()

	m.mu.Lock()
	from := m.prev
	m.mu.Unlock()

	event := ActivityEvent{
		EventType:  eventType,
		FromStatus: from,
		ToStatus:   snap.Status,
		Metadata:   metadata,
		OccurredAt: m.now(),
	}
	if snap.User != nil {
		event.UserID = snap.User.ID
	}

	sink := normalizeActivitySink(m.sink)
	if err := sink.Record(ctx, event); err != nil {
		m.logger.Warn("activity sink error: %v", err)
	}

	if m.debug {
		m.logger.Debug("session event %s %s", eventType, print.MaybePrettyJSON(metadata))
	}
}

// validationFieldMap flattens ozzo's field errors into the metadata shape
// carried by validation errors.
func validationFieldMap(err error) map[string]string {
	fieldErrs, ok := err.(validation.Errors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(fieldErrs))
	for field, ferr := range fieldErrs {
		if ferr != nil {
			out[field] = ferr.Error()
		}
	}
	return out
}
