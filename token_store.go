package session

import "sync"

// StorageKey is the durable record key the token is persisted under.
const StorageKey = "auth-storage"

// MemoryTokenStore keeps the token in process memory only. It is the default
// store for a Manager and the fixture of choice in tests; durable
// implementations live in the store subpackage.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenStore returns an empty in-memory store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Get returns the current token or the empty string.
func (s *MemoryTokenStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Set overwrites any prior value.
func (s *MemoryTokenStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear removes the token.
func (s *MemoryTokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

var _ TokenStore = (*MemoryTokenStore)(nil)
