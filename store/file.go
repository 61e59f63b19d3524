package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/mybookconnect/go-session"
)

// fileRecord is the persisted document shape: one record under the
// auth-storage key with a single token field.
type fileRecord struct {
	Token string `json:"token"`
}

// FileStore keeps the token in a small JSON document on disk. Writes go
// through a temp file and rename so a crash never leaves a torn record.
type FileStore struct {
	path   string
	logger session.Logger

	mu     sync.Mutex
	loaded bool
	token  string
}

// NewFileStore builds a store backed by path. The file is not touched until
// the first read or write.
func NewFileStore(path string, opts ...Option) *FileStore {
	o := buildOptions(opts)
	return &FileStore{path: path, logger: o.logger}
}

// Get returns the persisted token, reading the file at most once.
func (s *FileStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	return s.token
}

// Set overwrites the token in memory and on disk.
func (s *FileStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.token = token
	s.writeLocked(fileRecord{Token: token})
}

// Clear removes the token from memory and deletes the file.
func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.token = ""
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.logger.Debug("token file remove tolerated: %v", err)
	}
}

func (s *FileStore) loadLocked() {
	if s.loaded {
		return
	}
	s.loaded = true

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Debug("token file read tolerated: %v", err)
		}
		return
	}
	var rec fileRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.logger.Debug("token file decode tolerated: %v", err)
		return
	}
	s.token = rec.Token
}

func (s *FileStore) writeLocked(rec fileRecord) {
	raw, err := json.Marshal(rec)
	if err != nil {
		s.logger.Debug("token file encode tolerated: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.logger.Debug("token dir create tolerated: %v", err)
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		s.logger.Debug("token file write tolerated: %v", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.logger.Debug("token file rename tolerated: %v", err)
	}
}

var _ session.TokenStore = (*FileStore)(nil)
