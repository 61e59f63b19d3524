package store

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/mybookconnect/go-session"
)

const bunOpTimeout = 5 * time.Second

// tokenRecord is the single auth-storage row.
type tokenRecord struct {
	bun.BaseModel `bun:"table:auth_storage,alias:ast"`

	Key       string    `bun:"key,pk"`
	Token     string    `bun:"token,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// BunStore keeps the token in a SQLite database, for clients that already
// carry one for offline data. Storage failures are tolerated; the in-memory
// copy stays authoritative.
type BunStore struct {
	db     *bun.DB
	logger session.Logger
	now    func() time.Time

	mu     sync.Mutex
	loaded bool
	token  string
}

// NewBunStore opens (or creates) the SQLite database at dsn, e.g.
// "file:bookconnect.db" or "file::memory:?cache=shared", and ensures the
// auth_storage table exists.
func NewBunStore(dsn string, opts ...Option) (*BunStore, error) {
	o := buildOptions(opts)

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx, cancel := context.WithTimeout(context.Background(), bunOpTimeout)
	defer cancel()
	if _, err := db.NewCreateTable().
		Model((*tokenRecord)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &BunStore{db: db, logger: o.logger, now: time.Now}, nil
}

// Close releases the underlying database.
func (s *BunStore) Close() error {
	return s.db.Close()
}

// Get returns the persisted token, reading the database at most once.
func (s *BunStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.token
	}
	s.loaded = true

	ctx, cancel := context.WithTimeout(context.Background(), bunOpTimeout)
	defer cancel()

	rec := &tokenRecord{}
	err := s.db.NewSelect().
		Model(rec).
		Where("key = ?", session.StorageKey).
		Scan(ctx)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Debug("token row read tolerated: %v", err)
		}
		return ""
	}
	s.token = rec.Token
	return s.token
}

// Set overwrites the token in memory and upserts the auth-storage row.
func (s *BunStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.token = token

	ctx, cancel := context.WithTimeout(context.Background(), bunOpTimeout)
	defer cancel()

	rec := &tokenRecord{Key: session.StorageKey, Token: token, UpdatedAt: s.now()}
	if _, err := s.db.NewInsert().
		Model(rec).
		On("CONFLICT (key) DO UPDATE").
		Set("token = EXCLUDED.token").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		s.logger.Debug("token row upsert tolerated: %v", err)
	}
}

// Clear removes the token from memory and deletes the row.
func (s *BunStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.token = ""

	ctx, cancel := context.WithTimeout(context.Background(), bunOpTimeout)
	defer cancel()

	if _, err := s.db.NewDelete().
		Model((*tokenRecord)(nil)).
		Where("key = ?", session.StorageKey).
		Exec(ctx); err != nil {
		s.logger.Debug("token row delete tolerated: %v", err)
	}
}

var _ session.TokenStore = (*BunStore)(nil)
