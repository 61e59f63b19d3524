package store

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mybookconnect/go-session"
)

const redisOpTimeout = 3 * time.Second

// redisKey is where the token lives.
const redisKey = session.StorageKey + ":token"

// RedisStore keeps the token in Redis, for kiosk-style deployments where
// several client processes on one terminal share a session. A Redis outage
// never breaks the running session: the in-memory copy is authoritative.
type RedisStore struct {
	client redis.UniversalClient
	logger session.Logger

	mu     sync.Mutex
	loaded bool
	token  string
}

// NewRedisStore wraps an existing client. The caller owns the client's
// lifecycle.
func NewRedisStore(client redis.UniversalClient, opts ...Option) *RedisStore {
	o := buildOptions(opts)
	return &RedisStore{client: client, logger: o.logger}
}

// Get returns the persisted token, hitting Redis at most once.
func (s *RedisStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.token
	}
	s.loaded = true

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, redisKey).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Debug("token redis read tolerated: %v", err)
		}
		return ""
	}
	s.token = val
	return s.token
}

// Set overwrites the token in memory and in Redis.
func (s *RedisStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.token = token

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := s.client.Set(ctx, redisKey, token, 0).Err(); err != nil {
		s.logger.Debug("token redis write tolerated: %v", err)
	}
}

// Clear removes the token from memory and from Redis.
func (s *RedisStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.token = ""

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := s.client.Del(ctx, redisKey).Err(); err != nil {
		s.logger.Debug("token redis delete tolerated: %v", err)
	}
}

var _ session.TokenStore = (*RedisStore)(nil)
