// Package redisstore persists which slots were already announced, so a
// restarted bot does not re-notify the same releases.
package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "bbot:seen-slot:"

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to redis at addr. Seen markers expire after ttl so slot ids
// recycled by the backend months later are treated as fresh again.
func New(addr, password string, db int, ttl time.Duration) *Store {
	return &Store{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// Ping verifies the connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// MarkSeen records the slot id and reports whether this was its first
// sighting.
func (s *Store) MarkSeen(ctx context.Context, slotID int64) (bool, error) {
	first, err := s.rdb.SetNX(ctx, fmt.Sprintf("%s%d", keyPrefix, slotID), 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return first, nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
