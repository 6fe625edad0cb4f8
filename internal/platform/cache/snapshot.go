// Package cache stores last-known-good snapshots of upstream reads in Redis.
// Callers decide what to do with a snapshot; the store itself never serves one
// without the caller asking for it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNoSnapshot = errors.New("no snapshot stored")

const DefaultTTL = 24 * time.Hour

type SnapshotStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSnapshotStore(rdb *redis.Client, ttl time.Duration) *SnapshotStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SnapshotStore{rdb: rdb, ttl: ttl}
}

// Put overwrites the snapshot under key with the JSON encoding of v.
func (s *SnapshotStore) Put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// Get decodes the snapshot under key into dest. Returns ErrNoSnapshot when
// nothing is stored or the snapshot has expired.
func (s *SnapshotStore) Get(ctx context.Context, key string, dest any) error {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNoSnapshot
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return nil
}

// Delete drops the snapshot under key. Missing keys are not an error.
func (s *SnapshotStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
