// Package idempotency replays the first response of a write request sent
// again with the same Idempotency-Key.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL     = 24 * time.Hour
	DefaultLockTTL = 30 * time.Second
)

// ErrInProgress means another request with the same key holds the lock.
var ErrInProgress = errors.New("a request with this idempotency key is still being processed")

// Response is the stored outcome of the first request.
type Response struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type Store struct {
	rdb     redis.Cmdable
	ttl     time.Duration
	lockTTL time.Duration
}

func NewStore(rdb redis.Cmdable) *Store {
	return &Store{rdb: rdb, ttl: DefaultTTL, lockTTL: DefaultLockTTL}
}

// Key scopes a client supplied key to the caller and route.
func Key(route, userID, key string) string {
	return fmt.Sprintf("idemp:%s:%s:%s", route, userID, key)
}

func lockKey(key string) string {
	return key + ":lock"
}

// Begin returns the cached response for key, or takes the processing lock
// and returns nil. ErrInProgress is returned while another holder works.
func (s *Store) Begin(ctx context.Context, key string) (*Response, error) {
	cached, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var resp Response
		if err := json.Unmarshal(cached, &resp); err != nil {
			return nil, fmt.Errorf("decode cached response: %w", err)
		}
		return &resp, nil
	case !errors.Is(err, redis.Nil):
		return nil, fmt.Errorf("read idempotency key: %w", err)
	}

	acquired, err := s.rdb.SetNX(ctx, lockKey(key), "locked", s.lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("lock idempotency key: %w", err)
	}
	if !acquired {
		return nil, ErrInProgress
	}
	return nil, nil
}

// Complete stores resp under key and releases the lock.
func (s *Store) Complete(ctx context.Context, key string, resp Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store idempotent response: %w", err)
	}
	return s.Release(ctx, key)
}

// Release drops the lock without storing a response, so the client may retry.
func (s *Store) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, lockKey(key)).Err(); err != nil {
		return fmt.Errorf("release idempotency lock: %w", err)
	}
	return nil
}
