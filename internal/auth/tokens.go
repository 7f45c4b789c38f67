package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	refreshKeyPrefix  = "refresh:"
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// RefreshStore keeps issued refresh token IDs so they can be revoked and
// rotated. A jti that is not in the store is treated as revoked.
type RefreshStore interface {
	Save(ctx context.Context, jti string, userID int64) error
	// UserID returns the owner of the token ID, or ok=false if the token
	// is unknown or revoked.
	UserID(ctx context.Context, jti string) (int64, bool, error)
	Revoke(ctx context.Context, jti string) error
}

// RedisRefreshStore stores refresh token IDs in Redis with a TTL matching
// the token lifetime.
type RedisRefreshStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisRefreshStore returns a new RedisRefreshStore.
func NewRedisRefreshStore(rdb *redis.Client, ttl time.Duration) *RedisRefreshStore {
	if ttl <= 0 {
		ttl = defaultRefreshTTL
	}
	return &RedisRefreshStore{rdb: rdb, ttl: ttl}
}

// Save stores the token ID for its owner.
func (s *RedisRefreshStore) Save(ctx context.Context, jti string, userID int64) error {
	return s.rdb.Set(ctx, refreshKeyPrefix+jti, strconv.FormatInt(userID, 10), s.ttl).Err()
}

// UserID resolves the token ID to its owner.
func (s *RedisRefreshStore) UserID(ctx context.Context, jti string) (int64, bool, error) {
	v, err := s.rdb.Get(ctx, refreshKeyPrefix+jti).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, false, nil
	}
	return id, true, nil
}

// Revoke removes the token ID.
func (s *RedisRefreshStore) Revoke(ctx context.Context, jti string) error {
	return s.rdb.Del(ctx, refreshKeyPrefix+jti).Err()
}
