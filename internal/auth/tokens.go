package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	confirmKeyPrefix  = "confirm:"
	defaultConfirmTTL = 48 * time.Hour
)

// ErrTokenNotFound is returned when a confirmation token is unknown or expired.
var ErrTokenNotFound = errors.New("confirmation token not found")

// TokenStore keeps one-time email confirmation tokens in Redis.
type TokenStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTokenStore returns a new confirmation token store.
func NewTokenStore(rdb *redis.Client, ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = defaultConfirmTTL
	}
	return &TokenStore{rdb: rdb, ttl: ttl}
}

// Issue stores a new confirmation token for the user and returns it.
func (s *TokenStore) Issue(ctx context.Context, userID string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	key := confirmKeyPrefix + token
	if err := s.rdb.Set(ctx, key, userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Consume deletes the token and returns the user ID it was issued for.
// A token can be consumed exactly once.
func (s *TokenStore) Consume(ctx context.Context, token string) (string, error) {
	key := confirmKeyPrefix + token
	userID, err := s.rdb.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
