package user

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"eventhub/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// TokenStore keeps opaque session tokens alive for their TTL. Tokens carry
// no claims; the user record is always re-read on verification so role or
// active-flag changes take effect immediately.
type TokenStore interface {
	Save(ctx context.Context, token, userID string) error
	Resolve(ctx context.Context, token string) (string, error)
}

type redisTokenStore struct {
	rdb *redis.Client
	ttl time.Duration
}

type TokenStoreParams struct {
	fx.In

	Redis *redis.Client
	Cfg   *config.Config
}

func NewRedisTokenStore(p TokenStoreParams) TokenStore {
	return &redisTokenStore{rdb: p.Redis, ttl: p.Cfg.Token.TTL}
}

func tokenKey(token string) string {
	return fmt.Sprintf("token:%s", token)
}

func (s *redisTokenStore) Save(ctx context.Context, token, userID string) error {
	return s.rdb.Set(ctx, tokenKey(token), userID, s.ttl).Err()
}

// Resolve returns "" when the token is unknown or expired.
func (s *redisTokenStore) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.Get(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
