// Package redisstore holds Redis-backed session state.
package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
)

// Revocations is a denylist of logged-out session tokens. Entries expire
// with the token they block.
type Revocations struct {
	RDB *redis.Client
}

func NewRevocations(rdb *redis.Client) *Revocations { return &Revocations{RDB: rdb} }

func (r *Revocations) Revoke(ctx context.Context, token string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.RDB.Set(ctx, helpers.KeyRevokedToken(token), 1, ttl).Err()
}

func (r *Revocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.RDB.Exists(ctx, helpers.KeyRevokedToken(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
