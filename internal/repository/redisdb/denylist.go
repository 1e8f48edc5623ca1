package redisdb

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedMarker = "revoked"

func NewClient(addr string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
}

type denylist struct {
	client *redis.Client
}

func NewDenylist(client *redis.Client) *denylist {
	return &denylist{client: client}
}

// Revoke writes a marker keyed by the literal token string, expiring with
// the token itself. A non-positive ttl means the token is already unusable
// and the call is a no-op.
func (d *denylist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, token, revokedMarker, ttl).Err()
}

func (d *denylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := d.client.Exists(ctx, token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
