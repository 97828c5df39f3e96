package lock

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Lease is a lightweight leader lease: whoever acquires the named key runs,
// everyone else skips. Holders do not renew; the TTL simply outlives one run.
type Lease interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}

type RedisLease struct {
	client *redis.Client
}

func NewRedisLease(client *redis.Client) *RedisLease {
	return &RedisLease{client: client}
}

func (l *RedisLease) Acquire(
	ctx context.Context,
	name string,
	ttl time.Duration,
) (bool, error) {
	return l.client.SetNX(ctx, "lease:"+name, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

func (l *RedisLease) Release(ctx context.Context, name string) error {
	return l.client.Del(ctx, "lease:"+name).Err()
}

var _ Lease = (*RedisLease)(nil)
