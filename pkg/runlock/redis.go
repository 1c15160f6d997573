// Package runlock provides the Redis run-lock that keeps the renewal pass
// at most-once-concurrent across scheduler instances.
package runlock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Lock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func New(client *redis.Client, key string, ttl time.Duration) *Lock {
	return &Lock{client: client, key: key, ttl: ttl}
}

// Acquire attempts to take the lock. When ok, the returned release function
// frees it; releasing a lock stolen after TTL expiry is a no-op.
func (l *Lock) Acquire(ctx context.Context) (release func(), ok bool, err error) {
	token := uuid.NewString()
	ok, err = l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil || !ok {
		return nil, false, err
	}

	release = func() {
		// Delete only if we still own it.
		const script = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`
		l.client.Eval(context.Background(), script, []string{l.key}, token)
	}
	return release, true, nil
}
