package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// incrWithTTL increments the key and sets its expiry on first use, as one
// atomic operation. Two concurrent increments of the same key never
// under-count and never reset an existing TTL.
var incrWithTTL = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RedisCounterStore implements CounterStore on top of Redis.
type RedisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore creates a counter store backed by the given Redis client.
func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

// Increment implements CounterStore.
func (s *RedisCounterStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := incrWithTTL.Run(ctx, s.client, []string{key}, ttl.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("ratelimit: failed to increment counter: %w", err)
	}

	return count, nil
}
