package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps codes in Redis and lets Redis enforce the TTL.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s failed: %w", key, err)
	}
	return nil
}

// consumeScript returns -1 when the key is missing, 0 on a mismatch and 1
// after deleting a matching key.
var consumeScript = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if not v then
	return -1
end
if v ~= ARGV[1] then
	return 0
end
redis.call("DEL", KEYS[1])
return 1
`)

func (s *RedisStore) Consume(ctx context.Context, key, value string) error {
	res, err := consumeScript.Run(ctx, s.rdb, []string{key}, value).Int()
	if err != nil {
		return fmt.Errorf("redis consume %s failed: %w", key, err)
	}
	switch res {
	case -1:
		return ErrKeyNotFound
	case 0:
		return ErrValueMismatch
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s failed: %w", key, err)
	}
	return nil
}
