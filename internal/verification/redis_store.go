package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "verify:email:"

var compareAndDelete = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisRecord struct {
	CodeHash  string `json:"code_hash"`
	ExpiresAt int64  `json:"expires_at_ms"`
}

// RedisStore shares records between instances.
type RedisStore struct {
	rdb   *redis.Client
	clock Clock
}

func NewRedisStore(rdb *redis.Client, clock Clock) *RedisStore {
	return &RedisStore{rdb: rdb, clock: clock}
}

func encodeRecord(rec Record) (string, error) {
	b, err := json.Marshal(redisRecord{CodeHash: rec.CodeHash, ExpiresAt: rec.ExpiresAt.UnixMilli()})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *RedisStore) Put(ctx context.Context, key string, rec Record) error {
	val, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	ttl := rec.ExpiresAt.Sub(s.clock.Now()) + ExpiredRetention
	if ttl <= 0 {
		ttl = ExpiredRetention
	}
	if err := s.rdb.Set(ctx, keyPrefix+key, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (Record, error) {
	val, err := s.rdb.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNoRecord
	}
	if err != nil {
		return Record{}, fmt.Errorf("redis get: %w", err)
	}

	var rr redisRecord
	if err := json.Unmarshal([]byte(val), &rr); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return Record{CodeHash: rr.CodeHash, ExpiresAt: time.UnixMilli(rr.ExpiresAt)}, nil
}

func (s *RedisStore) CompareAndDelete(ctx context.Context, key string, rec Record) (bool, error) {
	val, err := encodeRecord(rec)
	if err != nil {
		return false, err
	}
	n, err := compareAndDelete.Run(ctx, s.rdb, []string{keyPrefix + key}, val).Int()
	if err != nil {
		return false, fmt.Errorf("redis compare-and-delete: %w", err)
	}
	return n == 1, nil
}
