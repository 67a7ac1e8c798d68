package verification

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return rdb
}

func TestRedisStore_IssueVerify(t *testing.T) {
	rdb := newTestRedis(t)
	clock := &fakeClock{now: time.Now()}
	store := NewRedisStore(rdb, clock)
	iss := NewIssuer(store, NewBcryptCodeHasher(4), clock, DefaultTTL)
	ctx := context.Background()

	email := uuid.NewString() + "@example.com"
	got, err := iss.Issue(ctx, email, FormatAlphanumeric)
	require.NoError(t, err)

	assert.ErrorIs(t, iss.Verify(ctx, email, "zzzzzz"), ErrCodeMismatch)
	require.NoError(t, iss.Verify(ctx, email, got.Code))
	assert.ErrorIs(t, iss.Verify(ctx, email, got.Code), ErrCodeNotFound)
}

func TestRedisStore_ExpiredIsReportedThenRemoved(t *testing.T) {
	rdb := newTestRedis(t)
	clock := &fakeClock{now: time.Now()}
	iss := NewIssuer(NewRedisStore(rdb, clock), NewBcryptCodeHasher(4), clock, DefaultTTL)
	ctx := context.Background()

	email := uuid.NewString() + "@example.com"
	got, err := iss.Issue(ctx, email, FormatNumeric)
	require.NoError(t, err)

	clock.Advance(11 * time.Minute)
	assert.ErrorIs(t, iss.Verify(ctx, email, got.Code), ErrCodeExpired)
	assert.ErrorIs(t, iss.Verify(ctx, email, got.Code), ErrCodeNotFound)
}

func TestRedisStore_CompareAndDeleteKeepsNewer(t *testing.T) {
	rdb := newTestRedis(t)
	store := NewRedisStore(rdb, &fakeClock{now: time.Now()})
	ctx := context.Background()
	key := uuid.NewString()
	exp := time.Now().Add(time.Minute).Truncate(time.Millisecond)

	require.NoError(t, store.Put(ctx, key, Record{CodeHash: "a", ExpiresAt: exp}))
	first, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, key, Record{CodeHash: "b", ExpiresAt: exp}))

	ok, err := store.CompareAndDelete(ctx, key, first)
	require.NoError(t, err)
	assert.False(t, ok)

	cur, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "b", cur.CodeHash)
	assert.True(t, exp.Equal(cur.ExpiresAt))
}
