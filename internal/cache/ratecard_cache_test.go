package cache

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/billboards/internal/clock"
	ratecarddomain "github.com/smallbiznis/billboards/internal/ratecard/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateCardCacheExpiresWithClock(t *testing.T) {
	ctx := context.Background()
	fake := clock.NewFakeClock(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	c := NewRateCardCache(nil, time.Minute, fake, nil)

	_, ok := c.Get(ctx)
	assert.False(t, ok)

	entries := []ratecarddomain.RateCardEntry{{Size: "4x12", Level: "A", Months: 3, Price: decimal.NewFromInt(900)}}
	c.Set(ctx, entries)

	got, ok := c.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, entries, got)

	fake.Advance(61 * time.Second)
	_, ok = c.Get(ctx)
	assert.False(t, ok)
}

func TestRateCardCacheEmptySnapshotIsAHit(t *testing.T) {
	ctx := context.Background()
	c := NewRateCardCache(nil, 0, clock.NewFakeClock(time.Now()), nil)

	c.Set(ctx, nil)
	got, ok := c.Get(ctx)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestRateCardCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewRateCardCache(nil, time.Hour, clock.NewFakeClock(time.Now()), nil)

	c.Set(ctx, []ratecarddomain.RateCardEntry{{Size: "3x4", Level: "B", Months: 1}})
	c.Invalidate(ctx)

	_, ok := c.Get(ctx)
	assert.False(t, ok)
}

// memoryRedis serves GET/SET/DEL from a map. Other commands are not used by
// the cache.
type memoryRedis struct {
	redis.UniversalClient
	mu     sync.Mutex
	values map[string][]byte
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{values: map[string][]byte{}}
}

func (m *memoryRedis) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(value), nil)
}

func (m *memoryRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value.([]byte)...)
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := m.values[key]; ok {
			delete(m.values, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (m *memoryRedis) put(t *testing.T, entries []ratecarddomain.RateCardEntry) {
	t.Helper()
	payload, err := json.Marshal(entries)
	require.NoError(t, err)
	m.mu.Lock()
	m.values[rateCardRedisKey] = payload
	m.mu.Unlock()
}

func TestRateCardCacheReloadsFromRedisWithoutTouchingOldSnapshot(t *testing.T) {
	ctx := context.Background()
	fake := clock.NewFakeClock(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	remote := newMemoryRedis()
	c := NewRateCardCache(remote, time.Minute, fake, nil)

	c.Set(ctx, []ratecarddomain.RateCardEntry{{Size: "4x12", Level: "A", Category: ratecarddomain.CategoryRegular, Months: 3, Price: decimal.NewFromInt(900)}})
	first, ok := c.Get(ctx)
	require.True(t, ok)
	require.Len(t, first, 1)

	// Another instance edits the card after the local copy expired.
	remote.put(t, []ratecarddomain.RateCardEntry{{Size: "4x12", Level: "A", Category: ratecarddomain.CategoryRegular, Months: 3, Price: decimal.NewFromInt(1)}})
	fake.Advance(2 * time.Minute)

	second, ok := c.Get(ctx)
	require.True(t, ok)
	require.Len(t, second, 1)
	assert.True(t, second[0].Price.Equal(decimal.NewFromInt(1)), second[0].Price.String())
	assert.True(t, first[0].Price.Equal(decimal.NewFromInt(900)), first[0].Price.String())

	third, ok := c.Get(ctx)
	require.True(t, ok)
	assert.True(t, third[0].Price.Equal(decimal.NewFromInt(1)))
}

func TestRateCardCacheRedisMissAndBadPayload(t *testing.T) {
	ctx := context.Background()
	remote := newMemoryRedis()
	c := NewRateCardCache(remote, time.Minute, clock.NewFakeClock(time.Now()), nil)

	_, ok := c.Get(ctx)
	assert.False(t, ok)

	remote.mu.Lock()
	remote.values[rateCardRedisKey] = []byte("{not json")
	remote.mu.Unlock()
	_, ok = c.Get(ctx)
	assert.False(t, ok)
}

func TestRateCardCacheInvalidateClearsRedis(t *testing.T) {
	ctx := context.Background()
	remote := newMemoryRedis()
	c := NewRateCardCache(remote, time.Minute, clock.NewFakeClock(time.Now()), nil)

	c.Set(ctx, []ratecarddomain.RateCardEntry{{Size: "3x4", Level: "B", Months: 1, Price: decimal.NewFromInt(50)}})
	require.Contains(t, remote.values, rateCardRedisKey)

	c.Invalidate(ctx)
	assert.NotContains(t, remote.values, rateCardRedisKey)
	_, ok := c.Get(ctx)
	assert.False(t, ok)
}
