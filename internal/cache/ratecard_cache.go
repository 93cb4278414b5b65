package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/billboards/internal/clock"
	ratecarddomain "github.com/smallbiznis/billboards/internal/ratecard/domain"
	"go.uber.org/zap"
)

const (
	defaultRateCardTTL = 5 * time.Minute
	rateCardRedisKey   = "billboards:ratecard:v1"
)

// RateCardCache holds the full rate card snapshot used by price resolution.
type RateCardCache interface {
	Get(ctx context.Context) ([]ratecarddomain.RateCardEntry, bool)
	Set(ctx context.Context, entries []ratecarddomain.RateCardEntry)
	Invalidate(ctx context.Context)
}

type rateCardCache struct {
	mu        sync.RWMutex
	entries   []ratecarddomain.RateCardEntry
	expiresAt time.Time

	remote redis.UniversalClient
	ttl    time.Duration
	clock  clock.Clock
	log    *zap.Logger
}

// NewRateCardCache keeps the snapshot in process and, when remote is not nil,
// mirrors it to Redis so every instance sees an edit at the same time.
// Redis failures degrade to a miss.
func NewRateCardCache(remote redis.UniversalClient, ttl time.Duration, c clock.Clock, log *zap.Logger) RateCardCache {
	if ttl <= 0 {
		ttl = defaultRateCardTTL
	}
	if c == nil {
		c = clock.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &rateCardCache{
		remote: remote,
		ttl:    ttl,
		clock:  c,
		log:    log.Named("ratecard.cache"),
	}
}

func (c *rateCardCache) Get(ctx context.Context) ([]ratecarddomain.RateCardEntry, bool) {
	c.mu.RLock()
	entries, fresh := c.entries, c.entries != nil && c.clock.Now().Before(c.expiresAt)
	c.mu.RUnlock()
	if fresh {
		return entries, true
	}
	if c.remote == nil {
		return nil, false
	}

	raw, err := c.remote.Get(ctx, rateCardRedisKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("rate card cache read failed", zap.Error(err))
		}
		return nil, false
	}
	// Decode into a fresh slice: earlier callers may still be reading the
	// expired snapshot.
	var remote []ratecarddomain.RateCardEntry
	if err := json.Unmarshal(raw, &remote); err != nil {
		c.log.Warn("rate card cache payload invalid", zap.Error(err))
		return nil, false
	}
	c.store(remote)
	return remote, true
}

func (c *rateCardCache) Set(ctx context.Context, entries []ratecarddomain.RateCardEntry) {
	if entries == nil {
		entries = []ratecarddomain.RateCardEntry{}
	}
	c.store(entries)
	if c.remote == nil {
		return
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		c.log.Warn("rate card cache encode failed", zap.Error(err))
		return
	}
	if err := c.remote.Set(ctx, rateCardRedisKey, payload, c.ttl).Err(); err != nil {
		c.log.Warn("rate card cache write failed", zap.Error(err))
	}
}

func (c *rateCardCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	c.entries, c.expiresAt = nil, time.Time{}
	c.mu.Unlock()
	if c.remote == nil {
		return
	}
	if err := c.remote.Del(ctx, rateCardRedisKey).Err(); err != nil {
		c.log.Warn("rate card cache invalidate failed", zap.Error(err))
	}
}

func (c *rateCardCache) store(entries []ratecarddomain.RateCardEntry) {
	c.mu.Lock()
	c.entries, c.expiresAt = entries, c.clock.Now().Add(c.ttl)
	c.mu.Unlock()
}
