package ratelimit

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/billboards/internal/config"
)

const (
	throttleKeyPrefix = "billboards:import:client:"
	lockKeyPrefix     = "billboards:import:lock:"

	defaultRate    = 0.2
	defaultBurst   = 3
	defaultLockTTL = 2 * time.Minute
)

// Decision is the outcome of one throttle check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// ImportGuard throttles spreadsheet uploads per client and keeps two imports
// of the same record kind from running at once across instances. Without
// Redis it is disabled and allows everything.
type ImportGuard struct {
	client  redis.UniversalClient
	rate    float64
	burst   int
	lockTTL time.Duration
}

func NewImportGuard(client redis.UniversalClient, cfg config.Config) *ImportGuard {
	g := &ImportGuard{
		client:  client,
		rate:    cfg.ImportLimit.Rate,
		burst:   cfg.ImportLimit.Burst,
		lockTTL: time.Duration(cfg.ImportLimit.LockTTLSec) * time.Second,
	}
	if g.rate <= 0 {
		g.rate = defaultRate
	}
	if g.burst <= 0 {
		g.burst = defaultBurst
	}
	if g.lockTTL <= 0 {
		g.lockTTL = defaultLockTTL
	}
	return g
}

func (g *ImportGuard) Enabled() bool {
	return g != nil && g.client != nil
}

// Allow spends one upload token for client.
func (g *ImportGuard) Allow(ctx context.Context, client string) (Decision, error) {
	if !g.Enabled() {
		return Decision{Allowed: true}, nil
	}
	return runThrottle(ctx, g.client, throttleKeyPrefix+client, g.rate, g.burst, g.bucketTTL())
}

// TryLock takes the per-kind import lock. The token must be handed back to
// Release. A disabled guard always grants the lock with an empty token.
func (g *ImportGuard) TryLock(ctx context.Context, kind string) (string, bool, error) {
	if !g.Enabled() {
		return "", true, nil
	}
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, lockKeyPrefix+kind, token, g.lockTTL).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (g *ImportGuard) Release(ctx context.Context, kind, token string) error {
	if !g.Enabled() || token == "" {
		return nil
	}
	return releaseScript.Run(ctx, g.client, []string{lockKeyPrefix + kind}, token).Err()
}

// bucketTTL keeps an idle bucket around for two full refills.
func (g *ImportGuard) bucketTTL() time.Duration {
	seconds := math.Max(1, math.Ceil(2*float64(g.burst)/g.rate))
	return time.Duration(seconds) * time.Second
}
