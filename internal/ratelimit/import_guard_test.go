package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/billboards/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportGuardDisabledWithoutRedis(t *testing.T) {
	guard := NewImportGuard(nil, config.Config{})
	assert.False(t, guard.Enabled())

	res, err := guard.Allow(context.Background(), "127.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	token, ok, err := guard.TryLock(context.Background(), "contracts")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, token)
	assert.NoError(t, guard.Release(context.Background(), "contracts", token))
}

func TestNilGuardIsDisabled(t *testing.T) {
	var guard *ImportGuard
	assert.False(t, guard.Enabled())
	res, err := guard.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestDefaultsAndBucketTTL(t *testing.T) {
	guard := NewImportGuard(nil, config.Config{})
	assert.Equal(t, defaultRate, guard.rate)
	assert.Equal(t, defaultBurst, guard.burst)
	assert.Equal(t, defaultLockTTL, guard.lockTTL)
	assert.Equal(t, 30*time.Second, guard.bucketTTL())

	fast := NewImportGuard(nil, config.Config{ImportLimit: config.ImportLimitConfig{Rate: 50, Burst: 1, LockTTLSec: 10}})
	assert.Equal(t, time.Second, fast.bucketTTL())
	assert.Equal(t, 10*time.Second, fast.lockTTL)
}

func TestDecode(t *testing.T) {
	d, err := decode([]int64{0, 400, 3000})
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, 3*time.Second, d.RetryAfter)

	d, err = decode([]int64{1, 2000, 0})
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, d.Remaining)

	_, err = decode([]int64{1})
	assert.Error(t, err)
}
