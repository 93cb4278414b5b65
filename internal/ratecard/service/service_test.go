package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/billboards/internal/clock"
	"github.com/smallbiznis/billboards/internal/ratecard/domain"
	"github.com/smallbiznis/billboards/internal/ratecard/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.RateCardEntry{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Clock: clock.NewFakeClock(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)),
	})
	return svc, conn
}

func TestUpsertReplacesPriceForSameKey(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Upsert(ctx, domain.UpsertEntryRequest{
		Size: "5x13", Level: "A", Category: "regular", Months: 3, Price: decimal.NewFromInt(4500),
	})
	require.NoError(t, err)

	second, err := svc.Upsert(ctx, domain.UpsertEntryRequest{
		Size: "5x13", Level: "A", Category: "regular", Months: 3, Price: decimal.NewFromInt(4700),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Price.Equal(decimal.NewFromInt(4700)))

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUpsertValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, domain.UpsertEntryRequest{Level: "A", Category: "regular", Months: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidSize)
	_, err = svc.Upsert(ctx, domain.UpsertEntryRequest{Size: "5x13", Category: "regular", Months: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidLevel)
	_, err = svc.Upsert(ctx, domain.UpsertEntryRequest{Size: "5x13", Level: "A", Category: "vip", Months: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
	_, err = svc.Upsert(ctx, domain.UpsertEntryRequest{Size: "5x13", Level: "A", Category: "regular"})
	assert.ErrorIs(t, err, domain.ErrInvalidMonths)
	_, err = svc.Upsert(ctx, domain.UpsertEntryRequest{Size: "5x13", Level: "A", Category: "regular", Months: 1, Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestResolveUsesFreshSnapshotAfterUpsert(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Resolve(ctx, domain.ResolveRequest{Size: "5x13", Level: "A", Category: "regular", Months: 3})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Upsert(ctx, domain.UpsertEntryRequest{
		Size: "5x13", Level: "A", Category: "regular", Months: 3, Price: decimal.NewFromInt(4500),
	})
	require.NoError(t, err)

	price, err := svc.Resolve(ctx, domain.ResolveRequest{Size: "5x13", Level: "A", Category: "regular", Months: 3})
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(4500)))
}

func TestDeleteEntry(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.Upsert(ctx, domain.UpsertEntryRequest{
		Size: "3x4", Level: "B", Category: "marketer", Months: 1, Price: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, entry.ID.String()))
	assert.ErrorIs(t, svc.Delete(ctx, entry.ID.String()), domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "abc"), domain.ErrInvalidID)
}
