package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/billboards/internal/billboard/domain"
	"github.com/smallbiznis/billboards/internal/billboard/repository"
	"github.com/smallbiznis/billboards/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Billboard{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Clock: clock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
}

func TestCreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateBillboardRequest{
		Name:         "Airport Road 1",
		Size:         "5x13",
		Level:        "A",
		MonthlyPrice: decimal.NewFromInt(800),
		Municipality: "Misrata",
		Metadata:     map[string]any{"lit": true},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Faces)

	got, err := svc.Get(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Airport Road 1", got.Name)
	assert.True(t, got.MonthlyPrice.Equal(decimal.NewFromInt(800)))

	_, err = svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	_, err = svc.Get(ctx, "12345")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateBillboardRequest{Size: "5x13", Level: "A"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
	_, err = svc.Create(ctx, domain.CreateBillboardRequest{Name: "x", Level: "A"})
	assert.ErrorIs(t, err, domain.ErrInvalidSize)
	_, err = svc.Create(ctx, domain.CreateBillboardRequest{Name: "x", Size: "5x13"})
	assert.ErrorIs(t, err, domain.ErrInvalidLevel)
	_, err = svc.Create(ctx, domain.CreateBillboardRequest{Name: "x", Size: "5x13", Level: "A", MonthlyPrice: decimal.NewFromInt(-5)})
	assert.ErrorIs(t, err, domain.ErrInvalidMonthlyPrice)
}

func TestGetManyPreservesOrderAndReportsMissing(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateMany(ctx, []domain.CreateBillboardRequest{
		{Name: "B1", Size: "5x13", Level: "A", MonthlyPrice: decimal.NewFromInt(800)},
		{Name: "B2", Size: "4x12", Level: "B", MonthlyPrice: decimal.NewFromInt(600)},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	items, err := svc.GetMany(ctx, []snowflake.ID{created[1].ID, created[0].ID})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "B2", items[0].Name)
	assert.Equal(t, "B1", items[1].Name)

	_, err = svc.GetMany(ctx, []snowflake.ID{created[0].ID, 99})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateMany(ctx, []domain.CreateBillboardRequest{
		{Name: "Coastal 1", Size: "5x13", Level: "A", Municipality: "Tripoli", Landmark: "Harbour"},
		{Name: "Coastal 2", Size: "5x13", Level: "B", Municipality: "Tripoli"},
		{Name: "Inland", Size: "3x4", Level: "A", Municipality: "Gharyan"},
	})
	require.NoError(t, err)

	items, err := svc.List(ctx, domain.ListBillboardRequest{Size: "5x13"})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = svc.List(ctx, domain.ListBillboardRequest{Municipality: "tripoli", Level: "A"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Coastal 1", items[0].Name)

	items, err = svc.List(ctx, domain.ListBillboardRequest{Query: "harb"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
