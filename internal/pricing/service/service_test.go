package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	billboarddomain "github.com/smallbiznis/billboards/internal/billboard/domain"
	"github.com/smallbiznis/billboards/internal/config"
	"github.com/smallbiznis/billboards/internal/pricing/domain"
	ratecarddomain "github.com/smallbiznis/billboards/internal/ratecard/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type billboardServiceMock struct {
	mock.Mock
	billboarddomain.Service
}

func (m *billboardServiceMock) GetMany(ctx context.Context, ids []snowflake.ID) ([]billboarddomain.Billboard, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]billboarddomain.Billboard)
	return items, args.Error(1)
}

type rateCardStub struct {
	ratecarddomain.Service
	entries []ratecarddomain.RateCardEntry
}

func (s *rateCardStub) Snapshot(context.Context) (*ratecarddomain.RateCard, error) {
	return ratecarddomain.NewRateCard(s.entries), nil
}

func newTestService(billboards *billboardServiceMock, defaultCategory string) domain.Service {
	return New(Params{
		Log:          zap.NewNop(),
		BillboardSvc: billboards,
		RateCardSvc: &rateCardStub{entries: []ratecarddomain.RateCardEntry{
			{Size: "5x13", Level: "A", Category: ratecarddomain.CategoryCorporate, Months: 6, Price: decimal.NewFromInt(9000)},
		}},
		Pricing: config.NewStaticPricingConfigHolder(config.PricingConfig{DefaultCategory: defaultCategory}),
	})
}

func TestQuoteUsesConfiguredDefaultCategory(t *testing.T) {
	billboards := &billboardServiceMock{}
	ids := []snowflake.ID{1}
	billboards.On("GetMany", mock.Anything, ids).Return([]billboarddomain.Billboard{
		{ID: 1, Size: "5x13", Level: "A", MonthlyPrice: decimal.NewFromInt(1000)},
	}, nil)

	svc := newTestService(billboards, "corporate")
	quote, err := svc.Quote(context.Background(), domain.QuoteRequest{BillboardIDs: ids, Months: 6})
	require.NoError(t, err)
	assert.Equal(t, ratecarddomain.CategoryCorporate, quote.Category)
	assert.Equal(t, "9000", quote.Total.String())
	billboards.AssertExpectations(t)
}

func TestQuoteExplicitCategoryOverridesDefault(t *testing.T) {
	billboards := &billboardServiceMock{}
	ids := []snowflake.ID{1}
	billboards.On("GetMany", mock.Anything, ids).Return([]billboarddomain.Billboard{
		{ID: 1, Size: "5x13", Level: "A", MonthlyPrice: decimal.NewFromInt(1000)},
	}, nil)

	svc := newTestService(billboards, "corporate")
	quote, err := svc.Quote(context.Background(), domain.QuoteRequest{BillboardIDs: ids, Category: "regular", Months: 6})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceFallback, quote.Lines[0].Source)
	assert.Equal(t, "6000", quote.Total.String())
}

func TestQuoteValidation(t *testing.T) {
	svc := newTestService(&billboardServiceMock{}, "regular")
	ctx := context.Background()

	_, err := svc.Quote(ctx, domain.QuoteRequest{Months: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidBillboards)
	_, err = svc.Quote(ctx, domain.QuoteRequest{BillboardIDs: []snowflake.ID{1}})
	assert.ErrorIs(t, err, ratecarddomain.ErrInvalidMonths)
	_, err = svc.Quote(ctx, domain.QuoteRequest{BillboardIDs: []snowflake.ID{1}, Months: 3, Category: "vip"})
	assert.ErrorIs(t, err, ratecarddomain.ErrInvalidCategory)
}

func TestQuotePropagatesMissingBillboard(t *testing.T) {
	billboards := &billboardServiceMock{}
	billboards.On("GetMany", mock.Anything, mock.Anything).Return(nil, billboarddomain.ErrNotFound)

	svc := newTestService(billboards, "regular")
	_, err := svc.Quote(context.Background(), domain.QuoteRequest{BillboardIDs: []snowflake.ID{5}, Months: 1})
	assert.ErrorIs(t, err, billboarddomain.ErrNotFound)
}
