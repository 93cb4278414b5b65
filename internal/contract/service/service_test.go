package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/billboards/internal/clock"
	"github.com/smallbiznis/billboards/internal/config"
	"github.com/smallbiznis/billboards/internal/contract/domain"
	"github.com/smallbiznis/billboards/internal/contract/repository"
	customerdomain "github.com/smallbiznis/billboards/internal/customer/domain"
	pricingdomain "github.com/smallbiznis/billboards/internal/pricing/domain"
	ratecarddomain "github.com/smallbiznis/billboards/internal/ratecard/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// pricingStub quotes 100 per billboard per month, doubled for corporate.
type pricingStub struct {
	pricingdomain.Service
	requests []pricingdomain.QuoteRequest
}

func (p *pricingStub) Quote(_ context.Context, req pricingdomain.QuoteRequest) (pricingdomain.Quote, error) {
	p.requests = append(p.requests, req)
	if len(req.BillboardIDs) == 0 {
		return pricingdomain.Quote{}, pricingdomain.ErrInvalidBillboards
	}
	category, err := ratecarddomain.ParseCategory(req.Category)
	if err != nil {
		category = ratecarddomain.CategoryRegular
	}
	unit := int64(100)
	if category == ratecarddomain.CategoryCorporate {
		unit = 200
	}
	total := decimal.NewFromInt(unit * int64(req.Months) * int64(len(req.BillboardIDs)))
	return pricingdomain.Quote{Category: category, Months: req.Months, Total: total}, nil
}

type customerStub struct {
	customerdomain.Service
	byName map[string]customerdomain.Customer
}

func (c *customerStub) Resolve(_ context.Context, req customerdomain.ResolveRequest) (customerdomain.Ref, *customerdomain.Customer, error) {
	if req.ID == "" && req.Name == "" {
		return customerdomain.Ref{}, nil, customerdomain.ErrInvalidRef
	}
	if req.ID != "" {
		for _, item := range c.byName {
			if item.ID.String() == req.ID {
				found := item
				return customerdomain.Ref{ID: &found.ID, Name: found.Name}, &found, nil
			}
		}
		if req.Name == "" {
			return customerdomain.Ref{}, nil, customerdomain.ErrNotFound
		}
	}
	if item, ok := c.byName[strings.ToLower(req.Name)]; ok {
		return customerdomain.Ref{ID: &item.ID, Name: item.Name}, &item, nil
	}
	return customerdomain.Ref{Name: req.Name}, nil, nil
}

func (c *customerStub) GetByID(_ context.Context, req customerdomain.GetCustomerRequest) (customerdomain.Customer, error) {
	for _, item := range c.byName {
		if item.ID.String() == req.ID {
			return item, nil
		}
	}
	return customerdomain.Customer{}, customerdomain.ErrNotFound
}

type fixture struct {
	svc     domain.Service
	clock   *clock.FakeClock
	pricing *pricingStub
	corp    customerdomain.Customer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Contract{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	corp := customerdomain.Customer{ID: snowflake.ID(9001), Name: "Madar Corp", Category: ratecarddomain.CategoryCorporate}
	customers := &customerStub{byName: map[string]customerdomain.Customer{"madar corp": corp}}
	pricing := &pricingStub{}
	fake := clock.NewFakeClock(time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:          conn,
		Log:         zap.NewNop(),
		GenID:       node,
		Repo:        repository.Provide(),
		Clock:       fake,
		Pricing:     config.NewStaticPricingConfigHolder(config.DefaultPricingConfig()),
		PricingSvc:  pricing,
		CustomerSvc: customers,
	})
	return fixture{svc: svc, clock: fake, pricing: pricing, corp: corp}
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestCreateQuotesCost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.svc.Create(ctx, domain.CreateContractRequest{
		CustomerName: "Walk-in Shop",
		AdType:       "Retail",
		StartDate:    day(2024, 5, 1),
		Months:       3,
		BillboardIDs: []snowflake.ID{1, 2},
	})
	require.NoError(t, err)
	assert.Nil(t, view.CustomerID)
	assert.Equal(t, "Walk-in Shop", view.CustomerName)
	assert.Equal(t, *day(2024, 8, 1), *view.EndDate)
	assert.True(t, view.RentCost.Equal(decimal.NewFromInt(600)), view.RentCost.String())
	assert.Equal(t, ratecarddomain.CategoryRegular, view.Category)
	assert.Equal(t, domain.StatusActive, view.Status)
}

func TestCreateUsesCustomerCategoryAndOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.svc.Create(ctx, domain.CreateContractRequest{
		CustomerName: "madar corp",
		StartDate:    day(2024, 5, 1),
		EndDate:      day(2024, 7, 30),
		BillboardIDs: []snowflake.ID{1},
	})
	require.NoError(t, err)
	require.NotNil(t, view.CustomerID)
	assert.Equal(t, f.corp.ID, *view.CustomerID)
	assert.Equal(t, "Madar Corp", view.CustomerName)
	assert.Equal(t, 3, f.pricing.requests[0].Months)
	assert.True(t, view.RentCost.Equal(decimal.NewFromInt(600)), view.RentCost.String())

	override := decimal.RequireFromString("999.999")
	view, err = f.svc.Create(ctx, domain.CreateContractRequest{
		CustomerID:   f.corp.ID.String(),
		StartDate:    day(2024, 5, 1),
		Months:       1,
		BillboardIDs: []snowflake.ID{1},
		RentCost:     &override,
	})
	require.NoError(t, err)
	assert.True(t, view.RentCost.Equal(decimal.NewFromInt(1000)), view.RentCost.String())
	assert.Len(t, f.pricing.requests, 1)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	negative := decimal.NewFromInt(-1)

	cases := []struct {
		name string
		req  domain.CreateContractRequest
		want error
	}{
		{"no customer", domain.CreateContractRequest{StartDate: day(2024, 1, 1), Months: 1, BillboardIDs: []snowflake.ID{1}}, domain.ErrInvalidCustomer},
		{"no start", domain.CreateContractRequest{CustomerName: "x", Months: 1, BillboardIDs: []snowflake.ID{1}}, domain.ErrInvalidStartDate},
		{"no end or months", domain.CreateContractRequest{CustomerName: "x", StartDate: day(2024, 1, 1), BillboardIDs: []snowflake.ID{1}}, domain.ErrInvalidEndDate},
		{"end before start", domain.CreateContractRequest{CustomerName: "x", StartDate: day(2024, 2, 1), EndDate: day(2024, 1, 1), BillboardIDs: []snowflake.ID{1}}, domain.ErrInvalidEndDate},
		{"no billboards", domain.CreateContractRequest{CustomerName: "x", StartDate: day(2024, 1, 1), Months: 1}, domain.ErrInvalidBillboards},
		{"negative cost", domain.CreateContractRequest{CustomerName: "x", StartDate: day(2024, 1, 1), Months: 1, BillboardIDs: []snowflake.ID{1}, RentCost: &negative}, domain.ErrInvalidRentCost},
		{"unknown customer id", domain.CreateContractRequest{CustomerID: "12345", StartDate: day(2024, 1, 1), Months: 1, BillboardIDs: []snowflake.ID{1}}, domain.ErrInvalidCustomer},
		{"unknown category", domain.CreateContractRequest{CustomerName: "Madar Corp", Category: "corprate", StartDate: day(2024, 1, 1), Months: 3, BillboardIDs: []snowflake.ID{1}}, ratecarddomain.ErrInvalidCategory},
		{"months disagree with end", domain.CreateContractRequest{CustomerName: "Madar Corp", StartDate: day(2024, 1, 1), EndDate: day(2024, 12, 31), Months: 1, BillboardIDs: []snowflake.ID{1}}, domain.ErrInvalidMonths},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestListFiltersAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	create := func(name, adType string, start, end *time.Time) domain.View {
		view, err := f.svc.Create(ctx, domain.CreateContractRequest{
			CustomerName: name,
			AdType:       adType,
			StartDate:    start,
			EndDate:      end,
			BillboardIDs: []snowflake.ID{1},
		})
		require.NoError(t, err)
		return view
	}
	create("Madar Corp", "Telecom", day(2024, 1, 1), day(2024, 12, 31))
	create("Madar Corp", "Telecom", day(2024, 4, 1), day(2024, 5, 20))
	create("Bakery", "Food", day(2023, 1, 1), day(2023, 6, 30))
	create("Bakery", "Food", day(2024, 6, 1), day(2024, 7, 1))

	all, err := f.svc.List(ctx, domain.ListContractRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	active, err := f.svc.List(ctx, domain.ListContractRequest{Status: "active"})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	expiring, err := f.svc.List(ctx, domain.ListContractRequest{Status: "expiring"})
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	require.NotNil(t, expiring[0].DaysRemaining)
	assert.Equal(t, 10, *expiring[0].DaysRemaining)

	food, err := f.svc.List(ctx, domain.ListContractRequest{Query: "FOOD"})
	require.NoError(t, err)
	assert.Len(t, food, 2)

	byID, err := f.svc.List(ctx, domain.ListContractRequest{CustomerID: f.corp.ID.String()})
	require.NoError(t, err)
	assert.Len(t, byID, 2)

	fallback, err := f.svc.List(ctx, domain.ListContractRequest{CustomerID: "777", CustomerName: "bakery"})
	require.NoError(t, err)
	assert.Len(t, fallback, 2)

	_, err = f.svc.List(ctx, domain.ListContractRequest{Status: "paused"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatusFilter)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{Total: 4, Active: 2, Expiring: 1, Expired: 1}, stats)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.svc.Create(ctx, domain.CreateContractRequest{
		CustomerName: "Bakery",
		StartDate:    day(2024, 5, 1),
		Months:       1,
		BillboardIDs: []snowflake.ID{1},
	})
	require.NoError(t, err)

	adType := "Seasonal"
	cost := decimal.NewFromInt(250)
	updated, err := f.svc.Update(ctx, domain.UpdateContractRequest{
		ID:       view.ID.String(),
		AdType:   &adType,
		EndDate:  day(2024, 9, 1),
		RentCost: &cost,
	})
	require.NoError(t, err)
	assert.Equal(t, "Seasonal", updated.AdType)

	got, err := f.svc.Get(ctx, view.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Seasonal", got.AdType)
	assert.True(t, got.EndDate.Equal(*day(2024, 9, 1)))
	assert.True(t, got.RentCost.Equal(cost))

	_, err = f.svc.Update(ctx, domain.UpdateContractRequest{ID: view.ID.String(), EndDate: day(2024, 1, 1)})
	assert.ErrorIs(t, err, domain.ErrInvalidEndDate)

	_, err = f.svc.Get(ctx, "123")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.Get(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestRenew(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cost := decimal.RequireFromString("4500")
	source, err := f.svc.Create(ctx, domain.CreateContractRequest{
		CustomerName: "Madar Corp",
		AdType:       "Telecom",
		StartDate:    day(2024, 1, 1),
		EndDate:      day(2024, 4, 1),
		BillboardIDs: []snowflake.ID{4, 5},
		RentCost:     &cost,
	})
	require.NoError(t, err)

	kept, err := f.svc.Renew(ctx, domain.RenewContractRequest{ID: source.ID.String(), KeepCost: true})
	require.NoError(t, err)
	assert.Equal(t, *day(2024, 5, 10), *kept.StartDate)
	assert.Equal(t, *day(2024, 8, 10), *kept.EndDate)
	assert.True(t, kept.RentCost.Equal(cost))
	require.NotNil(t, kept.RenewedFrom)
	assert.Equal(t, source.ID, *kept.RenewedFrom)
	assert.Equal(t, []snowflake.ID{4, 5}, []snowflake.ID(kept.BillboardIDs))
	assert.Equal(t, source.CustomerID, kept.CustomerID)

	requoted, err := f.svc.Renew(ctx, domain.RenewContractRequest{ID: source.ID.String()})
	require.NoError(t, err)
	// corporate: 200 x 3 months x 2 billboards
	assert.True(t, requoted.RentCost.Equal(decimal.NewFromInt(1200)), requoted.RentCost.String())

	_, err = f.svc.Renew(ctx, domain.RenewContractRequest{ID: "42"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRenewRejectsUnknownCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	source, err := f.svc.Create(ctx, domain.CreateContractRequest{
		CustomerName: "Madar Corp",
		StartDate:    day(2024, 1, 1),
		Months:       1,
		BillboardIDs: []snowflake.ID{1},
	})
	require.NoError(t, err)
	requests := len(f.pricing.requests)

	_, err = f.svc.Renew(ctx, domain.RenewContractRequest{ID: source.ID.String(), Category: "nope"})
	assert.ErrorIs(t, err, ratecarddomain.ErrInvalidCategory)
	assert.Len(t, f.pricing.requests, requests)

	views, err := f.svc.List(ctx, domain.ListContractRequest{})
	require.NoError(t, err)
	assert.Len(t, views, 1)
}

func TestCreateMonthsMatchingEndDate(t *testing.T) {
	f := newFixture(t)

	view, err := f.svc.Create(context.Background(), domain.CreateContractRequest{
		CustomerName: "Madar Corp",
		StartDate:    day(2024, 1, 1),
		EndDate:      day(2024, 3, 31),
		Months:       3,
		BillboardIDs: []snowflake.ID{1},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, f.pricing.requests[0].Months)
	assert.Equal(t, *day(2024, 3, 31), *view.EndDate)
}

func TestImportManyKeepsLegacyNumbers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	legacy := snowflake.ID(1042)

	imported, err := f.svc.ImportMany(ctx, []domain.ImportContractRequest{
		{Number: &legacy, CustomerName: "Madar Corp", AdType: "Telecom", StartDate: day(2024, 1, 1), EndDate: day(2024, 12, 31), RentCost: decimal.NewFromInt(9000)},
		{CustomerName: "No Dates Ltd", RentCost: decimal.Zero},
	})
	require.NoError(t, err)
	require.Len(t, imported, 2)
	assert.Equal(t, legacy, imported[0].ID)
	assert.Equal(t, ratecarddomain.CategoryCorporate, imported[0].Category)

	got, err := f.svc.Get(ctx, "1042")
	require.NoError(t, err)
	assert.True(t, got.RentCost.Equal(decimal.NewFromInt(9000)))

	undated, err := f.svc.Get(ctx, imported[1].ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUndefined, undated.Status)
	assert.Empty(t, f.pricing.requests)

	_, err = f.svc.ImportMany(ctx, []domain.ImportContractRequest{{RentCost: decimal.NewFromInt(1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidCustomer)
}
