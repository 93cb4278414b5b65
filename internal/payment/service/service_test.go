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
	contractdomain "github.com/smallbiznis/billboards/internal/contract/domain"
	contractrepo "github.com/smallbiznis/billboards/internal/contract/repository"
	customerdomain "github.com/smallbiznis/billboards/internal/customer/domain"
	"github.com/smallbiznis/billboards/internal/payment/domain"
	"github.com/smallbiznis/billboards/internal/payment/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type customerStub struct {
	customerdomain.Service
	known map[string]snowflake.ID
}

func (c *customerStub) Resolve(_ context.Context, req customerdomain.ResolveRequest) (customerdomain.Ref, *customerdomain.Customer, error) {
	if req.ID == "" && req.Name == "" {
		return customerdomain.Ref{}, nil, customerdomain.ErrInvalidRef
	}
	for name, id := range c.known {
		if id.String() == req.ID || strings.EqualFold(name, req.Name) {
			id := id
			return customerdomain.Ref{ID: &id, Name: name}, &customerdomain.Customer{ID: id, Name: name}, nil
		}
	}
	if req.Name == "" {
		return customerdomain.Ref{}, nil, customerdomain.ErrNotFound
	}
	return customerdomain.Ref{Name: req.Name}, nil, nil
}

type fixture struct {
	svc      domain.Service
	conn     *gorm.DB
	contract contractdomain.Contract
	clock    *clock.FakeClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Entry{}, &contractdomain.Contract{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
	customerID := snowflake.ID(500)
	contract := contractdomain.Contract{
		ID:           snowflake.ID(1000),
		CustomerID:   &customerID,
		CustomerName: "Oasis Dates",
		RentCost:     decimal.NewFromInt(6000),
		CreatedAt:    fake.Now(),
		UpdatedAt:    fake.Now(),
	}
	require.NoError(t, contractrepo.Provide().Insert(context.Background(), conn, &contract))

	svc := New(Params{
		DB:           conn,
		Log:          zap.NewNop(),
		GenID:        node,
		Repo:         repository.Provide(),
		ContractRepo: contractrepo.Provide(),
		CustomerSvc:  &customerStub{known: map[string]snowflake.ID{"Oasis Dates": customerID}},
		Clock:        fake,
	})
	return fixture{svc: svc, conn: conn, contract: contract, clock: fake}
}

func TestCreateReceiptInheritsContractCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Create(ctx, domain.CreateEntryRequest{
		ContractNumber: f.contract.ID.String(),
		Amount:         decimal.NewFromInt(1500),
		Method:         "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EntryTypeReceipt, entry.EntryType)
	require.NotNil(t, entry.CustomerID)
	assert.Equal(t, *f.contract.CustomerID, *entry.CustomerID)
	assert.Equal(t, "Oasis Dates", entry.CustomerName)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), entry.PaidAt)
	assert.False(t, entry.IsAccountLevel())
}

func TestCreateDebtDetachesContract(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Create(ctx, domain.CreateEntryRequest{
		CustomerName:   "oasis dates",
		ContractNumber: f.contract.ID.String(),
		Amount:         decimal.NewFromInt(2000),
		Method:         "cash",
		EntryType:      "debt",
	})
	require.NoError(t, err)
	assert.Nil(t, entry.ContractNumber)
	assert.Equal(t, domain.MethodPreviousDebt, entry.Method)
	assert.True(t, entry.IsAccountLevel())
}

func TestCreateAccountPaymentDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Create(ctx, domain.CreateEntryRequest{
		CustomerName: "Oasis Dates",
		Amount:       decimal.RequireFromString("250.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EntryTypeAccountPayment, entry.EntryType)
	assert.True(t, entry.IsAccountLevel())
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.CreateEntryRequest
		want error
	}{
		{"zero amount", domain.CreateEntryRequest{CustomerName: "x"}, domain.ErrInvalidAmount},
		{"negative amount", domain.CreateEntryRequest{CustomerName: "x", Amount: decimal.NewFromInt(-3)}, domain.ErrInvalidAmount},
		{"rounds to zero", domain.CreateEntryRequest{CustomerName: "x", Amount: decimal.RequireFromString("0.001")}, domain.ErrInvalidAmount},
		{"bad type", domain.CreateEntryRequest{CustomerName: "x", Amount: decimal.NewFromInt(1), EntryType: "refund"}, domain.ErrInvalidEntryType},
		{"bad contract", domain.CreateEntryRequest{CustomerName: "x", Amount: decimal.NewFromInt(1), ContractNumber: "abc"}, domain.ErrInvalidContract},
		{"unknown contract", domain.CreateEntryRequest{CustomerName: "x", Amount: decimal.NewFromInt(1), ContractNumber: "77"}, domain.ErrInvalidContract},
		{"no customer", domain.CreateEntryRequest{Amount: decimal.NewFromInt(1)}, domain.ErrInvalidCustomer},
		{"unknown customer id", domain.CreateEntryRequest{CustomerID: "9", Amount: decimal.NewFromInt(1)}, domain.ErrInvalidCustomer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUpdatePatchesMutableFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Create(ctx, domain.CreateEntryRequest{
		ContractNumber: f.contract.ID.String(),
		Amount:         decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	amount := decimal.NewFromInt(120)
	reference := "TRX-9"
	paidAt := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	_, err = f.svc.Update(ctx, domain.UpdateEntryRequest{
		ID:        entry.ID.String(),
		Amount:    &amount,
		Reference: &reference,
		PaidAt:    &paidAt,
	})
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, entry.ID.String())
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(amount))
	assert.Equal(t, "TRX-9", got.Reference)
	assert.True(t, got.PaidAt.Equal(paidAt))
	require.NotNil(t, got.ContractNumber)
	assert.Equal(t, f.contract.ID, *got.ContractNumber)
	assert.Equal(t, domain.EntryTypeReceipt, got.EntryType)

	zero := decimal.Zero
	_, err = f.svc.Update(ctx, domain.UpdateEntryRequest{ID: entry.ID.String(), Amount: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.svc.Create(ctx, domain.CreateEntryRequest{CustomerName: "Oasis Dates", Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, entry.ID.String()))
	assert.ErrorIs(t, f.svc.Delete(ctx, entry.ID.String()), domain.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, "nope"), domain.ErrInvalidID)
}

func TestListByCustomerFallsBackToName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateEntryRequest{CustomerName: "Oasis Dates", Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.svc.Create(ctx, domain.CreateEntryRequest{CustomerName: "Old Oasis Dates Branch", Amount: decimal.NewFromInt(20)})
	require.NoError(t, err)

	byID, err := f.svc.ListByCustomer(ctx, domain.ListByCustomerRequest{CustomerID: "500", CustomerName: "oasis"})
	require.NoError(t, err)
	assert.Len(t, byID, 1)

	byName, err := f.svc.ListByCustomer(ctx, domain.ListByCustomerRequest{CustomerID: "404", CustomerName: "oasis"})
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	_, err = f.svc.ListByCustomer(ctx, domain.ListByCustomerRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidCustomer)
}

func TestListByCustomerNameMatchesWildcardsLiterally(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Cafe 50% Off", "Cafe 500 Off", "North_Gate", "NorthXGate"} {
		_, err := f.svc.Create(ctx, domain.CreateEntryRequest{CustomerName: name, Amount: decimal.NewFromInt(10)})
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}

	percent, err := f.svc.ListByCustomer(ctx, domain.ListByCustomerRequest{CustomerName: "50%"})
	require.NoError(t, err)
	require.Len(t, percent, 1)
	assert.Equal(t, "Cafe 50% Off", percent[0].CustomerName)

	underscore, err := f.svc.ListByCustomer(ctx, domain.ListByCustomerRequest{CustomerName: "north_gate"})
	require.NoError(t, err)
	require.Len(t, underscore, 1)
	assert.Equal(t, "North_Gate", underscore[0].CustomerName)
}
