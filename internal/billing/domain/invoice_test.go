package domain

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	contractdomain "github.com/smallbiznis/billboards/internal/contract/domain"
	paymentdomain "github.com/smallbiznis/billboards/internal/payment/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestSortEntries(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []paymentdomain.Entry{
		{ID: 1, PaidAt: base.AddDate(0, 0, 5), CreatedAt: base},
		{ID: 2, PaidAt: base, CreatedAt: base.Add(time.Hour)},
		{ID: 3, PaidAt: base, CreatedAt: base},
	}
	sorted := SortEntries(entries)
	assert.Equal(t, []snowflake.ID{3, 2, 1}, []snowflake.ID{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	assert.Equal(t, snowflake.ID(1), entries[0].ID, "input is untouched")
}

func TestBuildCustomInvoice(t *testing.T) {
	contracts := []contractdomain.Contract{
		{ID: 10, AdType: "Telecom", RentCost: decimal.NewFromInt(3000)},
		{ID: 11, AdType: "Food", RentCost: decimal.NewFromInt(1500)},
	}
	items := DefaultInvoiceItems(contracts)
	items[1].Quantity = decimal.NewFromInt(2)
	items = append(items, InvoiceItem{Description: "skipped", Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(99)})

	invoice, err := BuildCustomInvoice(items, true, decimal.NewFromInt(250))
	require.NoError(t, err)
	require.Len(t, invoice.Items, 2)
	assert.True(t, invoice.Items[1].Total.Equal(decimal.NewFromInt(3000)))
	assert.True(t, invoice.Subtotal.Equal(decimal.NewFromInt(6000)))
	assert.True(t, invoice.Total.Equal(decimal.NewFromInt(6250)))

	withoutBalance, err := BuildCustomInvoice(items, false, decimal.NewFromInt(250))
	require.NoError(t, err)
	assert.True(t, withoutBalance.Total.Equal(decimal.NewFromInt(6000)))

	_, err = BuildCustomInvoice(nil, false, decimal.Zero)
	assert.ErrorIs(t, err, ErrNoInvoiceItems)
	_, err = BuildCustomInvoice([]InvoiceItem{{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(-1)}}, false, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidUnitPrice)
}

func TestBuildInstallationInvoice(t *testing.T) {
	today := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	contracts := []contractdomain.Contract{
		{ID: 1, AdType: "A", StartDate: day(2024, 1, 1), EndDate: day(2024, 6, 1), BillboardIDs: datatypes.NewJSONSlice([]snowflake.ID{7, 8, 9})},
		{ID: 2, AdType: "B"},
		{ID: 3, AdType: "C", StartDate: day(2023, 1, 1), EndDate: day(2023, 2, 1)},
	}

	all, err := BuildInstallationInvoice(contracts, today, decimal.NewFromInt(40), nil)
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
	assert.Equal(t, 3, all.Items[0].Units)
	assert.Equal(t, 1, all.Items[1].Units)
	assert.True(t, all.Total.Equal(decimal.NewFromInt(160)))

	units := 5
	price := decimal.NewFromInt(10)
	one, err := BuildInstallationInvoice(contracts, today, decimal.NewFromInt(40), map[snowflake.ID]InstallationSelection{
		2: {Units: &units, PricePerUnit: &price},
	})
	require.NoError(t, err)
	assert.False(t, one.Items[0].Selected)
	assert.True(t, one.Items[0].Total.IsZero())
	assert.True(t, one.Items[1].Selected)
	assert.True(t, one.Total.Equal(decimal.NewFromInt(50)))

	_, err = BuildInstallationInvoice(contracts, today, decimal.NewFromInt(40), map[snowflake.ID]InstallationSelection{3: {}})
	assert.ErrorIs(t, err, ErrInactiveContract)

	zero := 0
	_, err = BuildInstallationInvoice(contracts, today, decimal.NewFromInt(40), map[snowflake.ID]InstallationSelection{1: {Units: &zero}})
	assert.ErrorIs(t, err, ErrInvalidUnits)
}
