package domain

import (
	"slices"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	contractdomain "github.com/smallbiznis/billboards/internal/contract/domain"
	customerdomain "github.com/smallbiznis/billboards/internal/customer/domain"
	paymentdomain "github.com/smallbiznis/billboards/internal/payment/domain"
)

type Statement struct {
	Customer customerdomain.Ref    `json:"customer"`
	Entries  []paymentdomain.Entry `json:"entries"`
	Summary  Summary               `json:"summary"`
}

// SortEntries orders entries by payment date, oldest first.
func SortEntries(entries []paymentdomain.Entry) []paymentdomain.Entry {
	out := append([]paymentdomain.Entry(nil), entries...)
	slices.SortStableFunc(out, func(a, b paymentdomain.Entry) int {
		if c := a.PaidAt.Compare(b.PaidAt); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}

type InvoiceItem struct {
	ContractNumber *snowflake.ID   `json:"contract_number,omitempty"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Total          decimal.Decimal `json:"total"`
}

type CustomInvoice struct {
	Customer       customerdomain.Ref `json:"customer"`
	IssuedAt       time.Time          `json:"issued_at"`
	Items          []InvoiceItem      `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	AccountBalance decimal.Decimal    `json:"account_balance"`
	Total          decimal.Decimal    `json:"total"`
}

// DefaultInvoiceItems bills each contract once at its rent cost.
func DefaultInvoiceItems(contracts []contractdomain.Contract) []InvoiceItem {
	items := make([]InvoiceItem, 0, len(contracts))
	for _, c := range contracts {
		number := c.ID
		items = append(items, InvoiceItem{
			ContractNumber: &number,
			Description:    c.AdType,
			Quantity:       decimal.NewFromInt(1),
			UnitPrice:      c.RentCost,
		})
	}
	return items
}

// BuildCustomInvoice prices items with a positive quantity and optionally
// adds the account balance on top.
func BuildCustomInvoice(items []InvoiceItem, includeAccountBalance bool, accountBalance decimal.Decimal) (CustomInvoice, error) {
	invoice := CustomInvoice{
		Items:          make([]InvoiceItem, 0, len(items)),
		Subtotal:       decimal.Zero,
		AccountBalance: decimal.Zero,
	}
	for _, item := range items {
		if !item.Quantity.IsPositive() {
			continue
		}
		if item.UnitPrice.IsNegative() {
			return CustomInvoice{}, ErrInvalidUnitPrice
		}
		item.Total = item.Quantity.Mul(item.UnitPrice).Round(2)
		invoice.Items = append(invoice.Items, item)
		invoice.Subtotal = invoice.Subtotal.Add(item.Total)
	}
	if len(invoice.Items) == 0 {
		return CustomInvoice{}, ErrNoInvoiceItems
	}
	if includeAccountBalance {
		invoice.AccountBalance = accountBalance
	}
	invoice.Total = invoice.Subtotal.Add(invoice.AccountBalance)
	return invoice, nil
}

type InstallationItem struct {
	ContractNumber snowflake.ID    `json:"contract_number"`
	AdType         string          `json:"ad_type"`
	Selected       bool            `json:"selected"`
	Units          int             `json:"units"`
	PricePerUnit   decimal.Decimal `json:"price_per_unit"`
	Total          decimal.Decimal `json:"total"`
}

type InstallationInvoice struct {
	Customer customerdomain.Ref `json:"customer"`
	IssuedAt time.Time          `json:"issued_at"`
	Reason   string             `json:"reason"`
	Items    []InstallationItem `json:"items"`
	Total    decimal.Decimal    `json:"total"`
}

// InstallationSelection overrides the defaults of one contract's line.
type InstallationSelection struct {
	Units        *int
	PricePerUnit *decimal.Decimal
}

// ActiveContracts returns the contracts in range on today. Contracts with a
// missing date are kept since they cannot be ruled out.
func ActiveContracts(contracts []contractdomain.Contract, today time.Time) []contractdomain.Contract {
	out := make([]contractdomain.Contract, 0, len(contracts))
	for _, c := range contracts {
		if c.StartDate == nil || c.EndDate == nil || contractdomain.MatchesFilter(c, contractdomain.FilterActive, today) {
			out = append(out, c)
		}
	}
	return out
}

// BuildInstallationInvoice lists every active contract and charges only the
// selected ones at units × price per unit. An empty selection selects all.
func BuildInstallationInvoice(contracts []contractdomain.Contract, today time.Time, defaultPrice decimal.Decimal, selections map[snowflake.ID]InstallationSelection) (InstallationInvoice, error) {
	active := ActiveContracts(contracts, today)
	invoice := InstallationInvoice{
		Items: make([]InstallationItem, 0, len(active)),
		Total: decimal.Zero,
	}
	for _, c := range active {
		units := len(c.BillboardIDs)
		if units == 0 {
			units = 1
		}
		item := InstallationItem{
			ContractNumber: c.ID,
			AdType:         c.AdType,
			Units:          units,
			PricePerUnit:   defaultPrice,
			Total:          decimal.Zero,
		}
		sel, ok := selections[c.ID]
		if len(selections) == 0 || ok {
			item.Selected = true
		}
		if sel.Units != nil {
			if *sel.Units <= 0 {
				return InstallationInvoice{}, ErrInvalidUnits
			}
			item.Units = *sel.Units
		}
		if sel.PricePerUnit != nil {
			if sel.PricePerUnit.IsNegative() {
				return InstallationInvoice{}, ErrInvalidUnitPrice
			}
			item.PricePerUnit = *sel.PricePerUnit
		}
		if item.Selected {
			item.Total = decimal.NewFromInt(int64(item.Units)).Mul(item.PricePerUnit).Round(2)
			invoice.Total = invoice.Total.Add(item.Total)
		}
		invoice.Items = append(invoice.Items, item)
	}
	for number := range selections {
		if !slices.ContainsFunc(active, func(c contractdomain.Contract) bool { return c.ID == number }) {
			return InstallationInvoice{}, ErrInactiveContract
		}
	}
	return invoice, nil
}

type ReceiptFigures struct {
	ContractNumber *snowflake.ID   `json:"contract_number,omitempty"`
	Balance        decimal.Decimal `json:"balance"`
	Amount         decimal.Decimal `json:"amount"`
	RemainingAfter decimal.Decimal `json:"remaining_after"`
}
