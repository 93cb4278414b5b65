package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/billboards/internal/customer/domain"
)

// CustomerLookup names a customer by id, by name, or both. The id is tried
// first; the name is used only when the id matches no records.
type CustomerLookup struct {
	ID   string
	Name string
}

type CustomerSummary struct {
	Customer customerdomain.Ref `json:"customer"`
	Summary
}

type CustomInvoiceRequest struct {
	Customer CustomerLookup
	// Items defaults to one line per contract at its rent cost.
	Items                 []InvoiceItem
	IncludeAccountBalance bool
}

type InstallationInvoiceRequest struct {
	Customer CustomerLookup
	Reason   string
	// PricePerUnit defaults to the configured print price.
	PricePerUnit *decimal.Decimal
	// Selections picks contracts to charge; empty selects every active one.
	Selections map[snowflake.ID]InstallationSelection
}

type ReceiptRequest struct {
	Customer       CustomerLookup
	ContractNumber string
	Amount         decimal.Decimal
}

type Service interface {
	Summary(ctx context.Context, lookup CustomerLookup) (CustomerSummary, error)
	Statement(ctx context.Context, lookup CustomerLookup) (Statement, error)
	CustomInvoice(ctx context.Context, req CustomInvoiceRequest) (CustomInvoice, error)
	InstallationInvoice(ctx context.Context, req InstallationInvoiceRequest) (InstallationInvoice, error)
	Receipt(ctx context.Context, req ReceiptRequest) (ReceiptFigures, error)
}

var (
	ErrInvalidCustomer  = errors.New("invalid_customer")
	ErrInvalidContract  = errors.New("invalid_contract_number")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidUnits     = errors.New("invalid_units")
	ErrInvalidUnitPrice = errors.New("invalid_unit_price")
	ErrNoInvoiceItems   = errors.New("invalid_items")
	ErrInactiveContract = errors.New("inactive_contract")
)
