package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type CreateContractRequest struct {
	CustomerID   string
	CustomerName string
	AdType       string
	StartDate    *time.Time
	// EndDate may be omitted when Months is set.
	EndDate      *time.Time
	Months       int
	BillboardIDs []snowflake.ID
	// Category overrides the customer's pricing category for the quote.
	Category string
	// RentCost overrides the quoted cost.
	RentCost *decimal.Decimal
}

type UpdateContractRequest struct {
	ID        string
	AdType    *string
	StartDate *time.Time
	EndDate   *time.Time
	RentCost  *decimal.Decimal
}

type RenewContractRequest struct {
	ID        string
	StartDate *time.Time
	EndDate   *time.Time
	KeepCost  bool
	Category  string
}

// ImportContractRequest carries a legacy record. Dates may be missing and the
// cost is taken as recorded.
type ImportContractRequest struct {
	// Number keeps the legacy contract number when it is numeric.
	Number       *snowflake.ID
	CustomerID   string
	CustomerName string
	AdType       string
	StartDate    *time.Time
	EndDate      *time.Time
	RentCost     decimal.Decimal
	BillboardIDs []snowflake.ID
}

type ListContractRequest struct {
	// Query matches customer name, ad type or contract number.
	Query        string
	Status       string
	CustomerID   string
	CustomerName string
}

type Service interface {
	Create(ctx context.Context, req CreateContractRequest) (View, error)
	Get(ctx context.Context, id string) (View, error)
	List(ctx context.Context, req ListContractRequest) ([]View, error)
	Stats(ctx context.Context) (Stats, error)
	Update(ctx context.Context, req UpdateContractRequest) (View, error)
	Renew(ctx context.Context, req RenewContractRequest) (View, error)
	ImportMany(ctx context.Context, reqs []ImportContractRequest) ([]Contract, error)
}

var (
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidCustomer     = errors.New("invalid_customer")
	ErrInvalidStartDate    = errors.New("invalid_start_date")
	ErrInvalidEndDate      = errors.New("invalid_end_date")
	ErrInvalidMonths       = errors.New("invalid_months")
	ErrInvalidBillboards   = errors.New("invalid_billboards")
	ErrInvalidRentCost     = errors.New("invalid_rent_cost")
	ErrInvalidStatusFilter = errors.New("invalid_status")
	ErrNotFound            = errors.New("not_found")
)
