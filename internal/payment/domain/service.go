package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type CreateEntryRequest struct {
	CustomerID     string
	CustomerName   string
	ContractNumber string
	Amount         decimal.Decimal
	Method         string
	Reference      string
	Notes          string
	// PaidAt defaults to today.
	PaidAt *time.Time
	// EntryType defaults to receipt with a contract, account_payment without.
	EntryType string
}

// UpdateEntryRequest patches the mutable fields of an entry. Nil fields are
// left unchanged.
type UpdateEntryRequest struct {
	ID        string
	Amount    *decimal.Decimal
	Method    *string
	Reference *string
	Notes     *string
	PaidAt    *time.Time
}

type ListByCustomerRequest struct {
	CustomerID   string
	CustomerName string
}

type Service interface {
	Create(ctx context.Context, req CreateEntryRequest) (Entry, error)
	CreateMany(ctx context.Context, reqs []CreateEntryRequest) ([]Entry, error)
	Update(ctx context.Context, req UpdateEntryRequest) (Entry, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (Entry, error)
	// ListByCustomer matches by customer id and falls back to the name only
	// when the id yields no entries.
	ListByCustomer(ctx context.Context, req ListByCustomerRequest) ([]Entry, error)
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidEntryType = errors.New("invalid_entry_type")
	ErrInvalidCustomer  = errors.New("invalid_customer")
	ErrInvalidContract  = errors.New("invalid_contract_number")
	ErrNotFound         = errors.New("not_found")
)
