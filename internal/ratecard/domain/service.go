package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type UpsertEntryRequest struct {
	Size     string
	Level    string
	Category string
	Months   int
	Price    decimal.Decimal
}

type ResolveRequest struct {
	Size     string
	Level    string
	Category string
	Months   int
}

type Service interface {
	List(ctx context.Context) ([]RateCardEntry, error)
	Upsert(ctx context.Context, req UpsertEntryRequest) (RateCardEntry, error)
	Delete(ctx context.Context, id string) error
	// Snapshot returns the current rate card, served from cache when warm.
	Snapshot(ctx context.Context) (*RateCard, error)
	Resolve(ctx context.Context, req ResolveRequest) (decimal.Decimal, error)
}

var (
	ErrInvalidSize     = errors.New("invalid_size")
	ErrInvalidLevel    = errors.New("invalid_level")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidMonths   = errors.New("invalid_months")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)
