package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type QuoteRequest struct {
	BillboardIDs []snowflake.ID
	// Category may be empty; the configured default category applies then.
	Category string
	Months   int
}

type Service interface {
	Quote(ctx context.Context, req QuoteRequest) (Quote, error)
}

var ErrInvalidBillboards = errors.New("invalid_billboards")
