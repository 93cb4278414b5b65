package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type CreateBillboardRequest struct {
	Name         string
	Size         string
	Level        string
	MonthlyPrice decimal.Decimal
	Municipality string
	District     string
	Landmark     string
	Faces        int
	Coordinates  string
	ImageURL     string
	Metadata     map[string]any
}

type ListBillboardRequest struct {
	Size         string
	Level        string
	Municipality string
	Query        string
}

type ListBillboardFilter struct {
	Size         string
	Level        string
	Municipality string
	Query        string
}

type Service interface {
	Create(ctx context.Context, req CreateBillboardRequest) (Billboard, error)
	CreateMany(ctx context.Context, reqs []CreateBillboardRequest) ([]Billboard, error)
	Get(ctx context.Context, id string) (Billboard, error)
	// GetMany returns billboards in the order of ids and fails if any is missing.
	GetMany(ctx context.Context, ids []snowflake.ID) ([]Billboard, error)
	List(ctx context.Context, req ListBillboardRequest) ([]Billboard, error)
}

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidSize         = errors.New("invalid_size")
	ErrInvalidLevel        = errors.New("invalid_level")
	ErrInvalidMonthlyPrice = errors.New("invalid_monthly_price")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
