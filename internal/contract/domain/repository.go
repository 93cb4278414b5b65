package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListContractFilter struct {
	CustomerID *snowflake.ID
	// CustomerName matches case-insensitively as a substring.
	CustomerName string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, contract *Contract) error
	BatchInsert(ctx context.Context, db *gorm.DB, contracts []*Contract) error
	Update(ctx context.Context, db *gorm.DB, contract *Contract) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Contract, error)
	List(ctx context.Context, db *gorm.DB, filter ListContractFilter) ([]Contract, error)
}
