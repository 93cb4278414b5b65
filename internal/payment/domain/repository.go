package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListEntryFilter struct {
	CustomerID *snowflake.ID
	// CustomerName matches case-insensitively as a substring.
	CustomerName   string
	ContractNumber *snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *Entry) error
	BatchInsert(ctx context.Context, db *gorm.DB, entries []*Entry) error
	Update(ctx context.Context, db *gorm.DB, entry *Entry) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Entry, error)
	List(ctx context.Context, db *gorm.DB, filter ListEntryFilter) ([]Entry, error)
}
