package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, db *gorm.DB) ([]RateCardEntry, error)
	Upsert(ctx context.Context, db *gorm.DB, entry *RateCardEntry) error
	FindByKey(ctx context.Context, db *gorm.DB, key Key) (*RateCardEntry, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
