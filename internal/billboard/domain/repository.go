package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, billboard *Billboard) error
	BatchInsert(ctx context.Context, db *gorm.DB, billboards []*Billboard) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Billboard, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Billboard, error)
	List(ctx context.Context, db *gorm.DB, filter ListBillboardFilter) ([]Billboard, error)
}
