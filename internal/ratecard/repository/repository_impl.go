package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/billboards/internal/ratecard/domain"
	"github.com/smallbiznis/billboards/pkg/db/option"
	"github.com/smallbiznis/billboards/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func entries(db *gorm.DB) repository.Table[domain.RateCardEntry] {
	return repository.On[domain.RateCardEntry](db)
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.RateCardEntry, error) {
	return entries(db).List(ctx, option.WithOrder("size asc, level asc, category asc, months asc"))
}

// Upsert replaces the price of an existing (size, level, category, months)
// cell or inserts a new one.
func (r *repo) Upsert(ctx context.Context, db *gorm.DB, entry *domain.RateCardEntry) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "size"},
			{Name: "level"},
			{Name: "category"},
			{Name: "months"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
	}).Create(entry).Error
}

func (r *repo) FindByKey(ctx context.Context, db *gorm.DB, key domain.Key) (*domain.RateCardEntry, error) {
	return entries(db).First(ctx, option.WithWhere(
		"size = ? AND level = ? AND category = ? AND months = ?",
		key.Size, key.Level, key.Category, key.Months,
	))
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	return entries(db).DeleteByID(ctx, id)
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	return entries(db).Count(ctx)
}
