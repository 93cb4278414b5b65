package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/billboards/internal/billboard/domain"
	"github.com/smallbiznis/billboards/pkg/db/option"
	"github.com/smallbiznis/billboards/pkg/repository"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, billboard *domain.Billboard) error {
	return db.WithContext(ctx).Create(billboard).Error
}

func (r *repo) BatchInsert(ctx context.Context, db *gorm.DB, billboards []*domain.Billboard) error {
	return repository.On[domain.Billboard](db).CreateInBatches(ctx, billboards, 200)
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Billboard, error) {
	return repository.On[domain.Billboard](db).First(ctx, option.WithWhere("id = ?", id))
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.Billboard, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return repository.On[domain.Billboard](db).List(ctx, option.WithWhere("id IN ?", ids))
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListBillboardFilter) ([]domain.Billboard, error) {
	var items []domain.Billboard
	stmt := db.WithContext(ctx).Model(&domain.Billboard{})
	if filter.Size != "" {
		stmt = stmt.Where("size = ?", filter.Size)
	}
	if filter.Level != "" {
		stmt = stmt.Where("level = ?", filter.Level)
	}
	if filter.Municipality != "" {
		stmt = stmt.Where("LOWER(municipality) = ?", strings.ToLower(filter.Municipality))
	}
	if filter.Query != "" {
		like := option.ContainsPattern(filter.Query)
		stmt = stmt.Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(landmark) LIKE ? ESCAPE '!' OR LOWER(district) LIKE ? ESCAPE '!'", like, like, like)
	}
	err := stmt.Order("name asc, id asc").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
