package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/billboards/internal/contract/domain"
	"github.com/smallbiznis/billboards/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, contract *domain.Contract) error {
	return db.WithContext(ctx).Create(contract).Error
}

func (r *repo) BatchInsert(ctx context.Context, db *gorm.DB, contracts []*domain.Contract) error {
	if len(contracts) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(contracts, 200).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, contract *domain.Contract) error {
	return db.WithContext(ctx).
		Model(&domain.Contract{}).
		Where("id = ?", contract.ID).
		Updates(map[string]any{
			"ad_type":    contract.AdType,
			"start_date": contract.StartDate,
			"end_date":   contract.EndDate,
			"rent_cost":  contract.RentCost,
			"updated_at": contract.UpdatedAt,
		}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Contract, error) {
	var contracts []domain.Contract
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	if len(contracts) == 0 {
		return nil, nil
	}
	return &contracts[0], nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListContractFilter) ([]domain.Contract, error) {
	var contracts []domain.Contract
	stmt := db.WithContext(ctx).Model(&domain.Contract{})
	if filter.CustomerID != nil {
		stmt = stmt.Where("customer_id = ?", *filter.CustomerID)
	}
	if name := strings.TrimSpace(filter.CustomerName); name != "" {
		stmt = stmt.Where("LOWER(customer_name) LIKE ? ESCAPE '!'", option.ContainsPattern(name))
	}
	if err := stmt.Order("created_at desc, id desc").Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}
