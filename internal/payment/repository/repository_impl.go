package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/billboards/internal/payment/domain"
	"github.com/smallbiznis/billboards/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.Entry) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payment_entries (
			id, customer_id, customer_name, contract_number, amount, method,
			reference, notes, paid_at, entry_type, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.CustomerID,
		entry.CustomerName,
		entry.ContractNumber,
		entry.Amount,
		entry.Method,
		entry.Reference,
		entry.Notes,
		entry.PaidAt,
		entry.EntryType,
		entry.CreatedAt,
		entry.UpdatedAt,
	).Error
}

func (r *repo) BatchInsert(ctx context.Context, db *gorm.DB, entries []*domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(entries, 200).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, entry *domain.Entry) error {
	return db.WithContext(ctx).Exec(
		`UPDATE payment_entries
		 SET amount = ?, method = ?, reference = ?, notes = ?, paid_at = ?, updated_at = ?
		 WHERE id = ?`,
		entry.Amount,
		entry.Method,
		entry.Reference,
		entry.Notes,
		entry.PaidAt,
		entry.UpdatedAt,
		entry.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM payment_entries WHERE id = ?`, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Entry, error) {
	var entries []domain.Entry
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListEntryFilter) ([]domain.Entry, error) {
	var entries []domain.Entry
	stmt := db.WithContext(ctx).Model(&domain.Entry{})
	if filter.CustomerID != nil {
		stmt = stmt.Where("customer_id = ?", *filter.CustomerID)
	}
	if name := strings.TrimSpace(filter.CustomerName); name != "" {
		stmt = stmt.Where("LOWER(customer_name) LIKE ? ESCAPE '!'", option.ContainsPattern(name))
	}
	if filter.ContractNumber != nil {
		stmt = stmt.Where("contract_number = ?", *filter.ContractNumber)
	}
	if err := stmt.Order("paid_at asc, created_at asc, id asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
