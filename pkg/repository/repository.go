// Package repository holds the generic gorm plumbing shared by the domain
// repositories. Handles are bound per call so the same helper runs inside
// and outside a transaction.
package repository

import (
	"context"

	"github.com/smallbiznis/billboards/pkg/db/option"
	"gorm.io/gorm"
)

// Table is a typed view over the table backing model T.
type Table[T any] struct {
	db *gorm.DB
}

func On[T any](db *gorm.DB) Table[T] {
	return Table[T]{db: db}
}

func (t Table[T]) query(ctx context.Context, opts []option.QueryOption) *gorm.DB {
	stmt := t.db.WithContext(ctx).Model(new(T))
	for _, opt := range opts {
		stmt = opt.Apply(stmt)
	}
	return stmt
}

// List returns every row matching opts. It never returns a nil slice.
func (t Table[T]) List(ctx context.Context, opts ...option.QueryOption) ([]T, error) {
	items := []T{}
	if err := t.query(ctx, opts).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// First returns the first row matching opts, or nil when none does.
func (t Table[T]) First(ctx context.Context, opts ...option.QueryOption) (*T, error) {
	var items []T
	if err := t.query(ctx, opts).Limit(1).Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (t Table[T]) Count(ctx context.Context, opts ...option.QueryOption) (int64, error) {
	var n int64
	err := t.query(ctx, opts).Count(&n).Error
	return n, err
}

// CreateInBatches inserts rows in chunks of size. Empty input is a no-op.
func (t Table[T]) CreateInBatches(ctx context.Context, rows []*T, size int) error {
	if len(rows) == 0 {
		return nil
	}
	return t.db.WithContext(ctx).CreateInBatches(rows, size).Error
}

// DeleteByID reports whether a row was removed.
func (t Table[T]) DeleteByID(ctx context.Context, id any) (bool, error) {
	res := t.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
