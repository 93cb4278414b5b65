package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/billboards/internal/config"
	ratecarddomain "github.com/smallbiznis/billboards/internal/ratecard/domain"
	"gorm.io/gorm"
)

// EnsureRateCard loads the configured seed entries when the rate card is
// empty. An existing rate card is never touched. It returns the number of
// entries written.
func EnsureRateCard(db *gorm.DB, node *snowflake.Node, seeds []config.RateCardSeed) (int, error) {
	if db == nil {
		return 0, errors.New("seed database handle is required")
	}
	if len(seeds) == 0 {
		return 0, nil
	}

	ctx := context.Background()
	written := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&ratecarddomain.RateCardEntry{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		entries := make([]ratecarddomain.RateCardEntry, 0, len(seeds))
		for _, seed := range seeds {
			category, err := ratecarddomain.ParseCategory(seed.Category)
			if err != nil {
				return err
			}
			entries = append(entries, ratecarddomain.RateCardEntry{
				ID:        node.Generate(),
				Size:      strings.TrimSpace(seed.Size),
				Level:     strings.TrimSpace(seed.Level),
				Category:  category,
				Months:    seed.Months,
				Price:     decimal.NewFromFloat(seed.Price).Round(2),
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		if err := tx.Create(&entries).Error; err != nil {
			return err
		}
		written = len(entries)
		return nil
	})
	return written, err
}
