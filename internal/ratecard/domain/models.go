package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Category is the customer pricing tier selecting a rate card column.
type Category string

const (
	CategoryRegular      Category = "regular"
	CategoryMunicipality Category = "municipality"
	CategoryMarketer     Category = "marketer"
	CategoryCorporate    Category = "corporate"
)

// Categories lists every supported category in display order.
func Categories() []Category {
	return []Category{CategoryRegular, CategoryMunicipality, CategoryMarketer, CategoryCorporate}
}

// ParseCategory accepts the canonical category names, case-insensitively.
func ParseCategory(raw string) (Category, error) {
	value := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, c := range Categories() {
		if c == value {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

type RateCardEntry struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	Size      string          `gorm:"type:varchar(64);not null;uniqueIndex:ux_rate_card_key" json:"size"`
	Level     string          `gorm:"type:varchar(64);not null;uniqueIndex:ux_rate_card_key" json:"level"`
	Category  Category        `gorm:"type:varchar(32);not null;uniqueIndex:ux_rate_card_key" json:"category"`
	Months    int             `gorm:"not null;uniqueIndex:ux_rate_card_key" json:"months"`
	Price     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`
}

func (RateCardEntry) TableName() string { return "rate_card_entries" }
