package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Key identifies one rate card cell.
type Key struct {
	Size     string
	Level    string
	Category Category
	Months   int
}

func NewKey(size, level string, category Category, months int) Key {
	return Key{
		Size:     strings.TrimSpace(size),
		Level:    strings.TrimSpace(level),
		Category: category,
		Months:   months,
	}
}

// RateCard is an immutable lookup table built from stored entries.
type RateCard struct {
	prices map[Key]decimal.Decimal
}

func NewRateCard(entries []RateCardEntry) *RateCard {
	prices := make(map[Key]decimal.Decimal, len(entries))
	for _, e := range entries {
		prices[NewKey(e.Size, e.Level, e.Category, e.Months)] = e.Price
	}
	return &RateCard{prices: prices}
}

// Lookup returns the stored price for an exact match or ErrNotFound.
func (rc *RateCard) Lookup(size, level string, category Category, months int) (decimal.Decimal, error) {
	if months <= 0 {
		return decimal.Zero, ErrInvalidMonths
	}
	if rc == nil {
		return decimal.Zero, ErrNotFound
	}
	price, ok := rc.prices[NewKey(size, level, category, months)]
	if !ok {
		return decimal.Zero, ErrNotFound
	}
	return price, nil
}

func (rc *RateCard) Len() int {
	if rc == nil {
		return 0
	}
	return len(rc.prices)
}
