package domain

import (
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	billboarddomain "github.com/smallbiznis/billboards/internal/billboard/domain"
	ratecarddomain "github.com/smallbiznis/billboards/internal/ratecard/domain"
)

// Source records where a line price came from.
type Source string

const (
	SourceRateCard Source = "rate_card"
	SourceFallback Source = "fallback"
)

type LineItem struct {
	BillboardID  snowflake.ID    `json:"billboard_id"`
	Name         string          `json:"name"`
	Size         string          `json:"size"`
	Level        string          `json:"level"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	Price        decimal.Decimal `json:"price"`
	Source       Source          `json:"source"`
}

type Quote struct {
	Category ratecarddomain.Category `json:"category"`
	Months   int                     `json:"months"`
	Lines    []LineItem              `json:"lines"`
	Total    decimal.Decimal         `json:"total"`
}

// Resolve returns the rate card price for an exact match. A miss is
// reported as ratecard ErrNotFound so callers can fall back per line.
func Resolve(card *ratecarddomain.RateCard, size, level string, category ratecarddomain.Category, months int) (decimal.Decimal, error) {
	return card.Lookup(size, level, category, months)
}

// Fallback extrapolates a standalone monthly price linearly.
func Fallback(monthlyPrice decimal.Decimal, months int) decimal.Decimal {
	return monthlyPrice.Mul(decimal.NewFromInt(int64(months)))
}

// PriceLine prices one billboard, falling back to monthly price × months
// when the rate card has no entry for it.
func PriceLine(card *ratecarddomain.RateCard, billboard billboarddomain.Billboard, category ratecarddomain.Category, months int) (LineItem, error) {
	line := LineItem{
		BillboardID:  billboard.ID,
		Name:         billboard.Name,
		Size:         billboard.Size,
		Level:        billboard.Level,
		MonthlyPrice: billboard.MonthlyPrice,
	}

	price, err := Resolve(card, billboard.Size, billboard.Level, category, months)
	switch {
	case err == nil:
		line.Price = price
		line.Source = SourceRateCard
	case errors.Is(err, ratecarddomain.ErrNotFound):
		line.Price = Fallback(billboard.MonthlyPrice, months)
		line.Source = SourceFallback
	default:
		return LineItem{}, err
	}
	return line, nil
}

// QuoteContract prices every billboard for the same duration and sums the lines.
func QuoteContract(card *ratecarddomain.RateCard, billboards []billboarddomain.Billboard, category ratecarddomain.Category, months int) (Quote, error) {
	if months <= 0 {
		return Quote{}, ratecarddomain.ErrInvalidMonths
	}
	quote := Quote{
		Category: category,
		Months:   months,
		Lines:    make([]LineItem, 0, len(billboards)),
		Total:    decimal.Zero,
	}
	for _, b := range billboards {
		line, err := PriceLine(card, b, category, months)
		if err != nil {
			return Quote{}, err
		}
		quote.Lines = append(quote.Lines, line)
		quote.Total = quote.Total.Add(line.Price)
	}
	return quote, nil
}
