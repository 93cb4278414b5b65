package domain

import (
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type RenewalOptions struct {
	// StartDate defaults to today.
	StartDate *time.Time
	// EndDate defaults to StartDate plus the inferred number of months.
	EndDate  *time.Time
	KeepCost bool
}

// RenewalPlan is the draft of a renewed contract. RentCost is only set when
// the source cost is kept; otherwise the caller re-quotes for Months.
type RenewalPlan struct {
	SourceID     snowflake.ID
	StartDate    time.Time
	EndDate      time.Time
	Months       int
	BillboardIDs []snowflake.ID
	RentCost     *decimal.Decimal
}

// InferMonths derives a whole number of months from a date span, rounding
// to the nearest 30-day block. Missing dates yield one month.
func InferMonths(start, end *time.Time) int {
	if start == nil || end == nil {
		return 1
	}
	diff := Day(*end).Sub(Day(*start))
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(diff.Hours() / 24))
	if days < 1 {
		days = 1
	}
	months := int(math.Floor(float64(days)/30 + 0.5))
	if months < 1 {
		months = 1
	}
	return months
}

// PlanRenewal builds the renewal draft for source, carrying its billboards
// over unchanged.
func PlanRenewal(source Contract, today time.Time, opts RenewalOptions) (RenewalPlan, error) {
	months := InferMonths(source.StartDate, source.EndDate)

	start := Day(today)
	if opts.StartDate != nil {
		start = Day(*opts.StartDate)
	}
	end := start.AddDate(0, months, 0)
	if opts.EndDate != nil {
		end = Day(*opts.EndDate)
		if end.Before(start) {
			return RenewalPlan{}, ErrInvalidEndDate
		}
		months = InferMonths(&start, &end)
	}

	plan := RenewalPlan{
		SourceID:     source.ID,
		StartDate:    start,
		EndDate:      end,
		Months:       months,
		BillboardIDs: append([]snowflake.ID(nil), source.BillboardIDs...),
	}
	if opts.KeepCost {
		cost := source.RentCost
		plan.RentCost = &cost
	}
	return plan, nil
}
