package domain

import (
	"strings"
	"time"
)

type Status string

const (
	StatusUndefined    Status = "undefined"
	StatusUpcoming     Status = "upcoming"
	StatusActive       Status = "active"
	StatusExpiringSoon Status = "expiring_soon"
	StatusExpired      Status = "expired"
)

// ExpiringWindowDays is how close to its end an in-range contract must be
// to count as expiring soon.
const ExpiringWindowDays = 30

// StatusFilter selects contracts in list views.
type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterActive   StatusFilter = "active"
	FilterExpiring StatusFilter = "expiring"
	FilterExpired  StatusFilter = "expired"
	FilterUpcoming StatusFilter = "upcoming"
)

func ParseStatusFilter(raw string) (StatusFilter, error) {
	value := StatusFilter(strings.ToLower(strings.TrimSpace(raw)))
	switch value {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterExpiring, FilterExpired, FilterUpcoming:
		return value, nil
	}
	return "", ErrInvalidStatusFilter
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysRemaining counts calendar days from today until end. It is negative
// once end has passed and zero on the end day itself.
func DaysRemaining(end, today time.Time) int {
	return int(Day(end).Sub(Day(today)).Hours() / 24)
}

// Classify maps a date range and today onto exactly one status. Both
// bounds are inclusive and compared by calendar date only.
func Classify(start, end *time.Time, today time.Time) Status {
	if start == nil || end == nil {
		return StatusUndefined
	}
	t := Day(today)
	switch {
	case t.Before(Day(*start)):
		return StatusUpcoming
	case t.After(Day(*end)):
		return StatusExpired
	case DaysRemaining(*end, t) > ExpiringWindowDays:
		return StatusActive
	default:
		return StatusExpiringSoon
	}
}

// MatchesFilter reports whether c belongs in a list filtered by f. Contracts
// without dates only appear under FilterAll. "active" covers the whole
// in-range period, "expiring" excludes the end day itself.
func MatchesFilter(c Contract, f StatusFilter, today time.Time) bool {
	if f == FilterAll || f == "" {
		return true
	}
	status := Classify(c.StartDate, c.EndDate, today)
	switch f {
	case FilterActive:
		return status == StatusActive || status == StatusExpiringSoon
	case FilterExpiring:
		return status == StatusExpiringSoon && DaysRemaining(*c.EndDate, today) > 0
	case FilterExpired:
		return status == StatusExpired
	case FilterUpcoming:
		return status == StatusUpcoming
	}
	return false
}

type Stats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Expiring int `json:"expiring"`
	Expired  int `json:"expired"`
}

// ComputeStats counts contracts per filter bucket. Active includes expiring
// contracts, so the buckets overlap.
func ComputeStats(contracts []Contract, today time.Time) Stats {
	stats := Stats{Total: len(contracts)}
	for _, c := range contracts {
		if MatchesFilter(c, FilterActive, today) {
			stats.Active++
		}
		if MatchesFilter(c, FilterExpiring, today) {
			stats.Expiring++
		}
		if MatchesFilter(c, FilterExpired, today) {
			stats.Expired++
		}
	}
	return stats
}
