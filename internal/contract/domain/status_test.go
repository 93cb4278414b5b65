package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestClassify(t *testing.T) {
	start := datePtr(2024, 1, 1)
	end := datePtr(2024, 6, 30)

	cases := []struct {
		name  string
		start *time.Time
		end   *time.Time
		today time.Time
		want  Status
	}{
		{"missing start", nil, end, date(2024, 3, 1), StatusUndefined},
		{"missing end", start, nil, date(2024, 3, 1), StatusUndefined},
		{"before start", start, end, date(2023, 12, 31), StatusUpcoming},
		{"on start", start, end, date(2024, 1, 1), StatusActive},
		{"mid range", start, end, date(2024, 3, 1), StatusActive},
		{"31 days left", start, end, date(2024, 5, 30), StatusActive},
		{"30 days left", start, end, date(2024, 5, 31), StatusExpiringSoon},
		{"on end", start, end, date(2024, 6, 30), StatusExpiringSoon},
		{"day after end", start, end, date(2024, 7, 1), StatusExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.start, tc.end, tc.today))
		})
	}
}

func TestClassifyShortContractMidMonth(t *testing.T) {
	today := date(2024, 1, 15)
	got := Classify(datePtr(2024, 1, 1), datePtr(2024, 1, 31), today)
	assert.Equal(t, StatusExpiringSoon, got)
	assert.Equal(t, 16, DaysRemaining(date(2024, 1, 31), today))
}

func TestClassifyIgnoresTimeOfDay(t *testing.T) {
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	lateOnEndDay := time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, StatusExpiringSoon, Classify(datePtr(2024, 1, 1), &end, lateOnEndDay))
	assert.Equal(t, 0, DaysRemaining(end, lateOnEndDay))
}

func TestClassifyIsTotal(t *testing.T) {
	start := datePtr(2024, 2, 10)
	end := datePtr(2024, 4, 20)
	for d := date(2024, 1, 1); d.Before(date(2024, 6, 1)); d = d.AddDate(0, 0, 1) {
		got := Classify(start, end, d)
		assert.Contains(t, []Status{StatusUpcoming, StatusActive, StatusExpiringSoon, StatusExpired}, got, d.String())
	}
}

func TestMatchesFilterAndStats(t *testing.T) {
	today := date(2024, 3, 1)
	contracts := []Contract{
		{StartDate: datePtr(2024, 1, 1), EndDate: datePtr(2024, 12, 31)}, // active
		{StartDate: datePtr(2024, 2, 1), EndDate: datePtr(2024, 3, 15)},  // expiring
		{StartDate: datePtr(2024, 2, 1), EndDate: datePtr(2024, 3, 1)},   // last day
		{StartDate: datePtr(2023, 1, 1), EndDate: datePtr(2023, 12, 31)}, // expired
		{StartDate: datePtr(2024, 4, 1), EndDate: datePtr(2024, 5, 1)},   // upcoming
		{},
	}

	count := func(f StatusFilter) int {
		n := 0
		for _, c := range contracts {
			if MatchesFilter(c, f, today) {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 6, count(FilterAll))
	assert.Equal(t, 3, count(FilterActive))
	assert.Equal(t, 1, count(FilterExpiring))
	assert.Equal(t, 1, count(FilterExpired))
	assert.Equal(t, 1, count(FilterUpcoming))

	assert.Equal(t, Stats{Total: 6, Active: 3, Expiring: 1, Expired: 1}, ComputeStats(contracts, today))
}

func TestParseStatusFilter(t *testing.T) {
	f, err := ParseStatusFilter("")
	assert.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseStatusFilter(" Expiring ")
	assert.NoError(t, err)
	assert.Equal(t, FilterExpiring, f)

	_, err = ParseStatusFilter("paused")
	assert.ErrorIs(t, err, ErrInvalidStatusFilter)
}
