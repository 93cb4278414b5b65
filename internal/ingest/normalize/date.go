package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02.01.2006",
}

// Excel stores dates as days since 1899-12-30; anything outside this range
// is not a plausible rental date.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// Date parses ISO dates, day-first dates and Excel serial numbers. The
// result is truncated to midnight UTC.
func Date(raw string) (time.Time, bool) {
	value := digitReplacer.Replace(strings.TrimSpace(raw))
	if value == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial < minExcelSerial || serial > maxExcelSerial {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return day(t), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return day(t), true
		}
	}
	return time.Time{}, false
}

// DatePtr is Date returning nil for unparseable input.
func DatePtr(raw string) *time.Time {
	t, ok := Date(raw)
	if !ok {
		return nil
	}
	return &t
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
