package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

var digitReplacer = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"٫", ".",
)

// Number parses a loosely formatted amount such as "4,500 د.ل" or "١٢٠٠".
// Everything except digits, the decimal point and a leading minus is
// dropped. ok is false when nothing numeric remains.
func Number(raw string) (decimal.Decimal, bool) {
	value := digitReplacer.Replace(strings.TrimSpace(raw))

	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	cleaned := strings.Trim(b.String(), ".")
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, false
	}
	if strings.Count(cleaned, ".") > 1 {
		// 1.500.000 style grouping.
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// NumberOrZero is Number with missing values coerced to zero.
func NumberOrZero(raw string) decimal.Decimal {
	d, _ := Number(raw)
	return d
}

// Int parses a whole number, truncating any fraction.
func Int(raw string) (int, bool) {
	d, ok := Number(raw)
	if !ok {
		return 0, false
	}
	return int(d.IntPart()), true
}
