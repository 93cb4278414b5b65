package normalize

import (
	"strings"

	paymentdomain "github.com/smallbiznis/billboards/internal/payment/domain"
	ratecarddomain "github.com/smallbiznis/billboards/internal/ratecard/domain"
)

var categoryAliases = map[string]ratecarddomain.Category{
	"عادي":    ratecarddomain.CategoryRegular,
	"المدينة": ratecarddomain.CategoryMunicipality,
	"مسوق":    ratecarddomain.CategoryMarketer,
	"شركات":   ratecarddomain.CategoryCorporate,
	"city":    ratecarddomain.CategoryMunicipality,
}

// Category maps canonical and Arabic category names.
func Category(raw string) (ratecarddomain.Category, bool) {
	value := strings.TrimSpace(raw)
	if c, ok := categoryAliases[value]; ok {
		return c, true
	}
	if c, ok := categoryAliases[strings.ToLower(value)]; ok {
		return c, true
	}
	c, err := ratecarddomain.ParseCategory(value)
	return c, err == nil
}

var entryTypeAliases = map[string]paymentdomain.EntryType{
	"فاتورة":    paymentdomain.EntryTypeInvoice,
	"إيصال":     paymentdomain.EntryTypeReceipt,
	"ايصال":     paymentdomain.EntryTypeReceipt,
	"دين":       paymentdomain.EntryTypeDebt,
	"دين سابق":  paymentdomain.EntryTypeDebt,
	"دفعة حساب": paymentdomain.EntryTypeAccountPayment,
	"payment":   paymentdomain.EntryTypeReceipt,
}

// EntryType maps canonical and Arabic entry type names. An empty value is
// reported as not ok so the caller can apply its default.
func EntryType(raw string) (paymentdomain.EntryType, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", false
	}
	if t, ok := entryTypeAliases[value]; ok {
		return t, true
	}
	if t, ok := entryTypeAliases[strings.ToLower(value)]; ok {
		return t, true
	}
	t, err := paymentdomain.ParseEntryType(strings.ReplaceAll(value, " ", "_"))
	return t, err == nil
}
