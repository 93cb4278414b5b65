package domain

import (
	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/smallbiznis/billboards/internal/payment/domain"
)

// Ledger partitions a customer's entries. Every entry lands in exactly one
// of the two groups.
type Ledger struct {
	ByContract   map[snowflake.ID][]paymentdomain.Entry `json:"by_contract"`
	AccountLevel []paymentdomain.Entry                  `json:"account_level"`
}

// Group splits entries into contract-level and account-level records,
// preserving their order within each group.
func Group(entries []paymentdomain.Entry) Ledger {
	ledger := Ledger{
		ByContract:   make(map[snowflake.ID][]paymentdomain.Entry),
		AccountLevel: []paymentdomain.Entry{},
	}
	for _, e := range entries {
		if e.IsAccountLevel() {
			ledger.AccountLevel = append(ledger.AccountLevel, e)
			continue
		}
		number := *e.ContractNumber
		ledger.ByContract[number] = append(ledger.ByContract[number], e)
	}
	return ledger
}
