package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	contractdomain "github.com/smallbiznis/billboards/internal/contract/domain"
	paymentdomain "github.com/smallbiznis/billboards/internal/payment/domain"
)

type ContractBalance struct {
	ContractNumber snowflake.ID    `json:"contract_number"`
	AdType         string          `json:"ad_type"`
	Total          decimal.Decimal `json:"total"`
	Paid           decimal.Decimal `json:"paid"`
	Remaining      decimal.Decimal `json:"remaining"`
}

type Summary struct {
	TotalRent decimal.Decimal `json:"total_rent"`
	// TotalPaid sums every entry, debt included.
	TotalPaid       decimal.Decimal `json:"total_paid"`
	CustomerBalance decimal.Decimal `json:"customer_balance"`
	// AccountBalance is the part of TotalPaid held at account level.
	AccountBalance decimal.Decimal                  `json:"account_balance"`
	PerContract    map[snowflake.ID]ContractBalance `json:"per_contract"`
}

// Calculate derives customer and per-contract balances. Balances are
// clamped at zero.
func Calculate(contracts []contractdomain.Contract, ledger Ledger) Summary {
	summary := Summary{
		TotalRent:      decimal.Zero,
		TotalPaid:      decimal.Zero,
		AccountBalance: sum(ledger.AccountLevel),
		PerContract:    make(map[snowflake.ID]ContractBalance, len(contracts)),
	}

	for _, c := range contracts {
		summary.TotalRent = summary.TotalRent.Add(c.RentCost)
		paid := sum(ledger.ByContract[c.ID])
		summary.PerContract[c.ID] = ContractBalance{
			ContractNumber: c.ID,
			AdType:         c.AdType,
			Total:          c.RentCost,
			Paid:           paid,
			Remaining:      clamp(c.RentCost.Sub(paid)),
		}
	}

	summary.TotalPaid = summary.AccountBalance
	for _, group := range ledger.ByContract {
		summary.TotalPaid = summary.TotalPaid.Add(sum(group))
	}
	summary.CustomerBalance = clamp(summary.TotalRent.Sub(summary.TotalPaid))
	return summary
}

// RemainingAfterPayment is the balance left once amount is applied.
func RemainingAfterPayment(balance, amount decimal.Decimal) decimal.Decimal {
	return clamp(balance.Sub(amount))
}

func sum(entries []paymentdomain.Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}

func clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
