package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type EntryType string

const (
	EntryTypeInvoice        EntryType = "invoice"
	EntryTypeReceipt        EntryType = "receipt"
	EntryTypeDebt           EntryType = "debt"
	EntryTypeAccountPayment EntryType = "account_payment"
)

// MethodPreviousDebt marks debt carried over from before the ledger existed.
const MethodPreviousDebt = "previous_debt"

func ParseEntryType(raw string) (EntryType, error) {
	value := EntryType(strings.ToLower(strings.TrimSpace(raw)))
	switch value {
	case EntryTypeInvoice, EntryTypeReceipt, EntryTypeDebt, EntryTypeAccountPayment:
		return value, nil
	}
	return "", ErrInvalidEntryType
}

// Entry is one ledger record for a customer. A nil ContractNumber means the
// entry is not tied to any contract.
type Entry struct {
	ID             snowflake.ID    `gorm:"primaryKey" json:"id"`
	CustomerID     *snowflake.ID   `gorm:"index" json:"customer_id,omitempty"`
	CustomerName   string          `gorm:"type:varchar(255);not null;index" json:"customer_name"`
	ContractNumber *snowflake.ID   `gorm:"column:contract_number;index" json:"contract_number"`
	Amount         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Method         string          `gorm:"type:varchar(64)" json:"method"`
	Reference      string          `gorm:"type:varchar(255)" json:"reference"`
	Notes          string          `gorm:"type:text" json:"notes"`
	PaidAt         time.Time       `gorm:"type:date;not null" json:"paid_at"`
	EntryType      EntryType       `gorm:"type:varchar(32);not null" json:"entry_type"`
	CreatedAt      time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null" json:"updated_at"`
}

func (Entry) TableName() string { return "payment_entries" }

// IsAccountLevel reports whether the entry belongs to the customer's general
// account rather than to a single contract.
func (e Entry) IsAccountLevel() bool {
	return e.ContractNumber == nil || e.EntryType == EntryTypeAccountPayment
}
