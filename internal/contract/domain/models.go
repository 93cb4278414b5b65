package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	ratecarddomain "github.com/smallbiznis/billboards/internal/ratecard/domain"
	"gorm.io/datatypes"
)

// Contract is a rental of one or more billboards. Its ID doubles as the
// contract number referenced by payment entries.
type Contract struct {
	ID           snowflake.ID                      `gorm:"primaryKey" json:"id"`
	CustomerID   *snowflake.ID                     `gorm:"index" json:"customer_id,omitempty"`
	CustomerName string                            `gorm:"type:varchar(255);not null;index" json:"customer_name"`
	AdType       string                            `gorm:"type:varchar(255)" json:"ad_type"`
	StartDate    *time.Time                        `gorm:"type:date" json:"start_date"`
	EndDate      *time.Time                        `gorm:"type:date" json:"end_date"`
	RentCost     decimal.Decimal                   `gorm:"type:numeric(14,2);not null;default:0" json:"rent_cost"`
	Category     ratecarddomain.Category           `gorm:"type:varchar(32)" json:"category,omitempty"`
	BillboardIDs datatypes.JSONSlice[snowflake.ID] `json:"billboard_ids"`
	RenewedFrom  *snowflake.ID                     `json:"renewed_from,omitempty"`
	CreatedAt    time.Time                         `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time                         `gorm:"not null" json:"updated_at"`
}

// View is a contract annotated with its status as of a given day.
type View struct {
	Contract
	Status        Status `json:"status"`
	DaysRemaining *int   `json:"days_remaining,omitempty"`
}

func NewView(c Contract, today time.Time) View {
	view := View{Contract: c, Status: Classify(c.StartDate, c.EndDate, today)}
	if c.EndDate != nil {
		days := DaysRemaining(*c.EndDate, today)
		view.DaysRemaining = &days
	}
	return view
}
