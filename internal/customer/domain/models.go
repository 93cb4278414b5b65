package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	ratecarddomain "github.com/smallbiznis/billboards/internal/ratecard/domain"
)

type Customer struct {
	ID        snowflake.ID            `gorm:"primaryKey" json:"id"`
	Name      string                  `gorm:"type:varchar(255);not null;index" json:"name"`
	Category  ratecarddomain.Category `gorm:"type:varchar(32);not null" json:"category"`
	Phone     string                  `gorm:"type:varchar(64)" json:"phone,omitempty"`
	Company   string                  `gorm:"type:varchar(255)" json:"company,omitempty"`
	CreatedAt time.Time               `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time               `gorm:"not null" json:"updated_at"`
}

// Ref identifies a customer by id, by free-text name, or both. Records
// imported from legacy sheets often carry only the name.
type Ref struct {
	ID   *snowflake.ID `json:"id,omitempty"`
	Name string        `json:"name"`
}

func (r Ref) IsZero() bool {
	return r.ID == nil && strings.TrimSpace(r.Name) == ""
}

// String renders the reference for logs.
func (r Ref) String() string {
	if r.ID != nil {
		return r.ID.String()
	}
	return strings.TrimSpace(r.Name)
}
