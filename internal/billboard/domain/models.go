package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Billboard is a rentable advertising face. Only Size, Level and
// MonthlyPrice take part in pricing; the rest is descriptive.
type Billboard struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name         string            `gorm:"type:varchar(255);not null" json:"name"`
	Size         string            `gorm:"type:varchar(64);not null;index" json:"size"`
	Level        string            `gorm:"type:varchar(64);not null" json:"level"`
	MonthlyPrice decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"monthly_price"`
	Municipality string            `gorm:"type:varchar(255)" json:"municipality,omitempty"`
	District     string            `gorm:"type:varchar(255)" json:"district,omitempty"`
	Landmark     string            `gorm:"type:varchar(255)" json:"landmark,omitempty"`
	Faces        int               `gorm:"not null;default:1" json:"faces"`
	Coordinates  string            `gorm:"type:varchar(128)" json:"coordinates,omitempty"`
	ImageURL     string            `gorm:"type:varchar(1024)" json:"image_url,omitempty"`
	Metadata     datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt    time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null" json:"updated_at"`
}
