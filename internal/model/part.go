package model

import (
	"time"

	"github.com/shopspring/decimal"

	"partsdesk/internal/stock"
)

// Part is a single car part tracked through its stock lifecycle.
// SoldDate and SoldPrice are set together by the sale transition and never
// revised afterwards; both stay NULL while the part is unsold.
type Part struct {
	ID               int64            `gorm:"primaryKey"`
	Name             string           `gorm:"index;not null"`
	Manufacturer     string           `gorm:"not null"`
	StockStatus      stock.Status     `gorm:"type:varchar(16);not null;default:'available'"`
	AvailableFrom    *time.Time       `gorm:"type:date"`
	SoldDate         *time.Time       `gorm:"type:date"`
	RecommendedPrice *decimal.Decimal `gorm:"type:decimal(10,2)"`
	SoldPrice        *decimal.Decimal `gorm:"type:decimal(10,2)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
