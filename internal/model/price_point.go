package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint records a realized sale price. The recommended price for a part
// is derived from the price points of parts sold under the same name.
type PricePoint struct {
	ID        int64           `gorm:"primaryKey"`
	PartID    int64           `gorm:"index;not null"`
	Name      string          `gorm:"index;not null"`
	SoldPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SoldAt    time.Time       `gorm:"not null"`
}
