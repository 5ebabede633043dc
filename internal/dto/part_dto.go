package dto

import (
	"github.com/shopspring/decimal"

	"partsdesk/internal/stock"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreatePartRequest struct {
	Name          string  `json:"name"          validate:"required,min=2,max=120"`
	Manufacturer  string  `json:"manufacturer"  validate:"required,min=2,max=120"`
	StockStatus   string  `json:"stock_status"  validate:"omitempty,oneof=available reserved"`
	AvailableFrom *string `json:"available_from"`
}

type SellPartRequest struct {
	SoldPrice decimal.Decimal `json:"sold_price" validate:"required"`
}

// UpdateStatusRequest drives the stock-management transitions
// (available ↔ reserved). Selling goes through the sell endpoint.
type UpdateStatusRequest struct {
	Action string `json:"action" validate:"required,oneof=reserve release"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// Part is the wire shape of a part record (GET /parts) and the record the
// sales console caches. Dates travel as YYYY-MM-DD strings.
type Part struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	Manufacturer     string           `json:"manufacturer"`
	StockStatus      stock.Status     `json:"stock_status"`
	AvailableFrom    *string          `json:"available_from"`
	SoldDate         *string          `json:"sold_date"`
	RecommendedPrice *decimal.Decimal `json:"recommended_price"`
	SoldPrice        *decimal.Decimal `json:"sold_price"`
}

// Sellable reports whether the record may enter the sale workflow.
func (p Part) Sellable() bool {
	return p.StockStatus.Sellable()
}

// Consistent reports whether the sold-field invariant holds: sold date and
// sold price are both present on a sold record and both absent otherwise.
func (p Part) Consistent() bool {
	if p.StockStatus == stock.StatusSold {
		return p.SoldDate != nil && p.SoldPrice != nil
	}
	return p.SoldDate == nil && p.SoldPrice == nil
}

// PartPriceResponse is returned by the public price check endpoint.
type PartPriceResponse struct {
	Name             string           `json:"name"`
	RecommendedPrice *decimal.Decimal `json:"recommended_price"`
	SampleSize       int64            `json:"sample_size"`
}
