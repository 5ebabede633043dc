package repository

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"partsdesk/internal/model"
)

// PricePointRepository stores realized sale prices and answers the
// aggregation behind recommended pricing.
type PricePointRepository interface {
	CreateTx(tx *gorm.DB, pp *model.PricePoint) error
	// AverageSoldPrice returns the mean realized price and sample size for
	// parts sold under the given name (case-insensitive). A zero sample size
	// means no part of that name has ever been sold.
	AverageSoldPrice(ctx context.Context, name string) (decimal.Decimal, int64, error)
}

type pricePointRepo struct{ db *gorm.DB }

func NewPricePointRepository(db *gorm.DB) PricePointRepository { return &pricePointRepo{db: db} }

func (r *pricePointRepo) CreateTx(tx *gorm.DB, pp *model.PricePoint) error {
	return tx.Create(pp).Error
}

func (r *pricePointRepo) AverageSoldPrice(ctx context.Context, name string) (decimal.Decimal, int64, error) {
	var row struct {
		Avg decimal.Decimal
		N   int64
	}
	err := r.db.WithContext(ctx).
		Raw(`SELECT COALESCE(AVG(sold_price), 0) AS avg, COUNT(*) AS n
		     FROM price_points WHERE LOWER(name) = ?`, strings.ToLower(name)).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	return row.Avg, row.N, nil
}
