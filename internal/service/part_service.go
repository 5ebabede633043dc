package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"partsdesk/internal/dto"
	"partsdesk/internal/model"
	"partsdesk/internal/repository"
	"partsdesk/internal/stock"
)

const dateLayout = "2006-01-02"

// ErrPartNotFound is returned when a part id does not exist.
var ErrPartNotFound = errors.New("part not found")

type PartService interface {
	Create(ctx context.Context, req dto.CreatePartRequest) (*dto.Part, error)
	List(ctx context.Context) ([]dto.Part, error)
	// Sell transitions a part to sold through the stock machine, persists the
	// updated record together with its price point, and returns the new shape.
	Sell(ctx context.Context, id int64, price decimal.Decimal) (*dto.Part, error)
	// UpdateStatus applies the stock-management transitions (reserve/release).
	UpdateStatus(ctx context.Context, id int64, action string) (*dto.Part, error)
}

type partService struct {
	repo    repository.PartRepository
	prices  repository.PricePointRepository
	pricing PricingService
}

func NewPartService(repo repository.PartRepository, prices repository.PricePointRepository, pricing PricingService) PartService {
	return &partService{repo: repo, prices: prices, pricing: pricing}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *partService) Create(ctx context.Context, req dto.CreatePartRequest) (*dto.Part, error) {
	status := stock.StatusAvailable
	if req.StockStatus != "" {
		parsed, err := stock.Parse(req.StockStatus)
		if err != nil {
			return nil, err
		}
		// Parts enter the system as stock; a sale is recorded through the
		// sell endpoint so the sold invariants cannot be skipped.
		if parsed == stock.StatusSold {
			return nil, fmt.Errorf("%w: parts cannot be registered as sold", stock.ErrInvalidTransition)
		}
		status = parsed
	}

	var availableFrom *time.Time
	if req.AvailableFrom != nil && *req.AvailableFrom != "" {
		t, err := time.Parse(dateLayout, *req.AvailableFrom)
		if err != nil {
			return nil, fmt.Errorf("available_from must be %s: %w", dateLayout, err)
		}
		availableFrom = &t
	}

	p := &model.Part{
		Name:          req.Name,
		Manufacturer:  req.Manufacturer,
		StockStatus:   status,
		AvailableFrom: availableFrom,
	}

	// Seed the suggested price from prior sales of same-named parts.
	if s.pricing != nil {
		if rec, n, err := s.pricing.RecommendedPrice(ctx, req.Name); err == nil && n > 0 {
			p.RecommendedPrice = rec
		}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := toPartDTO(p)
	return &resp, nil
}

func (s *partService) List(ctx context.Context) ([]dto.Part, error) {
	parts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.Part, 0, len(parts))
	for i := range parts {
		out = append(out, toPartDTO(&parts[i]))
	}
	return out, nil
}

func (s *partService) Sell(ctx context.Context, id int64, price decimal.Decimal) (*dto.Part, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPartNotFound
	}

	outcome, err := stock.Sell(p.StockStatus, price, time.Now())
	if err != nil {
		return nil, err
	}

	p.StockStatus = outcome.Status
	soldDate := outcome.SoldDate
	soldPrice := outcome.SoldPrice
	p.SoldDate = &soldDate
	p.SoldPrice = &soldPrice

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, p); err != nil {
			return err
		}
		return s.prices.CreateTx(tx, &model.PricePoint{
			PartID:    p.ID,
			Name:      p.Name,
			SoldPrice: soldPrice,
			SoldAt:    soldDate,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	// Drop the stale price card; same-name cards age out via TTL.
	if s.pricing != nil {
		s.pricing.Invalidate(ctx, p.ID)
	}

	resp := toPartDTO(p)
	return &resp, nil
}

func (s *partService) UpdateStatus(ctx context.Context, id int64, action string) (*dto.Part, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPartNotFound
	}

	var next stock.Status
	switch action {
	case "reserve":
		next, err = stock.Reserve(p.StockStatus)
	case "release":
		next, err = stock.Release(p.StockStatus)
	default:
		return nil, fmt.Errorf("unknown action %q", action)
	}
	if err != nil {
		return nil, err
	}

	p.StockStatus = next
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	resp := toPartDTO(p)
	return &resp, nil
}

func toPartDTO(p *model.Part) dto.Part {
	out := dto.Part{
		ID:               p.ID,
		Name:             p.Name,
		Manufacturer:     p.Manufacturer,
		StockStatus:      p.StockStatus,
		RecommendedPrice: p.RecommendedPrice,
		SoldPrice:        p.SoldPrice,
	}
	if p.AvailableFrom != nil {
		d := p.AvailableFrom.Format(dateLayout)
		out.AvailableFrom = &d
	}
	if p.SoldDate != nil {
		d := p.SoldDate.Format(dateLayout)
		out.SoldDate = &d
	}
	return out
}
