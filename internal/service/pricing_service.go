package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"partsdesk/internal/dto"
	"partsdesk/internal/repository"
)

const priceCardTTL = 4 * time.Hour

// PricingService computes recommended prices from realized sales.
// Recommendation rule: average sold price of parts previously sold under the
// same name; no recommendation until at least one such sale exists.
type PricingService interface {
	RecommendedPrice(ctx context.Context, name string) (*decimal.Decimal, int64, error)
	// PriceCard serves the public price check endpoint, Redis-cached.
	PriceCard(ctx context.Context, partID int64) (*dto.PartPriceResponse, error)
	// Invalidate drops the cached card for one part. Best effort.
	Invalidate(ctx context.Context, partID int64)
}

type pricingService struct {
	parts  repository.PartRepository
	prices repository.PricePointRepository
	rdb    *redis.Client
}

func NewPricingService(parts repository.PartRepository, prices repository.PricePointRepository, rdb *redis.Client) PricingService {
	return &pricingService{parts: parts, prices: prices, rdb: rdb}
}

func (s *pricingService) RecommendedPrice(ctx context.Context, name string) (*decimal.Decimal, int64, error) {
	avg, n, err := s.prices.AverageSoldPrice(ctx, name)
	if err != nil {
		return nil, 0, err
	}
	if n == 0 {
		return nil, 0, nil
	}
	rounded := avg.Round(2)
	return &rounded, n, nil
}

func (s *pricingService) PriceCard(ctx context.Context, partID int64) (*dto.PartPriceResponse, error) {
	cacheKey := priceCardKey(partID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.PartPriceResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	part, err := s.parts.FindByID(ctx, partID)
	if err != nil {
		return nil, ErrPartNotFound
	}

	rec, n, err := s.RecommendedPrice(ctx, part.Name)
	if err != nil {
		return nil, err
	}
	resp := &dto.PartPriceResponse{
		Name:             part.Name,
		RecommendedPrice: rec,
		SampleSize:       n,
	}

	// Populate cache — best effort, ignore errors
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			if err := s.rdb.Set(context.Background(), cacheKey, b, priceCardTTL).Err(); err != nil {
				log.Debug().Err(err).Int64("part_id", partID).Msg("price card cache write failed")
			}
		}
	}

	return resp, nil
}

func (s *pricingService) Invalidate(ctx context.Context, partID int64) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, priceCardKey(partID)).Err(); err != nil {
		log.Debug().Err(err).Int64("part_id", partID).Msg("price card invalidation failed")
	}
}

func priceCardKey(partID int64) string {
	return fmt.Sprintf("price:%d", partID)
}
