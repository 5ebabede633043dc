// Package session implements the operator-facing sales session: the
// inventory cache, the search engine, and the select-then-confirm sale
// workflow. One session serves one operator; all state transitions are
// serialized by user interaction plus an explicit in-flight guard around the
// single backend call per confirmation.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"partsdesk/internal/dto"
	"partsdesk/internal/stock"
)

// PartsAPI is the slice of the backend client the session needs.
type PartsAPI interface {
	FetchParts(ctx context.Context) ([]dto.Part, error)
	SellPart(ctx context.Context, id int64, price decimal.Decimal) (*dto.Part, error)
	HasToken() bool
}

var (
	// ErrEmptyQuery rejects blank searches before any network call.
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrNotInResults rejects selecting an id outside the current result set.
	ErrNotInResults = errors.New("part is not in the current results")
	// ErrNothingSelected rejects confirming with no staged part.
	ErrNothingSelected = errors.New("no part selected for sale")
	// ErrConfirmInFlight rejects re-entrant confirms while one awaits the backend.
	ErrConfirmInFlight = errors.New("a sale confirmation is already in flight")
	// ErrNoCredential rejects selling without a bearer token.
	ErrNoCredential = errors.New("sign in before selling parts")
	// ErrCacheDesync marks a staged part that vanished from the cache.
	ErrCacheDesync = errors.New("part is no longer cached; search again")
)

// Phase is where the sale workflow currently stands.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSelecting
	PhaseConfirming
)

// SaleState is the explicit workflow state handed to callers: no hidden
// staged fields beyond it.
type SaleState struct {
	Phase      Phase
	PartID     int64
	DraftPrice decimal.Decimal
}

// Session holds one operator's view of the inventory and drives the sale
// workflow against the backend.
type Session struct {
	api   PartsAPI
	cache *Cache
	log   zerolog.Logger

	results    []dto.Part
	sale       SaleState
	inFlight   bool
	loading    bool
	violations int
	lastErr    string
}

func New(api PartsAPI, log zerolog.Logger) *Session {
	return &Session{
		api:   api,
		cache: NewCache(log),
		log:   log,
	}
}

// Refresh re-fetches the full collection and swaps the cache atomically.
// A failed fetch leaves the prior cache untouched.
func (s *Session) Refresh(ctx context.Context) error {
	s.loading = true
	defer func() { s.loading = false }()

	parts, err := s.api.FetchParts(ctx)
	if err != nil {
		s.lastErr = "Failed to fetch parts."
		s.log.Error().Err(err).Msg("inventory refresh failed")
		return err
	}
	s.violations = s.cache.ReplaceAll(parts)
	s.lastErr = ""
	return nil
}

// Search refreshes the inventory and filters it by query. The result set
// becomes the working view that SelectForSale draws from.
func (s *Session) Search(ctx context.Context, query string) ([]dto.Part, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		s.lastErr = "Enter an id or part name to search."
		return nil, ErrEmptyQuery
	}

	s.loading = true
	defer func() { s.loading = false }()

	parts, err := s.api.FetchParts(ctx)
	if err != nil {
		s.lastErr = "Failed to search parts."
		s.log.Error().Err(err).Str("query", q).Msg("search fetch failed")
		return nil, err
	}
	s.violations = s.cache.ReplaceAll(parts)
	s.results = SearchParts(q, s.cache.Parts())
	s.lastErr = ""
	return s.results, nil
}

// SelectForSale stages a part from the current results for selling and
// clears any previously drafted price. No network or cache effect.
func (s *Session) SelectForSale(id int64) error {
	if !s.inResults(id) {
		s.lastErr = "Part is not in the current results."
		return ErrNotInResults
	}
	s.sale = SaleState{Phase: PhaseSelecting, PartID: id}
	s.lastErr = ""
	return nil
}

// ConfirmSale validates the drafted price, runs the staged part through the
// stock machine, and on legality issues the sell request. On success the
// cache entry and result row are replaced with the transitioned record and
// the staged state is cleared. On any failure the staged state is preserved
// so the operator can correct and retry, or cancel.
func (s *Session) ConfirmSale(ctx context.Context, price decimal.Decimal) (*dto.Part, error) {
	if s.inFlight {
		return nil, ErrConfirmInFlight
	}
	if s.sale.Phase == PhaseIdle {
		s.lastErr = "Select a part before confirming a sale."
		return nil, ErrNothingSelected
	}

	// Price and legality checks happen before any backend call.
	part, ok := s.cache.Get(s.sale.PartID)
	if !ok {
		s.lastErr = "Part is no longer in view. Search again."
		s.log.Warn().Int64("part_id", s.sale.PartID).Msg("staged part missing from cache")
		return nil, ErrCacheDesync
	}
	if _, err := stock.Sell(part.StockStatus, price, time.Now()); err != nil {
		s.lastErr = saleErrorMessage(part, price)
		return nil, err
	}
	if !s.api.HasToken() {
		s.lastErr = "Sign in before selling parts."
		return nil, ErrNoCredential
	}

	s.sale.Phase = PhaseConfirming
	s.sale.DraftPrice = price
	s.inFlight = true
	updated, err := s.api.SellPart(ctx, part.ID, price)
	s.inFlight = false

	if err != nil {
		s.lastErr = "Failed to sell part."
		s.log.Error().Err(err).Int64("part_id", part.ID).Msg("sell request failed")
		return nil, err
	}
	if updated == nil {
		// Backend acknowledged without a body; compute the same shape locally.
		local := soldLocally(part, price)
		updated = &local
	}

	s.cache.ApplyTransition(part.ID, *updated)
	for i := range s.results {
		if s.results[i].ID == part.ID {
			s.results[i] = *updated
		}
	}
	s.sale = SaleState{}
	s.lastErr = ""
	return updated, nil
}

// CancelSale abandons the workflow, discarding staged state only. Calling it
// twice, or with nothing staged, is a no-op.
func (s *Session) CancelSale() {
	s.sale = SaleState{}
}

// ── Read accessors for the presentation layer ────────────────────────────────

func (s *Session) Results() []dto.Part { return s.results }
func (s *Session) State() SaleState    { return s.sale }
func (s *Session) Loading() bool       { return s.loading }
func (s *Session) LastError() string   { return s.lastErr }

// Violations reports how many records of the last fetch were flagged as
// inconsistent (admitted to the cache regardless).
func (s *Session) Violations() int { return s.violations }

// Get exposes cache lookups to the presentation layer.
func (s *Session) Get(id int64) (dto.Part, bool) { return s.cache.Get(id) }

// ── helpers ──────────────────────────────────────────────────────────────────

func (s *Session) inResults(id int64) bool {
	for _, p := range s.results {
		if p.ID == id {
			return true
		}
	}
	return false
}

func saleErrorMessage(part dto.Part, price decimal.Decimal) string {
	if !part.Sellable() {
		return fmt.Sprintf("Part %d is already %s.", part.ID, part.StockStatus)
	}
	if !price.IsPositive() {
		return "Selling price must be greater than zero."
	}
	return "Failed to sell part."
}

func soldLocally(part dto.Part, price decimal.Decimal) dto.Part {
	outcome, _ := stock.Sell(part.StockStatus, price, time.Now())
	d := outcome.SoldDate.Format("2006-01-02")
	part.StockStatus = outcome.Status
	part.SoldDate = &d
	part.SoldPrice = &outcome.SoldPrice
	return part
}
