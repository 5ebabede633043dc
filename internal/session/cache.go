package session

import (
	"github.com/rs/zerolog"

	"partsdesk/internal/dto"
)

// Cache is the client-held mirror of the backend's part collection.
// It preserves fetch order and is only written by Session.Refresh and
// Session.ConfirmSale — there is no other mutation path.
type Cache struct {
	order []int64
	parts map[int64]dto.Part
	log   zerolog.Logger
}

func NewCache(log zerolog.Logger) *Cache {
	return &Cache{parts: make(map[int64]dto.Part), log: log}
}

// ReplaceAll swaps the entire cache contents for a freshly fetched
// collection. Records failing the sold-field invariant are admitted but
// logged; the returned count lets the caller surface how many were flagged.
// Duplicate ids within one fetch keep the first occurrence.
func (c *Cache) ReplaceAll(parts []dto.Part) (violations int) {
	order := make([]int64, 0, len(parts))
	byID := make(map[int64]dto.Part, len(parts))
	for _, p := range parts {
		if !p.Consistent() {
			violations++
			c.log.Warn().
				Int64("part_id", p.ID).
				Str("stock_status", string(p.StockStatus)).
				Msg("part record violates sold-field invariant")
		}
		if _, dup := byID[p.ID]; dup {
			c.log.Warn().Int64("part_id", p.ID).Msg("duplicate part id in fetch, keeping first")
			continue
		}
		order = append(order, p.ID)
		byID[p.ID] = p
	}
	c.order = order
	c.parts = byID
	return violations
}

// Get returns the cached record for id.
func (c *Cache) Get(id int64) (dto.Part, bool) {
	p, ok := c.parts[id]
	return p, ok
}

// ApplyTransition replaces one cached record in place after a successful
// sale. A missing id means the cache was swapped out mid-workflow; that is
// logged, not surfaced, and the caller should direct the user to re-search.
func (c *Cache) ApplyTransition(id int64, updated dto.Part) bool {
	if _, ok := c.parts[id]; !ok {
		c.log.Warn().Int64("part_id", id).Msg("cache desync: transitioned part no longer cached")
		return false
	}
	c.parts[id] = updated
	return true
}

// Parts returns the cached records in fetch order.
func (c *Cache) Parts() []dto.Part {
	out := make([]dto.Part, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.parts[id])
	}
	return out
}

// Len returns the number of cached records.
func (c *Cache) Len() int { return len(c.order) }
