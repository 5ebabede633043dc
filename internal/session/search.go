package session

import (
	"strconv"
	"strings"

	"partsdesk/internal/dto"
)

// SearchParts filters a part collection by a user query. A record matches
// when the trimmed query equals its id rendered as text, or is a
// case-insensitive substring of its name. Source order is preserved and the
// input is never mutated; identical inputs always yield identical output.
//
// Callers reject empty queries before calling; an empty result is a valid
// outcome, not an error.
func SearchParts(query string, parts []dto.Part) []dto.Part {
	q := strings.TrimSpace(query)
	qLower := strings.ToLower(q)

	matched := make([]dto.Part, 0)
	for _, p := range parts {
		if strconv.FormatInt(p.ID, 10) == q ||
			strings.Contains(strings.ToLower(p.Name), qLower) {
			matched = append(matched, p)
		}
	}
	return matched
}
