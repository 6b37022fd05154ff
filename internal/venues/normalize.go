package venues

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrMalformedListing marks a raw venue record missing required fields.
// Callers skip the listing; it never aborts a cycle.
var ErrMalformedListing = errors.New("malformed listing")

// NormalizeTitle lowercases a market title, replaces punctuation with
// spaces, and collapses runs of whitespace. Deterministic: the same input
// always yields the same output.
func NormalizeTitle(title string) string {
	lowered := strings.ToLower(title)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NewMarket validates the fields every venue listing must carry and builds
// a Market with the normalized title filled in.
func NewMarket(venue Venue, id, title string, status Status) (Market, error) {
	switch {
	case id == "":
		return Market{}, fmt.Errorf("%w: missing id", ErrMalformedListing)
	case strings.TrimSpace(title) == "":
		return Market{}, fmt.Errorf("%w: missing title for %s", ErrMalformedListing, id)
	case status != StatusOpen && status != StatusClosed:
		return Market{}, fmt.Errorf("%w: missing status for %s", ErrMalformedListing, id)
	}
	return Market{
		Venue:           venue,
		ID:              id,
		Title:           title,
		NormalizedTitle: NormalizeTitle(title),
		Status:          status,
	}, nil
}
