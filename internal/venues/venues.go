package venues

import (
	"context"
	"time"
)

// Venue identifies the platform a market belongs to.
type Venue string

const (
	VenueKalshi     Venue = "kalshi"
	VenuePolymarket Venue = "polymarket"
)

// Status is the trading state of a market listing.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Side names one of the two binary outcomes of a market.
type Side string

const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

// Market is a venue-agnostic market listing. Identity is (Venue, ID);
// instances are rebuilt from scratch every poll cycle.
type Market struct {
	Venue           Venue     `json:"venue"`
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	NormalizedTitle string    `json:"normalized_title"`
	URL             string    `json:"url,omitempty"`
	Status          Status    `json:"status"`
	CloseTime       time.Time `json:"close_time,omitempty"`

	// Polymarket CLOB token IDs; first is YES, second is NO.
	YesTokenID string `json:"yes_token_id,omitempty"`
	NoTokenID  string `json:"no_token_id,omitempty"`

	// Kalshi event ticker, used to derive the market URL.
	EventTicker string `json:"event_ticker,omitempty"`
}

// Key returns the market's identity as a venue-qualified string.
func (m Market) Key() string {
	return string(m.Venue) + ":" + m.ID
}

// Open reports whether the market currently accepts trades.
func (m Market) Open() bool {
	return m.Status == StatusOpen
}

// Provider is implemented by venue-specific clients (Kalshi, Polymarket).
// Markets returns the venue's open listings; OrderBook returns the current
// YES/NO ladders for one of those markets.
type Provider interface {
	Name() string
	Markets(ctx context.Context) ([]Market, error)
	OrderBook(ctx context.Context, m Market) (OrderBook, error)
}
