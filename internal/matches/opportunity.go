package matches

import (
	"github.com/shopspring/decimal"

	"github.com/hetulpatel/arbscan/internal/venues"
)

// Strategy is one cross-venue buy combination. Buying YES on one venue and
// NO on the other locks in a $1 payout per contract pair.
type Strategy string

const (
	StrategyYesKalshiNoPoly Strategy = "BUY_YES_KALSHI_BUY_NO_POLY"
	StrategyYesPolyNoKalshi Strategy = "BUY_YES_POLY_BUY_NO_KALSHI"
)

// YesVenue returns the venue whose YES contracts the strategy buys.
func (s Strategy) YesVenue() venues.Venue {
	if s == StrategyYesKalshiNoPoly {
		return venues.VenueKalshi
	}
	return venues.VenuePolymarket
}

// NoVenue returns the venue whose NO contracts the strategy buys.
func (s Strategy) NoVenue() venues.Venue {
	if s == StrategyYesKalshiNoPoly {
		return venues.VenuePolymarket
	}
	return venues.VenueKalshi
}

// DepthLevel is one step of the order-book walk. Quantity and MaxProfitUSD
// are cumulative over the walk so far; CombinedCost and ProfitPct describe
// the marginal contract at this depth.
type DepthLevel struct {
	Quantity     decimal.Decimal `json:"quantity"`
	YesPrice     decimal.Decimal `json:"yes_price"`
	NoPrice      decimal.Decimal `json:"no_price"`
	CombinedCost decimal.Decimal `json:"combined_cost"`
	ProfitPct    decimal.Decimal `json:"profit_pct"`
	MaxProfitUSD decimal.Decimal `json:"max_profit_usd"`
	KalshiFeeUSD decimal.Decimal `json:"kalshi_fee_usd"`
}

// Opportunity is one viable strategy for a matched pair, with a depth
// tuple per profitable price level reached. Computed fresh each cycle and
// consumed immediately.
type Opportunity struct {
	Pair     Pair         `json:"pair"`
	Strategy Strategy     `json:"strategy"`
	Levels   []DepthLevel `json:"levels"`
}

// Best returns the first depth tuple, which carries the lowest combined
// cost and therefore the highest profit percentage.
func (o Opportunity) Best() *DepthLevel {
	if len(o.Levels) == 0 {
		return nil
	}
	return &o.Levels[0]
}

// BestProfitPct is the profit percentage of the best depth tuple, zero
// when no levels exist.
func (o Opportunity) BestProfitPct() decimal.Decimal {
	if best := o.Best(); best != nil {
		return best.ProfitPct
	}
	return decimal.Zero
}

// MaxProfitUSD is the cumulative dollar profit at the deepest level.
func (o Opportunity) MaxProfitUSD() decimal.Decimal {
	if len(o.Levels) == 0 {
		return decimal.Zero
	}
	return o.Levels[len(o.Levels)-1].MaxProfitUSD
}

// TotalQuantity is the cumulative contract count at the deepest level.
func (o Opportunity) TotalQuantity() decimal.Decimal {
	if len(o.Levels) == 0 {
		return decimal.Zero
	}
	return o.Levels[len(o.Levels)-1].Quantity
}
