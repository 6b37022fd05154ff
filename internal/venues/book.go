package venues

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PriceLevel is a single price/quantity pair in an ask or bid ladder.
// Prices are probabilities in (0, 1); quantities are contract counts.
type PriceLevel struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

// OrderBook holds the YES and NO ladders for a single market. Asks are
// ascending by price, bids descending. Bids are kept for diagnostics only;
// the arbitrage walk consumes asks.
type OrderBook struct {
	MarketID string       `json:"market_id"`
	YesAsks  []PriceLevel `json:"yes_asks"`
	NoAsks   []PriceLevel `json:"no_asks"`
	YesBids  []PriceLevel `json:"yes_bids,omitempty"`
	NoBids   []PriceLevel `json:"no_bids,omitempty"`
}

// Empty reports whether the book carries no asks on either side.
func (b OrderBook) Empty() bool {
	return len(b.YesAsks) == 0 && len(b.NoAsks) == 0
}

// BestYesAsk returns the lowest YES ask, or zero when the ladder is empty.
func (b OrderBook) BestYesAsk() decimal.Decimal {
	if len(b.YesAsks) == 0 {
		return decimal.Zero
	}
	return b.YesAsks[0].Price
}

// BestNoAsk returns the lowest NO ask, or zero when the ladder is empty.
func (b OrderBook) BestNoAsk() decimal.Decimal {
	if len(b.NoAsks) == 0 {
		return decimal.Zero
	}
	return b.NoAsks[0].Price
}

// SortAsksAscending orders both ask ladders by increasing price.
func (b *OrderBook) SortAsksAscending() {
	sortAscending(b.YesAsks)
	sortAscending(b.NoAsks)
}

// SortBidsDescending orders both bid ladders by decreasing price.
func (b *OrderBook) SortBidsDescending() {
	sortDescending(b.YesBids)
	sortDescending(b.NoBids)
}

func sortAscending(levels []PriceLevel) {
	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].Price.LessThan(levels[j].Price)
	})
}

func sortDescending(levels []PriceLevel) {
	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].Price.GreaterThan(levels[j].Price)
	})
}

// ComplementAsks derives an ask ladder from the opposite outcome's bids:
// a NO bid at price p is a standing offer to sell YES at 1-p. The result
// is sorted ascending.
func ComplementAsks(oppositeBids []PriceLevel) []PriceLevel {
	if len(oppositeBids) == 0 {
		return nil
	}
	one := decimal.NewFromInt(1)
	asks := make([]PriceLevel, 0, len(oppositeBids))
	for _, lvl := range oppositeBids {
		asks = append(asks, PriceLevel{
			Price:    one.Sub(lvl.Price),
			Quantity: lvl.Quantity,
		})
	}
	sortAscending(asks)
	return asks
}
