package arb

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hetulpatel/arbscan/internal/matches"
)

// DefaultMinProfit is the default profit fraction an opportunity's best
// depth tuple must clear to be reported.
var DefaultMinProfit = decimal.NewFromFloat(0.02)

// FilterAndRank drops opportunities whose best depth tuple falls below
// minProfit and orders the remainder by descending best profit
// percentage. Ties break by descending best-level dollar profit, then by
// pair ID and strategy so output is fully deterministic. The result is a
// fresh, fully materialized slice.
func FilterAndRank(opps []matches.Opportunity, minProfit decimal.Decimal) []matches.Opportunity {
	kept := make([]matches.Opportunity, 0, len(opps))
	for _, o := range opps {
		best := o.Best()
		if best == nil || best.ProfitPct.LessThan(minProfit) {
			continue
		}
		kept = append(kept, o)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		pi, pj := kept[i].BestProfitPct(), kept[j].BestProfitPct()
		if !pi.Equal(pj) {
			return pi.GreaterThan(pj)
		}
		mi, mj := kept[i].Best().MaxProfitUSD, kept[j].Best().MaxProfitUSD
		if !mi.Equal(mj) {
			return mi.GreaterThan(mj)
		}
		if kept[i].Pair.PairID != kept[j].Pair.PairID {
			return kept[i].Pair.PairID < kept[j].Pair.PairID
		}
		return kept[i].Strategy < kept[j].Strategy
	})
	return kept
}
