package arb

import (
	"github.com/shopspring/decimal"

	"github.com/hetulpatel/arbscan/internal/logging"
	"github.com/hetulpatel/arbscan/internal/matches"
	"github.com/hetulpatel/arbscan/internal/venues"
)

var one = decimal.NewFromInt(1)

// profitPctScale is the decimal precision used when dividing to obtain the
// profit percentage. Prices themselves are never rounded.
const profitPctScale = 8

// Evaluate walks both cross-venue strategies for a matched pair and
// returns the viable opportunities. A strategy with no profitable depth
// produces nothing; an empty ladder skips that strategy without error.
func Evaluate(pair matches.Pair, kalshiBook, polyBook venues.OrderBook) []matches.Opportunity {
	var opps []matches.Opportunity

	// Buy YES on Kalshi, NO on Polymarket: the Kalshi fee applies to the
	// YES leg.
	if levels := walk(pair, kalshiBook.YesAsks, polyBook.NoAsks, yesLeg); len(levels) > 0 {
		opps = append(opps, matches.Opportunity{
			Pair:     pair,
			Strategy: matches.StrategyYesKalshiNoPoly,
			Levels:   levels,
		})
	}

	// Buy YES on Polymarket, NO on Kalshi: the Kalshi fee applies to the
	// NO leg.
	if levels := walk(pair, polyBook.YesAsks, kalshiBook.NoAsks, noLeg); len(levels) > 0 {
		opps = append(opps, matches.Opportunity{
			Pair:     pair,
			Strategy: matches.StrategyYesPolyNoKalshi,
			Levels:   levels,
		})
	}

	return opps
}

type legSelector func(yesPrice, noPrice decimal.Decimal) decimal.Decimal

func yesLeg(yesPrice, _ decimal.Decimal) decimal.Decimal { return yesPrice }
func noLeg(_, noPrice decimal.Decimal) decimal.Decimal   { return noPrice }

// walk advances two cursors down the ascending ask ladders, taking the
// overlapping quantity at each combined price while the pair still costs
// less than the guaranteed $1 payout. Profit-threshold gating is the
// filter's job, not the walk's.
func walk(pair matches.Pair, yesAsks, noAsks []venues.PriceLevel, kalshiLeg legSelector) []matches.DepthLevel {
	yes := sanitize(yesAsks, pair.PairID)
	no := sanitize(noAsks, pair.PairID)
	if len(yes) == 0 || len(no) == 0 {
		return nil
	}

	var (
		levels    []matches.DepthLevel
		cumQty    decimal.Decimal
		cumProfit decimal.Decimal
		cumFee    decimal.Decimal
		yi, ni    int
	)

	for yi < len(yes) && ni < len(no) {
		yesPrice := yes[yi].Price
		noPrice := no[ni].Price
		cost := yesPrice.Add(noPrice)
		if !cost.LessThan(one) {
			break
		}

		qty := decimal.Min(yes[yi].Quantity, no[ni].Quantity)
		margin := one.Sub(cost)

		cumQty = cumQty.Add(qty)
		cumProfit = cumProfit.Add(qty.Mul(margin))
		cumFee = cumFee.Add(KalshiTakerFee(qty, kalshiLeg(yesPrice, noPrice)))

		levels = append(levels, matches.DepthLevel{
			Quantity:     cumQty,
			YesPrice:     yesPrice,
			NoPrice:      noPrice,
			CombinedCost: cost,
			ProfitPct:    margin.DivRound(cost, profitPctScale),
			MaxProfitUSD: cumProfit,
			KalshiFeeUSD: cumFee,
		})

		yes[yi].Quantity = yes[yi].Quantity.Sub(qty)
		no[ni].Quantity = no[ni].Quantity.Sub(qty)
		if !yes[yi].Quantity.IsPositive() {
			yi++
		}
		if !no[ni].Quantity.IsPositive() {
			ni++
		}
	}

	return levels
}

// sanitize copies a ladder, dropping levels with out-of-range prices or
// non-positive quantities, and returns the remainder sorted ascending.
// Bad levels are a data-quality warning, never a pair-level failure.
func sanitize(levels []venues.PriceLevel, pairID string) []venues.PriceLevel {
	out := make([]venues.PriceLevel, 0, len(levels))
	for _, lvl := range levels {
		if !lvl.Price.IsPositive() || !lvl.Price.LessThan(one) || !lvl.Quantity.IsPositive() {
			logging.Warnf("[arb] pair=%s dropping invalid level price=%s qty=%s",
				pairID, lvl.Price, lvl.Quantity)
			continue
		}
		out = append(out, lvl)
	}
	book := venues.OrderBook{YesAsks: out}
	book.SortAsksAscending()
	return book.YesAsks
}
