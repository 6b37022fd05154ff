package display

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/hetulpatel/arbscan/internal/matches"
	"github.com/hetulpatel/arbscan/internal/venues"
)

const titleWidth = 45

// CycleStats summarizes one poll cycle for the header line.
type CycleStats struct {
	CycleID       string
	KalshiMarkets int
	PolyMarkets   int
	MatchedPairs  int
	Took          time.Duration
}

// Console renders ranked opportunities as a terminal table.
type Console struct {
	out io.Writer
}

// NewConsole writes to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter writes to w; used by tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// Render prints the cycle summary and, when anything survived the filter,
// the opportunity table with one row per depth level plus the market
// links below it.
func (c *Console) Render(stats CycleStats, opps []matches.Opportunity) {
	totalLevels := 0
	for _, o := range opps {
		totalLevels += len(o.Levels)
	}

	fmt.Fprintf(c.out, "\n[%s] cycle=%s kalshi=%d poly=%d pairs=%d opps=%d levels=%d took=%s\n",
		time.Now().Format("15:04:05"), stats.CycleID,
		stats.KalshiMarkets, stats.PolyMarkets, stats.MatchedPairs,
		len(opps), totalLevels, stats.Took.Round(time.Millisecond))

	if len(opps) == 0 {
		fmt.Fprintln(c.out, "no arbitrage opportunities above the profit threshold")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Market", "Strategy", "Qty", "Cost", "Profit", "Max $", "Fee $", "Score")

	for i, opp := range opps {
		for li, lvl := range opp.Levels {
			rank, market, score := "", "", ""
			if li == 0 {
				rank = fmt.Sprintf("%d", i+1)
				market = truncate(opp.Pair.Kalshi.Title, titleWidth)
				score = fmt.Sprintf("%.0f", opp.Pair.Score)
			}
			table.Append(
				rank,
				market,
				strategyCell(opp.Strategy, lvl),
				lvl.Quantity.StringFixed(0),
				lvl.CombinedCost.StringFixed(3),
				pct(lvl.ProfitPct),
				"$"+lvl.MaxProfitUSD.StringFixed(2),
				"$"+lvl.KalshiFeeUSD.StringFixed(2),
				score,
			)
		}
	}
	table.Render()

	for i, opp := range opps {
		fmt.Fprintf(c.out, "%d. K: %s\n   P: %s\n", i+1, orNA(opp.Pair.Kalshi.URL), orNA(opp.Pair.Poly.URL))
	}
}

// strategyCell formats one depth level as e.g. "YES@K(2.2%) + NO@P(86.0%)".
func strategyCell(s matches.Strategy, lvl matches.DepthLevel) string {
	return fmt.Sprintf("YES@%s(%s) + NO@%s(%s)",
		venueTag(s.YesVenue()), pct(lvl.YesPrice),
		venueTag(s.NoVenue()), pct(lvl.NoPrice))
}

func venueTag(v venues.Venue) string {
	if v == venues.VenueKalshi {
		return "K"
	}
	return "P"
}

func pct(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-2] + ".."
}

func orNA(url string) string {
	if url == "" {
		return "N/A"
	}
	return url
}
