package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/hetulpatel/arbscan/internal/arb"
	"github.com/hetulpatel/arbscan/internal/cache"
	"github.com/hetulpatel/arbscan/internal/display"
	"github.com/hetulpatel/arbscan/internal/logging"
	"github.com/hetulpatel/arbscan/internal/matcher"
	"github.com/hetulpatel/arbscan/internal/matches"
	"github.com/hetulpatel/arbscan/internal/venues"
)

const defaultBookWorkers = 8

// Publisher receives the ranked opportunities that pass the alert gate.
type Publisher interface {
	Publish(ctx context.Context, cycleID string, opps []matches.Opportunity) error
}

type Config struct {
	Kalshi      venues.Provider
	Poly        venues.Provider
	Matcher     *matcher.Matcher
	MinProfit   decimal.Decimal
	Interval    time.Duration
	BookWorkers int

	Display *display.Console

	// Alerts and Publisher are optional. When both are set, a pair is
	// only re-published after its cumulative dollar profit improves on
	// the cached record. Console output is never gated.
	Alerts    cache.OpportunityCache
	Publisher Publisher
}

type Scanner struct {
	cfg Config
}

func New(cfg Config) (*Scanner, error) {
	if cfg.Kalshi == nil || cfg.Poly == nil {
		return nil, fmt.Errorf("both venue providers are required")
	}
	if cfg.Matcher == nil {
		return nil, fmt.Errorf("matcher is required")
	}
	if cfg.Display == nil {
		cfg.Display = display.NewConsole()
	}
	if cfg.MinProfit.IsZero() {
		cfg.MinProfit = arb.DefaultMinProfit
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BookWorkers <= 0 {
		cfg.BookWorkers = defaultBookWorkers
	}
	return &Scanner{cfg: cfg}, nil
}

// Run executes cycles until the context is cancelled. The first cycle
// starts immediately rather than after one interval.
func (s *Scanner) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		s.RunCycle(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunCycle performs one full scan: fetch listings, match, fetch books,
// evaluate, rank, render, publish. Venue failures degrade the cycle
// instead of aborting it.
func (s *Scanner) RunCycle(ctx context.Context) {
	cycleID := uuid.NewString()
	started := time.Now()

	kalshiMarkets, polyMarkets := s.fetchListings(ctx)
	pairs := s.cfg.Matcher.Match(kalshiMarkets, polyMarkets)
	opps := s.evaluatePairs(ctx, pairs)
	ranked := arb.FilterAndRank(opps, s.cfg.MinProfit)

	s.cfg.Display.Render(display.CycleStats{
		CycleID:       cycleID,
		KalshiMarkets: len(kalshiMarkets),
		PolyMarkets:   len(polyMarkets),
		MatchedPairs:  len(pairs),
		Took:          time.Since(started).Round(time.Millisecond),
	}, ranked)

	s.publish(ctx, cycleID, ranked)
}

func (s *Scanner) fetchListings(ctx context.Context) ([]venues.Market, []venues.Market) {
	var kalshiMarkets, polyMarkets []venues.Market

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := s.cfg.Kalshi.Markets(gctx)
		if err != nil {
			logging.Errorf("fetch %s markets: %v", s.cfg.Kalshi.Name(), err)
			return nil
		}
		kalshiMarkets = out
		return nil
	})
	g.Go(func() error {
		out, err := s.cfg.Poly.Markets(gctx)
		if err != nil {
			logging.Errorf("fetch %s markets: %v", s.cfg.Poly.Name(), err)
			return nil
		}
		polyMarkets = out
		return nil
	})
	g.Wait()

	return kalshiMarkets, polyMarkets
}

type pairBooks struct {
	kalshi venues.OrderBook
	poly   venues.OrderBook
	ok     bool
}

func (s *Scanner) evaluatePairs(ctx context.Context, pairs []matches.Pair) []matches.Opportunity {
	books := make([]pairBooks, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BookWorkers)
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			kb, err := s.cfg.Kalshi.OrderBook(gctx, pair.Kalshi)
			if err != nil {
				logging.Warnf("pair %s: kalshi book %s: %v", pair.PairID, pair.Kalshi.ID, err)
				return nil
			}
			pb, err := s.cfg.Poly.OrderBook(gctx, pair.Poly)
			if err != nil {
				logging.Warnf("pair %s: polymarket book %s: %v", pair.PairID, pair.Poly.ID, err)
				return nil
			}
			books[i] = pairBooks{kalshi: kb, poly: pb, ok: true}
			return nil
		})
	}
	g.Wait()

	var opps []matches.Opportunity
	for i, pair := range pairs {
		if !books[i].ok {
			continue
		}
		opps = append(opps, arb.Evaluate(pair, books[i].kalshi, books[i].poly)...)
	}
	return opps
}

func (s *Scanner) publish(ctx context.Context, cycleID string, ranked []matches.Opportunity) {
	if s.cfg.Publisher == nil || len(ranked) == 0 {
		return
	}

	toPublish := ranked
	if s.cfg.Alerts != nil {
		toPublish = s.gateAlerts(ctx, ranked)
	}
	if len(toPublish) == 0 {
		return
	}

	if err := s.cfg.Publisher.Publish(ctx, cycleID, toPublish); err != nil {
		logging.Errorf("publish opportunities: %v", err)
		return
	}
	logging.Infof("published %d opportunities cycle=%s", len(toPublish), cycleID)
}

func (s *Scanner) gateAlerts(ctx context.Context, ranked []matches.Opportunity) []matches.Opportunity {
	out := make([]matches.Opportunity, 0, len(ranked))
	for _, opp := range ranked {
		best := opp.Best()
		if best == nil {
			continue
		}
		profitUSD, _ := opp.MaxProfitUSD().Float64()

		record, found, err := s.cfg.Alerts.Get(ctx, opp.Pair.PairID)
		if err != nil {
			logging.Warnf("alert cache get %s: %v", opp.Pair.PairID, err)
			out = append(out, opp)
			continue
		}
		if found && profitUSD <= record.ProfitUSD {
			continue
		}

		profitPct, _ := best.ProfitPct.Float64()
		qty, _ := opp.TotalQuantity().Float64()
		err = s.cfg.Alerts.Set(ctx, opp.Pair.PairID, cache.OpportunityRecord{
			ProfitUSD: profitUSD,
			ProfitPct: profitPct,
			Strategy:  string(opp.Strategy),
			Quantity:  qty,
			UpdatedAt: time.Now().UTC(),
		})
		if err != nil {
			logging.Warnf("alert cache set %s: %v", opp.Pair.PairID, err)
		}
		out = append(out, opp)
	}
	return out
}
