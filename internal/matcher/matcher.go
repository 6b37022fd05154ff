package matcher

import (
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/hetulpatel/arbscan/internal/logging"
	"github.com/hetulpatel/arbscan/internal/matches"
	"github.com/hetulpatel/arbscan/internal/venues"
)

// DefaultThreshold is the minimum similarity score (0-100) for a pair to
// be emitted.
const DefaultThreshold = 95.0

// Config provides optional overrides for the matcher.
type Config struct {
	Threshold float64
}

// Matcher pairs markets across venues by fuzzy title similarity. It holds
// no per-cycle state; Match is a pure function of its inputs.
type Matcher struct {
	threshold float64
	metric    *metrics.Levenshtein
}

// New builds a matcher, falling back to DefaultThreshold when the
// configured value is out of range.
func New(cfg Config) *Matcher {
	threshold := cfg.Threshold
	if threshold <= 0 || threshold > 100 {
		threshold = DefaultThreshold
	}
	return &Matcher{
		threshold: threshold,
		metric:    metrics.NewLevenshtein(),
	}
}

// Threshold returns the configured acceptance threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Score computes a token-sort similarity between two normalized titles on
// a 0-100 scale. Tokens are sorted before the edit-distance comparison so
// word order differences do not penalize the score.
func (m *Matcher) Score(a, b string) float64 {
	return strutil.Similarity(sortTokens(a), sortTokens(b), m.metric) * 100
}

// Match selects, for every open Kalshi market, the best-scoring open
// Polymarket market and emits a pair when the score clears the threshold.
// Equal scores break toward the lexicographically smallest Polymarket
// market ID so repeated runs are reproducible. Two Kalshi markets may end
// up paired with the same Polymarket market; both pairs are surfaced and
// the duplication is logged.
func (m *Matcher) Match(kalshi, poly []venues.Market) []matches.Pair {
	candidates := make([]venues.Market, 0, len(poly))
	for _, p := range poly {
		if p.Open() {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	var pairs []matches.Pair
	polyUse := make(map[string]int)

	for _, k := range kalshi {
		if !k.Open() {
			continue
		}
		best, score, found := m.bestCandidate(k, candidates)
		if !found || score < m.threshold {
			continue
		}
		pairs = append(pairs, matches.NewPair(k, best, score))
		polyUse[best.ID]++
	}

	for id, n := range polyUse {
		if n > 1 {
			logging.Infof("[matcher] polymarket market %s matched by %d kalshi markets; keeping all pairs", id, n)
		}
	}

	// Deterministic output order regardless of input order.
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Kalshi.ID < pairs[j].Kalshi.ID
	})
	return pairs
}

func (m *Matcher) bestCandidate(k venues.Market, candidates []venues.Market) (venues.Market, float64, bool) {
	var (
		best      venues.Market
		bestScore = -1.0
		found     bool
	)
	for _, p := range candidates {
		score := m.Score(k.NormalizedTitle, p.NormalizedTitle)
		switch {
		case score > bestScore:
			best, bestScore, found = p, score, true
		case score == bestScore && p.ID < best.ID:
			best = p
		}
	}
	return best, bestScore, found
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
