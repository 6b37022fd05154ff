package matches

import (
	"sort"
	"time"

	"github.com/hetulpatel/arbscan/internal/hashutil"
	"github.com/hetulpatel/arbscan/internal/venues"
)

// Pair links a Kalshi market and a Polymarket market that denote the same
// real-world event. Pairs are rebuilt from the current listings every poll
// cycle and never persisted.
type Pair struct {
	Kalshi    venues.Market `json:"kalshi"`
	Poly      venues.Market `json:"polymarket"`
	Score     float64       `json:"score"`
	PairID    string        `json:"pair_id"`
	MatchedAt time.Time     `json:"matched_at"`
}

// NewPair builds a pair with its canonical order-independent ID.
func NewPair(kalshi, poly venues.Market, score float64) Pair {
	return Pair{
		Kalshi:    kalshi,
		Poly:      poly,
		Score:     score,
		PairID:    PairID(kalshi, poly),
		MatchedAt: time.Now().UTC(),
	}
}

// PairID derives a short canonical identifier for a market pair. The two
// venue-qualified keys are sorted before hashing so the ID does not depend
// on argument order.
func PairID(a, b venues.Market) string {
	parts := []string{a.Key(), b.Key()}
	sort.Strings(parts)
	return hashutil.Short(hashutil.HashStrings(parts...))
}
