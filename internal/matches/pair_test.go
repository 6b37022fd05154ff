package matches

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hetulpatel/arbscan/internal/venues"
)

func TestPairIDOrderIndependent(t *testing.T) {
	k, err := venues.NewMarket(venues.VenueKalshi, "FED-26MAR", "Will the Fed cut rates?", venues.StatusOpen)
	require.NoError(t, err)
	p, err := venues.NewMarket(venues.VenuePolymarket, "0xdeadbeef", "Will the Fed cut rates?", venues.StatusOpen)
	require.NoError(t, err)

	assert.Equal(t, PairID(k, p), PairID(p, k))
	assert.Len(t, PairID(k, p), 12)
}

func TestPairIDDistinguishesMarkets(t *testing.T) {
	k1, _ := venues.NewMarket(venues.VenueKalshi, "A", "title", venues.StatusOpen)
	k2, _ := venues.NewMarket(venues.VenueKalshi, "B", "title", venues.StatusOpen)
	p, _ := venues.NewMarket(venues.VenuePolymarket, "P", "title", venues.StatusOpen)

	assert.NotEqual(t, PairID(k1, p), PairID(k2, p))
}

func TestNewPair(t *testing.T) {
	k, _ := venues.NewMarket(venues.VenueKalshi, "K1", "title", venues.StatusOpen)
	p, _ := venues.NewMarket(venues.VenuePolymarket, "P1", "title", venues.StatusOpen)

	pair := NewPair(k, p, 97.5)
	assert.Equal(t, 97.5, pair.Score)
	assert.Equal(t, PairID(k, p), pair.PairID)
	assert.False(t, pair.MatchedAt.IsZero())
}
