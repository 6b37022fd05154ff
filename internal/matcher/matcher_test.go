package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hetulpatel/arbscan/internal/venues"
)

func openMarket(t *testing.T, venue venues.Venue, id, title string) venues.Market {
	t.Helper()
	m, err := venues.NewMarket(venue, id, title, venues.StatusOpen)
	require.NoError(t, err)
	return m
}

func TestScoreIgnoresWordOrder(t *testing.T) {
	m := New(Config{})
	a := venues.NormalizeTitle("Will the Fed cut rates in March?")
	b := venues.NormalizeTitle("In March, will the Fed cut rates?")
	assert.Equal(t, 100.0, m.Score(a, b))
}

func TestMatchNearIdenticalTitles(t *testing.T) {
	m := New(Config{})
	kalshi := []venues.Market{openMarket(t, venues.VenueKalshi, "K1", "Will X win the election?")}
	poly := []venues.Market{openMarket(t, venues.VenuePolymarket, "0xabc", "Will X win the Election??")}

	pairs := m.Match(kalshi, poly)
	require.Len(t, pairs, 1)
	assert.Equal(t, "K1", pairs[0].Kalshi.ID)
	assert.Equal(t, "0xabc", pairs[0].Poly.ID)
	assert.GreaterOrEqual(t, pairs[0].Score, 95.0)
	assert.NotEmpty(t, pairs[0].PairID)
}

func TestMatchRejectsBelowThreshold(t *testing.T) {
	m := New(Config{})
	kalshi := []venues.Market{openMarket(t, venues.VenueKalshi, "K1", "Will the Lakers win the NBA finals?")}
	poly := []venues.Market{openMarket(t, venues.VenuePolymarket, "P1", "Will it snow in Miami this year?")}

	assert.Empty(t, m.Match(kalshi, poly))
}

func TestMatchTieBreaksOnSmallestPolyID(t *testing.T) {
	m := New(Config{})
	kalshi := []venues.Market{openMarket(t, venues.VenueKalshi, "K1", "Will it rain tomorrow?")}
	poly := []venues.Market{
		openMarket(t, venues.VenuePolymarket, "0xbbb", "Will it rain tomorrow?"),
		openMarket(t, venues.VenuePolymarket, "0xaaa", "Will it rain tomorrow?"),
	}

	pairs := m.Match(kalshi, poly)
	require.Len(t, pairs, 1)
	assert.Equal(t, "0xaaa", pairs[0].Poly.ID)
}

func TestMatchDeterministicAcrossInputOrder(t *testing.T) {
	m := New(Config{})
	kalshi := []venues.Market{
		openMarket(t, venues.VenueKalshi, "K2", "Will team B win the cup?"),
		openMarket(t, venues.VenueKalshi, "K1", "Will team A win the cup?"),
	}
	poly := []venues.Market{
		openMarket(t, venues.VenuePolymarket, "P2", "Will team B win the cup?"),
		openMarket(t, venues.VenuePolymarket, "P1", "Will team A win the cup?"),
	}

	forward := m.Match(kalshi, poly)
	reversed := m.Match(
		[]venues.Market{kalshi[1], kalshi[0]},
		[]venues.Market{poly[1], poly[0]},
	)

	require.Len(t, forward, 2)
	require.Len(t, reversed, 2)
	for i := range forward {
		assert.Equal(t, forward[i].Kalshi.ID, reversed[i].Kalshi.ID)
		assert.Equal(t, forward[i].Poly.ID, reversed[i].Poly.ID)
		assert.Equal(t, forward[i].PairID, reversed[i].PairID)
	}
}

func TestMatchAllowsDuplicatePolyMarket(t *testing.T) {
	m := New(Config{})
	kalshi := []venues.Market{
		openMarket(t, venues.VenueKalshi, "K1", "Will BTC close above 100k this year?"),
		openMarket(t, venues.VenueKalshi, "K2", "Will BTC close above 100k this year?"),
	}
	poly := []venues.Market{openMarket(t, venues.VenuePolymarket, "P1", "Will BTC close above 100k this year?")}

	pairs := m.Match(kalshi, poly)
	require.Len(t, pairs, 2)
	assert.Equal(t, "P1", pairs[0].Poly.ID)
	assert.Equal(t, "P1", pairs[1].Poly.ID)
	assert.NotEqual(t, pairs[0].Kalshi.ID, pairs[1].Kalshi.ID)
}

func TestMatchSkipsClosedMarkets(t *testing.T) {
	m := New(Config{})
	closed, err := venues.NewMarket(venues.VenueKalshi, "K1", "Will it rain tomorrow?", venues.StatusClosed)
	require.NoError(t, err)
	poly := []venues.Market{openMarket(t, venues.VenuePolymarket, "P1", "Will it rain tomorrow?")}

	assert.Empty(t, m.Match([]venues.Market{closed}, poly))
}

func TestNewClampsThreshold(t *testing.T) {
	assert.Equal(t, DefaultThreshold, New(Config{Threshold: -1}).Threshold())
	assert.Equal(t, DefaultThreshold, New(Config{Threshold: 250}).Threshold())
	assert.Equal(t, 90.0, New(Config{Threshold: 90}).Threshold())
}
