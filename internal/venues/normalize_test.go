package venues

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Will X win the election?", "will x win the election"},
		{"Will X win the Election??", "will x win the election"},
		{"  BTC   above $100k by 2026-12-31!  ", "btc above 100k by 2026 12 31"},
		{"snake_case stays", "snake_case stays"},
		{"", ""},
		{"???", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeTitle(c.in), "input %q", c.in)
	}
}

func TestNormalizeTitleDeterministic(t *testing.T) {
	in := "Will the Fed cut rates in March?"
	first := NormalizeTitle(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, NormalizeTitle(in))
	}
}

func TestNewMarket(t *testing.T) {
	m, err := NewMarket(VenueKalshi, "FED-26MAR", "Will the Fed cut rates?", StatusOpen)
	require.NoError(t, err)
	assert.Equal(t, "will the fed cut rates", m.NormalizedTitle)
	assert.Equal(t, "kalshi:FED-26MAR", m.Key())
	assert.True(t, m.Open())
}

func TestNewMarketMalformed(t *testing.T) {
	_, err := NewMarket(VenueKalshi, "", "title", StatusOpen)
	assert.ErrorIs(t, err, ErrMalformedListing)

	_, err = NewMarket(VenueKalshi, "id", "   ", StatusOpen)
	assert.ErrorIs(t, err, ErrMalformedListing)

	_, err = NewMarket(VenuePolymarket, "id", "title", "")
	assert.ErrorIs(t, err, ErrMalformedListing)
}
