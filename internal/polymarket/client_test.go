package polymarket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hetulpatel/arbscan/internal/venues"
)

func gammaMarket(id, question, tokens string) market {
	return market{
		ConditionID:     id,
		Question:        question,
		Slug:            "some-market",
		ClobTokenIDs:    tokens,
		EnableOrderBook: true,
		AcceptingOrders: true,
	}
}

func TestMarketsFiltersAndPaginates(t *testing.T) {
	noBook := gammaMarket("0xnobook", "No live book", `["1","2"]`)
	noBook.EnableOrderBook = false

	pages := map[int][]market{
		0: {
			gammaMarket("0xaaa", "Will X win the election?", `["111","222"]`),
			gammaMarket("0xbbb", "Will it rain tomorrow?", `["333","444"]`),
		},
		2: {
			noBook,
			gammaMarket("0xccc", "Missing tokens", ""),
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/markets", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("active"))
		assert.Equal(t, "false", r.URL.Query().Get("closed"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		json.NewEncoder(w).Encode(pages[offset])
	}))
	defer srv.Close()

	c := NewClient(Config{GammaURL: srv.URL, RequestsPerSecond: 1000, PageSize: 2})

	markets, err := c.Markets(context.Background())
	require.NoError(t, err)
	require.Len(t, markets, 2, "listings without a usable book or token pair are skipped")

	assert.Equal(t, venues.VenuePolymarket, markets[0].Venue)
	assert.Equal(t, "0xaaa", markets[0].ID)
	assert.Equal(t, "will x win the election", markets[0].NormalizedTitle)
	assert.Equal(t, "111", markets[0].YesTokenID)
	assert.Equal(t, "222", markets[0].NoTokenID)
	assert.Equal(t, "https://polymarket.com/event/some-market", markets[0].URL)
	assert.True(t, markets[0].Open())
}

func TestMarketsPrefersEventSlug(t *testing.T) {
	m := gammaMarket("0xaaa", "Will X win?", `["1","2"]`)
	m.Events = []event{{Slug: "election-2026"}}

	got, err := normalizeMarket(m)
	require.NoError(t, err)
	assert.Equal(t, "https://polymarket.com/event/election-2026", got.URL)
}

func TestOrderBookFetchesBothTokens(t *testing.T) {
	books := map[string]clobBook{
		"111": {
			Asks: []clobLevel{{Price: "0.45", Size: "100"}, {Price: "0.42", Size: "50"}},
			Bids: []clobLevel{{Price: "0.40", Size: "80"}},
		},
		"222": {
			Asks: []clobLevel{{Price: "0.60", Size: "30"}},
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/book", r.URL.Path)
		json.NewEncoder(w).Encode(books[r.URL.Query().Get("token_id")])
	}))
	defer srv.Close()

	c := NewClient(Config{ClobURL: srv.URL, RequestsPerSecond: 1000})

	m := venues.Market{Venue: venues.VenuePolymarket, ID: "0xaaa", YesTokenID: "111", NoTokenID: "222"}
	book, err := c.OrderBook(context.Background(), m)
	require.NoError(t, err)

	require.Len(t, book.YesAsks, 2)
	assert.Equal(t, "0.42", book.YesAsks[0].Price.StringFixed(2), "asks are sorted ascending")
	assert.Equal(t, "0.45", book.YesAsks[1].Price.StringFixed(2))
	require.Len(t, book.NoAsks, 1)
	assert.Equal(t, "0.60", book.NoAsks[0].Price.StringFixed(2))
	require.Len(t, book.YesBids, 1)
	assert.Equal(t, "0.40", book.YesBids[0].Price.StringFixed(2))
}

func TestOrderBookRequiresTokens(t *testing.T) {
	c := NewClient(Config{})
	_, err := c.OrderBook(context.Background(), venues.Market{ID: "0xaaa"})
	assert.Error(t, err)
}

func TestParseClobTokenIDs(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, parseClobTokenIDs(`["1","2"]`))
	assert.Nil(t, parseClobTokenIDs(""))
	assert.Nil(t, parseClobTokenIDs("not json"))
}

func TestConvertLevelsSkipsBadDecimals(t *testing.T) {
	out := convertLevels([]clobLevel{
		{Price: "0.5", Size: "10"},
		{Price: "oops", Size: "10"},
		{Price: "0.6", Size: "oops"},
	})
	require.Len(t, out, 1)
	assert.Equal(t, "0.5", out[0].Price.String())
}
