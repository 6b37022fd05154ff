package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/hetulpatel/arbscan/internal/logging"
	"github.com/hetulpatel/arbscan/internal/venues"
)

const (
	defaultGammaURL = "https://gamma-api.polymarket.com"
	defaultClobURL  = "https://clob.polymarket.com"
	defaultPageSize = 100
	defaultRPS      = 10.0
)

// Client fetches Polymarket listings from the Gamma API and order books
// from the CLOB API. Both are public; no credentials are needed for
// read-only scanning.
type Client struct {
	gammaURL   string
	clobURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	pageSize   int
}

// Config controls optional overrides for the client.
type Config struct {
	GammaURL          string
	ClobURL           string
	RequestsPerSecond float64
	Timeout           time.Duration
	PageSize          int
}

// NewClient builds a Polymarket client with sane defaults.
func NewClient(cfg Config) *Client {
	gamma := strings.TrimRight(cfg.GammaURL, "/")
	if gamma == "" {
		gamma = defaultGammaURL
	}
	clob := strings.TrimRight(cfg.ClobURL, "/")
	if clob == "" {
		clob = defaultClobURL
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRPS
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Client{
		gammaURL:   gamma,
		clobURL:    clob,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		pageSize:   pageSize,
	}
}

func (c *Client) Name() string {
	return "polymarket"
}

// Markets pages through active Gamma markets. Listings without a live
// order book or a usable YES/NO token pair are skipped; malformed ones are
// skipped with a warning.
func (c *Client) Markets(ctx context.Context) ([]venues.Market, error) {
	var out []venues.Market
	offset := 0
	for {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(c.pageSize))
		q.Set("offset", strconv.Itoa(offset))
		q.Set("active", "true")
		q.Set("closed", "false")

		var page []market
		if err := c.get(ctx, c.gammaURL+"/markets", q, &page); err != nil {
			return nil, fmt.Errorf("list polymarket markets: %w", err)
		}
		if len(page) == 0 {
			return out, nil
		}

		for _, raw := range page {
			m, err := normalizeMarket(raw)
			if err != nil {
				if raw.ConditionID != "" {
					logging.Warnf("[polymarket] skip listing %q: %v", raw.ConditionID, err)
				}
				continue
			}
			out = append(out, m)
		}

		offset += c.pageSize
		if len(page) < c.pageSize {
			return out, nil
		}
	}
}

// OrderBook fetches the CLOB books for the market's YES and NO tokens. A
// missing book on one side degrades to an empty ladder rather than
// failing the pair.
func (c *Client) OrderBook(ctx context.Context, m venues.Market) (venues.OrderBook, error) {
	if m.YesTokenID == "" || m.NoTokenID == "" {
		return venues.OrderBook{}, fmt.Errorf("polymarket market %s has no CLOB tokens", m.ID)
	}

	book := venues.OrderBook{MarketID: m.ID}

	yes, err := c.fetchBook(ctx, m.YesTokenID)
	if err != nil {
		logging.Warnf("[polymarket] yes book %s: %v", m.ID, err)
	} else {
		book.YesBids, book.YesAsks = yes.bids, yes.asks
	}

	no, err := c.fetchBook(ctx, m.NoTokenID)
	if err != nil {
		logging.Warnf("[polymarket] no book %s: %v", m.ID, err)
	} else {
		book.NoBids, book.NoAsks = no.bids, no.asks
	}

	book.SortAsksAscending()
	book.SortBidsDescending()
	return book, nil
}

type ladders struct {
	bids []venues.PriceLevel
	asks []venues.PriceLevel
}

func (c *Client) fetchBook(ctx context.Context, tokenID string) (ladders, error) {
	q := url.Values{}
	q.Set("token_id", tokenID)

	var raw clobBook
	if err := c.get(ctx, c.clobURL+"/book", q, &raw); err != nil {
		return ladders{}, err
	}
	return ladders{
		bids: convertLevels(raw.Bids),
		asks: convertLevels(raw.Asks),
	}, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, dst any) error {
	u := endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var attempt int
	for {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if shouldRetry(attempt, 0) {
				sleep(ctx, attempt)
				continue
			}
			return err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			err := json.NewDecoder(resp.Body).Decode(dst)
			resp.Body.Close()
			return err
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()

		if shouldRetry(attempt, resp.StatusCode) {
			sleep(ctx, attempt)
			continue
		}
		return fmt.Errorf("polymarket API %s: %s", resp.Status, string(body))
	}
}

func normalizeMarket(raw market) (venues.Market, error) {
	if !raw.EnableOrderBook || !raw.AcceptingOrders {
		return venues.Market{}, fmt.Errorf("order book not accepting orders")
	}
	tokens := parseClobTokenIDs(raw.ClobTokenIDs)
	if len(tokens) < 2 || tokens[0] == "" || tokens[1] == "" {
		return venues.Market{}, fmt.Errorf("missing YES/NO token pair")
	}

	status := venues.StatusOpen
	if raw.Closed {
		status = venues.StatusClosed
	}
	m, err := venues.NewMarket(venues.VenuePolymarket, raw.ConditionID, raw.Question, status)
	if err != nil {
		return venues.Market{}, err
	}

	// Convention: first token is YES, second is NO.
	m.YesTokenID = tokens[0]
	m.NoTokenID = tokens[1]
	m.URL = marketURL(raw)
	if raw.EndDate != "" {
		if ts, err := time.Parse(time.RFC3339, raw.EndDate); err == nil {
			m.CloseTime = ts
		}
	}
	return m, nil
}

// marketURL prefers the enclosing event's slug; many markets belong to an
// event group and only the event page is linkable.
func marketURL(raw market) string {
	for _, ev := range raw.Events {
		if ev.Slug != "" {
			return "https://polymarket.com/event/" + ev.Slug
		}
	}
	if raw.Slug != "" {
		return "https://polymarket.com/event/" + raw.Slug
	}
	return ""
}

func parseClobTokenIDs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil
	}
	return ids
}

func convertLevels(levels []clobLevel) []venues.PriceLevel {
	out := make([]venues.PriceLevel, 0, len(levels))
	for _, lvl := range levels {
		price, err := decimal.NewFromString(lvl.Price)
		if err != nil {
			continue
		}
		size, err := decimal.NewFromString(lvl.Size)
		if err != nil {
			continue
		}
		out = append(out, venues.PriceLevel{Price: price, Quantity: size})
	}
	return out
}

func shouldRetry(attempt int, status int) bool {
	if attempt >= 5 {
		return false
	}
	if status == 0 {
		return true
	}
	return status == http.StatusTooManyRequests || status >= 500
}

func sleep(ctx context.Context, attempt int) {
	backoff := time.Duration(1<<uint(attempt-1)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	select {
	case <-ctx.Done():
	case <-time.After(backoff):
	}
}

type market struct {
	ConditionID     string  `json:"conditionId"`
	Question        string  `json:"question"`
	Slug            string  `json:"slug"`
	ClobTokenIDs    string  `json:"clobTokenIds"`
	EnableOrderBook bool    `json:"enableOrderBook"`
	AcceptingOrders bool    `json:"acceptingOrders"`
	Closed          bool    `json:"closed"`
	EndDate         string  `json:"endDate"`
	Events          []event `json:"events"`
}

type event struct {
	Slug string `json:"slug"`
}

type clobBook struct {
	Bids []clobLevel `json:"bids"`
	Asks []clobLevel `json:"asks"`
}

type clobLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}
