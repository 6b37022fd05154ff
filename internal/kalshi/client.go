package kalshi

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/hetulpatel/arbscan/internal/logging"
	"github.com/hetulpatel/arbscan/internal/venues"
)

const (
	defaultBaseURL  = "https://api.elections.kalshi.com/trade-api/v2"
	defaultPageSize = 1000
	defaultRPS      = 5.0
	bookDepth       = 10
)

// Client talks to the Kalshi Trade API. Market-data endpoints work
// unauthenticated; when an API key and RSA private key are configured,
// requests are signed with RSA-PSS-SHA256 the way the trade API expects.
type Client struct {
	baseURL    string
	apiKeyID   string
	privateKey *rsa.PrivateKey
	httpClient *http.Client
	limiter    *rate.Limiter
	pageSize   int
}

// Config provides optional overrides.
type Config struct {
	BaseURL           string
	APIKeyID          string
	PrivateKeyPEM     []byte
	RequestsPerSecond float64
	Timeout           time.Duration
	PageSize          int
}

// NewClient builds a configured Kalshi API client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
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

	c := &Client{
		baseURL:    base,
		apiKeyID:   cfg.APIKeyID,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		pageSize:   pageSize,
	}
	if len(cfg.PrivateKeyPEM) > 0 {
		key, err := parsePrivateKey(cfg.PrivateKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("kalshi: %w", err)
		}
		c.privateKey = key
	}
	return c, nil
}

func (c *Client) Name() string {
	return "kalshi"
}

// Markets fetches every open market, following the cursor until the API
// reports no more pages. Malformed listings are skipped with a warning.
func (c *Client) Markets(ctx context.Context) ([]venues.Market, error) {
	var (
		out    []venues.Market
		cursor string
	)
	for {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(c.pageSize))
		q.Set("status", "open")
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var resp marketsResponse
		if err := c.get(ctx, "/markets", q, &resp); err != nil {
			return nil, fmt.Errorf("list kalshi markets: %w", err)
		}

		for _, raw := range resp.Markets {
			m, err := normalizeMarket(raw)
			if err != nil {
				logging.Warnf("[kalshi] skip listing %q: %v", raw.Ticker, err)
				continue
			}
			out = append(out, m)
		}

		cursor = resp.Cursor
		if cursor == "" {
			return out, nil
		}
	}
}

// OrderBook fetches the market's ladders. Kalshi only publishes YES and NO
// bids; asks are derived from the opposite side, since a NO bid at p is an
// offer to sell YES at 1-p.
func (c *Client) OrderBook(ctx context.Context, m venues.Market) (venues.OrderBook, error) {
	q := url.Values{}
	q.Set("depth", strconv.Itoa(bookDepth))

	var resp orderbookResponse
	if err := c.get(ctx, "/markets/"+m.ID+"/orderbook", q, &resp); err != nil {
		return venues.OrderBook{}, fmt.Errorf("kalshi orderbook %s: %w", m.ID, err)
	}

	yesBids := convertLevels(resp.Orderbook.Yes)
	noBids := convertLevels(resp.Orderbook.No)

	book := venues.OrderBook{
		MarketID: m.ID,
		YesBids:  yesBids,
		NoBids:   noBids,
		YesAsks:  venues.ComplementAsks(noBids),
		NoAsks:   venues.ComplementAsks(yesBids),
	}
	book.SortBidsDescending()
	return book, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	u := c.baseURL + path
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
		if err := c.sign(req); err != nil {
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
		return fmt.Errorf("kalshi API %s: %s", resp.Status, string(body))
	}
}

// sign adds the RSA-PSS authentication headers over timestamp + method +
// path. A no-op when credentials are not configured.
func (c *Client) sign(req *http.Request) error {
	if c.privateKey == nil {
		return nil
	}
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	message := ts + req.Method + req.URL.Path

	hash := sha256.Sum256([]byte(message))
	signature, err := rsa.SignPSS(rand.Reader, c.privateKey, crypto.SHA256, hash[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
	})
	if err != nil {
		return fmt.Errorf("kalshi sign: %w", err)
	}

	req.Header.Set("KALSHI-ACCESS-KEY", c.apiKeyID)
	req.Header.Set("KALSHI-ACCESS-SIGNATURE", base64.StdEncoding.EncodeToString(signature))
	req.Header.Set("KALSHI-ACCESS-TIMESTAMP", ts)
	return nil
}

func parsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in private key")
	}
	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("expected RSA private key, got %T", key)
		}
		return rsaKey, nil
	}
	return x509.ParsePKCS1PrivateKey(block.Bytes)
}

func normalizeMarket(raw market) (venues.Market, error) {
	m, err := venues.NewMarket(venues.VenueKalshi, raw.Ticker, raw.Title, statusOf(raw.Status))
	if err != nil {
		return venues.Market{}, err
	}
	if raw.CloseTime != "" {
		if ts, err := time.Parse(time.RFC3339, raw.CloseTime); err == nil {
			m.CloseTime = ts
		}
	}
	m.EventTicker = raw.EventTicker
	m.URL = marketURL(raw.EventTicker, raw.Ticker)
	return m, nil
}

func statusOf(s string) venues.Status {
	if s == "active" || s == "open" {
		return venues.StatusOpen
	}
	if s == "" {
		return ""
	}
	return venues.StatusClosed
}

var seriesSuffixRe = regexp.MustCompile(`-\d`)

// marketURL points at the market's series page. The series ticker is the
// event ticker with its numeric suffixes removed, e.g.
// KXNEXTISRAELPM-45JAN01-YLAP -> KXNEXTISRAELPM.
func marketURL(eventTicker, ticker string) string {
	series := eventTicker
	if series == "" {
		series = ticker
	}
	if loc := seriesSuffixRe.FindStringIndex(series); loc != nil {
		series = series[:loc[0]]
	}
	return "https://kalshi.com/markets/" + strings.ToLower(series)
}

func convertLevels(levels [][]int64) []venues.PriceLevel {
	out := make([]venues.PriceLevel, 0, len(levels))
	for _, lvl := range levels {
		if len(lvl) < 2 {
			continue
		}
		out = append(out, venues.PriceLevel{
			Price:    decimal.New(lvl[0], -2), // cents to probability
			Quantity: decimal.NewFromInt(lvl[1]),
		})
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

type marketsResponse struct {
	Markets []market `json:"markets"`
	Cursor  string   `json:"cursor"`
}

type market struct {
	Ticker      string `json:"ticker"`
	EventTicker string `json:"event_ticker"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	CloseTime   string `json:"close_time"`
}

type orderbookResponse struct {
	Orderbook orderbook `json:"orderbook"`
}

type orderbook struct {
	Yes [][]int64 `json:"yes"`
	No  [][]int64 `json:"no"`
}
