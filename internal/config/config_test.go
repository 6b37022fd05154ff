package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	settings := Load()

	assert.Equal(t, 95.0, settings.FuzzyMatchThreshold)
	assert.Equal(t, "0.02", settings.MinProfitThreshold.StringFixed(2))
	assert.Equal(t, 30*time.Second, settings.PollInterval)
	assert.Equal(t, 8, settings.BookFetchWorkers)
	assert.Equal(t, 5.0, settings.KalshiRPS)
	assert.Equal(t, 10.0, settings.PolyRPS)
	assert.Equal(t, 24*time.Hour, settings.AlertTTL)
	assert.Empty(t, settings.RedisAddr)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FUZZY_MATCH_THRESHOLD", "88.5")
	t.Setenv("MIN_PROFIT_THRESHOLD", "0.05")
	t.Setenv("POLL_INTERVAL_SECONDS", "120")
	t.Setenv("BOOK_FETCH_WORKERS", "16")
	t.Setenv("KALSHI_BASE_URL", "http://localhost:8080")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("ALERT_TTL_HOURS", "6")

	settings := Load()

	assert.Equal(t, 88.5, settings.FuzzyMatchThreshold)
	assert.Equal(t, "0.05", settings.MinProfitThreshold.StringFixed(2))
	assert.Equal(t, 2*time.Minute, settings.PollInterval)
	assert.Equal(t, 16, settings.BookFetchWorkers)
	assert.Equal(t, "http://localhost:8080", settings.KalshiBaseURL)
	assert.Equal(t, "localhost:6379", settings.RedisAddr)
	assert.Equal(t, 6*time.Hour, settings.AlertTTL)
}

func TestLoadIgnoresBadNumbers(t *testing.T) {
	t.Setenv("POLL_INTERVAL_SECONDS", "not-a-number")
	t.Setenv("FUZZY_MATCH_THRESHOLD", "")

	settings := Load()
	assert.Equal(t, 30*time.Second, settings.PollInterval)
	assert.Equal(t, 95.0, settings.FuzzyMatchThreshold)
}
