package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Settings holds everything one poll cycle needs. It is loaded once at
// startup and passed by value into the scanner; there is no process-wide
// mutable configuration.
type Settings struct {
	// Kalshi
	KalshiBaseURL        string
	KalshiAPIKeyID       string
	KalshiPrivateKeyPath string
	KalshiRPS            float64

	// Polymarket
	PolyGammaURL string
	PolyClobURL  string
	PolyRPS      float64

	// Core thresholds
	FuzzyMatchThreshold float64
	MinProfitThreshold  decimal.Decimal

	// Cycle behavior
	PollInterval     time.Duration
	BookFetchWorkers int

	// Optional alert dedup cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	AlertTTL      time.Duration
}

// Load reads .env if present, then the environment, applying defaults for
// anything unset.
func Load() Settings {
	_ = godotenv.Load()

	return Settings{
		KalshiBaseURL:        envString("KALSHI_BASE_URL", ""),
		KalshiAPIKeyID:       envString("KALSHI_API_KEY_ID", ""),
		KalshiPrivateKeyPath: envString("KALSHI_PRIVATE_KEY_PATH", ""),
		KalshiRPS:            envFloat("KALSHI_RPS", 5),

		PolyGammaURL: envString("POLY_GAMMA_URL", ""),
		PolyClobURL:  envString("POLY_CLOB_URL", ""),
		PolyRPS:      envFloat("POLY_RPS", 10),

		FuzzyMatchThreshold: envFloat("FUZZY_MATCH_THRESHOLD", 95),
		MinProfitThreshold:  decimal.NewFromFloat(envFloat("MIN_PROFIT_THRESHOLD", 0.02)),

		PollInterval:     time.Duration(envInt("POLL_INTERVAL_SECONDS", 30)) * time.Second,
		BookFetchWorkers: envInt("BOOK_FETCH_WORKERS", 8),

		RedisAddr:     envString("REDIS_ADDR", ""),
		RedisPassword: envString("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),
		AlertTTL:      time.Duration(envInt("ALERT_TTL_HOURS", 24)) * time.Hour,
	}
}

func envString(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return def
}
