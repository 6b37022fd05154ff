package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hetulpatel/arbscan/internal/config"
	"github.com/hetulpatel/arbscan/internal/kalshi"
	"github.com/hetulpatel/arbscan/internal/logging"
	"github.com/hetulpatel/arbscan/internal/polymarket"
	"github.com/hetulpatel/arbscan/internal/venues"
)

// Dev tool: dump normalized market listings for one venue as JSON.
// Usage: dump_markets [kalshi|polymarket]
func main() {
	logging.InitFromEnv()
	settings := config.Load()

	venue := "kalshi"
	if len(os.Args) > 1 {
		venue = os.Args[1]
	}

	var provider venues.Provider
	switch venue {
	case "kalshi":
		var keyPEM []byte
		if settings.KalshiPrivateKeyPath != "" {
			raw, err := os.ReadFile(settings.KalshiPrivateKeyPath)
			if err != nil {
				logging.Fatalf("read kalshi private key: %v", err)
			}
			keyPEM = raw
		}
		client, err := kalshi.NewClient(kalshi.Config{
			BaseURL:           settings.KalshiBaseURL,
			APIKeyID:          settings.KalshiAPIKeyID,
			PrivateKeyPEM:     keyPEM,
			RequestsPerSecond: settings.KalshiRPS,
		})
		if err != nil {
			logging.Fatalf("kalshi client: %v", err)
		}
		provider = client
	case "polymarket":
		provider = polymarket.NewClient(polymarket.Config{
			GammaURL:          settings.PolyGammaURL,
			ClobURL:           settings.PolyClobURL,
			RequestsPerSecond: settings.PolyRPS,
		})
	default:
		logging.Fatalf("unknown venue %q (want kalshi or polymarket)", venue)
	}

	markets, err := provider.Markets(context.Background())
	if err != nil {
		logging.Fatalf("fetch %s markets: %v", provider.Name(), err)
	}

	out, err := json.MarshalIndent(markets, "", "  ")
	if err != nil {
		logging.Fatalf("marshal markets: %v", err)
	}
	fmt.Println(string(out))
	logging.Infof("dumped %d %s markets", len(markets), provider.Name())
}
