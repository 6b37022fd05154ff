package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/hetulpatel/arbscan/internal/cache"
	"github.com/hetulpatel/arbscan/internal/config"
	"github.com/hetulpatel/arbscan/internal/display"
	"github.com/hetulpatel/arbscan/internal/kafka"
	"github.com/hetulpatel/arbscan/internal/kalshi"
	"github.com/hetulpatel/arbscan/internal/logging"
	"github.com/hetulpatel/arbscan/internal/matcher"
	"github.com/hetulpatel/arbscan/internal/polymarket"
	"github.com/hetulpatel/arbscan/internal/queue"
	"github.com/hetulpatel/arbscan/internal/scanner"
)

func main() {
	logging.InitFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settings := config.Load()

	var keyPEM []byte
	if settings.KalshiPrivateKeyPath != "" {
		raw, err := os.ReadFile(settings.KalshiPrivateKeyPath)
		if err != nil {
			logging.Fatalf("read kalshi private key: %v", err)
		}
		keyPEM = raw
	}

	kalshiClient, err := kalshi.NewClient(kalshi.Config{
		BaseURL:           settings.KalshiBaseURL,
		APIKeyID:          settings.KalshiAPIKeyID,
		PrivateKeyPEM:     keyPEM,
		RequestsPerSecond: settings.KalshiRPS,
	})
	if err != nil {
		logging.Fatalf("kalshi client: %v", err)
	}

	polyClient := polymarket.NewClient(polymarket.Config{
		GammaURL:          settings.PolyGammaURL,
		ClobURL:           settings.PolyClobURL,
		RequestsPerSecond: settings.PolyRPS,
	})

	cfg := scanner.Config{
		Kalshi:      kalshiClient,
		Poly:        polyClient,
		Matcher:     matcher.New(matcher.Config{Threshold: settings.FuzzyMatchThreshold}),
		MinProfit:   settings.MinProfitThreshold,
		Interval:    settings.PollInterval,
		BookWorkers: settings.BookFetchWorkers,
		Display:     display.NewConsole(),
	}

	if settings.RedisAddr != "" {
		alerts, err := cache.NewRedisOpportunityCache(settings.RedisAddr, settings.RedisPassword, settings.RedisDB, settings.AlertTTL)
		if err != nil {
			logging.Fatalf("alert cache: %v", err)
		}
		defer alerts.Close()
		cfg.Alerts = alerts
		logging.Infof("alert dedup enabled redis=%s ttl=%s", settings.RedisAddr, settings.AlertTTL)
	}

	if brokers := kafka.Brokers(); len(brokers) > 0 {
		topic := kafka.TopicFromEnv("KAFKA_OPPORTUNITY_TOPIC", kafka.DefaultOpportunityTopic)
		if err := kafka.EnsureTopic(ctx, brokers, topic); err != nil {
			logging.Fatalf("ensure topic %s: %v", topic, err)
		}
		publisher := queue.NewPublisher(kafka.NewWriter(brokers, topic))
		defer publisher.Close()
		cfg.Publisher = publisher
		logging.Infof("publishing opportunities to %s", topic)
	}

	sc, err := scanner.New(cfg)
	if err != nil {
		logging.Fatalf("scanner: %v", err)
	}

	logging.Infof("scanner starting interval=%s min_profit=%s threshold=%.1f",
		cfg.Interval, settings.MinProfitThreshold, settings.FuzzyMatchThreshold)

	if err := sc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatalf("scanner stopped: %v", err)
	}
	logging.Infof("scanner shut down")
}
