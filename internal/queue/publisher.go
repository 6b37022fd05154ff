package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/hetulpatel/arbscan/internal/matches"
)

type envelope struct {
	CycleID     string              `json:"cycle_id"`
	PublishedAt time.Time           `json:"published_at"`
	Opportunity matches.Opportunity `json:"opportunity"`
}

// Publisher pushes ranked opportunities onto a Kafka topic for downstream
// consumers. A nil *Publisher is valid and publishes nothing.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(writer *kafka.Writer) *Publisher {
	if writer == nil {
		return nil
	}
	return &Publisher{writer: writer}
}

func (p *Publisher) Publish(ctx context.Context, cycleID string, opps []matches.Opportunity) error {
	if p == nil || len(opps) == 0 {
		return nil
	}

	published := time.Now().UTC()
	msgs := make([]kafka.Message, 0, len(opps))

	for _, opp := range opps {
		payload, err := json.Marshal(envelope{
			CycleID:     cycleID,
			PublishedAt: published,
			Opportunity: opp,
		})
		if err != nil {
			return fmt.Errorf("marshal opportunity %s: %w", opp.Pair.PairID, err)
		}
		key := fmt.Sprintf("%s-%s", opp.Pair.PairID, opp.Strategy)
		msgs = append(msgs, kafka.Message{Key: []byte(key), Value: payload})
	}

	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
