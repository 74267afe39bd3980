package repository

import (
	"context"
	"time"

	"METI/internal/domain/models"
	domrepo "METI/internal/domain/repository"
)

// producer is the slice of pkg/kafka.Producer the publisher needs.
type producer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// IndexEvent is the message written for every computed index. It carries
// the scores but not the per-asset cards, which consumers can refetch.
type IndexEvent struct {
	Final       float64            `json:"final"`
	Level       string             `json:"level"`
	MarketRaw   float64            `json:"market_raw"`
	MarketScore float64            `json:"market_score"`
	GeoScore    float64            `json:"geo_score"`
	Geo         models.GeoInputs   `json:"geo"`
	Timeframe   models.Timeframe   `json:"timeframe"`
	Neutralized int                `json:"neutralized"`
	Changes     map[string]float64 `json:"changes"`
	ComputedAt  time.Time          `json:"computed_at"`
}

// NewIndexEvent flattens idx into its wire form.
func NewIndexEvent(idx *models.TensionIndex) IndexEvent {
	changes := make(map[string]float64, len(idx.Assets))
	for _, a := range idx.Assets {
		changes[a.Symbol] = a.Change
	}
	return IndexEvent{
		Final:       idx.Final,
		Level:       idx.Level.String(),
		MarketRaw:   idx.MarketRaw,
		MarketScore: idx.MarketScore,
		GeoScore:    idx.GeoScore,
		Geo:         idx.Geo,
		Timeframe:   idx.Timeframe,
		Neutralized: len(idx.Neutralized),
		Changes:     changes,
		ComputedAt:  idx.ComputedAt,
	}
}

// KafkaIndexPublisher implements IndexPublisher for Kafka.
type KafkaIndexPublisher struct {
	producer producer
	topic    string
}

func NewKafkaIndexPublisher(p producer, topic string) domrepo.IndexPublisher {
	return &KafkaIndexPublisher{producer: p, topic: topic}
}

// PublishIndex keys every event by timeframe so each timeframe's stream
// stays ordered on one partition.
func (p *KafkaIndexPublisher) PublishIndex(ctx context.Context, idx *models.TensionIndex) error {
	return p.producer.Publish(ctx, p.topic, []byte(idx.Timeframe), NewIndexEvent(idx))
}

func (p *KafkaIndexPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
