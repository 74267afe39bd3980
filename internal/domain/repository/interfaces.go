package repository

import (
	"context"
	"time"

	"METI/internal/domain/models"
)

// MarketDataProvider fetches one instrument's multi-timeframe snapshot.
// Per-timeframe failures are reported on the observation's Errors; a
// returned error means nothing usable was obtained for the symbol.
type MarketDataProvider interface {
	Fetch(ctx context.Context, symbol string) (models.AssetObservation, error)
}

// Invalidator is implemented by providers that hold cached observations.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// ObservationCache stores observations for a staleness window.
type ObservationCache interface {
	Get(ctx context.Context, symbol string) (models.AssetObservation, bool, error)
	Set(ctx context.Context, obs models.AssetObservation, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// IndexPublisher forwards computed indices to downstream consumers.
type IndexPublisher interface {
	PublishIndex(ctx context.Context, idx *models.TensionIndex) error
	Close() error
}

type Metrics interface {
	RecordIndex(final, market, geo float64, level string)
	RecordNeutralized(symbol, timeframe string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
