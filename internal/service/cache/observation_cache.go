package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"METI/internal/domain/models"
)

const observationPrefix = "obs:"

// ObservationCache stores AssetObservations as JSON on any BytesCache.
type ObservationCache struct {
	store BytesCache
}

func NewObservationCache(store BytesCache) *ObservationCache {
	return &ObservationCache{store: store}
}

func (c *ObservationCache) Get(ctx context.Context, symbol string) (models.AssetObservation, bool, error) {
	b, ok, err := c.store.GetBytes(ctx, observationPrefix+symbol)
	if err != nil || !ok {
		return models.AssetObservation{}, false, err
	}
	var obs models.AssetObservation
	if err := json.Unmarshal(b, &obs); err != nil {
		return models.AssetObservation{}, false, fmt.Errorf("decode cached observation %s: %w", symbol, err)
	}
	return obs, true, nil
}

func (c *ObservationCache) Set(ctx context.Context, obs models.AssetObservation, ttl time.Duration) error {
	b, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("encode observation %s: %w", obs.Symbol, err)
	}
	return c.store.SetBytes(ctx, observationPrefix+obs.Symbol, b, ttl)
}

func (c *ObservationCache) Clear(ctx context.Context) error {
	return c.store.DeletePrefix(ctx, observationPrefix)
}
