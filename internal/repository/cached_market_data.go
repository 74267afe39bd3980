package repository

import (
	"context"
	"time"

	"METI/internal/domain/models"
	domrepo "METI/internal/domain/repository"
	applogger "METI/pkg/logger"
)

// CachedMarketData serves observations from a cache for ttl before asking
// the wrapped provider again. Only complete observations are cached, so a
// partial outage is retried on the next refresh rather than pinned.
type CachedMarketData struct {
	next  domrepo.MarketDataProvider
	cache domrepo.ObservationCache
	ttl   time.Duration
	log   *applogger.Logger
}

func NewCachedMarketData(next domrepo.MarketDataProvider, cache domrepo.ObservationCache, ttl time.Duration, l *applogger.Logger) *CachedMarketData {
	if l == nil {
		l = applogger.Nop()
	}
	return &CachedMarketData{next: next, cache: cache, ttl: ttl, log: l}
}

func (c *CachedMarketData) Fetch(ctx context.Context, symbol string) (models.AssetObservation, error) {
	if c.ttl > 0 {
		obs, ok, err := c.cache.Get(ctx, symbol)
		switch {
		case err != nil:
			// a broken cache must not take the index down
			c.log.Warn("observation cache read failed", applogger.String("symbol", symbol), applogger.Error(err))
		case ok:
			return obs, nil
		}
	}

	obs, err := c.next.Fetch(ctx, symbol)
	if err != nil {
		return obs, err
	}

	if c.ttl > 0 && obs.Complete() {
		if err := c.cache.Set(ctx, obs, c.ttl); err != nil {
			c.log.Warn("observation cache write failed", applogger.String("symbol", symbol), applogger.Error(err))
		}
	}
	return obs, nil
}

// Invalidate drops every cached observation.
func (c *CachedMarketData) Invalidate(ctx context.Context) error {
	return c.cache.Clear(ctx)
}
