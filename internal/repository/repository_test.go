package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"METI/internal/domain/models"
	"METI/internal/service/cache"
	"METI/internal/services/scoring"
)

type countingProvider struct {
	calls   int
	partial bool
	err     error
}

func (p *countingProvider) Fetch(_ context.Context, symbol string) (models.AssetObservation, error) {
	p.calls++
	if p.err != nil {
		return models.AssetObservation{}, p.err
	}
	o := models.NewAssetObservation(symbol)
	o.Changes[models.TF1d] = 1.5
	if p.partial {
		o.Errors[models.TF1h] = "short series"
	}
	return o, nil
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (models.AssetObservation, bool, error) {
	return models.AssetObservation{}, false, errors.New("redis down")
}
func (brokenCache) Set(context.Context, models.AssetObservation, time.Duration) error {
	return errors.New("redis down")
}
func (brokenCache) Clear(context.Context) error { return errors.New("redis down") }

func newObsCache() *cache.ObservationCache {
	return cache.NewObservationCache(cache.NewTTLCache())
}

func TestCachedMarketData_ServesFromCache(t *testing.T) {
	ctx := context.Background()
	p := &countingProvider{}
	c := NewCachedMarketData(p, newObsCache(), time.Minute, nil)

	a, err := c.Fetch(ctx, "CL=F")
	require.NoError(t, err)
	b, err := c.Fetch(ctx, "CL=F")
	require.NoError(t, err)

	assert.Equal(t, 1, p.calls)
	assert.Equal(t, a.Changes, b.Changes)
}

func TestCachedMarketData_SkipsPartialObservations(t *testing.T) {
	ctx := context.Background()
	p := &countingProvider{partial: true}
	c := NewCachedMarketData(p, newObsCache(), time.Minute, nil)

	_, _ = c.Fetch(ctx, "CL=F")
	_, _ = c.Fetch(ctx, "CL=F")
	assert.Equal(t, 2, p.calls)
}

func TestCachedMarketData_InvalidateForcesRefetch(t *testing.T) {
	ctx := context.Background()
	p := &countingProvider{}
	c := NewCachedMarketData(p, newObsCache(), time.Minute, nil)

	_, _ = c.Fetch(ctx, "GC=F")
	require.NoError(t, c.Invalidate(ctx))
	_, _ = c.Fetch(ctx, "GC=F")
	assert.Equal(t, 2, p.calls)
}

func TestCachedMarketData_ZeroTTLDisablesCache(t *testing.T) {
	ctx := context.Background()
	p := &countingProvider{}
	c := NewCachedMarketData(p, newObsCache(), 0, nil)

	_, _ = c.Fetch(ctx, "GC=F")
	_, _ = c.Fetch(ctx, "GC=F")
	assert.Equal(t, 2, p.calls)
}

func TestCachedMarketData_BrokenCacheFallsThrough(t *testing.T) {
	p := &countingProvider{}
	c := NewCachedMarketData(p, brokenCache{}, time.Minute, nil)

	obs, err := c.Fetch(context.Background(), "LMT")
	require.NoError(t, err)
	assert.Equal(t, 1.5, obs.Changes[models.TF1d])
}

func TestCachedMarketData_ProviderErrorPassesThrough(t *testing.T) {
	boom := errors.New("upstream")
	c := NewCachedMarketData(&countingProvider{err: boom}, newObsCache(), time.Minute, nil)

	_, err := c.Fetch(context.Background(), "LMT")
	require.ErrorIs(t, err, boom)
}

type recordingProducer struct {
	topic  string
	key    []byte
	value  interface{}
	closed bool
}

func (p *recordingProducer) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	p.topic, p.key, p.value = topic, key, value
	return nil
}
func (p *recordingProducer) Close() error { p.closed = true; return nil }

func TestKafkaIndexPublisher_PublishesEvent(t *testing.T) {
	obs := map[string]models.AssetObservation{}
	for _, sym := range scoring.DefaultCatalog().Symbols() {
		o := models.NewAssetObservation(sym)
		for _, tf := range scoring.DefaultCatalog().TimeframeKeys() {
			o.Changes[tf] = 0
		}
		obs[sym] = o
	}
	at := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	idx := scoring.ComputeIndex(nil, obs, models.DefaultGeoInputs(),
		scoring.WithDisplayTimeframe(models.TF4h), scoring.WithTimestamp(at))

	prod := &recordingProducer{}
	pub := NewKafkaIndexPublisher(prod, "meti.index")
	require.NoError(t, pub.PublishIndex(context.Background(), &idx))

	assert.Equal(t, "meti.index", prod.topic)
	assert.Equal(t, []byte("4h"), prod.key)

	b, err := json.Marshal(prod.value)
	require.NoError(t, err)
	var ev map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &ev))
	assert.InDelta(t, 39.4, ev["final"], 1e-9)
	assert.Equal(t, "Moderate", ev["level"])
	assert.Equal(t, "4h", ev["timeframe"])
	assert.Equal(t, "Extreme", ev["geo"].(map[string]interface{})["military"])
	assert.Len(t, ev["changes"], 6)

	require.NoError(t, pub.Close())
	assert.True(t, prod.closed)
}
