package scoring

import (
	"time"

	"METI/internal/domain/models"
	domrepo "METI/internal/domain/repository"
)

type indexOptions struct {
	timeframe  models.Timeframe
	computedAt time.Time
}

// IndexOption configures ComputeIndex.
type IndexOption func(*indexOptions)

// WithDisplayTimeframe selects the timeframe used for asset signals. It has
// no effect on scoring.
func WithDisplayTimeframe(tf models.Timeframe) IndexOption {
	return func(o *indexOptions) { o.timeframe = tf }
}

// WithTimestamp stamps the result. Without it ComputedAt is the zero time.
func WithTimestamp(t time.Time) IndexOption {
	return func(o *indexOptions) { o.computedAt = t }
}

// ComputeIndex runs one scoring pass. It is a pure function of its
// arguments: it never fails, holds no state between calls and reads no
// clock, so identical inputs give identical results.
func ComputeIndex(c *Catalog, obs map[string]models.AssetObservation, geo models.GeoInputs, opts ...IndexOption) models.TensionIndex {
	o := indexOptions{timeframe: domrepo.DefaultTimeframe()}
	for _, opt := range opts {
		opt(&o)
	}
	if !domrepo.IsValidTimeframe(o.timeframe) {
		o.timeframe = domrepo.DefaultTimeframe()
	}
	if c == nil {
		c = DefaultCatalog()
	}

	raw, neutralized := AggregateMarket(c, obs)
	market := NormalizeMarket(raw)
	geoScore := GeoScore(geo)
	final, level := Combine(market, geoScore)

	return models.TensionIndex{
		Final:       final,
		Level:       level,
		LevelLabel:  level.Label(),
		LevelColor:  level.Color(),
		MarketRaw:   raw,
		MarketScore: market,
		GeoScore:    geoScore,
		Geo:         geo,
		Factors:     GeoBreakdown(geo),
		Timeframe:   o.timeframe,
		Assets:      AssetSignals(c, obs, o.timeframe),
		Neutralized: neutralized,
		ComputedAt:  o.computedAt,
	}
}
