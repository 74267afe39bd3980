package scoring

import (
	"math"

	"METI/internal/domain/models"
)

// Normalizer constants. Changing any of them breaks comparability with
// previously computed indices.
const (
	marketBaseline   = 25.0
	marketSaturation = 10.0
	marketUpsideSpan = 75.0
	marketDecayGain  = 2.0
	marketDecayRef   = 20.0
	scoreMin         = 0.0
	scoreMax         = 100.0
)

// AggregateMarket computes the raw, unbounded market tension signal:
//
//	raw = Σ_i weight_i · Σ_tf change_i[tf] · direction_i · tfWeight[tf]
//
// Instruments absent from obs and timeframes that failed or are missing
// contribute 0.0; each such pair is reported in the returned slice. A sum
// that overflows saturates at ±MaxFloat64.
func AggregateMarket(c *Catalog, obs map[string]models.AssetObservation) (float64, []models.NeutralizedObservation) {
	var (
		total       float64
		neutralized []models.NeutralizedObservation
	)
	for _, in := range c.instruments {
		o, ok := obs[in.Symbol]
		weighted := 0.0
		for _, tw := range c.timeframes {
			if !ok {
				neutralized = append(neutralized, models.NeutralizedObservation{
					Symbol:    in.Symbol,
					Timeframe: tw.Timeframe,
					Reason:    models.ErrNoObservation.Error(),
				})
				continue
			}
			change, err := o.Lookup(tw.Timeframe)
			if err != nil {
				neutralized = append(neutralized, models.NeutralizedObservation{
					Symbol:    in.Symbol,
					Timeframe: tw.Timeframe,
					Reason:    err.Error(),
				})
				change = 0
			}
			weighted += change * in.Direction.Sign() * tw.Weight
		}
		total += weighted * in.Weight
	}
	return saturate(total), neutralized
}

// saturate keeps an overflowed sum finite so it can be reported and encoded.
func saturate(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	default:
		return v
	}
}

// NormalizeMarket maps a raw signal onto [0,100]. Non-negative values rise
// linearly from 25 and saturate at 100 for raw >= 10; negative values decay
// logarithmically from 25 and reach the floor of 0 at raw <= -10. NaN is
// read as a flat market.
func NormalizeMarket(raw float64) float64 {
	if math.IsNaN(raw) {
		raw = 0
	}
	if raw >= 0 {
		return math.Min(scoreMax, marketBaseline+(raw/marketSaturation)*marketUpsideSpan)
	}
	decay := (math.Log1p(math.Abs(raw)*marketDecayGain) / math.Log1p(marketDecayRef)) * marketBaseline
	return math.Max(scoreMin, marketBaseline-decay)
}
