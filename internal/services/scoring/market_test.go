package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"METI/internal/domain/models"
)

func TestAggregateMarketFlatMarketIsZero(t *testing.T) {
	c := DefaultCatalog()
	raw, neutralized := AggregateMarket(c, flatObservations(c, 0))
	assert.Equal(t, 0.0, raw)
	assert.Empty(t, neutralized)
}

func TestAggregateMarketAppliesWeightsAndDirections(t *testing.T) {
	c := DefaultCatalog()

	raw, _ := AggregateMarket(c, flatObservations(c, 1))
	// 0.30 + 0.25 - 0.18 + 0.08 + 0.07 + 0.12
	assert.InDelta(t, 0.64, raw, 1e-12)

	obs := flatObservations(c, 0)
	obs["CL=F"].Changes[models.TF1d] = 2.0
	raw, _ = AggregateMarket(c, obs)
	assert.InDelta(t, 0.30*2.0*0.40, raw, 1e-12)

	obs = flatObservations(c, 0)
	obs["BTC-USD"].Changes[models.TF1d] = 5.0
	raw, _ = AggregateMarket(c, obs)
	assert.InDelta(t, -0.18*5.0*0.40, raw, 1e-12)
}

func TestAggregateMarketNeutralizesMissingInstrument(t *testing.T) {
	c := DefaultCatalog()
	obs := flatObservations(c, 1)
	delete(obs, "BTC-USD")

	raw, neutralized := AggregateMarket(c, obs)
	// the inverse instrument no longer subtracts its weight
	assert.InDelta(t, 0.82, raw, 1e-12)
	require.Len(t, neutralized, 4)
	for _, n := range neutralized {
		assert.Equal(t, "BTC-USD", n.Symbol)
		assert.Equal(t, models.ErrNoObservation.Error(), n.Reason)
	}
}

func TestAggregateMarketNeutralizesFailedAndBadTimeframes(t *testing.T) {
	c := DefaultCatalog()
	obs := flatObservations(c, 0)
	obs["CL=F"].Changes[models.TF1d] = 50
	obs["CL=F"].Errors[models.TF1d] = "http 502"
	obs["GC=F"].Changes[models.TF1h] = math.NaN()
	delete(obs["LMT"].Changes, models.TF1wk)

	raw, neutralized := AggregateMarket(c, obs)
	assert.Equal(t, 0.0, raw)
	require.Len(t, neutralized, 3)
	assert.Equal(t, models.NeutralizedObservation{Symbol: "CL=F", Timeframe: models.TF1d, Reason: "timeframe fetch failed: http 502"}, neutralized[0])
	assert.Equal(t, models.NeutralizedObservation{Symbol: "GC=F", Timeframe: models.TF1h, Reason: models.ErrNonFiniteChange.Error()}, neutralized[1])
	assert.Equal(t, models.NeutralizedObservation{Symbol: "LMT", Timeframe: models.TF1wk, Reason: models.ErrTimeframeMissing.Error()}, neutralized[2])
}

func TestAggregateMarketEmptySnapshot(t *testing.T) {
	c := DefaultCatalog()
	raw, neutralized := AggregateMarket(c, nil)
	assert.Equal(t, 0.0, raw)
	assert.Len(t, neutralized, 24)
}

func TestAggregateMarketSaturatesOnOverflow(t *testing.T) {
	c := DefaultCatalog()
	raw, _ := AggregateMarket(c, flatObservations(c, math.MaxFloat64))
	assert.False(t, math.IsInf(raw, 0))
	assert.False(t, math.IsNaN(raw))
}

func TestNormalizeMarketKnownValues(t *testing.T) {
	assert.Equal(t, 25.0, NormalizeMarket(0))
	assert.Equal(t, 62.5, NormalizeMarket(5))
	assert.Equal(t, 100.0, NormalizeMarket(10))
	assert.Equal(t, 100.0, NormalizeMarket(250))
	assert.Equal(t, 100.0, NormalizeMarket(math.MaxFloat64))
	assert.Equal(t, 25.0, NormalizeMarket(math.NaN()))

	assert.InDelta(t, 25-(math.Log1p(2)/math.Log1p(20))*25, NormalizeMarket(-1), 1e-12)
	assert.Equal(t, 0.0, NormalizeMarket(-10))
	assert.Equal(t, 0.0, NormalizeMarket(-1e6))
	assert.Equal(t, 0.0, NormalizeMarket(-math.MaxFloat64))
}

func TestNormalizeMarketMonotonicAndBounded(t *testing.T) {
	prev := NormalizeMarket(-50)
	for raw := -50.0; raw <= 50; raw += 0.125 {
		got := NormalizeMarket(raw)
		assert.GreaterOrEqual(t, got, prev, "raw=%v", raw)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 100.0)
		prev = got
	}
}

func TestNormalizeMarketStaysPositiveAboveFloor(t *testing.T) {
	for _, raw := range []float64{-0.001, -0.5, -2, -5, -9.99} {
		got := NormalizeMarket(raw)
		assert.Greater(t, got, 0.0, "raw=%v", raw)
		assert.Less(t, got, 25.0, "raw=%v", raw)
	}
}
