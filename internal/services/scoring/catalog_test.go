package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"METI/internal/domain/models"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.Validate())
	assert.Equal(t, []string{"CL=F", "GC=F", "BTC-USD", "LMT", "RTX", "^VIX"}, c.Symbols())
	assert.Equal(t, []models.Timeframe{models.TF1h, models.TF4h, models.TF1d, models.TF1wk}, c.TimeframeKeys())

	sum := 0.0
	for _, in := range c.Instruments() {
		sum += in.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	btc, ok := c.Instrument("BTC-USD")
	require.True(t, ok)
	assert.Equal(t, models.DirectionInverse, btc.Direction)
}

func TestCatalogAccessorsReturnCopies(t *testing.T) {
	c := DefaultCatalog()
	ins := c.Instruments()
	ins[0].Weight = 0.99
	tfs := c.Timeframes()
	tfs[0].Weight = 0.99

	in, _ := c.Instrument("CL=F")
	assert.Equal(t, 0.30, in.Weight)
	assert.Equal(t, 0.10, c.Timeframes()[0].Weight)
}

func TestNewCatalogRejectsInvalidConfigurations(t *testing.T) {
	good := DefaultInstruments()
	tfs := DefaultTimeframeWeights()

	cases := map[string]struct {
		instruments []models.Instrument
		timeframes  []TimeframeWeight
	}{
		"instrument weights do not sum to one": {
			instruments: append(append([]models.Instrument(nil), good[:5]...), models.Instrument{Symbol: "^VIX", Weight: 0.5, Direction: models.DirectionDirect}),
			timeframes:  tfs,
		},
		"zero direction": {
			instruments: append(append([]models.Instrument(nil), good[:5]...), models.Instrument{Symbol: "^VIX", Weight: 0.12}),
			timeframes:  tfs,
		},
		"duplicate symbol": {
			instruments: append(append([]models.Instrument(nil), good[:5]...), models.Instrument{Symbol: "RTX", Weight: 0.12, Direction: models.DirectionDirect}),
			timeframes:  tfs,
		},
		"unknown timeframe": {
			instruments: good,
			timeframes:  []TimeframeWeight{{Timeframe: "15m", Weight: 0.5}, {Timeframe: models.TF1d, Weight: 0.5}},
		},
		"duplicate timeframe": {
			instruments: good,
			timeframes:  []TimeframeWeight{{Timeframe: models.TF1d, Weight: 0.5}, {Timeframe: models.TF1d, Weight: 0.5}},
		},
		"timeframe weights do not sum to one": {
			instruments: good,
			timeframes:  []TimeframeWeight{{Timeframe: models.TF1h, Weight: 0.5}, {Timeframe: models.TF1d, Weight: 0.4}},
		},
		"empty": {},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewCatalog(tc.instruments, tc.timeframes)
			assert.Error(t, err)
		})
	}
}

func TestNewCatalogAcceptsCustomRegistry(t *testing.T) {
	c, err := NewCatalog(
		[]models.Instrument{
			{Symbol: "A", Weight: 0.5, Direction: models.DirectionDirect},
			{Symbol: "B", Weight: 0.5, Direction: models.DirectionInverse},
		},
		[]TimeframeWeight{{Timeframe: models.TF1d, Weight: 1}},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, c.Symbols())
}
