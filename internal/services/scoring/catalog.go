package scoring

import (
	"fmt"
	"math"

	"METI/internal/domain/models"
	domrepo "METI/internal/domain/repository"
)

// weightTolerance bounds how far a weight set may drift from a unit sum.
// The normalizer constants assume a roughly unit-weighted aggregate.
const weightTolerance = 0.001

// TimeframeWeight is a horizon's share of an instrument's weighted change.
type TimeframeWeight struct {
	Timeframe models.Timeframe `json:"timeframe"`
	Weight    float64          `json:"weight"`
}

// Catalog is the immutable registry of tracked instruments and timeframe
// weights. Iteration order is fixed at construction so repeated passes over
// the same inputs sum in the same order.
type Catalog struct {
	instruments []models.Instrument
	timeframes  []TimeframeWeight
	bySymbol    map[string]int
}

// NewCatalog copies and validates the given instruments and timeframes.
// Custom catalogs must be unit-weighted: instrument weights and timeframe
// weights each sum to 1.0 within weightTolerance.
func NewCatalog(instruments []models.Instrument, timeframes []TimeframeWeight) (*Catalog, error) {
	c := &Catalog{
		instruments: append([]models.Instrument(nil), instruments...),
		timeframes:  append([]TimeframeWeight(nil), timeframes...),
		bySymbol:    make(map[string]int, len(instruments)),
	}
	for i, in := range c.instruments {
		c.bySymbol[in.Symbol] = i
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultInstruments returns the six tracked instruments.
func DefaultInstruments() []models.Instrument {
	return []models.Instrument{
		{Symbol: "CL=F", Name: "Crude Oil", Weight: 0.30, Direction: models.DirectionDirect, Emoji: "🛢️", Color: "#FF6B6B",
			Tooltip: "Surges on Middle East supply disruption fears"},
		{Symbol: "GC=F", Name: "Gold", Weight: 0.25, Direction: models.DirectionDirect, Emoji: "🥇", Color: "#FFD166",
			Tooltip: "Classic safe-haven asset during geopolitical tension"},
		{Symbol: "BTC-USD", Name: "Bitcoin", Weight: 0.18, Direction: models.DirectionInverse, Emoji: "₿", Color: "#F7931A",
			Tooltip: "Often falls sharply in risk-off environments (negative correlation)"},
		{Symbol: "LMT", Name: "Lockheed Martin", Weight: 0.08, Direction: models.DirectionDirect, Emoji: "✈️", Color: "#06D6A0",
			Tooltip: "Defense stocks rise on expected military spending"},
		{Symbol: "RTX", Name: "Raytheon", Weight: 0.07, Direction: models.DirectionDirect, Emoji: "🚀", Color: "#118AB2",
			Tooltip: "Additional defense contractor exposure"},
		{Symbol: "^VIX", Name: "VIX Fear Index", Weight: 0.12, Direction: models.DirectionDirect, Emoji: "📉", Color: "#EF4444",
			Tooltip: "Classic 'fear gauge' that spikes during Middle East crises"},
	}
}

// DefaultTimeframeWeights returns the horizon weights, summing to 1.0.
func DefaultTimeframeWeights() []TimeframeWeight {
	return []TimeframeWeight{
		{Timeframe: models.TF1h, Weight: 0.10},
		{Timeframe: models.TF4h, Weight: 0.30},
		{Timeframe: models.TF1d, Weight: 0.40},
		{Timeframe: models.TF1wk, Weight: 0.20},
	}
}

var defaultCatalog = mustCatalog(DefaultInstruments(), DefaultTimeframeWeights())

// DefaultCatalog returns the shared default registry.
func DefaultCatalog() *Catalog { return defaultCatalog }

func mustCatalog(instruments []models.Instrument, timeframes []TimeframeWeight) *Catalog {
	c, err := NewCatalog(instruments, timeframes)
	if err != nil {
		panic(fmt.Sprintf("scoring: invalid built-in catalog: %v", err))
	}
	return c
}

// Validate checks directions, weight ranges, uniqueness and that both weight
// sets sum to 1.0 within tolerance.
func (c *Catalog) Validate() error {
	if len(c.instruments) == 0 {
		return fmt.Errorf("catalog: no instruments")
	}
	if len(c.timeframes) == 0 {
		return fmt.Errorf("catalog: no timeframes")
	}
	if len(c.bySymbol) != len(c.instruments) {
		return fmt.Errorf("catalog: duplicate instrument symbol")
	}
	sum := 0.0
	for _, in := range c.instruments {
		if in.Symbol == "" {
			return fmt.Errorf("catalog: instrument with empty symbol")
		}
		if !in.Direction.Valid() {
			return fmt.Errorf("catalog: %s: direction must be +1 or -1, got %d", in.Symbol, in.Direction)
		}
		if in.Weight < 0 || in.Weight > 1 || math.IsNaN(in.Weight) {
			return fmt.Errorf("catalog: %s: weight %v outside [0,1]", in.Symbol, in.Weight)
		}
		sum += in.Weight
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("catalog: instrument weights sum to %.4f, must sum to 1.0", sum)
	}

	seen := make(map[models.Timeframe]bool, len(c.timeframes))
	sum = 0.0
	for _, tw := range c.timeframes {
		if !domrepo.IsValidTimeframe(tw.Timeframe) {
			return fmt.Errorf("catalog: unsupported timeframe %q", tw.Timeframe)
		}
		if seen[tw.Timeframe] {
			return fmt.Errorf("catalog: duplicate timeframe %q", tw.Timeframe)
		}
		seen[tw.Timeframe] = true
		if tw.Weight < 0 || tw.Weight > 1 || math.IsNaN(tw.Weight) {
			return fmt.Errorf("catalog: timeframe %s: weight %v outside [0,1]", tw.Timeframe, tw.Weight)
		}
		sum += tw.Weight
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("catalog: timeframe weights sum to %.4f, must sum to 1.0", sum)
	}
	return nil
}

// Instruments returns a copy of the instruments in catalog order.
func (c *Catalog) Instruments() []models.Instrument {
	return append([]models.Instrument(nil), c.instruments...)
}

// Timeframes returns a copy of the timeframe weights in catalog order.
func (c *Catalog) Timeframes() []TimeframeWeight {
	return append([]TimeframeWeight(nil), c.timeframes...)
}

// TimeframeKeys returns the timeframes in catalog order.
func (c *Catalog) TimeframeKeys() []models.Timeframe {
	out := make([]models.Timeframe, 0, len(c.timeframes))
	for _, tw := range c.timeframes {
		out = append(out, tw.Timeframe)
	}
	return out
}

// Symbols returns the instrument symbols in catalog order.
func (c *Catalog) Symbols() []string {
	out := make([]string, 0, len(c.instruments))
	for _, in := range c.instruments {
		out = append(out, in.Symbol)
	}
	return out
}

// Instrument looks up an instrument by symbol.
func (c *Catalog) Instrument(symbol string) (models.Instrument, bool) {
	i, ok := c.bySymbol[symbol]
	if !ok {
		return models.Instrument{}, false
	}
	return c.instruments[i], true
}
