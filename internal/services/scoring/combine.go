package scoring

import "METI/internal/domain/models"

const (
	MarketWeight = 0.7
	GeoWeight    = 0.3

	moderateThreshold = 30.0
	elevatedThreshold = 60.0
	highThreshold     = 80.0
)

// Combine blends the market and geopolitical scores 70/30 and classifies
// the result. Inputs are clamped to [0,100]; since the weights sum to one the
// blend of two in-range values stays within [0,100], and the final clamp is
// the identity on valid inputs.
func Combine(market, geo float64) (float64, models.TensionLevel) {
	m := clamp(market, scoreMin, scoreMax)
	g := clamp(geo, scoreMin, scoreMax)
	final := clamp(MarketWeight*m+GeoWeight*g, scoreMin, scoreMax)
	return final, Classify(final)
}

// Classify maps a final index onto its level using half-open bands
// [0,30) [30,60) [60,80) [80,100].
func Classify(final float64) models.TensionLevel {
	switch {
	case final < moderateThreshold:
		return models.LevelLow
	case final < elevatedThreshold:
		return models.LevelModerate
	case final < highThreshold:
		return models.LevelElevated
	default:
		return models.LevelHigh
	}
}
