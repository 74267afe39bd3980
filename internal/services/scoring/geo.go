package scoring

import (
	"math"

	"METI/internal/domain/models"
)

const (
	MaxCarriers          = 4
	carrierPoints        = 8.75
	MaxCarrierScore      = MaxCarriers * carrierPoints
	MaxMilitaryScore     = 40.0
	MaxAlertScore        = 15.0
	MaxSentiment         = 10.0
	MaxSentimentScore    = 10.0
	unknownMilitaryScore = 25.0
	unknownAlertScore    = 8.0
)

// CarrierScore awards 8.75 points per carrier, counting at most four.
// Negative counts score zero.
func CarrierScore(carriers int) float64 {
	if carriers < 0 {
		carriers = 0
	}
	if carriers > MaxCarriers {
		carriers = MaxCarriers
	}
	return float64(carriers) * carrierPoints
}

// MilitaryScore looks up the military activity subscore. Unrecognised
// levels score 25.
func MilitaryScore(l models.MilitaryLevel) float64 {
	switch l {
	case models.MilitaryLow:
		return 0
	case models.MilitaryModerate:
		return 15
	case models.MilitaryHigh:
		return 25
	case models.MilitaryExtreme:
		return 32
	case models.MilitaryUnprecedented:
		return 40
	default:
		return unknownMilitaryScore
	}
}

// AlertScore looks up the alert level subscore. Unrecognised levels score 8.
func AlertScore(l models.AlertLevel) float64 {
	switch l {
	case models.AlertLow:
		return 0
	case models.AlertModerate:
		return 8
	case models.AlertHigh:
		return 15
	default:
		return unknownAlertScore
	}
}

// SentimentScore scales sentiment in [0,10] onto [0,10]. Inputs outside the
// range are clamped and NaN scores zero.
func SentimentScore(sentiment float64) float64 {
	s := clamp(sentiment, 0, MaxSentiment)
	return (s / MaxSentiment) * MaxSentimentScore
}

// GeoScore sums the four subscores. The maxima add up to exactly 100.
func GeoScore(in models.GeoInputs) float64 {
	sum := CarrierScore(in.Carriers) +
		MilitaryScore(in.Military) +
		AlertScore(in.Alert) +
		SentimentScore(in.Sentiment)
	return clamp(sum, scoreMin, scoreMax)
}

// clamp bounds v to [lo,hi]; NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
