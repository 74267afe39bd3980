package repository

import "METI/internal/domain/models"

// Timeframes lists the scored horizons from shortest to longest.
func Timeframes() []models.Timeframe {
	return []models.Timeframe{models.TF1h, models.TF4h, models.TF1d, models.TF1wk}
}

func IsValidTimeframe(tf models.Timeframe) bool {
	for _, known := range Timeframes() {
		if tf == known {
			return true
		}
	}
	return false
}

// DefaultTimeframe is the horizon shown on asset cards when none is selected.
func DefaultTimeframe() models.Timeframe { return models.TF1d }

// NormalizeTimeframe maps unknown or empty selections to DefaultTimeframe.
func NormalizeTimeframe(s string) models.Timeframe {
	if tf := models.Timeframe(s); IsValidTimeframe(tf) {
		return tf
	}
	return DefaultTimeframe()
}
