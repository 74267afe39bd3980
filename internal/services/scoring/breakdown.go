package scoring

import (
	"fmt"
	"math"

	"METI/internal/domain/models"
)

// Band cut points as a fraction of a factor's maximum. These are independent
// of the final index thresholds.
const (
	watchRatio    = 0.3
	elevatedRatio = 0.6
	criticalRatio = 0.85
)

// BandFor classifies value relative to maxValue. A non-positive maximum or a
// NaN ratio yields BandCalm.
func BandFor(value, maxValue float64) models.Band {
	if maxValue <= 0 {
		return models.BandCalm
	}
	ratio := value / maxValue
	switch {
	case math.IsNaN(ratio), ratio < watchRatio:
		return models.BandCalm
	case ratio < elevatedRatio:
		return models.BandWatch
	case ratio < criticalRatio:
		return models.BandElevated
	default:
		return models.BandCritical
	}
}

// GeoBreakdown returns the four geopolitical contributions in display order.
func GeoBreakdown(in models.GeoInputs) []models.FactorContribution {
	return []models.FactorContribution{
		contribution(models.FactorCarriers, "US Carriers", fmt.Sprintf("%d/%d", in.Carriers, MaxCarriers),
			CarrierScore(in.Carriers), MaxCarrierScore),
		contribution(models.FactorMilitary, "US Military", in.Military.String(),
			MilitaryScore(in.Military), MaxMilitaryScore),
		contribution(models.FactorAlert, "IDF Alert", in.Alert.String(),
			AlertScore(in.Alert), MaxAlertScore),
		contribution(models.FactorSentiment, "News/Social", fmt.Sprintf("%.1f/%d", in.Sentiment, int(MaxSentiment)),
			SentimentScore(in.Sentiment), MaxSentimentScore),
	}
}

func contribution(f models.Factor, title, display string, score, maxValue float64) models.FactorContribution {
	band := BandFor(score, maxValue)
	return models.FactorContribution{
		Factor:      f,
		Title:       title,
		Display:     display,
		Score:       score,
		Max:         maxValue,
		Band:        band,
		Color:       band.Color(),
		FillPercent: clamp(score/maxValue*100, 0, 100),
	}
}

// AssetSignals returns each instrument's direction-adjusted change for tf in
// catalog order. Unusable changes are shown as 0.0 and flagged.
func AssetSignals(c *Catalog, obs map[string]models.AssetObservation, tf models.Timeframe) []models.AssetSignal {
	out := make([]models.AssetSignal, 0, len(c.instruments))
	for _, in := range c.instruments {
		s := models.AssetSignal{
			Symbol:    in.Symbol,
			Name:      in.Name,
			Emoji:     in.Emoji,
			Color:     in.Color,
			Tooltip:   in.Tooltip,
			Timeframe: tf,
		}
		o, ok := obs[in.Symbol]
		if ok {
			s.Price = o.Price
			change, err := o.Lookup(tf)
			if err != nil {
				s.Neutralized = true
			} else {
				s.Change = change * in.Direction.Sign()
			}
		} else {
			s.Neutralized = true
		}
		s.Rising = s.Change >= 0
		out = append(out, s)
	}
	return out
}
