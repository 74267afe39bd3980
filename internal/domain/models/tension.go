package models

import "time"

// TensionLevel is the discrete classification of a final index value.
type TensionLevel int

const (
	LevelLow TensionLevel = iota
	LevelModerate
	LevelElevated
	LevelHigh
)

var levelNames = [...]string{
	LevelLow:      "Low",
	LevelModerate: "Moderate",
	LevelElevated: "Elevated",
	LevelHigh:     "High",
}

func (l TensionLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "Unknown"
	}
	return levelNames[l]
}

// Label is the headline text shown under the gauge.
func (l TensionLevel) Label() string { return l.String() + " Tension" }

// Color is the gauge bar color for the level.
func (l TensionLevel) Color() string {
	switch l {
	case LevelLow:
		return ColorCalm
	case LevelModerate:
		return ColorWatch
	case LevelElevated:
		return ColorElevated
	default:
		return ColorCritical
	}
}

func (l TensionLevel) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

const (
	ColorCalm     = "#10b981"
	ColorWatch    = "#facc15"
	ColorElevated = "#fb923c"
	ColorCritical = "#ef4444"
)

// Band characterises how hot a single contributing factor is, relative to
// its own maximum.
type Band int

const (
	BandCalm Band = iota
	BandWatch
	BandElevated
	BandCritical
)

var bandNames = [...]string{
	BandCalm:     "calm",
	BandWatch:    "watch",
	BandElevated: "elevated",
	BandCritical: "critical",
}

func (b Band) String() string {
	if b < 0 || int(b) >= len(bandNames) {
		return "unknown"
	}
	return bandNames[b]
}

func (b Band) Color() string {
	switch b {
	case BandCalm:
		return ColorCalm
	case BandWatch:
		return ColorWatch
	case BandElevated:
		return ColorElevated
	default:
		return ColorCritical
	}
}

func (b Band) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// Factor identifies one of the four geopolitical subscores.
type Factor string

const (
	FactorCarriers  Factor = "carriers"
	FactorMilitary  Factor = "military"
	FactorAlert     Factor = "alert"
	FactorSentiment Factor = "sentiment"
)

// FactorContribution is one geopolitical factor's share of the geo score.
type FactorContribution struct {
	Factor      Factor  `json:"factor"`
	Title       string  `json:"title"`
	Display     string  `json:"display"`
	Score       float64 `json:"score"`
	Max         float64 `json:"max"`
	Band        Band    `json:"band"`
	Color       string  `json:"color"`
	FillPercent float64 `json:"fill_percent"`
}

// AssetSignal is an instrument's direction-adjusted change for the selected
// display timeframe.
type AssetSignal struct {
	Symbol      string    `json:"symbol"`
	Name        string    `json:"name"`
	Emoji       string    `json:"emoji"`
	Color       string    `json:"color"`
	Tooltip     string    `json:"tooltip"`
	Timeframe   Timeframe `json:"timeframe"`
	Price       float64   `json:"price"`
	Change      float64   `json:"change"`
	Rising      bool      `json:"rising"`
	Neutralized bool      `json:"neutralized"`
}

// NeutralizedObservation records an instrument/timeframe pair whose change
// was replaced by 0.0.
type NeutralizedObservation struct {
	Symbol    string    `json:"symbol"`
	Timeframe Timeframe `json:"timeframe"`
	Reason    string    `json:"reason"`
}

// TensionIndex is the immutable result of one scoring pass.
type TensionIndex struct {
	Final       float64                  `json:"final"`
	Level       TensionLevel             `json:"level"`
	LevelLabel  string                   `json:"level_label"`
	LevelColor  string                   `json:"level_color"`
	MarketRaw   float64                  `json:"market_raw"`
	MarketScore float64                  `json:"market_score"`
	GeoScore    float64                  `json:"geo_score"`
	Geo         GeoInputs                `json:"geo"`
	Factors     []FactorContribution     `json:"factors"`
	Timeframe   Timeframe                `json:"timeframe"`
	Assets      []AssetSignal            `json:"assets"`
	Neutralized []NeutralizedObservation `json:"neutralized,omitempty"`
	ComputedAt  time.Time                `json:"computed_at"`
}
