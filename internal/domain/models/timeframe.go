package models

// Timeframe is the horizon a percentage price change is measured over.
type Timeframe string

const (
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
	TF1wk Timeframe = "1wk"
)

// Label returns the human readable name used by the dashboard selector.
func (tf Timeframe) Label() string {
	switch tf {
	case TF1h:
		return "1 Hour"
	case TF4h:
		return "4 Hours"
	case TF1d:
		return "1 Day"
	case TF1wk:
		return "1 Week"
	default:
		return string(tf)
	}
}
