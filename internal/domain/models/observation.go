package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrNoObservation    = errors.New("no observation")
	ErrTimeframeMissing = errors.New("timeframe missing")
	ErrTimeframeFailed  = errors.New("timeframe fetch failed")
	ErrNonFiniteChange  = errors.New("non-finite change")
)

// AssetObservation is one instrument's snapshot for a refresh cycle, as
// produced by a market data provider. Errors holds the timeframes the
// provider failed to compute; their entry in Changes, if any, is ignored.
type AssetObservation struct {
	Symbol    string                `json:"symbol"`
	Changes   map[Timeframe]float64 `json:"changes"`
	Errors    map[Timeframe]string  `json:"errors,omitempty"`
	Price     float64               `json:"price"`
	FetchedAt time.Time             `json:"fetched_at"`
}

// NewAssetObservation returns an empty observation ready to be filled.
func NewAssetObservation(symbol string) AssetObservation {
	return AssetObservation{
		Symbol:  symbol,
		Changes: make(map[Timeframe]float64),
		Errors:  make(map[Timeframe]string),
	}
}

// FailedObservation marks every given timeframe of symbol as failed with err.
func FailedObservation(symbol string, tfs []Timeframe, err error) AssetObservation {
	o := NewAssetObservation(symbol)
	for _, tf := range tfs {
		o.Errors[tf] = err.Error()
	}
	return o
}

// Lookup returns the percentage change for tf, or an error describing why
// the value cannot be used.
func (o AssetObservation) Lookup(tf Timeframe) (float64, error) {
	if reason, failed := o.Errors[tf]; failed {
		return 0, fmt.Errorf("%w: %s", ErrTimeframeFailed, reason)
	}
	v, ok := o.Changes[tf]
	if !ok {
		return 0, ErrTimeframeMissing
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNonFiniteChange
	}
	return v, nil
}

// Complete reports whether no timeframe failed.
func (o AssetObservation) Complete() bool { return len(o.Errors) == 0 }
