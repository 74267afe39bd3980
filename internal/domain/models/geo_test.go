package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevelsExactNames(t *testing.T) {
	for _, l := range MilitaryLevels() {
		assert.Equal(t, l, ParseMilitaryLevel(l.String()))
	}
	for _, l := range AlertLevels() {
		assert.Equal(t, l, ParseAlertLevel(l.String()))
	}
	assert.Equal(t, MilitaryUnknown, ParseMilitaryLevel("extreme"))
	assert.Equal(t, MilitaryUnknown, ParseMilitaryLevel(""))
	assert.Equal(t, AlertUnknown, ParseAlertLevel("Severe"))
	assert.Equal(t, "Unknown", MilitaryLevel(17).String())
}

func TestGeoInputsJSONRoundTripIsLenient(t *testing.T) {
	var in GeoInputs
	err := json.Unmarshal([]byte(`{"carriers":3,"military":"Massive","alert":"Moderate","sentiment":4.5}`), &in)
	require.NoError(t, err)
	assert.Equal(t, 3, in.Carriers)
	assert.Equal(t, MilitaryUnknown, in.Military)
	assert.Equal(t, AlertModerate, in.Alert)
	assert.Equal(t, 4.5, in.Sentiment)
}

func TestObservationLookup(t *testing.T) {
	o := NewAssetObservation("GC=F")
	o.Changes[TF1h] = 0.4
	o.Changes[TF1d] = 1.1
	o.Errors[TF1d] = "bad gateway"

	v, err := o.Lookup(TF1h)
	require.NoError(t, err)
	assert.Equal(t, 0.4, v)

	_, err = o.Lookup(TF1d)
	assert.ErrorIs(t, err, ErrTimeframeFailed)
	_, err = o.Lookup(TF1wk)
	assert.ErrorIs(t, err, ErrTimeframeMissing)
	assert.False(t, o.Complete())

	failed := FailedObservation("LMT", []Timeframe{TF1h, TF4h}, ErrNoObservation)
	assert.Len(t, failed.Errors, 2)
}
