package models

// MilitaryLevel is the ordered US military activity level. MilitaryUnknown
// stands for any unrecognised input.
type MilitaryLevel int

const (
	MilitaryUnknown MilitaryLevel = iota
	MilitaryLow
	MilitaryModerate
	MilitaryHigh
	MilitaryExtreme
	MilitaryUnprecedented
)

var militaryNames = [...]string{
	MilitaryUnknown:       "Unknown",
	MilitaryLow:           "Low",
	MilitaryModerate:      "Moderate",
	MilitaryHigh:          "High",
	MilitaryExtreme:       "Extreme",
	MilitaryUnprecedented: "Unprecedented",
}

// MilitaryLevels returns the recognised levels in ascending order.
func MilitaryLevels() []MilitaryLevel {
	return []MilitaryLevel{MilitaryLow, MilitaryModerate, MilitaryHigh, MilitaryExtreme, MilitaryUnprecedented}
}

// ParseMilitaryLevel maps a level name to its variant. Names are matched
// exactly; anything else yields MilitaryUnknown.
func ParseMilitaryLevel(s string) MilitaryLevel {
	for _, l := range MilitaryLevels() {
		if militaryNames[l] == s {
			return l
		}
	}
	return MilitaryUnknown
}

func (l MilitaryLevel) String() string {
	if l < 0 || int(l) >= len(militaryNames) {
		return militaryNames[MilitaryUnknown]
	}
	return militaryNames[l]
}

func (l MilitaryLevel) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText never fails; unrecognised names decode to MilitaryUnknown.
func (l *MilitaryLevel) UnmarshalText(b []byte) error {
	*l = ParseMilitaryLevel(string(b))
	return nil
}

// AlertLevel is the ordered IDF alert level. AlertUnknown stands for any
// unrecognised input.
type AlertLevel int

const (
	AlertUnknown AlertLevel = iota
	AlertLow
	AlertModerate
	AlertHigh
)

var alertNames = [...]string{
	AlertUnknown:  "Unknown",
	AlertLow:      "Low",
	AlertModerate: "Moderate",
	AlertHigh:     "High",
}

// AlertLevels returns the recognised levels in ascending order.
func AlertLevels() []AlertLevel {
	return []AlertLevel{AlertLow, AlertModerate, AlertHigh}
}

// ParseAlertLevel maps a level name to its variant, AlertUnknown otherwise.
func ParseAlertLevel(s string) AlertLevel {
	for _, l := range AlertLevels() {
		if alertNames[l] == s {
			return l
		}
	}
	return AlertUnknown
}

func (l AlertLevel) String() string {
	if l < 0 || int(l) >= len(alertNames) {
		return alertNames[AlertUnknown]
	}
	return alertNames[l]
}

func (l AlertLevel) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *AlertLevel) UnmarshalText(b []byte) error {
	*l = ParseAlertLevel(string(b))
	return nil
}

const (
	DefaultCarriers  = 2
	DefaultMilitary  = MilitaryExtreme
	DefaultAlert     = AlertHigh
	DefaultSentiment = 8.5
)

// GeoInputs are the four manually supplied geopolitical factors.
type GeoInputs struct {
	Carriers  int           `json:"carriers" yaml:"carriers"`
	Military  MilitaryLevel `json:"military" yaml:"military"`
	Alert     AlertLevel    `json:"alert" yaml:"alert"`
	Sentiment float64       `json:"sentiment" yaml:"sentiment"`
}

// DefaultGeoInputs returns the reference reading used when the caller
// resets its selections.
func DefaultGeoInputs() GeoInputs {
	return GeoInputs{
		Carriers:  DefaultCarriers,
		Military:  DefaultMilitary,
		Alert:     DefaultAlert,
		Sentiment: DefaultSentiment,
	}
}
