package models

// Direction is the sign applied to an instrument's price change before
// aggregation. A rise in a DirectionDirect instrument raises tension; a rise
// in a DirectionInverse instrument lowers it.
type Direction int

const (
	DirectionInverse Direction = -1
	DirectionDirect  Direction = 1
)

// Sign returns the direction as a float multiplier.
func (d Direction) Sign() float64 { return float64(d) }

// Valid reports whether d is one of the two supported directions.
func (d Direction) Valid() bool { return d == DirectionDirect || d == DirectionInverse }

// Instrument is a tracked market instrument. Emoji, Color and Tooltip are
// display metadata and take no part in scoring.
type Instrument struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Weight    float64   `json:"weight"`
	Direction Direction `json:"direction"`
	Emoji     string    `json:"emoji"`
	Color     string    `json:"color"`
	Tooltip   string    `json:"tooltip"`
}
