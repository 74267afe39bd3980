package models

// Requests for the index HTTP and stream endpoints. Geo fields stay strings:
// empty means "use the configured default", and an explicit zero is kept.

type IndexRequest struct {
	Carriers  string `query:"carriers" json:"carriers" validate:"omitempty,numeric"`
	Military  string `query:"military" json:"military" validate:"max=32"`
	Alert     string `query:"alert" json:"alert" validate:"max=32"`
	Sentiment string `query:"sentiment" json:"sentiment" validate:"omitempty,numeric"`
	TF        string `query:"tf" json:"tf" default:"1d" validate:"oneof=1h 4h 1d 1wk"`
}

type StreamRequest struct {
	IndexRequest
	IntervalSec int `query:"interval" json:"interval" validate:"omitempty,gte=5,lte=3600"`
}
