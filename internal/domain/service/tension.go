package service

import (
	"context"

	"METI/internal/domain/models"
)

// IndexService computes tension indices for the transport layer.
type IndexService interface {
	Compute(ctx context.Context, geo models.GeoInputs, tf models.Timeframe) (*models.TensionIndex, error)
	Refresh(ctx context.Context) error
	Instruments() []models.Instrument
}
