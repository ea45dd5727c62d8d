package repository

import (
	"context"

	"btrips/internal/domain"
)

// LocationRepository reads the curated preset pickup/dropoff locations.
type LocationRepository interface {
	// ListPresets returns all preset locations ordered by sort order.
	ListPresets(ctx context.Context) ([]*domain.PresetLocation, error)
}
