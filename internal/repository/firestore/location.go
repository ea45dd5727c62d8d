package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"btrips/internal/domain"
	"btrips/internal/repository"
)

// LocationRepository is a Firestore implementation of
// repository.LocationRepository.
type LocationRepository struct {
	client *firestore.Client
}

// NewLocationRepository creates a new Firestore location repository.
func NewLocationRepository(client *firestore.Client) *LocationRepository {
	return &LocationRepository{client: client}
}

// ListPresets returns all preset locations ordered by sort order.
func (r *LocationRepository) ListPresets(ctx context.Context) ([]*domain.PresetLocation, error) {
	iter := r.client.Collection(collPresets).OrderBy("sortOrder", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var presets []*domain.PresetLocation
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list preset locations: %w", err)
		}

		var preset domain.PresetLocation
		if err := snap.DataTo(&preset); err != nil {
			return nil, fmt.Errorf("decode preset location: %w", err)
		}
		preset.ID = snap.Ref.ID
		presets = append(presets, &preset)
	}
	return presets, nil
}

var _ repository.LocationRepository = (*LocationRepository)(nil)
