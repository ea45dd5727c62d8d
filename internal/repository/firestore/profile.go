package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"btrips/internal/domain"
	"btrips/internal/repository"
)

// ProfileRepository is a Firestore implementation of
// repository.ProfileRepository. Driver aggregates live on the driver record,
// rider aggregates on the user profile. The running average is kept in
// `rating`; the weight in a dedicated `totalRatings` counter, because the
// profiles' `totalRides` means rides taken and is maintained by the ride
// lifecycle, not by rating events.
type ProfileRepository struct {
	client *firestore.Client
}

// NewProfileRepository creates a new Firestore profile repository.
func NewProfileRepository(client *firestore.Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

type profileAggregate struct {
	Rating       float64 `firestore:"rating"`
	TotalRatings int64   `firestore:"totalRatings"`
}

// ApplyRating folds one rating into the party's running average inside a
// Firestore transaction, so concurrent submissions cannot drop a
// contribution. A missing aggregate is created with the submitted rating.
func (r *ProfileRepository) ApplyRating(ctx context.Context, kind repository.ProfileKind, partyID string, rating float64) (domain.RatingAggregate, error) {
	coll := collDrivers
	if kind == repository.ProfileRider {
		coll = collProfiles
	}
	ref := r.client.Collection(coll).Doc(partyID)

	var result domain.RatingAggregate
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil && !isNotFound(err) {
			return err
		}

		var agg profileAggregate
		if err == nil && snap.Exists() {
			if err := snap.DataTo(&agg); err != nil {
				return err
			}
		}

		next, nextCount := domain.NextAverage(agg.Rating, agg.TotalRatings, rating)
		result = domain.RatingAggregate{Average: next, Count: nextCount}

		return tx.Set(ref, map[string]interface{}{
			"rating":       next,
			"totalRatings": nextCount,
			"updatedAt":    firestore.ServerTimestamp,
		}, firestore.MergeAll)
	})
	if err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("apply rating: %w", err)
	}
	return result, nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
