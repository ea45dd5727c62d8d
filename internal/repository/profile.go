package repository

import (
	"context"

	"btrips/internal/domain"
)

// ProfileKind selects which aggregate record a rating applies to.
type ProfileKind string

const (
	ProfileDriver ProfileKind = "driver"
	ProfileRider  ProfileKind = "rider"
)

// ProfileRepository maintains the rating aggregates on driver and rider
// profiles.
type ProfileRepository interface {
	// ApplyRating folds one rating into the party's running average and
	// increments the count, as an atomic read-modify-write. If no aggregate
	// exists yet it is created with the submitted rating as the first entry.
	ApplyRating(ctx context.Context, kind ProfileKind, partyID string, rating float64) (domain.RatingAggregate, error)
}
