package repository

import (
	"context"

	"btrips/internal/domain"
)

// RideStore is the single logical store for ride documents. A ride may live
// in the active collection, the historical collection, or transiently in
// both; implementations fan writes out to every copy that exists so the
// mirrored payment fields stay in sync. Callers never see the dual-write.
type RideStore interface {
	// GetByID retrieves a ride, preferring the historical copy.
	GetByID(ctx context.Context, rideID string) (*domain.Ride, error)

	// SetPaymentOutcome records the terminal result of a charge attempt on
	// every copy of the ride. The mirrored fields are idempotent to re-apply,
	// so a partial fan-out can safely be retried.
	SetPaymentOutcome(ctx context.Context, rideID string, outcome domain.PaymentOutcome) error

	// FindLatestPendingPayment returns the user's most recent completed ride
	// whose payment is still pending, or ErrNotFound.
	FindLatestPendingPayment(ctx context.Context, userID string) (*domain.Ride, error)

	// SetRating writes the rating/feedback field pair for one direction on
	// the ride's historical record. Overwriting an earlier rating for the
	// same direction is permitted.
	SetRating(ctx context.Context, rideID string, direction domain.RatingDirection, rating float64, feedback string) error
}
