package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"btrips/internal/domain"
	"btrips/internal/repository"
)

// RideStore is a Firestore implementation of repository.RideStore. A ride
// lives in activeRides while in progress and is moved to rideHistory on
// completion; during the migration window a copy can exist in both, so every
// payment write fans out to whichever copies are present.
type RideStore struct {
	client *firestore.Client
}

// NewRideStore creates a new Firestore ride store.
func NewRideStore(client *firestore.Client) *RideStore {
	return &RideStore{client: client}
}

// rideCollections returns the backing collections in lookup-preference order.
func (s *RideStore) rideCollections() []*firestore.CollectionRef {
	return []*firestore.CollectionRef{
		s.client.Collection(collRideHistory),
		s.client.Collection(collActiveRides),
	}
}

// GetByID retrieves a ride, preferring the historical copy.
func (s *RideStore) GetByID(ctx context.Context, rideID string) (*domain.Ride, error) {
	for _, coll := range s.rideCollections() {
		snap, err := coll.Doc(rideID).Get(ctx)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("get ride: %w", err)
		}
		return decodeRide(snap)
	}
	return nil, repository.ErrNotFound
}

// SetPaymentOutcome records a charge result on every copy of the ride.
func (s *RideStore) SetPaymentOutcome(ctx context.Context, rideID string, outcome domain.PaymentOutcome) error {
	updates := []firestore.Update{
		{Path: "paymentStatus", Value: outcome.Status},
		{Path: "paymentProcessedAt", Value: outcome.ProcessedAt},
	}
	if outcome.PaymentIntentID != "" {
		updates = append(updates, firestore.Update{Path: "paymentIntentId", Value: outcome.PaymentIntentID})
	}
	if outcome.Error != "" {
		updates = append(updates, firestore.Update{Path: "paymentError", Value: outcome.Error})
	} else {
		updates = append(updates, firestore.Update{Path: "paymentError", Value: firestore.Delete})
	}

	found := false
	for _, coll := range s.rideCollections() {
		if _, err := coll.Doc(rideID).Update(ctx, updates); err != nil {
			if isNotFound(err) {
				continue
			}
			return fmt.Errorf("set payment outcome: %w", err)
		}
		found = true
	}
	if !found {
		return repository.ErrNotFound
	}
	return nil
}

// FindLatestPendingPayment returns the user's most recent completed ride
// whose payment is still pending, searching both backing collections.
func (s *RideStore) FindLatestPendingPayment(ctx context.Context, userID string) (*domain.Ride, error) {
	var latest *domain.Ride
	for _, coll := range s.rideCollections() {
		iter := coll.
			Where("userId", "==", userID).
			Where("status", "==", string(domain.RideStatusCompleted)).
			Where("paymentStatus", "==", string(domain.PaymentStatusPending)).
			OrderBy("createdAt", firestore.Desc).
			Limit(1).
			Documents(ctx)
		snap, err := iter.Next()
		iter.Stop()
		if err == iterator.Done {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("query pending rides: %w", err)
		}

		ride, err := decodeRide(snap)
		if err != nil {
			return nil, err
		}
		if latest == nil || ride.CreatedAt.After(latest.CreatedAt) {
			latest = ride
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

// SetRating writes the rating/feedback pair for one direction, preferring
// the historical copy and falling back to the active one.
func (s *RideStore) SetRating(ctx context.Context, rideID string, direction domain.RatingDirection, rating float64, feedback string) error {
	// The field pair names the rating's author: userRating is the rating the
	// user gave their driver.
	ratingPath, feedbackPath := "userRating", "userFeedback"
	if direction == domain.RatingDriverToRider {
		ratingPath, feedbackPath = "driverRating", "driverFeedback"
	}
	updates := []firestore.Update{
		{Path: ratingPath, Value: rating},
		{Path: feedbackPath, Value: feedback},
	}

	for _, coll := range s.rideCollections() {
		if _, err := coll.Doc(rideID).Update(ctx, updates); err != nil {
			if isNotFound(err) {
				continue
			}
			return fmt.Errorf("set rating: %w", err)
		}
		return nil
	}
	return repository.ErrNotFound
}

func decodeRide(snap *firestore.DocumentSnapshot) (*domain.Ride, error) {
	var ride domain.Ride
	if err := snap.DataTo(&ride); err != nil {
		return nil, fmt.Errorf("decode ride: %w", err)
	}
	ride.ID = snap.Ref.ID
	return &ride, nil
}

var _ repository.RideStore = (*RideStore)(nil)
