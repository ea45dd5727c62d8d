package service

import (
	"context"

	"go.uber.org/zap"

	"btrips/internal/domain"
	"btrips/internal/repository"
)

// RatingService records per-ride ratings and keeps the running averages on
// driver and rider profiles.
type RatingService struct {
	rides    repository.RideStore
	profiles repository.ProfileRepository
	logger   *zap.Logger
}

// NewRatingService creates a new RatingService.
func NewRatingService(rides repository.RideStore, profiles repository.ProfileRepository, logger *zap.Logger) *RatingService {
	return &RatingService{rides: rides, profiles: profiles, logger: logger}
}

// SubmitRatingRequest contains the parameters for SubmitRating.
type SubmitRatingRequest struct {
	RideID    string
	Direction domain.RatingDirection
	Rating    float64
	Feedback  string
}

// SubmitRating writes the rating onto the ride record and folds it into the
// rated party's running average. Re-rating the same ride and direction
// overwrites the stored rating but still counts as a new aggregate event.
func (s *RatingService) SubmitRating(ctx context.Context, req SubmitRatingRequest) error {
	if req.RideID == "" {
		return ErrInvalidRideID
	}
	if !req.Direction.Valid() {
		return ErrInvalidRatingDirection
	}
	if req.Rating < 0 || req.Rating > 5 {
		return ErrInvalidRating
	}

	ride, err := s.rides.GetByID(ctx, req.RideID)
	if err != nil {
		return err
	}

	if err := s.rides.SetRating(ctx, req.RideID, req.Direction, req.Rating, req.Feedback); err != nil {
		return err
	}

	kind, partyID := repository.ProfileDriver, ride.DriverID
	if req.Direction == domain.RatingDriverToRider {
		kind, partyID = repository.ProfileRider, ride.UserID
	}
	if partyID == "" {
		s.logger.Warn("ride has no rated party on record, skipping aggregate update",
			zap.String("rideId", req.RideID),
			zap.String("direction", string(req.Direction)))
		return nil
	}

	agg, err := s.profiles.ApplyRating(ctx, kind, partyID, req.Rating)
	if err != nil {
		return err
	}

	s.logger.Info("applied rating",
		zap.String("rideId", req.RideID),
		zap.String("direction", string(req.Direction)),
		zap.Float64("average", agg.Average),
		zap.Int64("count", agg.Count))
	return nil
}
