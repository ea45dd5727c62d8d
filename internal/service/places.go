package service

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"

	"btrips/internal/places"
	"btrips/internal/redis"
)

// Default search scope for autocomplete when the caller does not specify.
const (
	DefaultPlacesCountry  = "us"
	DefaultPlacesLanguage = "en"
)

// PlacesService proxies autocomplete and place-details lookups, with a
// short-lived cache in front of the upstream API.
type PlacesService struct {
	client places.Client
	cache  *redis.PlacesCache
	logger *zap.Logger
}

// NewPlacesService creates a new PlacesService. cache may be nil.
func NewPlacesService(client places.Client, cache *redis.PlacesCache, logger *zap.Logger) *PlacesService {
	return &PlacesService{client: client, cache: cache, logger: logger}
}

// Autocomplete returns place predictions for a partial input. Inputs under
// two characters are rejected before any upstream call. Zero results is a
// success with an empty list.
func (s *PlacesService) Autocomplete(ctx context.Context, input, country, language string) ([]places.Prediction, error) {
	if utf8.RuneCountInString(input) < 2 {
		return nil, ErrInputTooShort
	}
	if country == "" {
		country = DefaultPlacesCountry
	}
	if language == "" {
		language = DefaultPlacesLanguage
	}

	if s.cache != nil {
		if predictions, ok := s.cache.GetPredictions(ctx, input, country, language); ok {
			return predictions, nil
		}
	}

	predictions, err := s.client.Autocomplete(ctx, input, country, language)
	if err != nil {
		return nil, err
	}
	if predictions == nil {
		predictions = []places.Prediction{}
	}

	if s.cache != nil {
		if err := s.cache.SetPredictions(ctx, input, country, language, predictions); err != nil {
			s.logger.Warn("could not cache predictions", zap.String("input", input), zap.Error(err))
		}
	}
	return predictions, nil
}

// Details resolves a place id to its name, coordinates and address.
func (s *PlacesService) Details(ctx context.Context, placeID string) (*places.Place, error) {
	if placeID == "" {
		return nil, ErrMissingPlaceID
	}

	if s.cache != nil {
		if place, ok := s.cache.GetPlace(ctx, placeID); ok {
			return place, nil
		}
	}

	place, err := s.client.Details(ctx, placeID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetPlace(ctx, place); err != nil {
			s.logger.Warn("could not cache place details", zap.String("placeId", placeID), zap.Error(err))
		}
	}
	return place, nil
}
