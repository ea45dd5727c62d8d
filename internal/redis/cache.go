// Package redis holds the Redis-backed caches used by the service.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"btrips/internal/places"
)

// Cache TTL constants
const (
	// PredictionCacheTTL keeps autocomplete results briefly; the same prefix
	// is typed by many riders in the same city.
	PredictionCacheTTL = 5 * time.Minute

	// PlaceCacheTTL keeps resolved place details longer; coordinates for a
	// place id do not change.
	PlaceCacheTTL = 24 * time.Hour
)

// Key prefixes
const (
	predictionPrefix = "places:auto:"
	placePrefix      = "places:detail:"
)

// PlacesCache caches upstream places responses in Redis. All methods treat
// Redis failures as cache misses; the caller falls through to the API.
type PlacesCache struct {
	client *redis.Client
}

// NewPlacesCache creates a new PlacesCache.
func NewPlacesCache(client *redis.Client) *PlacesCache {
	return &PlacesCache{client: client}
}

func predictionKey(input, country, language string) string {
	return fmt.Sprintf("%s%s:%s:%s", predictionPrefix, country, language, input)
}

// GetPredictions retrieves cached predictions. A miss returns (nil, false).
func (c *PlacesCache) GetPredictions(ctx context.Context, input, country, language string) ([]places.Prediction, bool) {
	data, err := c.client.Get(ctx, predictionKey(input, country, language)).Bytes()
	if err != nil {
		return nil, false
	}

	var predictions []places.Prediction
	if err := json.Unmarshal(data, &predictions); err != nil {
		return nil, false
	}
	return predictions, true
}

// SetPredictions stores predictions for an input.
func (c *PlacesCache) SetPredictions(ctx context.Context, input, country, language string, predictions []places.Prediction) error {
	data, err := json.Marshal(predictions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, predictionKey(input, country, language), data, PredictionCacheTTL).Err()
}

// GetPlace retrieves a cached place detail. A miss returns (nil, false).
func (c *PlacesCache) GetPlace(ctx context.Context, placeID string) (*places.Place, bool) {
	data, err := c.client.Get(ctx, placePrefix+placeID).Bytes()
	if err != nil {
		return nil, false
	}

	var place places.Place
	if err := json.Unmarshal(data, &place); err != nil {
		return nil, false
	}
	return &place, true
}

// SetPlace stores a resolved place detail.
func (c *PlacesCache) SetPlace(ctx context.Context, place *places.Place) error {
	data, err := json.Marshal(place)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, placePrefix+place.PlaceID, data, PlaceCacheTTL).Err()
}
