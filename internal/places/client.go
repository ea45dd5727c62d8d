// Package places proxies the mapping provider's autocomplete and details
// APIs so browser clients are not blocked by CORS.
package places

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"
)

// callTimeout bounds every upstream places call; a timed-out call is
// surfaced as a failure with no retry.
const callTimeout = 10 * time.Second

// Prediction is one autocomplete suggestion.
type Prediction struct {
	Description   string `json:"description"`
	PlaceID       string `json:"placeId"`
	MainText      string `json:"mainText"`
	SecondaryText string `json:"secondaryText"`
}

// Place is the resolved detail for one place id.
type Place struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	PlaceID   string  `json:"placeId"`
}

// Client is the mapping-provider surface the places service depends on.
type Client interface {
	// Autocomplete returns predictions for a partial input, restricted to
	// one country. An empty result is not an error.
	Autocomplete(ctx context.Context, input, country, language string) ([]Prediction, error)

	// Details resolves a place id to its name, coordinates and address.
	Details(ctx context.Context, placeID string) (*Place, error)
}

// GoogleClient implements Client on the Google Maps Places API.
type GoogleClient struct {
	client *maps.Client
}

// NewGoogleClient creates a places client with the given API key.
func NewGoogleClient(apiKey string) (*GoogleClient, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("places: init client: %w", err)
	}
	return &GoogleClient{client: c}, nil
}

// Autocomplete calls the Places Autocomplete API.
func (g *GoogleClient) Autocomplete(ctx context.Context, input, country, language string) ([]Prediction, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := g.client.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{
		Input:    input,
		Language: language,
		Components: map[maps.Component][]string{
			maps.ComponentCountry: {country},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("places: autocomplete: %w", err)
	}

	predictions := make([]Prediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		predictions = append(predictions, Prediction{
			Description:   p.Description,
			PlaceID:       p.PlaceID,
			MainText:      p.StructuredFormatting.MainText,
			SecondaryText: p.StructuredFormatting.SecondaryText,
		})
	}
	return predictions, nil
}

// Details calls the Place Details API for name, geometry, address and id.
func (g *GoogleClient) Details(ctx context.Context, placeID string) (*Place, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := g.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskName,
			maps.PlaceDetailsFieldMaskGeometry,
			maps.PlaceDetailsFieldMaskFormattedAddress,
			maps.PlaceDetailsFieldMaskPlaceID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("places: details: %w", err)
	}

	return &Place{
		Name:      resp.Name,
		Latitude:  resp.Geometry.Location.Lat,
		Longitude: resp.Geometry.Location.Lng,
		Address:   resp.FormattedAddress,
		PlaceID:   resp.PlaceID,
	}, nil
}

var _ Client = (*GoogleClient)(nil)
