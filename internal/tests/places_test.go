package tests

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"btrips/internal/places"
	"btrips/internal/service"
)

// ──────────────────────────────────────────────
// 6. PLACES PROXY
// ──────────────────────────────────────────────

func newPlacesService(client *MockPlacesClient) *service.PlacesService {
	// nil cache: the proxy works without redis.
	return service.NewPlacesService(client, nil, zap.NewNop())
}

func TestAutocomplete_ShortInput_RejectedBeforeUpstream(t *testing.T) {
	t.Parallel()

	client := NewMockPlacesClient()
	svc := newPlacesService(client)

	for _, input := range []string{"", "a", "é"} {
		_, err := svc.Autocomplete(context.Background(), input, "", "")
		if !errors.Is(err, service.ErrInputTooShort) {
			t.Errorf("input %q: expected ErrInputTooShort, got %v", input, err)
		}
	}
	if n := atomic.LoadInt32(&client.AutocompleteCallCount); n != 0 {
		t.Errorf("short inputs must not reach the upstream, got %d calls", n)
	}
}

func TestAutocomplete_TwoRuneInput_Accepted(t *testing.T) {
	t.Parallel()

	client := NewMockPlacesClient()
	client.SetPredictions("ai", []places.Prediction{
		{Description: "Airport Terminal 1", PlaceID: "place-1"},
	})
	svc := newPlacesService(client)

	// Two runes is the minimum, including multi-byte ones.
	predictions, err := svc.Autocomplete(context.Background(), "ai", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(predictions) != 1 || predictions[0].PlaceID != "place-1" {
		t.Errorf("unexpected predictions: %+v", predictions)
	}
}

func TestAutocomplete_ZeroResults_IsSuccessWithEmptyList(t *testing.T) {
	t.Parallel()

	client := NewMockPlacesClient()
	svc := newPlacesService(client)

	predictions, err := svc.Autocomplete(context.Background(), "zzzzqq", "", "")
	if err != nil {
		t.Fatalf("zero results is not an error: %v", err)
	}
	if predictions == nil {
		t.Fatal("expected an empty slice, not nil")
	}
	if len(predictions) != 0 {
		t.Errorf("expected no predictions, got %d", len(predictions))
	}
}

func TestAutocomplete_UpstreamFailure_Surfaces(t *testing.T) {
	t.Parallel()

	client := NewMockPlacesClient()
	client.AutocompleteError = errors.New("upstream timeout")
	svc := newPlacesService(client)

	_, err := svc.Autocomplete(context.Background(), "airport", "", "")
	if err == nil {
		t.Fatal("expected the upstream error to surface")
	}
}

func TestDetails_MissingPlaceID_Rejected(t *testing.T) {
	t.Parallel()

	client := NewMockPlacesClient()
	svc := newPlacesService(client)

	_, err := svc.Details(context.Background(), "")
	if !errors.Is(err, service.ErrMissingPlaceID) {
		t.Errorf("expected ErrMissingPlaceID, got %v", err)
	}
	if n := atomic.LoadInt32(&client.DetailsCallCount); n != 0 {
		t.Errorf("expected no upstream call, got %d", n)
	}
}

func TestDetails_ResolvesPlace(t *testing.T) {
	t.Parallel()

	client := NewMockPlacesClient()
	client.SetPlace(&places.Place{
		Name:      "Airport Terminal 1",
		Latitude:  40.6413,
		Longitude: -73.7781,
		Address:   "Queens, NY 11430",
		PlaceID:   "place-1",
	})
	svc := newPlacesService(client)

	place, err := svc.Details(context.Background(), "place-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place.Name != "Airport Terminal 1" || place.Latitude != 40.6413 {
		t.Errorf("unexpected place: %+v", place)
	}
}
