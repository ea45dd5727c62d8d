package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"btrips/internal/places"
	"btrips/internal/service"
)

// PlacesHandler handles the callable-style places proxy endpoints.
type PlacesHandler struct {
	placesService *service.PlacesService
}

// NewPlacesHandler creates a new PlacesHandler.
func NewPlacesHandler(placesService *service.PlacesService) *PlacesHandler {
	return &PlacesHandler{placesService: placesService}
}

// AutocompleteRequest is the request body for place autocomplete.
type AutocompleteRequest struct {
	Input    string `json:"input"`
	Country  string `json:"country"`
	Language string `json:"language"`
}

// AutocompleteResponse carries the predictions for an input.
type AutocompleteResponse struct {
	Success     bool                `json:"success"`
	Predictions []places.Prediction `json:"predictions"`
}

// Autocomplete handles POST /v1/places/autocomplete
func (h *PlacesHandler) Autocomplete(c *gin.Context) {
	var req AutocompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	predictions, err := h.placesService.Autocomplete(c.Request.Context(), req.Input, req.Country, req.Language)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AutocompleteResponse{Success: true, Predictions: predictions})
}

// DetailsRequest is the request body for place details.
type DetailsRequest struct {
	PlaceID string `json:"placeId"`
}

// DetailsResponse carries the resolved place.
type DetailsResponse struct {
	Success   bool    `json:"success"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	PlaceID   string  `json:"placeId"`
}

// Details handles POST /v1/places/details
func (h *PlacesHandler) Details(c *gin.Context) {
	var req DetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	place, err := h.placesService.Details(c.Request.Context(), req.PlaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, DetailsResponse{
		Success:   true,
		Name:      place.Name,
		Latitude:  place.Latitude,
		Longitude: place.Longitude,
		Address:   place.Address,
		PlaceID:   place.PlaceID,
	})
}
