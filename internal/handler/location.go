package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"btrips/internal/domain"
	"btrips/internal/repository"
)

// LocationHandler serves the curated preset pickup/dropoff locations.
type LocationHandler struct {
	locations repository.LocationRepository
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(locations repository.LocationRepository) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// PresetsResponse carries the preset location list.
type PresetsResponse struct {
	Success   bool                     `json:"success"`
	Locations []*domain.PresetLocation `json:"locations"`
}

// ListPresets handles GET /v1/locations/presets
func (h *LocationHandler) ListPresets(c *gin.Context) {
	presets, err := h.locations.ListPresets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if presets == nil {
		presets = []*domain.PresetLocation{}
	}

	c.JSON(http.StatusOK, PresetsResponse{Success: true, Locations: presets})
}
