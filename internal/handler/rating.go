package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"btrips/internal/domain"
	"btrips/internal/service"
)

// RatingHandler handles HTTP requests for ride ratings.
type RatingHandler struct {
	ratingService *service.RatingService
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(ratingService *service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// SubmitRatingRequest is the HTTP request body for submitting a rating.
type SubmitRatingRequest struct {
	RideID    string  `json:"rideId"`
	Direction string  `json:"direction"`
	Rating    float64 `json:"rating"`
	Feedback  string  `json:"feedback"`
}

// SubmitRatingResponse is the HTTP response for a submitted rating.
type SubmitRatingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SubmitRating handles POST /v1/ratings
func (h *RatingHandler) SubmitRating(c *gin.Context) {
	var req SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	err := h.ratingService.SubmitRating(c.Request.Context(), service.SubmitRatingRequest{
		RideID:    req.RideID,
		Direction: domain.RatingDirection(req.Direction),
		Rating:    req.Rating,
		Feedback:  req.Feedback,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SubmitRatingResponse{
		Success: true,
		Message: "Rating submitted",
	})
}
