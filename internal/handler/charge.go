package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"btrips/internal/service"
)

// ChargeHandler handles HTTP requests for ride charges and admin invoices.
type ChargeHandler struct {
	chargeService *service.ChargeService
}

// NewChargeHandler creates a new ChargeHandler.
func NewChargeHandler(chargeService *service.ChargeService) *ChargeHandler {
	return &ChargeHandler{chargeService: chargeService}
}

// ChargeRideRequest is the HTTP request body for charging a ride.
type ChargeRideRequest struct {
	RideID          string  `json:"rideId"`
	UserID          string  `json:"userId"`
	Amount          float64 `json:"amount"`
	PaymentMethodID string  `json:"paymentMethodId"`
}

// ChargeRideResponse is the HTTP response for a ride charge.
type ChargeRideResponse struct {
	Success         bool   `json:"success"`
	PaymentIntentID string `json:"paymentIntentId"`
	Status          string `json:"status"`
	Message         string `json:"message"`
}

// ChargeRide handles POST /v1/charges/ride
func (h *ChargeHandler) ChargeRide(c *gin.Context) {
	var req ChargeRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := h.chargeService.ChargeRide(c.Request.Context(), service.ChargeRideRequest{
		RideID:          req.RideID,
		UserID:          req.UserID,
		Amount:          req.Amount,
		PaymentMethodID: req.PaymentMethodID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ChargeRideResponse{
		Success:         true,
		PaymentIntentID: result.PaymentIntentID,
		Status:          string(result.Status),
		Message:         "Ride charge processed",
	})
}

// AdminInvoiceRequest is the HTTP request body for an admin-initiated charge.
// RideID is optional; when absent a recognized description prefix triggers
// best-effort ride matching.
type AdminInvoiceRequest struct {
	UserEmail   string  `json:"userEmail"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	AdminEmail  string  `json:"adminEmail"`
	RideID      string  `json:"rideId"`
}

// AdminInvoiceResponse is the HTTP response for an admin invoice.
type AdminInvoiceResponse struct {
	Success         bool    `json:"success"`
	PaymentIntentID string  `json:"paymentIntentId"`
	Status          string  `json:"status"`
	Message         string  `json:"message"`
	ChargedAmount   float64 `json:"chargedAmount"`
}

// AdminInvoice handles POST /v1/charges/invoice
func (h *ChargeHandler) AdminInvoice(c *gin.Context) {
	var req AdminInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := h.chargeService.ChargeAdminInvoice(c.Request.Context(), service.AdminInvoiceRequest{
		UserEmail:   req.UserEmail,
		Amount:      req.Amount,
		Description: req.Description,
		AdminEmail:  req.AdminEmail,
		RideID:      req.RideID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AdminInvoiceResponse{
		Success:         true,
		PaymentIntentID: result.PaymentIntentID,
		Status:          string(result.Status),
		Message:         "Invoice charge processed",
		ChargedAmount:   result.ChargedAmount,
	})
}
