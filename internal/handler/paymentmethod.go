package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"btrips/internal/domain"
	"btrips/internal/service"
)

// PaymentMethodHandler handles HTTP requests for stored payment methods.
type PaymentMethodHandler struct {
	methodService *service.PaymentMethodService
}

// NewPaymentMethodHandler creates a new PaymentMethodHandler.
func NewPaymentMethodHandler(methodService *service.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{methodService: methodService}
}

// AttachRequest is the HTTP request body for attaching a payment method.
type AttachRequest struct {
	UserID          string `json:"userId"`
	Token           string `json:"token"`
	PaymentMethodID string `json:"paymentMethodId"`
	CardholderName  string `json:"cardholderName"`
	SetAsDefault    bool   `json:"setAsDefault"`
}

// AttachResponse is the HTTP response for a successful attach.
type AttachResponse struct {
	Success       bool                  `json:"success"`
	Message       string                `json:"message"`
	PaymentMethod *domain.PaymentMethod `json:"paymentMethod"`
}

// Attach handles POST /v1/payment-methods/attach
func (h *PaymentMethodHandler) Attach(c *gin.Context) {
	var req AttachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	method, err := h.methodService.Attach(c.Request.Context(), service.AttachRequest{
		UserID:          req.UserID,
		Token:           req.Token,
		PaymentMethodID: req.PaymentMethodID,
		CardholderName:  req.CardholderName,
		SetAsDefault:    req.SetAsDefault,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AttachResponse{
		Success:       true,
		Message:       "Payment method attached successfully",
		PaymentMethod: method,
	})
}

// DetachRequest is the HTTP request body for detaching a payment method.
type DetachRequest struct {
	UserID          string `json:"userId"`
	PaymentMethodID string `json:"paymentMethodId"`
}

// DetachResponse is the HTTP response for a successful detach.
type DetachResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Detach handles POST /v1/payment-methods/detach
func (h *PaymentMethodHandler) Detach(c *gin.Context) {
	var req DetachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if err := h.methodService.Detach(c.Request.Context(), req.UserID, req.PaymentMethodID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, DetachResponse{
		Success: true,
		Message: "Payment method removed successfully",
	})
}
