package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"btrips/internal/domain"
	"btrips/internal/service"
)

// CustomerHandler handles HTTP requests for billing customers.
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// CreateCustomerRequest is the HTTP request body for creating a customer.
type CreateCustomerRequest struct {
	UserID         string                 `json:"userId"`
	Email          string                 `json:"email"`
	Name           string                 `json:"name"`
	BillingAddress *domain.BillingAddress `json:"billingAddress"`
}

// CreateCustomerResponse is the HTTP response for customer creation.
type CreateCustomerResponse struct {
	Success    bool   `json:"success"`
	CustomerID string `json:"customerId"`
	Message    string `json:"message"`
	Existing   bool   `json:"existing,omitempty"`
	Synced     bool   `json:"synced,omitempty"`
}

// CreateCustomer handles POST /v1/customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := h.customerService.EnsureCustomer(c.Request.Context(), service.EnsureCustomerRequest{
		UserID:         req.UserID,
		Email:          req.Email,
		Name:           req.Name,
		BillingAddress: req.BillingAddress,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Customer created successfully"
	switch {
	case result.Synced:
		message = "Existing customer linked to user"
	case result.Existing:
		message = "Customer already exists"
	}

	c.JSON(http.StatusOK, CreateCustomerResponse{
		Success:    true,
		CustomerID: result.CustomerID,
		Message:    message,
		Existing:   result.Existing,
		Synced:     result.Synced,
	})
}
