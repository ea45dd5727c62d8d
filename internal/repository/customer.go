package repository

import (
	"context"

	"btrips/internal/domain"
)

// CustomerRepository defines the persistence operations for billing customers.
// The document key is the application user id.
type CustomerRepository interface {
	// Create persists a new billing customer if and only if no record exists
	// for the user id. Returns ErrAlreadyExists when a concurrent creator won.
	Create(ctx context.Context, customer *domain.BillingCustomer) error

	// GetByUserID retrieves a billing customer by user id.
	GetByUserID(ctx context.Context, userID string) (*domain.BillingCustomer, error)

	// UpdatePaymentMethods replaces the stored method list and the default
	// method pointer in a single write. An empty defaultID clears the pointer.
	UpdatePaymentMethods(ctx context.Context, userID string, methods []domain.PaymentMethod, defaultID string) error
}
