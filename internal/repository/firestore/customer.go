package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"btrips/internal/domain"
	"btrips/internal/repository"
)

// CustomerRepository is a Firestore implementation of
// repository.CustomerRepository. One document per user id.
type CustomerRepository struct {
	client *firestore.Client
}

// NewCustomerRepository creates a new Firestore customer repository.
func NewCustomerRepository(client *firestore.Client) *CustomerRepository {
	return &CustomerRepository{client: client}
}

// Create persists a new billing customer. The write carries an
// only-if-absent precondition so two concurrent creators cannot both win.
func (r *CustomerRepository) Create(ctx context.Context, customer *domain.BillingCustomer) error {
	doc := r.client.Collection(collCustomers).Doc(customer.UserID)
	if _, err := doc.Create(ctx, customer); err != nil {
		if isAlreadyExists(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("create billing customer: %w", err)
	}
	return nil
}

// GetByUserID retrieves a billing customer by user id.
func (r *CustomerRepository) GetByUserID(ctx context.Context, userID string) (*domain.BillingCustomer, error) {
	snap, err := r.client.Collection(collCustomers).Doc(userID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get billing customer: %w", err)
	}

	var customer domain.BillingCustomer
	if err := snap.DataTo(&customer); err != nil {
		return nil, fmt.Errorf("decode billing customer: %w", err)
	}
	return &customer, nil
}

// UpdatePaymentMethods replaces the method list and default pointer in a
// single document write.
func (r *CustomerRepository) UpdatePaymentMethods(ctx context.Context, userID string, methods []domain.PaymentMethod, defaultID string) error {
	doc := r.client.Collection(collCustomers).Doc(userID)
	_, err := doc.Update(ctx, []firestore.Update{
		{Path: "paymentMethods", Value: methods},
		{Path: "defaultPaymentMethodId", Value: defaultID},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if isNotFound(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("update payment methods: %w", err)
	}
	return nil
}

var _ repository.CustomerRepository = (*CustomerRepository)(nil)
