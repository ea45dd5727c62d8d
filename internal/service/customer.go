package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"btrips/internal/domain"
	"btrips/internal/payment"
	"btrips/internal/repository"
)

// CustomerService manages the mapping from application users to
// payment-processor customers.
type CustomerService struct {
	customers repository.CustomerRepository
	gateway   payment.Gateway
	logger    *zap.Logger
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(customers repository.CustomerRepository, gateway payment.Gateway, logger *zap.Logger) *CustomerService {
	return &CustomerService{customers: customers, gateway: gateway, logger: logger}
}

// EnsureCustomerRequest contains the parameters for EnsureCustomer.
type EnsureCustomerRequest struct {
	UserID         string
	Email          string
	Name           string
	BillingAddress *domain.BillingAddress
}

// EnsureCustomerResult reports the processor customer id backing a user and
// how it was obtained.
type EnsureCustomerResult struct {
	CustomerID string
	Existing   bool
	Synced     bool
}

// EnsureCustomer returns the processor customer for a user, creating one if
// necessary. Ordered checks, first match wins: the stored record, then a
// processor-side customer carrying this app's metadata tag (recovering from a
// prior partial failure), then a fresh customer.
func (s *CustomerService) EnsureCustomer(ctx context.Context, req EnsureCustomerRequest) (*EnsureCustomerResult, error) {
	if req.UserID == "" || req.Email == "" || req.Name == "" {
		return nil, ErrMissingCustomerFields
	}

	// Fast path: the stored record is the primary idempotence guarantee.
	existing, err := s.customers.GetByUserID(ctx, req.UserID)
	if err == nil {
		return &EnsureCustomerResult{CustomerID: existing.StripeCustomerID, Existing: true}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// Check the processor for a customer created out-of-band or by a prior
	// run that crashed before the store write. A lookup failure must not
	// block the user; fall through to creation.
	if found, lookupErr := s.gateway.FindCustomerByEmail(ctx, req.Email); lookupErr != nil {
		s.logger.Warn("could not check processor for existing customer",
			zap.String("email", req.Email),
			zap.Error(lookupErr))
	} else if found != nil && ownedByApp(found.Metadata) {
		s.logger.Info("linking existing processor customer",
			zap.String("userId", req.UserID),
			zap.String("customerId", found.ID))

		customer := newBillingCustomer(req, found.ID)
		customer.Metadata.CreatedVia = "sync"
		customer.Metadata.Note = "found existing customer in processor"
		if err := s.createRecord(ctx, customer); err != nil {
			if res, ok := s.recoverExisting(ctx, req.UserID, err); ok {
				return res, nil
			}
			return nil, err
		}
		return &EnsureCustomerResult{CustomerID: found.ID, Existing: true, Synced: true}, nil
	}

	created, err := s.gateway.CreateCustomer(ctx, payment.CreateCustomerParams{
		Email:   req.Email,
		Name:    req.Name,
		Address: toGatewayAddress(req.BillingAddress),
		Metadata: map[string]string{
			"userId": req.UserID,
			"prefix": domain.MetadataPrefix,
			"app":    domain.MetadataApp,
		},
	})
	if err != nil {
		return nil, err
	}

	customer := newBillingCustomer(req, created.ID)
	if err := s.createRecord(ctx, customer); err != nil {
		if res, ok := s.recoverExisting(ctx, req.UserID, err); ok {
			return res, nil
		}
		return nil, err
	}

	s.logger.Info("created processor customer",
		zap.String("userId", req.UserID),
		zap.String("customerId", created.ID))
	return &EnsureCustomerResult{CustomerID: created.ID}, nil
}

func (s *CustomerService) createRecord(ctx context.Context, customer *domain.BillingCustomer) error {
	if err := s.customers.Create(ctx, customer); err != nil {
		return fmt.Errorf("persist billing customer: %w", err)
	}
	return nil
}

// recoverExisting handles losing the create race: the winner's record is
// authoritative, so return it as an existing customer. The customer this
// call created processor-side (if any) is orphaned and cleaned up manually.
func (s *CustomerService) recoverExisting(ctx context.Context, userID string, cause error) (*EnsureCustomerResult, bool) {
	if !errors.Is(cause, repository.ErrAlreadyExists) {
		return nil, false
	}
	winner, err := s.customers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, false
	}
	s.logger.Warn("lost customer create race, returning winner's record",
		zap.String("userId", userID),
		zap.String("customerId", winner.StripeCustomerID))
	return &EnsureCustomerResult{CustomerID: winner.StripeCustomerID, Existing: true}, true
}

func newBillingCustomer(req EnsureCustomerRequest, stripeID string) *domain.BillingCustomer {
	return &domain.BillingCustomer{
		UserID:           req.UserID,
		StripeCustomerID: stripeID,
		Email:            req.Email,
		Name:             req.Name,
		BillingAddress:   req.BillingAddress,
		PaymentMethods:   []domain.PaymentMethod{},
		IsActive:         true,
		Metadata: domain.CustomerMetadata{
			Prefix:     domain.MetadataPrefix,
			CreatedVia: "api",
		},
	}
}

func ownedByApp(metadata map[string]string) bool {
	return metadata["prefix"] == domain.MetadataPrefix || metadata["app"] == domain.MetadataApp
}

func toGatewayAddress(addr *domain.BillingAddress) *payment.Address {
	if addr == nil {
		return nil
	}
	return &payment.Address{
		Line1:      addr.Line1,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
	}
}
