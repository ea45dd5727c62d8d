package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"btrips/internal/domain"
	"btrips/internal/identity"
	"btrips/internal/payment"
	"btrips/internal/repository"
)

// ChargeService charges riders for completed rides and processes ad-hoc
// admin invoices.
type ChargeService struct {
	customers    repository.CustomerRepository
	rides        repository.RideStore
	invoices     repository.InvoiceRepository
	identities   identity.Resolver
	gateway      payment.Gateway
	ridePrefixes []string
	logger       *zap.Logger
}

// NewChargeService creates a new ChargeService. ridePrefixes are the
// description prefixes that mark an admin invoice as ride-related.
func NewChargeService(
	customers repository.CustomerRepository,
	rides repository.RideStore,
	invoices repository.InvoiceRepository,
	identities identity.Resolver,
	gateway payment.Gateway,
	ridePrefixes []string,
	logger *zap.Logger,
) *ChargeService {
	return &ChargeService{
		customers:    customers,
		rides:        rides,
		invoices:     invoices,
		identities:   identities,
		gateway:      gateway,
		ridePrefixes: ridePrefixes,
		logger:       logger,
	}
}

// ChargeRideRequest contains the parameters for ChargeRide.
type ChargeRideRequest struct {
	RideID          string
	UserID          string
	Amount          float64
	PaymentMethodID string
}

// ChargeResult reports the processor outcome of a charge.
type ChargeResult struct {
	PaymentIntentID string
	Status          domain.PaymentStatus
}

// ChargeRide charges a rider for a completed ride and records the outcome on
// the ride document. After an attempted charge the ride is never left in an
// ambiguous payment state: any exception still writes a failed status before
// the error is surfaced.
func (s *ChargeService) ChargeRide(ctx context.Context, req ChargeRideRequest) (*ChargeResult, error) {
	switch {
	case req.RideID == "":
		return nil, ErrInvalidRideID
	case req.UserID == "":
		return nil, ErrInvalidUserID
	case req.PaymentMethodID == "":
		return nil, ErrInvalidPaymentMethodID
	case req.Amount <= 0:
		return nil, ErrInvalidAmount
	}

	customer, err := s.customers.GetByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	result, err := s.gateway.Charge(ctx, payment.ChargeParams{
		CustomerID:      customer.StripeCustomerID,
		PaymentMethodID: req.PaymentMethodID,
		AmountCents:     payment.MinorUnits(req.Amount),
		Description:     fmt.Sprintf("BTrips ride %s", req.RideID),
		Metadata: map[string]string{
			"rideId": req.RideID,
			"userId": req.UserID,
		},
	})
	if err != nil {
		s.recordRideFailure(ctx, req.RideID, err)
		return nil, err
	}

	outcome := domain.PaymentOutcome{
		Status:          domain.PaymentStatusCompleted,
		PaymentIntentID: result.PaymentIntentID,
		ProcessedAt:     time.Now(),
	}
	if !result.Succeeded {
		outcome.Status = domain.PaymentStatusFailed
		outcome.Error = fmt.Sprintf("payment not completed, processor status %s", result.Status)
	}

	if err := s.rides.SetPaymentOutcome(ctx, req.RideID, outcome); err != nil {
		return nil, fmt.Errorf("record payment outcome: %w", err)
	}

	s.logger.Info("charged ride",
		zap.String("rideId", req.RideID),
		zap.String("paymentIntentId", result.PaymentIntentID),
		zap.String("status", string(outcome.Status)))
	return &ChargeResult{PaymentIntentID: result.PaymentIntentID, Status: outcome.Status}, nil
}

// recordRideFailure writes a failed payment status after a charge exception.
// A failure of this recovery write is logged and swallowed; the original
// charge error is what the caller sees.
func (s *ChargeService) recordRideFailure(ctx context.Context, rideID string, cause error) {
	outcome := domain.PaymentOutcome{
		Status:      domain.PaymentStatusFailed,
		Error:       cause.Error(),
		ProcessedAt: time.Now(),
	}
	if err := s.rides.SetPaymentOutcome(ctx, rideID, outcome); err != nil {
		s.logger.Error("could not record failed payment on ride",
			zap.String("rideId", rideID),
			zap.NamedError("chargeError", cause),
			zap.Error(err))
	}
}

// AdminInvoiceRequest contains the parameters for ChargeAdminInvoice.
// RideID optionally names the ride this invoice settles; when absent, a
// recognized description prefix triggers a best-effort search for the user's
// most recent unpaid completed ride.
type AdminInvoiceRequest struct {
	UserEmail   string
	Amount      float64
	Description string
	AdminEmail  string
	RideID      string
}

// AdminInvoiceResult is the outcome of an admin-initiated charge.
type AdminInvoiceResult struct {
	PaymentIntentID string
	Status          domain.PaymentStatus
	ChargedAmount   float64
}

// ChargeAdminInvoice charges a user's default payment method on an admin's
// behalf. Every attempted charge leaves an audit record, succeed or fail;
// rejections before the charge attempt do not.
func (s *ChargeService) ChargeAdminInvoice(ctx context.Context, req AdminInvoiceRequest) (*AdminInvoiceResult, error) {
	switch {
	case req.UserEmail == "":
		return nil, ErrInvalidEmail
	case req.Description == "":
		return nil, ErrMissingDescription
	case req.Amount <= 0:
		return nil, ErrInvalidAmount
	}

	userID, err := s.identities.LookupByEmail(ctx, req.UserEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	customer, err := s.customers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoDefaultPaymentMethod
		}
		return nil, err
	}
	if customer.DefaultPaymentMethodID == "" {
		return nil, ErrNoDefaultPaymentMethod
	}

	cents := payment.MinorUnits(req.Amount)
	invoice := &domain.AdminInvoice{
		ID:          uuid.NewString(),
		UserID:      userID,
		UserEmail:   req.UserEmail,
		Amount:      req.Amount,
		AmountCents: cents,
		Description: req.Description,
		AdminEmail:  req.AdminEmail,
	}

	result, err := s.gateway.Charge(ctx, payment.ChargeParams{
		CustomerID:      customer.StripeCustomerID,
		PaymentMethodID: customer.DefaultPaymentMethodID,
		AmountCents:     cents,
		Description:     req.Description,
		Metadata: map[string]string{
			"userId":     userID,
			"adminEmail": req.AdminEmail,
			"invoiceId":  invoice.ID,
		},
	})
	if err != nil {
		invoice.Status = domain.InvoiceStatusFailed
		invoice.Error = err.Error()
		s.appendAudit(ctx, invoice)
		return nil, err
	}

	invoice.PaymentIntentID = result.PaymentIntentID
	status := domain.PaymentStatusCompleted
	if result.Succeeded {
		invoice.Status = domain.InvoiceStatusSucceeded
	} else {
		invoice.Status = domain.InvoiceStatusFailed
		invoice.Error = fmt.Sprintf("payment not completed, processor status %s", result.Status)
		status = domain.PaymentStatusFailed
	}

	if invoice.Status == domain.InvoiceStatusSucceeded {
		invoice.RideID = s.settleMatchingRide(ctx, req, userID, result.PaymentIntentID)
	}
	s.appendAudit(ctx, invoice)

	s.logger.Info("processed admin invoice",
		zap.String("invoiceId", invoice.ID),
		zap.String("userEmail", req.UserEmail),
		zap.String("status", string(invoice.Status)))
	return &AdminInvoiceResult{
		PaymentIntentID: result.PaymentIntentID,
		Status:          status,
		ChargedAmount:   req.Amount,
	}, nil
}

// appendAudit writes the invoice audit record. A failed audit write is
// logged and swallowed so it never changes the charge outcome.
func (s *ChargeService) appendAudit(ctx context.Context, invoice *domain.AdminInvoice) {
	if err := s.invoices.Append(ctx, invoice); err != nil {
		s.logger.Error("could not write admin invoice audit record",
			zap.String("invoiceId", invoice.ID),
			zap.String("userEmail", invoice.UserEmail),
			zap.Error(err))
	}
}

// settleMatchingRide marks the ride this invoice settles as paid. An
// explicit ride id wins; otherwise a recognized description prefix triggers
// a search for the user's latest unpaid completed ride. Correlation is
// best-effort and never fails the invoice.
func (s *ChargeService) settleMatchingRide(ctx context.Context, req AdminInvoiceRequest, userID, paymentIntentID string) string {
	rideID := req.RideID
	if rideID == "" {
		if !s.rideRelated(req.Description) {
			return ""
		}
		ride, err := s.rides.FindLatestPendingPayment(ctx, userID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				s.logger.Warn("could not search for matching ride",
					zap.String("userEmail", req.UserEmail),
					zap.Error(err))
			}
			return ""
		}
		rideID = ride.ID
	}

	outcome := domain.PaymentOutcome{
		Status:          domain.PaymentStatusCompleted,
		PaymentIntentID: paymentIntentID,
		ProcessedAt:     time.Now(),
	}
	if err := s.rides.SetPaymentOutcome(ctx, rideID, outcome); err != nil {
		s.logger.Warn("could not mark matched ride as paid",
			zap.String("rideId", rideID),
			zap.Error(err))
		return ""
	}
	return rideID
}

func (s *ChargeService) rideRelated(description string) bool {
	for _, prefix := range s.ridePrefixes {
		if strings.HasPrefix(description, prefix) {
			return true
		}
	}
	return false
}
