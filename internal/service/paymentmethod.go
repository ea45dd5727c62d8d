package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"btrips/internal/domain"
	"btrips/internal/payment"
	"btrips/internal/repository"
)

// PaymentMethodService manages the stored payment instruments on a billing
// customer and its default-method pointer.
type PaymentMethodService struct {
	customers repository.CustomerRepository
	gateway   payment.Gateway
	logger    *zap.Logger
}

// NewPaymentMethodService creates a new PaymentMethodService.
func NewPaymentMethodService(customers repository.CustomerRepository, gateway payment.Gateway, logger *zap.Logger) *PaymentMethodService {
	return &PaymentMethodService{customers: customers, gateway: gateway, logger: logger}
}

// AttachRequest contains the parameters for Attach. Exactly one of Token or
// PaymentMethodID must be set: a browser client sends a single-use token, a
// mobile client an already-created payment method id.
type AttachRequest struct {
	UserID          string
	Token           string
	PaymentMethodID string
	CardholderName  string
	SetAsDefault    bool
}

// Attach stores a new payment method on the customer. Card details come from
// the processor, never from the caller. Setting the new method as default
// clears the flag on every other stored method in the same write.
func (s *PaymentMethodService) Attach(ctx context.Context, req AttachRequest) (*domain.PaymentMethod, error) {
	if req.UserID == "" {
		return nil, ErrMissingMethodSource
	}
	if (req.Token == "") == (req.PaymentMethodID == "") {
		return nil, ErrMissingMethodSource
	}

	customer, err := s.customers.GetByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	methodID := req.PaymentMethodID
	if req.Token != "" {
		holder := req.CardholderName
		if holder == "" {
			holder = customer.Name
		}
		methodID, err = s.gateway.CreatePaymentMethodFromToken(ctx, req.Token, holder)
		if err != nil {
			return nil, err
		}
	}

	if err := s.gateway.AttachPaymentMethod(ctx, methodID, customer.StripeCustomerID); err != nil {
		return nil, err
	}

	details, err := s.gateway.GetPaymentMethod(ctx, methodID)
	if err != nil {
		return nil, err
	}

	method := domain.PaymentMethod{
		ID:             details.ID,
		Type:           details.Type,
		Last4:          details.Last4,
		Brand:          details.Brand,
		ExpMonth:       details.ExpMonth,
		ExpYear:        details.ExpYear,
		CardholderName: details.CardholderName,
		IsDefault:      req.SetAsDefault,
		AddedAt:        time.Now().UnixMilli(),
		IsActive:       true,
	}

	methods := append([]domain.PaymentMethod(nil), customer.PaymentMethods...)
	defaultID := customer.DefaultPaymentMethodID
	if req.SetAsDefault {
		for i := range methods {
			methods[i].IsDefault = false
		}
		defaultID = method.ID
	}
	methods = append(methods, method)

	if err := s.customers.UpdatePaymentMethods(ctx, req.UserID, methods, defaultID); err != nil {
		return nil, err
	}

	s.logger.Info("attached payment method",
		zap.String("userId", req.UserID),
		zap.String("paymentMethodId", method.ID),
		zap.Bool("default", req.SetAsDefault))
	return &method, nil
}

// Detach removes a payment method. The processor-side detach proceeds even
// when no billing record exists; the store update is best-effort in that
// case. Detaching the default clears the pointer without promoting another
// method.
func (s *PaymentMethodService) Detach(ctx context.Context, userID, paymentMethodID string) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	if paymentMethodID == "" {
		return ErrInvalidPaymentMethodID
	}

	if err := s.gateway.DetachPaymentMethod(ctx, paymentMethodID); err != nil {
		return err
	}

	customer, err := s.customers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("detached method for user without billing record",
				zap.String("userId", userID),
				zap.String("paymentMethodId", paymentMethodID))
			return nil
		}
		return err
	}

	methods := make([]domain.PaymentMethod, 0, len(customer.PaymentMethods))
	for _, m := range customer.PaymentMethods {
		if m.ID != paymentMethodID {
			methods = append(methods, m)
		}
	}

	defaultID := customer.DefaultPaymentMethodID
	if defaultID == paymentMethodID {
		defaultID = ""
	}

	if err := s.customers.UpdatePaymentMethods(ctx, userID, methods, defaultID); err != nil {
		return err
	}

	s.logger.Info("detached payment method",
		zap.String("userId", userID),
		zap.String("paymentMethodId", paymentMethodID))
	return nil
}
