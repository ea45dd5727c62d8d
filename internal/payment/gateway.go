// Package payment abstracts the payment processor behind a narrow gateway
// interface so services can be tested against a fake.
package payment

import (
	"context"
	"math"
)

// Customer is a processor-side customer.
type Customer struct {
	ID       string
	Email    string
	Name     string
	Metadata map[string]string
}

// CreateCustomerParams are the inputs for creating a processor customer.
type CreateCustomerParams struct {
	Email    string
	Name     string
	Address  *Address
	Metadata map[string]string
}

// Address is a billing address in processor form.
type Address struct {
	Line1      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// CardDetails are the processor's authoritative details for a stored card.
// Caller-supplied card data is never trusted over these.
type CardDetails struct {
	ID             string
	Type           string
	Brand          string
	Last4          string
	ExpMonth       int64
	ExpYear        int64
	CardholderName string
}

// ChargeParams are the inputs for a server-initiated, immediately-confirmed
// charge. Amount is in minor units.
type ChargeParams struct {
	CustomerID      string
	PaymentMethodID string
	AmountCents     int64
	Description     string
	Metadata        map[string]string
}

// ChargeResult is the processor's outcome for one charge attempt.
type ChargeResult struct {
	PaymentIntentID string
	Status          string
	Succeeded       bool
}

// Gateway is the payment-processor surface the services depend on.
type Gateway interface {
	// CreateCustomer creates a new processor customer.
	CreateCustomer(ctx context.Context, params CreateCustomerParams) (*Customer, error)

	// FindCustomerByEmail returns the first processor customer with the given
	// email, or nil if none exists.
	FindCustomerByEmail(ctx context.Context, email string) (*Customer, error)

	// CreatePaymentMethodFromToken turns a single-use card token into a
	// payment method and returns its id.
	CreatePaymentMethodFromToken(ctx context.Context, token, cardholderName string) (string, error)

	// AttachPaymentMethod attaches a payment method to a customer.
	AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) error

	// GetPaymentMethod fetches full card details for a payment method.
	GetPaymentMethod(ctx context.Context, paymentMethodID string) (*CardDetails, error)

	// DetachPaymentMethod detaches a payment method from its customer.
	DetachPaymentMethod(ctx context.Context, paymentMethodID string) error

	// Charge creates and immediately confirms a charge. Redirect-based
	// payment flows are not permitted.
	Charge(ctx context.Context, params ChargeParams) (*ChargeResult, error)
}

// MinorUnits converts a decimal major-unit amount to the processor's integer
// minor-unit representation, rounding halves away from zero.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
