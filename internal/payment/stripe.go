package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/customer"
	"github.com/stripe/stripe-go/v75/paymentintent"
	"github.com/stripe/stripe-go/v75/paymentmethod"
)

// defaultCallTimeout bounds every outbound processor call. A call that runs
// past it is treated as failed; there is no retry.
const defaultCallTimeout = 10 * time.Second

// StripeGateway is the Stripe implementation of Gateway.
type StripeGateway struct {
	currency string
	timeout  time.Duration
}

// NewStripeGateway configures the Stripe client with the given secret key
// and returns a gateway charging in the given currency.
func NewStripeGateway(secretKey, currency string) *StripeGateway {
	stripe.Key = secretKey
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &StripeGateway{currency: currency, timeout: defaultCallTimeout}
}

func (g *StripeGateway) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, g.timeout)
}

// CreateCustomer creates a new Stripe customer.
func (g *StripeGateway) CreateCustomer(ctx context.Context, params CreateCustomerParams) (*Customer, error) {
	ctx, cancel := g.callContext(ctx)
	defer cancel()

	cp := &stripe.CustomerParams{
		Email: stripe.String(params.Email),
		Name:  stripe.String(params.Name),
	}
	cp.Context = ctx
	for k, v := range params.Metadata {
		cp.AddMetadata(k, v)
	}
	if params.Address != nil {
		cp.Address = &stripe.AddressParams{
			Line1:      stripe.String(params.Address.Line1),
			City:       stripe.String(params.Address.City),
			State:      stripe.String(params.Address.State),
			PostalCode: stripe.String(params.Address.PostalCode),
			Country:    stripe.String(params.Address.Country),
		}
	}

	c, err := customer.New(cp)
	if err != nil {
		return nil, fmt.Errorf("stripe: create customer: %w", err)
	}
	return &Customer{ID: c.ID, Email: c.Email, Name: c.Name, Metadata: c.Metadata}, nil
}

// FindCustomerByEmail returns the first Stripe customer with the given
// email, or nil if none exists.
func (g *StripeGateway) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	ctx, cancel := g.callContext(ctx)
	defer cancel()

	lp := &stripe.CustomerListParams{Email: stripe.String(email)}
	lp.Context = ctx
	lp.Limit = stripe.Int64(1)

	iter := customer.List(lp)
	for iter.Next() {
		c := iter.Customer()
		return &Customer{ID: c.ID, Email: c.Email, Name: c.Name, Metadata: c.Metadata}, nil
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("stripe: list customers: %w", err)
	}
	return nil, nil
}

// CreatePaymentMethodFromToken turns a single-use card token into a payment
// method carrying the given cardholder name.
func (g *StripeGateway) CreatePaymentMethodFromToken(ctx context.Context, token, cardholderName string) (string, error) {
	ctx, cancel := g.callContext(ctx)
	defer cancel()

	params := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{Token: stripe.String(token)},
		BillingDetails: &stripe.PaymentMethodBillingDetailsParams{
			Name: stripe.String(cardholderName),
		},
	}
	params.Context = ctx

	pm, err := paymentmethod.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create payment method: %w", err)
	}
	return pm.ID, nil
}

// AttachPaymentMethod attaches a payment method to a customer.
func (g *StripeGateway) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) error {
	ctx, cancel := g.callContext(ctx)
	defer cancel()

	params := &stripe.PaymentMethodAttachParams{Customer: stripe.String(customerID)}
	params.Context = ctx

	if _, err := paymentmethod.Attach(paymentMethodID, params); err != nil {
		return fmt.Errorf("stripe: attach payment method: %w", err)
	}
	return nil
}

// GetPaymentMethod fetches full card details from Stripe.
func (g *StripeGateway) GetPaymentMethod(ctx context.Context, paymentMethodID string) (*CardDetails, error) {
	ctx, cancel := g.callContext(ctx)
	defer cancel()

	params := &stripe.PaymentMethodParams{}
	params.Context = ctx

	pm, err := paymentmethod.Get(paymentMethodID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: get payment method: %w", err)
	}

	details := &CardDetails{ID: pm.ID, Type: string(pm.Type)}
	if pm.Card != nil {
		details.Brand = string(pm.Card.Brand)
		details.Last4 = pm.Card.Last4
		details.ExpMonth = pm.Card.ExpMonth
		details.ExpYear = pm.Card.ExpYear
	}
	if pm.BillingDetails != nil {
		details.CardholderName = pm.BillingDetails.Name
	}
	return details, nil
}

// DetachPaymentMethod detaches a payment method from its customer.
func (g *StripeGateway) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	ctx, cancel := g.callContext(ctx)
	defer cancel()

	params := &stripe.PaymentMethodDetachParams{}
	params.Context = ctx

	if _, err := paymentmethod.Detach(paymentMethodID, params); err != nil {
		return fmt.Errorf("stripe: detach payment method: %w", err)
	}
	return nil
}

// Charge creates and immediately confirms a payment intent against a stored
// method. Off-session, no redirects: this is a server-initiated charge, not
// a user-present checkout.
func (g *StripeGateway) Charge(ctx context.Context, params ChargeParams) (*ChargeResult, error) {
	ctx, cancel := g.callContext(ctx)
	defer cancel()

	pi := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(params.AmountCents),
		Currency:      stripe.String(g.currency),
		Customer:      stripe.String(params.CustomerID),
		PaymentMethod: stripe.String(params.PaymentMethodID),
		Description:   stripe.String(params.Description),
		Confirm:       stripe.Bool(true),
		OffSession:    stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	pi.Context = ctx
	for k, v := range params.Metadata {
		pi.AddMetadata(k, v)
	}

	intent, err := paymentintent.New(pi)
	if err != nil {
		return nil, fmt.Errorf("stripe: charge: %w", err)
	}
	return &ChargeResult{
		PaymentIntentID: intent.ID,
		Status:          string(intent.Status),
		Succeeded:       intent.Status == stripe.PaymentIntentStatusSucceeded,
	}, nil
}

var _ Gateway = (*StripeGateway)(nil)
