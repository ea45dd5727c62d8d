package domain

import "time"

// MetadataPrefix and MetadataApp tag every processor-side customer this
// application creates. A customer found in the processor without one of
// these tags is treated as belonging to somebody else.
const (
	MetadataPrefix = "BTRP"
	MetadataApp    = "BTrips"
)

// BillingAddress is an optional street address attached to a billing customer.
type BillingAddress struct {
	Line1      string `json:"line1" firestore:"line1"`
	City       string `json:"city" firestore:"city"`
	State      string `json:"state" firestore:"state"`
	PostalCode string `json:"postalCode" firestore:"postalCode"`
	Country    string `json:"country" firestore:"country"`
}

// PaymentMethod is a stored card embedded in a customer's method list.
//
// AddedAt is a plain epoch-milliseconds timestamp: the store does not accept
// server-generated timestamps inside array elements.
type PaymentMethod struct {
	ID             string `json:"id" firestore:"id"`
	Type           string `json:"type" firestore:"type"`
	Last4          string `json:"last4" firestore:"last4"`
	Brand          string `json:"brand" firestore:"brand"`
	ExpMonth       int64  `json:"expiryMonth" firestore:"expiryMonth"`
	ExpYear        int64  `json:"expiryYear" firestore:"expiryYear"`
	CardholderName string `json:"cardholderName" firestore:"cardholderName"`
	IsDefault      bool   `json:"isDefault" firestore:"isDefault"`
	AddedAt        int64  `json:"addedAt" firestore:"addedAt"`
	IsActive       bool   `json:"isActive" firestore:"isActive"`
}

// CustomerMetadata records how a billing customer record came to exist.
type CustomerMetadata struct {
	Prefix     string `json:"prefix" firestore:"prefix"`
	CreatedVia string `json:"createdVia" firestore:"createdVia"`
	Note       string `json:"note,omitempty" firestore:"note,omitempty"`
}

// BillingCustomer maps an application user to a payment-processor customer.
// At most one exists per user id; the document key is the user id.
type BillingCustomer struct {
	UserID                 string           `json:"userId" firestore:"userId"`
	StripeCustomerID       string           `json:"stripeCustomerId" firestore:"stripeCustomerId"`
	Email                  string           `json:"email" firestore:"email"`
	Name                   string           `json:"name" firestore:"name"`
	BillingAddress         *BillingAddress  `json:"billingAddress" firestore:"billingAddress"`
	PaymentMethods         []PaymentMethod  `json:"paymentMethods" firestore:"paymentMethods"`
	DefaultPaymentMethodID string           `json:"defaultPaymentMethodId" firestore:"defaultPaymentMethodId"`
	IsActive               bool             `json:"isActive" firestore:"isActive"`
	Metadata               CustomerMetadata `json:"metadata" firestore:"metadata"`
	CreatedAt              time.Time        `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt              time.Time        `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// DefaultMethod returns the stored method currently flagged as default,
// or nil if the customer has none.
func (c *BillingCustomer) DefaultMethod() *PaymentMethod {
	for i := range c.PaymentMethods {
		if c.PaymentMethods[i].IsDefault {
			return &c.PaymentMethods[i]
		}
	}
	return nil
}
