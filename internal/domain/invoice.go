package domain

import "time"

// InvoiceStatus is the outcome recorded on an admin invoice.
type InvoiceStatus string

const (
	InvoiceStatusSucceeded InvoiceStatus = "succeeded"
	InvoiceStatusFailed    InvoiceStatus = "failed"
)

// AdminInvoice is the append-only audit record for an admin-initiated charge.
// Failure records omit PaymentIntentID and carry the upstream error text.
type AdminInvoice struct {
	ID              string        `json:"id" firestore:"-"`
	UserID          string        `json:"userId" firestore:"userId"`
	UserEmail       string        `json:"userEmail" firestore:"userEmail"`
	Amount          float64       `json:"amount" firestore:"amount"`
	AmountCents     int64         `json:"amountCents" firestore:"amountCents"`
	Description     string        `json:"description" firestore:"description"`
	AdminEmail      string        `json:"adminEmail" firestore:"adminEmail"`
	PaymentIntentID string        `json:"paymentIntentId,omitempty" firestore:"paymentIntentId,omitempty"`
	Status          InvoiceStatus `json:"status" firestore:"status"`
	Error           string        `json:"error,omitempty" firestore:"error,omitempty"`
	RideID          string        `json:"rideId,omitempty" firestore:"rideId,omitempty"`
	CreatedAt       time.Time     `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
