package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"btrips/internal/domain"
	"btrips/internal/repository"
	"btrips/internal/service"
)

// ──────────────────────────────────────────────
// 7. END-TO-END BILLING FLOW
// ──────────────────────────────────────────────

// A rider signs up, stores a default card, a ride charge is declined, and an
// admin later re-invoices the outstanding fare, settling the ride.
func TestBillingFlow_DeclinedRideSettledByAdminInvoice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	customers := NewMockCustomerRepository()
	rides := NewMockRideStore()
	invoices := NewMockInvoiceRepository()
	resolver := NewMockResolver()
	gateway := NewMockGateway()
	resolver.AddUser("rider@example.com", "user-1")

	customerSvc := newCustomerService(customers, gateway)
	methodSvc := newMethodService(customers, gateway)
	chargeSvc := newChargeService(customers, rides, invoices, resolver, gateway)

	// 1. Rider signs up for billing.
	ensured, err := customerSvc.EnsureCustomer(ctx, service.EnsureCustomerRequest{
		UserID: "user-1",
		Email:  "rider@example.com",
		Name:   "Rider One",
	})
	if err != nil {
		t.Fatalf("ensure customer: %v", err)
	}

	// 2. Rider stores a card as default.
	method, err := methodSvc.Attach(ctx, service.AttachRequest{
		UserID:       "user-1",
		Token:        "tok_visa",
		SetAsDefault: true,
	})
	if err != nil {
		t.Fatalf("attach method: %v", err)
	}

	// 3. A completed ride's charge is declined.
	rides.AddBoth(&domain.Ride{
		ID:            "ride-1",
		UserID:        "user-1",
		DriverID:      "driver-1",
		Status:        domain.RideStatusCompleted,
		PaymentStatus: domain.PaymentStatusPending,
		Fare:          32.40,
		CreatedAt:     time.Now(),
	})
	gateway.ChargeError = errors.New("card declined")
	if _, err := chargeSvc.ChargeRide(ctx, service.ChargeRideRequest{
		RideID:          "ride-1",
		UserID:          "user-1",
		Amount:          32.40,
		PaymentMethodID: method.ID,
	}); err == nil {
		t.Fatal("expected the declined charge to surface")
	}
	declined, _ := rides.HistoryCopy("ride-1")
	if declined.PaymentStatus != domain.PaymentStatusFailed {
		t.Fatalf("expected ride marked failed, got %s", declined.PaymentStatus)
	}

	// 4. Rider's bank recovers; the pending payment is restored for retry.
	gateway.ChargeError = nil
	if err := rides.SetPaymentOutcome(ctx, "ride-1", domain.PaymentOutcome{
		Status: domain.PaymentStatusPending,
	}); err != nil {
		t.Fatalf("reset payment status: %v", err)
	}

	// 5. An admin re-invoices the fare; the prefix heuristic finds the ride.
	res, err := chargeSvc.ChargeAdminInvoice(ctx, service.AdminInvoiceRequest{
		UserEmail:   "rider@example.com",
		Amount:      32.40,
		Description: "Ride payment for 2026-08-30 trip",
		AdminEmail:  "admin@example.com",
	})
	if err != nil {
		t.Fatalf("admin invoice: %v", err)
	}
	if res.Status != domain.PaymentStatusCompleted {
		t.Fatalf("expected completed invoice, got %s", res.Status)
	}

	settled, _ := rides.HistoryCopy("ride-1")
	if settled.PaymentStatus != domain.PaymentStatusCompleted {
		t.Errorf("expected ride settled, got %s", settled.PaymentStatus)
	}

	records := invoices.Invoices()
	if len(records) != 1 {
		t.Fatalf("expected one audit record, got %d", len(records))
	}
	if records[0].RideID != "ride-1" {
		t.Errorf("audit record should link ride-1, got %q", records[0].RideID)
	}
	if records[0].Status != domain.InvoiceStatusSucceeded {
		t.Errorf("expected succeeded record, got %s", records[0].Status)
	}

	// 6. The rider rates the driver afterwards.
	profiles := NewMockProfileRepository()
	ratingSvc := newRatingService(rides, profiles)
	if err := ratingSvc.SubmitRating(ctx, service.SubmitRatingRequest{
		RideID:    "ride-1",
		Direction: domain.RatingRiderToDriver,
		Rating:    5,
	}); err != nil {
		t.Fatalf("submit rating: %v", err)
	}
	if agg, ok := profiles.Aggregate(repository.ProfileDriver, "driver-1"); !ok || agg.Count != 1 {
		t.Errorf("expected driver aggregate seeded, got %+v (ok=%v)", agg, ok)
	}

	// The whole flow reused the one processor customer.
	stored, _ := customers.GetByUserID(ctx, "user-1")
	if stored.StripeCustomerID != ensured.CustomerID {
		t.Errorf("customer id drifted: %s vs %s", stored.StripeCustomerID, ensured.CustomerID)
	}
}
