package tests

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"btrips/internal/domain"
	"btrips/internal/service"
)

// ──────────────────────────────────────────────
// 4. ADMIN INVOICING
// ──────────────────────────────────────────────

func TestAdminInvoice_ValidationRejections_LeaveNoAuditRecord(t *testing.T) {
	t.Parallel()

	customers, rides, invoices, resolver, gateway := chargeFixtures()
	svc := newChargeService(customers, rides, invoices, resolver, gateway)

	testCases := []struct {
		name string
		req  service.AdminInvoiceRequest
		want error
	}{
		{"no email", service.AdminInvoiceRequest{Amount: 10, Description: "Cleaning fee"}, service.ErrInvalidEmail},
		{"no description", service.AdminInvoiceRequest{UserEmail: "rider@example.com", Amount: 10}, service.ErrMissingDescription},
		{"zero amount", service.AdminInvoiceRequest{UserEmail: "rider@example.com", Amount: 0, Description: "Cleaning fee"}, service.ErrInvalidAmount},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ChargeAdminInvoice(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}

	// Rejections before a charge attempt never produce audit records.
	if n := atomic.LoadInt32(&invoices.AppendCallCount); n != 0 {
		t.Errorf("expected no audit records, got %d", n)
	}
}

func TestAdminInvoice_UnknownEmail_NoAuditRecord(t *testing.T) {
	t.Parallel()

	customers, rides, invoices, resolver, gateway := chargeFixtures()
	svc := newChargeService(customers, rides, invoices, resolver, gateway)

	_, err := svc.ChargeAdminInvoice(context.Background(), service.AdminInvoiceRequest{
		UserEmail: "nobody@example.com", Amount: 10, Description: "Cleaning fee",
	})
	if !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if n := atomic.LoadInt32(&invoices.AppendCallCount); n != 0 {
		t.Errorf("expected no audit records, got %d", n)
	}
}

func TestAdminInvoice_NoDefaultMethod_Rejected(t *testing.T) {
	t.Parallel()

	customers, rides, invoices, resolver, gateway := chargeFixtures()
	resolver.AddUser("nocard@example.com", "user-2")
	customers.AddCustomer(&domain.BillingCustomer{
		UserID:           "user-2",
		StripeCustomerID: "cus_2",
		Email:            "nocard@example.com",
	})
	svc := newChargeService(customers, rides, invoices, resolver, gateway)

	_, err := svc.ChargeAdminInvoice(context.Background(), service.AdminInvoiceRequest{
		UserEmail: "nocard@example.com", Amount: 10, Description: "Cleaning fee",
	})
	if !errors.Is(err, service.ErrNoDefaultPaymentMethod) {
		t.Errorf("expected ErrNoDefaultPaymentMethod, got %v", err)
	}
	if n := atomic.LoadInt32(&gateway.ChargeCallCount); n != 0 {
		t.Errorf("expected no charge attempt, got %d", n)
	}
}

func TestAdminInvoice_Success_ChargesDefaultAndWritesAudit(t *testing.T) {
	t.Parallel()

	customers, rides, invoices, resolver, gateway := chargeFixtures()
	resolver.AddUser("rider@example.com", "user-1")
	svc := newChargeService(customers, rides, invoices, resolver, gateway)

	res, err := svc.ChargeAdminInvoice(context.Background(), service.AdminInvoiceRequest{
		UserEmail:   "rider@example.com",
		Amount:      15.75,
		Description: "Cleaning fee",
		AdminEmail:  "admin@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected completed, got %s", res.Status)
	}
	if res.ChargedAmount != 15.75 {
		t.Errorf("expected charged amount 15.75, got %v", res.ChargedAmount)
	}
	if gateway.LastChargeParams.PaymentMethodID != "pm_default" {
		t.Errorf("expected the default method charged, got %s", gateway.LastChargeParams.PaymentMethodID)
	}
	if gateway.LastChargeParams.AmountCents != 1575 {
		t.Errorf("expected 1575 cents, got %d", gateway.LastChargeParams.AmountCents)
	}

	records := invoices.Invoices()
	if len(records) != 1 {
		t.Fatalf("expected exactly one audit record, got %d", len(records))
	}
	rec := records[0]
	if rec.Status != domain.InvoiceStatusSucceeded {
		t.Errorf("expected succeeded audit record, got %s", rec.Status)
	}
	if rec.UserID != "user-1" || rec.AdminEmail != "admin@example.com" {
		t.Errorf("audit record incomplete: %+v", rec)
	}
	if rec.ID == "" || rec.PaymentIntentID == "" {
		t.Error("audit record missing ids")
	}
}

func TestAdminInvoice_ChargeException_WritesExactlyOneFailedRecord(t *testing.T) {
	t.Parallel()

	customers, rides, invoices, resolver, gateway := chargeFixtures()
	resolver.AddUser("rider@example.com", "user-1")
	gateway.ChargeError = errors.New("card declined")
	svc := newChargeService(customers, rides, invoices, resolver, gateway)

	_, err := svc.ChargeAdminInvoice(context.Background(), service.AdminInvoiceRequest{
		UserEmail: "rider@example.com", Amount: 10, Description: "Cleaning fee",
	})
	if err == nil {
		t.Fatal("expected the charge error to surface")
	}

	records := invoices.Invoices()
	if len(records) != 1 {
		t.Fatalf("expected exactly one audit record, got %d", len(records))
	}
	if records[0].Status != domain.InvoiceStatusFailed {
		t.Errorf("expected failed audit record, got %s", records[0].Status)
	}
	if records[0].Error == "" {
		t.Error("failed record must carry the error detail")
	}
}

func TestAdminInvoice_AuditWriteFailure_DoesNotFailCharge(t *testing.T) {
	t.Parallel()

	customers, rides, invoices, resolver, gateway := chargeFixtures()
	resolver.AddUser("rider@example.com", "user-1")
	invoices.AppendError = errors.New("store down")
	svc := newChargeService(customers, rides, invoices, resolver, gateway)

	res, err := svc.ChargeAdminInvoice(context.Background(), service.AdminInvoiceRequest{
		UserEmail: "rider@example.com", Amount: 10, Description: "Cleaning fee",
	})
	if err != nil {
		t.Fatalf("a failed audit write must not fail the charge: %v", err)
	}
	if res.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected completed, got %s", res.Status)
	}
}

func TestAdminInvoice_ExplicitRideID_SettlesThatRide(t *testing.T) {
	t.Parallel()

	customers, rides, invoices, resolver, gateway := chargeFixtures()
	resolver.AddUser("rider@example.com", "user-1")
	rides.AddBoth(&domain.Ride{
		ID:            "ride-explicit",
		UserID:        "user-1",
		Status:        domain.RideStatusCompleted,
		PaymentStatus: domain.PaymentStatusPending,
	})
	svc := newChargeService(customers, rides, invoices, resolver, gateway)

	// The description is not ride-prefixed; the explicit id must still win.
	_, err := svc.ChargeAdminInvoice(context.Background(), service.AdminInvoiceRequest{
		UserEmail:   "rider@example.com",
		Amount:      20,
		Description: "Outstanding balance",
		RideID:      "ride-explicit",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ride, _ := rides.HistoryCopy("ride-explicit")
	if ride.PaymentStatus != domain.PaymentStatusCompleted {
		t.Errorf("expected the named ride settled, got %s", ride.PaymentStatus)
	}

	records := invoices.Invoices()
	if len(records) != 1 || records[0].RideID != "ride-explicit" {
		t.Errorf("audit record should link the settled ride, got %+v", records)
	}
}

func TestAdminInvoice_RidePrefix_SettlesLatestPendingRide(t *testing.T) {
	t.Parallel()

	customers, rides, invoices, resolver, gateway := chargeFixtures()
	resolver.AddUser("rider@example.com", "user-1")

	now := time.Now()
	rides.AddHistory(&domain.Ride{
		ID:            "ride-old",
		UserID:        "user-1",
		Status:        domain.RideStatusCompleted,
		PaymentStatus: domain.PaymentStatusPending,
		CreatedAt:     now.Add(-2 * time.Hour),
	})
	rides.AddHistory(&domain.Ride{
		ID:            "ride-new",
		UserID:        "user-1",
		Status:        domain.RideStatusCompleted,
		PaymentStatus: domain.PaymentStatusPending,
		CreatedAt:     now.Add(-10 * time.Minute),
	})
	svc := newChargeService(customers, rides, invoices, resolver, gateway)

	_, err := svc.ChargeAdminInvoice(context.Background(), service.AdminInvoiceRequest{
		UserEmail:   "rider@example.com",
		Amount:      20,
		Description: "Ride payment for airport trip",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newer, _ := rides.HistoryCopy("ride-new")
	older, _ := rides.HistoryCopy("ride-old")
	if newer.PaymentStatus != domain.PaymentStatusCompleted {
		t.Errorf("expected the latest pending ride settled, got %s", newer.PaymentStatus)
	}
	if older.PaymentStatus != domain.PaymentStatusPending {
		t.Errorf("older ride must stay pending, got %s", older.PaymentStatus)
	}
}

func TestAdminInvoice_NonRideDescription_LeavesRidesAlone(t *testing.T) {
	t.Parallel()

	customers, rides, invoices, resolver, gateway := chargeFixtures()
	resolver.AddUser("rider@example.com", "user-1")
	rides.AddHistory(&domain.Ride{
		ID:            "ride-1",
		UserID:        "user-1",
		Status:        domain.RideStatusCompleted,
		PaymentStatus: domain.PaymentStatusPending,
		CreatedAt:     time.Now(),
	})
	svc := newChargeService(customers, rides, invoices, resolver, gateway)

	_, err := svc.ChargeAdminInvoice(context.Background(), service.AdminInvoiceRequest{
		UserEmail: "rider@example.com", Amount: 20, Description: "Cleaning fee",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ride, _ := rides.HistoryCopy("ride-1")
	if ride.PaymentStatus != domain.PaymentStatusPending {
		t.Errorf("unrelated invoice must not settle rides, got %s", ride.PaymentStatus)
	}
	if records := invoices.Invoices(); records[0].RideID != "" {
		t.Errorf("audit record should carry no ride link, got %q", records[0].RideID)
	}
}

func TestAdminInvoice_RideCorrelationFailure_IsBestEffort(t *testing.T) {
	t.Parallel()

	customers, rides, invoices, resolver, gateway := chargeFixtures()
	resolver.AddUser("rider@example.com", "user-1")
	rides.FindError = errors.New("store down")
	svc := newChargeService(customers, rides, invoices, resolver, gateway)

	res, err := svc.ChargeAdminInvoice(context.Background(), service.AdminInvoiceRequest{
		UserEmail: "rider@example.com", Amount: 20, Description: "Ride payment for airport trip",
	})
	if err != nil {
		t.Fatalf("ride correlation must never fail the invoice: %v", err)
	}
	if res.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected completed, got %s", res.Status)
	}
}
