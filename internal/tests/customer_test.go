package tests

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"btrips/internal/domain"
	"btrips/internal/payment"
	"btrips/internal/service"
)

// ──────────────────────────────────────────────
// 1. CUSTOMER CREATION IDEMPOTENCE
// ──────────────────────────────────────────────

func newCustomerService(repo *MockCustomerRepository, gateway *MockGateway) *service.CustomerService {
	return service.NewCustomerService(repo, gateway, zap.NewNop())
}

func TestEnsureCustomer_MissingFields_Rejected(t *testing.T) {
	t.Parallel()

	svc := newCustomerService(NewMockCustomerRepository(), NewMockGateway())

	testCases := []struct {
		name string
		req  service.EnsureCustomerRequest
	}{
		{"no user id", service.EnsureCustomerRequest{Email: "a@b.com", Name: "A"}},
		{"no email", service.EnsureCustomerRequest{UserID: "user-1", Name: "A"}},
		{"no name", service.EnsureCustomerRequest{UserID: "user-1", Email: "a@b.com"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.EnsureCustomer(context.Background(), tc.req)
			if !errors.Is(err, service.ErrMissingCustomerFields) {
				t.Errorf("expected ErrMissingCustomerFields, got %v", err)
			}
		})
	}
}

func TestEnsureCustomer_StoredRecord_ReturnedWithoutProcessorCalls(t *testing.T) {
	t.Parallel()

	repo := NewMockCustomerRepository()
	repo.AddCustomer(&domain.BillingCustomer{
		UserID:           "user-1",
		StripeCustomerID: "cus_existing",
		Email:            "rider@example.com",
	})
	gateway := NewMockGateway()
	svc := newCustomerService(repo, gateway)

	res, err := svc.EnsureCustomer(context.Background(), service.EnsureCustomerRequest{
		UserID: "user-1",
		Email:  "rider@example.com",
		Name:   "Rider One",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.CustomerID != "cus_existing" {
		t.Errorf("expected cus_existing, got %s", res.CustomerID)
	}
	if !res.Existing || res.Synced {
		t.Errorf("expected existing=true synced=false, got existing=%v synced=%v", res.Existing, res.Synced)
	}
	if n := atomic.LoadInt32(&gateway.CreateCustomerCallCount); n != 0 {
		t.Errorf("expected no processor create, got %d calls", n)
	}
}

func TestEnsureCustomer_SecondCall_DoesNotDuplicate(t *testing.T) {
	t.Parallel()

	repo := NewMockCustomerRepository()
	gateway := NewMockGateway()
	svc := newCustomerService(repo, gateway)

	req := service.EnsureCustomerRequest{
		UserID: "user-1",
		Email:  "rider@example.com",
		Name:   "Rider One",
	}

	first, err := svc.EnsureCustomer(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error on first call: %v", err)
	}
	second, err := svc.EnsureCustomer(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}

	if first.Existing {
		t.Error("first call should create, not find")
	}
	if !second.Existing {
		t.Error("second call should find the stored record")
	}
	if first.CustomerID != second.CustomerID {
		t.Errorf("customer ids differ: %s vs %s", first.CustomerID, second.CustomerID)
	}
	if n := atomic.LoadInt32(&gateway.CreateCustomerCallCount); n != 1 {
		t.Errorf("expected exactly one processor create, got %d", n)
	}
}

func TestEnsureCustomer_SyncsProcessorCustomerWithAppTag(t *testing.T) {
	t.Parallel()

	repo := NewMockCustomerRepository()
	gateway := NewMockGateway()
	gateway.AddProcessorCustomer(&payment.Customer{
		ID:       "cus_orphan",
		Email:    "rider@example.com",
		Metadata: map[string]string{"prefix": domain.MetadataPrefix},
	})
	svc := newCustomerService(repo, gateway)

	res, err := svc.EnsureCustomer(context.Background(), service.EnsureCustomerRequest{
		UserID: "user-1",
		Email:  "rider@example.com",
		Name:   "Rider One",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.CustomerID != "cus_orphan" {
		t.Errorf("expected the processor customer to be linked, got %s", res.CustomerID)
	}
	if !res.Existing || !res.Synced {
		t.Errorf("expected existing=true synced=true, got existing=%v synced=%v", res.Existing, res.Synced)
	}
	if n := atomic.LoadInt32(&gateway.CreateCustomerCallCount); n != 0 {
		t.Errorf("expected no new processor customer, got %d creates", n)
	}

	stored, err := repo.GetByUserID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected a stored record after sync: %v", err)
	}
	if stored.StripeCustomerID != "cus_orphan" {
		t.Errorf("stored record points at %s, want cus_orphan", stored.StripeCustomerID)
	}
}

func TestEnsureCustomer_ForeignProcessorCustomer_Ignored(t *testing.T) {
	t.Parallel()

	repo := NewMockCustomerRepository()
	gateway := NewMockGateway()
	// Same email, but not tagged by this application.
	gateway.AddProcessorCustomer(&payment.Customer{
		ID:       "cus_foreign",
		Email:    "rider@example.com",
		Metadata: map[string]string{"app": "SomeOtherShop"},
	})
	svc := newCustomerService(repo, gateway)

	res, err := svc.EnsureCustomer(context.Background(), service.EnsureCustomerRequest{
		UserID: "user-1",
		Email:  "rider@example.com",
		Name:   "Rider One",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.CustomerID == "cus_foreign" {
		t.Error("foreign processor customer must not be linked")
	}
	if n := atomic.LoadInt32(&gateway.CreateCustomerCallCount); n != 1 {
		t.Errorf("expected a fresh processor customer, got %d creates", n)
	}
}

func TestEnsureCustomer_ProcessorLookupFailure_FallsThroughToCreate(t *testing.T) {
	t.Parallel()

	repo := NewMockCustomerRepository()
	gateway := NewMockGateway()
	gateway.FindCustomerError = errors.New("processor unavailable")
	svc := newCustomerService(repo, gateway)

	res, err := svc.EnsureCustomer(context.Background(), service.EnsureCustomerRequest{
		UserID: "user-1",
		Email:  "rider@example.com",
		Name:   "Rider One",
	})
	if err != nil {
		t.Fatalf("lookup failure must not block creation: %v", err)
	}
	if res.CustomerID == "" {
		t.Error("expected a customer id")
	}
	if n := atomic.LoadInt32(&gateway.CreateCustomerCallCount); n != 1 {
		t.Errorf("expected one processor create, got %d", n)
	}
}

func TestEnsureCustomer_LostCreateRace_ReturnsWinner(t *testing.T) {
	t.Parallel()

	repo := NewMockCustomerRepository()
	repo.RaceWinner = &domain.BillingCustomer{
		UserID:           "user-1",
		StripeCustomerID: "cus_winner",
		Email:            "rider@example.com",
	}
	gateway := NewMockGateway()
	svc := newCustomerService(repo, gateway)

	res, err := svc.EnsureCustomer(context.Background(), service.EnsureCustomerRequest{
		UserID: "user-1",
		Email:  "rider@example.com",
		Name:   "Rider One",
	})
	if err != nil {
		t.Fatalf("losing the create race must not surface an error: %v", err)
	}

	if res.CustomerID != "cus_winner" {
		t.Errorf("expected the winner's customer id, got %s", res.CustomerID)
	}
	if !res.Existing {
		t.Error("winner's record should be reported as existing")
	}
}
