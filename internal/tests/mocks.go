package tests

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"btrips/internal/domain"
	"btrips/internal/payment"
	"btrips/internal/places"
	"btrips/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK CUSTOMER REPOSITORY
// ──────────────────────────────────────────────

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.BillingCustomer

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	GetError    error
	UpdateError error

	// RaceWinner, when set, simulates a concurrent creator winning between
	// the caller's read and its create: Create inserts this record and
	// reports ErrAlreadyExists.
	RaceWinner *domain.BillingCustomer
}

// NewMockCustomerRepository creates a new mock customer repository.
func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[string]*domain.BillingCustomer),
	}
}

// AddCustomer seeds a billing customer into the mock repository.
func (m *MockCustomerRepository) AddCustomer(customer *domain.BillingCustomer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.UserID] = customer
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.BillingCustomer) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RaceWinner != nil {
		m.customers[m.RaceWinner.UserID] = m.RaceWinner
		m.RaceWinner = nil
		return repository.ErrAlreadyExists
	}
	if _, ok := m.customers[customer.UserID]; ok {
		return repository.ErrAlreadyExists
	}
	m.customers[customer.UserID] = customer
	return nil
}

func (m *MockCustomerRepository) GetByUserID(ctx context.Context, userID string) (*domain.BillingCustomer, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	customer, ok := m.customers[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *customer
	copy.PaymentMethods = append([]domain.PaymentMethod(nil), customer.PaymentMethods...)
	return &copy, nil
}

func (m *MockCustomerRepository) UpdatePaymentMethods(ctx context.Context, userID string, methods []domain.PaymentMethod, defaultID string) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	customer, ok := m.customers[userID]
	if !ok {
		return repository.ErrNotFound
	}
	customer.PaymentMethods = append([]domain.PaymentMethod(nil), methods...)
	customer.DefaultPaymentMethodID = defaultID
	return nil
}

// ──────────────────────────────────────────────
// MOCK RIDE STORE
// ──────────────────────────────────────────────

// MockRideStore is a mock implementation of RideStore. It keeps separate
// active and historical copies so tests can observe the write fan-out.
type MockRideStore struct {
	mu      sync.RWMutex
	active  map[string]*domain.Ride
	history map[string]*domain.Ride

	// Counters for verification
	SetPaymentOutcomeCallCount int32
	SetRatingCallCount         int32

	// Error injection
	GetError               error
	SetPaymentOutcomeError error
	SetRatingError         error
	FindError              error
}

// NewMockRideStore creates a new mock ride store.
func NewMockRideStore() *MockRideStore {
	return &MockRideStore{
		active:  make(map[string]*domain.Ride),
		history: make(map[string]*domain.Ride),
	}
}

// AddActive seeds a ride into the active copy only.
func (m *MockRideStore) AddActive(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[ride.ID] = ride
}

// AddHistory seeds a ride into the historical copy only.
func (m *MockRideStore) AddHistory(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history[ride.ID] = ride
}

// AddBoth seeds independent copies of the ride into both collections.
func (m *MockRideStore) AddBoth(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	activeCopy := *ride
	historyCopy := *ride
	m.active[ride.ID] = &activeCopy
	m.history[ride.ID] = &historyCopy
}

// ActiveCopy returns the active copy of a ride, if present.
func (m *MockRideStore) ActiveCopy(rideID string) (*domain.Ride, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.active[rideID]
	return ride, ok
}

// HistoryCopy returns the historical copy of a ride, if present.
func (m *MockRideStore) HistoryCopy(rideID string) (*domain.Ride, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.history[rideID]
	return ride, ok
}

func (m *MockRideStore) GetByID(ctx context.Context, rideID string) (*domain.Ride, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if ride, ok := m.history[rideID]; ok {
		copy := *ride
		return &copy, nil
	}
	if ride, ok := m.active[rideID]; ok {
		copy := *ride
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *MockRideStore) SetPaymentOutcome(ctx context.Context, rideID string, outcome domain.PaymentOutcome) error {
	atomic.AddInt32(&m.SetPaymentOutcomeCallCount, 1)
	if m.SetPaymentOutcomeError != nil {
		return m.SetPaymentOutcomeError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	found := false
	for _, copies := range []map[string]*domain.Ride{m.history, m.active} {
		if ride, ok := copies[rideID]; ok {
			ride.PaymentStatus = outcome.Status
			ride.PaymentIntentID = outcome.PaymentIntentID
			ride.PaymentError = outcome.Error
			found = true
		}
	}
	if !found {
		return repository.ErrNotFound
	}
	return nil
}

func (m *MockRideStore) FindLatestPendingPayment(ctx context.Context, userID string) (*domain.Ride, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var candidates []*domain.Ride
	seen := make(map[string]bool)
	for _, copies := range []map[string]*domain.Ride{m.history, m.active} {
		for id, ride := range copies {
			if seen[id] {
				continue
			}
			if ride.UserID == userID && ride.Status == domain.RideStatusCompleted && ride.PaymentStatus == domain.PaymentStatusPending {
				seen[id] = true
				candidates = append(candidates, ride)
			}
		}
	}
	if len(candidates) == 0 {
		return nil, repository.ErrNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	copy := *candidates[0]
	return &copy, nil
}

func (m *MockRideStore) SetRating(ctx context.Context, rideID string, direction domain.RatingDirection, rating float64, feedback string) error {
	atomic.AddInt32(&m.SetRatingCallCount, 1)
	if m.SetRatingError != nil {
		return m.SetRatingError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.history[rideID]
	if !ok {
		ride, ok = m.active[rideID]
		if !ok {
			return repository.ErrNotFound
		}
	}
	// Field pair by author, matching the ride document schema.
	if direction == domain.RatingRiderToDriver {
		ride.UserRating = rating
		ride.UserFeedback = feedback
	} else {
		ride.DriverRating = rating
		ride.DriverFeedback = feedback
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK INVOICE REPOSITORY
// ──────────────────────────────────────────────

// MockInvoiceRepository is a mock implementation of InvoiceRepository.
type MockInvoiceRepository struct {
	mu       sync.RWMutex
	invoices []*domain.AdminInvoice

	AppendCallCount int32
	AppendError     error
}

// NewMockInvoiceRepository creates a new mock invoice repository.
func NewMockInvoiceRepository() *MockInvoiceRepository {
	return &MockInvoiceRepository{}
}

func (m *MockInvoiceRepository) Append(ctx context.Context, invoice *domain.AdminInvoice) error {
	atomic.AddInt32(&m.AppendCallCount, 1)
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *invoice
	m.invoices = append(m.invoices, &copy)
	return nil
}

// Invoices returns the audit records written so far.
func (m *MockInvoiceRepository) Invoices() []*domain.AdminInvoice {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AdminInvoice(nil), m.invoices...)
}

// ──────────────────────────────────────────────
// MOCK PROFILE REPOSITORY
// ──────────────────────────────────────────────

// MockProfileRepository is a mock implementation of ProfileRepository.
type MockProfileRepository struct {
	mu         sync.RWMutex
	aggregates map[string]domain.RatingAggregate

	ApplyCallCount int32
	ApplyError     error
}

// NewMockProfileRepository creates a new mock profile repository.
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		aggregates: make(map[string]domain.RatingAggregate),
	}
}

// SetAggregate seeds an existing rating aggregate for a party.
func (m *MockProfileRepository) SetAggregate(kind repository.ProfileKind, partyID string, agg domain.RatingAggregate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aggregates[string(kind)+"/"+partyID] = agg
}

// Aggregate returns the current aggregate for a party.
func (m *MockProfileRepository) Aggregate(kind repository.ProfileKind, partyID string) (domain.RatingAggregate, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	agg, ok := m.aggregates[string(kind)+"/"+partyID]
	return agg, ok
}

func (m *MockProfileRepository) ApplyRating(ctx context.Context, kind repository.ProfileKind, partyID string, rating float64) (domain.RatingAggregate, error) {
	atomic.AddInt32(&m.ApplyCallCount, 1)
	if m.ApplyError != nil {
		return domain.RatingAggregate{}, m.ApplyError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := string(kind) + "/" + partyID
	current := m.aggregates[key]
	avg, count := domain.NextAverage(current.Average, current.Count, rating)
	next := domain.RatingAggregate{Average: avg, Count: count}
	m.aggregates[key] = next
	return next, nil
}

// ──────────────────────────────────────────────
// MOCK IDENTITY RESOLVER
// ──────────────────────────────────────────────

// MockResolver is a mock implementation of identity.Resolver.
type MockResolver struct {
	mu    sync.RWMutex
	users map[string]string // email -> user id

	LookupError error
}

// NewMockResolver creates a new mock identity resolver.
func NewMockResolver() *MockResolver {
	return &MockResolver{users: make(map[string]string)}
}

// AddUser registers an email to user id mapping.
func (m *MockResolver) AddUser(email, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[email] = userID
}

func (m *MockResolver) LookupByEmail(ctx context.Context, email string) (string, error) {
	if m.LookupError != nil {
		return "", m.LookupError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	userID, ok := m.users[email]
	if !ok {
		return "", repository.ErrNotFound
	}
	return userID, nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a mock implementation of payment.Gateway.
type MockGateway struct {
	mu        sync.RWMutex
	customers map[string]*payment.Customer // keyed by email
	methods   map[string]*payment.CardDetails
	attached  map[string]string // payment method id -> customer id
	nextID    int32

	// Counters for verification
	CreateCustomerCallCount int32
	ChargeCallCount         int32
	AttachCallCount         int32
	DetachCallCount         int32

	// Captured inputs
	LastChargeParams payment.ChargeParams

	// Error injection
	CreateCustomerError error
	FindCustomerError   error
	CreateMethodError   error
	AttachError         error
	GetMethodError      error
	DetachError         error
	ChargeError         error

	// Configured charge outcome; a zero value means a succeeded intent.
	ChargeResult *payment.ChargeResult
}

// NewMockGateway creates a new mock payment gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		customers: make(map[string]*payment.Customer),
		methods:   make(map[string]*payment.CardDetails),
		attached:  make(map[string]string),
	}
}

// AddProcessorCustomer seeds a processor-side customer, as if it had been
// created out-of-band.
func (m *MockGateway) AddProcessorCustomer(customer *payment.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customer.Email] = customer
}

// AddMethod seeds the processor-side details for a payment method.
func (m *MockGateway) AddMethod(details *payment.CardDetails) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.methods[details.ID] = details
}

// AttachedTo returns the customer a payment method is attached to.
func (m *MockGateway) AttachedTo(paymentMethodID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	customerID, ok := m.attached[paymentMethodID]
	return customerID, ok
}

func (m *MockGateway) CreateCustomer(ctx context.Context, params payment.CreateCustomerParams) (*payment.Customer, error) {
	atomic.AddInt32(&m.CreateCustomerCallCount, 1)
	if m.CreateCustomerError != nil {
		return nil, m.CreateCustomerError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	customer := &payment.Customer{
		ID:       "cus_mock_" + strconv.Itoa(int(m.nextID)),
		Email:    params.Email,
		Name:     params.Name,
		Metadata: params.Metadata,
	}
	m.customers[params.Email] = customer
	return customer, nil
}

func (m *MockGateway) FindCustomerByEmail(ctx context.Context, email string) (*payment.Customer, error) {
	if m.FindCustomerError != nil {
		return nil, m.FindCustomerError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	customer, ok := m.customers[email]
	if !ok {
		return nil, nil
	}
	copy := *customer
	return &copy, nil
}

func (m *MockGateway) CreatePaymentMethodFromToken(ctx context.Context, token, cardholderName string) (string, error) {
	if m.CreateMethodError != nil {
		return "", m.CreateMethodError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := "pm_mock_" + strconv.Itoa(int(m.nextID))
	m.methods[id] = &payment.CardDetails{
		ID:             id,
		Type:           "card",
		Brand:          "visa",
		Last4:          "4242",
		ExpMonth:       12,
		ExpYear:        2030,
		CardholderName: cardholderName,
	}
	return id, nil
}

func (m *MockGateway) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) error {
	atomic.AddInt32(&m.AttachCallCount, 1)
	if m.AttachError != nil {
		return m.AttachError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attached[paymentMethodID] = customerID
	return nil
}

func (m *MockGateway) GetPaymentMethod(ctx context.Context, paymentMethodID string) (*payment.CardDetails, error) {
	if m.GetMethodError != nil {
		return nil, m.GetMethodError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	details, ok := m.methods[paymentMethodID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *details
	return &copy, nil
}

func (m *MockGateway) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	atomic.AddInt32(&m.DetachCallCount, 1)
	if m.DetachError != nil {
		return m.DetachError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.attached, paymentMethodID)
	return nil
}

func (m *MockGateway) Charge(ctx context.Context, params payment.ChargeParams) (*payment.ChargeResult, error) {
	atomic.AddInt32(&m.ChargeCallCount, 1)
	m.mu.Lock()
	m.LastChargeParams = params
	m.mu.Unlock()
	if m.ChargeError != nil {
		return nil, m.ChargeError
	}
	if m.ChargeResult != nil {
		copy := *m.ChargeResult
		return &copy, nil
	}
	return &payment.ChargeResult{
		PaymentIntentID: "pi_mock_1",
		Status:          "succeeded",
		Succeeded:       true,
	}, nil
}

// ──────────────────────────────────────────────
// MOCK PLACES CLIENT
// ──────────────────────────────────────────────

// MockPlacesClient is a mock implementation of places.Client.
type MockPlacesClient struct {
	mu          sync.RWMutex
	predictions map[string][]places.Prediction // keyed by input
	details     map[string]*places.Place

	AutocompleteCallCount int32
	DetailsCallCount      int32

	AutocompleteError error
	DetailsError      error
}

// NewMockPlacesClient creates a new mock places client.
func NewMockPlacesClient() *MockPlacesClient {
	return &MockPlacesClient{
		predictions: make(map[string][]places.Prediction),
		details:     make(map[string]*places.Place),
	}
}

// SetPredictions configures the predictions returned for an input.
func (m *MockPlacesClient) SetPredictions(input string, predictions []places.Prediction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions[input] = predictions
}

// SetPlace configures the detail returned for a place id.
func (m *MockPlacesClient) SetPlace(place *places.Place) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.details[place.PlaceID] = place
}

func (m *MockPlacesClient) Autocomplete(ctx context.Context, input, country, language string) ([]places.Prediction, error) {
	atomic.AddInt32(&m.AutocompleteCallCount, 1)
	if m.AutocompleteError != nil {
		return nil, m.AutocompleteError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.predictions[input], nil
}

func (m *MockPlacesClient) Details(ctx context.Context, placeID string) (*places.Place, error) {
	atomic.AddInt32(&m.DetailsCallCount, 1)
	if m.DetailsError != nil {
		return nil, m.DetailsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	place, ok := m.details[placeID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *place
	return &copy, nil
}
