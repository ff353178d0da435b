package negotiation

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"homely/database"
	"homely/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRequestRepo reproduces the store's guarantees in memory: UpsertBid is
// atomic under the lock, and the status flips are conditional writes.
type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[string]models.ServiceRequest
	// failUpsert makes the next N UpsertBid calls fail with a transient error.
	failUpsert int
	// failMarkBooked makes the next MarkBooked call fail with a transient error.
	failMarkBooked error
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]models.ServiceRequest)}
}

func (r *fakeRequestRepo) Create(req *models.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[req.ID] = *req
	return nil
}

func (r *fakeRequestRepo) GetByID(id string) (*models.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := req
	copied.Bids = append([]models.Bid{}, req.Bids...)
	return &copied, nil
}

func (r *fakeRequestRepo) ListOpen() ([]models.ServiceRequest, error) {
	return r.list(func(req models.ServiceRequest) bool {
		return req.Status == models.RequestStatusOpen
	})
}

func (r *fakeRequestRepo) ListByClient(clientID string) ([]models.ServiceRequest, error) {
	return r.list(func(req models.ServiceRequest) bool {
		return req.ClientID == clientID
	})
}

func (r *fakeRequestRepo) list(match func(models.ServiceRequest) bool) ([]models.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.ServiceRequest{}
	for _, req := range r.requests {
		if match(req) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) UpsertBid(requestID string, bid models.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpsert > 0 {
		r.failUpsert--
		return errors.New("store unavailable")
	}
	req, ok := r.requests[requestID]
	if !ok {
		return database.ErrNotFound
	}
	if req.Status != models.RequestStatusOpen {
		return fmt.Errorf("request %s has status %q: %w", requestID, req.Status, database.ErrConflict)
	}
	kept := []models.Bid{}
	for _, b := range req.Bids {
		if b.ProviderID != bid.ProviderID {
			kept = append(kept, b)
		}
	}
	req.Bids = append(kept, bid)
	req.Version++
	r.requests[requestID] = req
	return nil
}

func (r *fakeRequestRepo) MarkBooked(requestID, providerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failMarkBooked != nil {
		err := r.failMarkBooked
		r.failMarkBooked = nil
		return err
	}
	req, ok := r.requests[requestID]
	if !ok {
		return database.ErrNotFound
	}
	if req.Status != models.RequestStatusOpen {
		return fmt.Errorf("request %s has status %q: %w", requestID, req.Status, database.ErrConflict)
	}
	req.Status = models.RequestStatusBooked
	req.BookedBy = providerID
	req.Version++
	r.requests[requestID] = req
	return nil
}

func (r *fakeRequestRepo) MarkCancelled(requestID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[requestID]
	if !ok {
		return database.ErrNotFound
	}
	if req.Status != models.RequestStatusOpen {
		return fmt.Errorf("request %s has status %q: %w", requestID, req.Status, database.ErrConflict)
	}
	req.Status = models.RequestStatusCancelled
	req.Version++
	r.requests[requestID] = req
	return nil
}

// fakeBookingStore is the minimal booking side for accept-bid tests.
type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[string]models.Booking)}
}

func (r *fakeBookingStore) Create(booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bookings[booking.ID]; exists {
		return fmt.Errorf("duplicate booking id: %w", database.ErrConflict)
	}
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *fakeBookingStore) GetByID(id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &b, nil
}

func (r *fakeBookingStore) ListByUser(userID string, statuses []string) ([]models.Booking, error) {
	return nil, nil
}

func (r *fakeBookingStore) ListByProvider(providerID string, statuses []string) ([]models.Booking, error) {
	return nil, nil
}

func (r *fakeBookingStore) UpdateStatus(id string, from []string, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return database.ErrNotFound
	}
	for _, f := range from {
		if b.Status == f {
			b.Status = to
			r.bookings[id] = b
			return nil
		}
	}
	return database.ErrConflict
}

func (r *fakeBookingStore) MarkRated(id string) error        { return nil }
func (r *fakeBookingStore) MarkRatingSkipped(id string) error { return nil }

type recordingEnqueuer struct {
	mu         sync.Mutex
	reconciles []models.ReconcileAcceptPayload
}

func (e *recordingEnqueuer) EnqueueReconcileAccept(payload models.ReconcileAcceptPayload) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reconciles = append(e.reconciles, payload)
	return nil
}

func (e *recordingEnqueuer) EnqueueRecurrenceRetry(payload models.RecurrencePayload) error {
	return nil
}

func newNegotiationService() (*DefaultNegotiationService, *fakeRequestRepo, *fakeBookingStore, *recordingEnqueuer) {
	requests := newFakeRequestRepo()
	bookings := newFakeBookingStore()
	queue := &recordingEnqueuer{}
	svc := &DefaultNegotiationService{
		Requests: requests,
		Bookings: bookings,
		Tasks:    queue,
	}
	return svc, requests, bookings, queue
}

func validCreateInput() CreateRequestInput {
	return CreateRequestInput{
		ClientID:     "client-1",
		ServiceID:    "svc-clean",
		ServiceName:  "Deep Cleaning",
		Address:      "12 Elm Street",
		StartTime:    "2025-06-10T09:00:00Z",
		EndTime:      "2025-06-10T12:00:00Z",
		OfferedPrice: 80,
	}
}

func TestCreateRequestStampsDefaults(t *testing.T) {
	svc, _, _, _ := newNegotiationService()

	req, err := svc.CreateRequest(validCreateInput())
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, models.RequestStatusOpen, req.Status)
	assert.NotNil(t, req.Bids)
	assert.Empty(t, req.Bids)
	assert.False(t, req.CreatedAt.IsZero())
}

func TestCreateRequestValidation(t *testing.T) {
	svc, _, _, _ := newNegotiationService()

	tests := []struct {
		name   string
		mutate func(*CreateRequestInput)
	}{
		{"blank address", func(in *CreateRequestInput) { in.Address = "  " }},
		{"missing client", func(in *CreateRequestInput) { in.ClientID = "" }},
		{"bad start time", func(in *CreateRequestInput) { in.StartTime = "next tuesday" }},
		{"end before start", func(in *CreateRequestInput) { in.EndTime = "2025-06-10T08:00:00Z" }},
		{"negative price", func(in *CreateRequestInput) { in.OfferedPrice = -5 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(&input)
			_, err := svc.CreateRequest(input)
			var invalid *ValidationError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestPlaceBidReplacesEarlierOffer(t *testing.T) {
	svc, requests, _, _ := newNegotiationService()
	req, err := svc.CreateRequest(validCreateInput())
	require.NoError(t, err)

	bidder := Bidder{ProviderID: "provider-1", Name: "Alice"}
	require.NoError(t, svc.PlaceBid(req.ID, bidder, 70, "can start early"))
	require.NoError(t, svc.PlaceBid(req.ID, bidder, 65, "revised"))

	stored, err := requests.GetByID(req.ID)
	require.NoError(t, err)
	require.Len(t, stored.Bids, 1)
	assert.Equal(t, 65.0, stored.Bids[0].OfferAmount)
	assert.Equal(t, "revised", stored.Bids[0].Comment)
}

func TestConcurrentBidsFromDistinctProvidersBothSurvive(t *testing.T) {
	svc, requests, _, _ := newNegotiationService()
	req, err := svc.CreateRequest(validCreateInput())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			bidder := Bidder{ProviderID: fmt.Sprintf("provider-%d", n)}
			_ = svc.PlaceBid(req.ID, bidder, float64(50+n), "")
		}(i)
	}
	wg.Wait()

	stored, err := requests.GetByID(req.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Bids, 8)
}

func TestPlaceBidValidation(t *testing.T) {
	svc, _, _, _ := newNegotiationService()
	req, err := svc.CreateRequest(validCreateInput())
	require.NoError(t, err)

	var invalid *ValidationError
	err = svc.PlaceBid(req.ID, Bidder{}, 50, "")
	assert.ErrorAs(t, err, &invalid)
	err = svc.PlaceBid(req.ID, Bidder{ProviderID: "p"}, 0, "")
	assert.ErrorAs(t, err, &invalid)
	err = svc.PlaceBid("no-such-request", Bidder{ProviderID: "p"}, 50, "")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestPlaceBidRetriesTransientFailures(t *testing.T) {
	svc, requests, _, _ := newNegotiationService()
	req, err := svc.CreateRequest(validCreateInput())
	require.NoError(t, err)

	requests.failUpsert = 2
	require.NoError(t, svc.PlaceBid(req.ID, Bidder{ProviderID: "provider-1"}, 60, ""))

	stored, err := requests.GetByID(req.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Bids, 1)
}

func TestPlaceBidOnClosedRequestConflicts(t *testing.T) {
	svc, _, _, _ := newNegotiationService()
	req, err := svc.CreateRequest(validCreateInput())
	require.NoError(t, err)
	require.NoError(t, svc.CancelRequest(req.ID, req.ClientID))

	err = svc.PlaceBid(req.ID, Bidder{ProviderID: "provider-1"}, 60, "")
	assert.ErrorIs(t, err, database.ErrConflict)
}

func TestAcceptBidCreatesBookingAndClosesRequest(t *testing.T) {
	svc, requests, bookings, _ := newNegotiationService()
	req, err := svc.CreateRequest(validCreateInput())
	require.NoError(t, err)
	require.NoError(t, svc.PlaceBid(req.ID, Bidder{ProviderID: "provider-1", Name: "Alice"}, 65, ""))
	require.NoError(t, svc.PlaceBid(req.ID, Bidder{ProviderID: "provider-2", Name: "Bob"}, 70, ""))

	booking, err := svc.AcceptBid(req.ID, "provider-2")
	require.NoError(t, err)
	assert.Equal(t, "provider-2", booking.ProviderID)
	assert.Equal(t, req.ClientID, booking.UserID)
	assert.Equal(t, 70.0, booking.TotalPrice)
	assert.Equal(t, req.StartTime, booking.ScheduleTime)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, models.RecurrenceNone, booking.RecurrenceType)

	stored, err := requests.GetByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusBooked, stored.Status)
	assert.Equal(t, "provider-2", stored.BookedBy)
	// Losing bids stay on the record for history.
	assert.Len(t, stored.Bids, 2)

	persisted, err := bookings.GetByID(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, persisted.Status)
}

func TestAcceptBidErrors(t *testing.T) {
	svc, _, _, _ := newNegotiationService()
	req, err := svc.CreateRequest(validCreateInput())
	require.NoError(t, err)
	require.NoError(t, svc.PlaceBid(req.ID, Bidder{ProviderID: "provider-1"}, 65, ""))

	_, err = svc.AcceptBid(req.ID, "provider-9")
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = svc.AcceptBid("no-such-request", "provider-1")
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = svc.AcceptBid(req.ID, "provider-1")
	require.NoError(t, err)
	_, err = svc.AcceptBid(req.ID, "provider-1")
	assert.ErrorIs(t, err, database.ErrConflict)
}

func TestAcceptBidDefersFlipOnTransientFailure(t *testing.T) {
	svc, requests, bookings, queue := newNegotiationService()
	req, err := svc.CreateRequest(validCreateInput())
	require.NoError(t, err)
	require.NoError(t, svc.PlaceBid(req.ID, Bidder{ProviderID: "provider-1"}, 65, ""))

	requests.failMarkBooked = errors.New("store unavailable")
	booking, err := svc.AcceptBid(req.ID, "provider-1")

	var partial *PartialFailure
	require.ErrorAs(t, err, &partial)
	require.NotNil(t, booking)

	// The booking exists, the flip was handed off.
	_, err = bookings.GetByID(booking.ID)
	require.NoError(t, err)
	require.Len(t, queue.reconciles, 1)
	assert.Equal(t, req.ID, queue.reconciles[0].RequestID)
	assert.Equal(t, booking.ID, queue.reconciles[0].BookingID)

	// Reconciliation completes the flip and is idempotent.
	require.NoError(t, svc.ReconcileAccept(req.ID, "provider-1"))
	require.NoError(t, svc.ReconcileAccept(req.ID, "provider-1"))
	stored, err := requests.GetByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusBooked, stored.Status)
	assert.Equal(t, "provider-1", stored.BookedBy)
}

func TestCancelRequest(t *testing.T) {
	svc, requests, _, _ := newNegotiationService()
	req, err := svc.CreateRequest(validCreateInput())
	require.NoError(t, err)

	var invalid *ValidationError
	err = svc.CancelRequest(req.ID, "client-2")
	assert.ErrorAs(t, err, &invalid)

	require.NoError(t, svc.CancelRequest(req.ID, req.ClientID))
	stored, err := requests.GetByID(req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCancelled, stored.Status)

	err = svc.CancelRequest(req.ID, req.ClientID)
	assert.ErrorIs(t, err, database.ErrConflict)
}

func TestListClientRequestsFiltersToOpen(t *testing.T) {
	svc, _, _, _ := newNegotiationService()
	first, err := svc.CreateRequest(validCreateInput())
	require.NoError(t, err)
	second, err := svc.CreateRequest(validCreateInput())
	require.NoError(t, err)
	require.NoError(t, svc.CancelRequest(second.ID, second.ClientID))

	open, err := svc.ListClientRequests("client-1")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, first.ID, open[0].ID)
}
