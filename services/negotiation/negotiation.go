package negotiation

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"homely/database"
	bookingRepo "homely/database/repository/booking"
	requestRepo "homely/database/repository/request"
	"homely/models"
	"homely/services/notify"
	"homely/services/tasks"
	"homely/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Bounded retry for the bid write: transient store failures are retried,
// conditional misses are not.
const (
	bidWriteAttempts = 3
	bidRetryBackoff  = 50 * time.Millisecond
)

// DefaultNegotiationService is the production NegotiationService.
type DefaultNegotiationService struct {
	Requests requestRepo.RequestRepository
	Bookings bookingRepo.BookingRepository
	Notifier notify.NotificationService // optional
	Tasks    tasks.Enqueuer             // optional
}

// CreateRequest validates and persists a new open request, returning it with
// its assigned id.
func (s *DefaultNegotiationService) CreateRequest(input CreateRequestInput) (*models.ServiceRequest, error) {
	input.Address = strings.TrimSpace(input.Address)
	if input.Address == "" {
		return nil, &ValidationError{Field: "address", Message: "is required"}
	}
	if input.ClientID == "" {
		return nil, &ValidationError{Field: "clientId", Message: "is required"}
	}
	start, err := parseRequestTime("startTime", input.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseRequestTime("endTime", input.EndTime)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, &ValidationError{Field: "endTime", Message: "must be after startTime"}
	}
	if math.IsNaN(input.OfferedPrice) || math.IsInf(input.OfferedPrice, 0) || input.OfferedPrice < 0 {
		return nil, &ValidationError{Field: "offeredPrice", Message: "must be a non-negative number"}
	}

	req := &models.ServiceRequest{
		ID:           uuid.New().String(),
		ClientID:     input.ClientID,
		ServiceID:    input.ServiceID,
		ServiceName:  strings.TrimSpace(input.ServiceName),
		Address:      input.Address,
		StartTime:    start,
		EndTime:      end,
		OfferedPrice: input.OfferedPrice,
		Comments:     strings.TrimSpace(input.Comments),
		Status:       models.RequestStatusOpen,
		Bids:         []models.Bid{},
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Requests.Create(req); err != nil {
		return nil, fmt.Errorf("failed to persist service request: %w", err)
	}
	return req, nil
}

func parseRequestTime(field, value string) (time.Time, *ValidationError) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, &ValidationError{Field: field, Message: "is required"}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Message: "must be RFC 3339"}
	}
	return t, nil
}

// PlaceBid records the provider's current offer on an open request. The
// repository performs the replace-and-append atomically; this layer adds
// input validation and a bounded retry for transient store failures.
func (s *DefaultNegotiationService) PlaceBid(requestID string, bidder Bidder, amount float64, comment string) error {
	if bidder.ProviderID == "" {
		return &ValidationError{Field: "providerId", Message: "is required"}
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return &ValidationError{Field: "offerAmount", Message: "must be greater than zero"}
	}

	bid := models.Bid{
		ProviderID:     bidder.ProviderID,
		ProviderName:   strings.TrimSpace(bidder.Name),
		ProviderAvatar: bidder.AvatarURL,
		OfferAmount:    amount,
		Comment:        strings.TrimSpace(comment),
		CreatedAt:      time.Now().UTC(),
	}

	var lastErr error
	for attempt := 1; attempt <= bidWriteAttempts; attempt++ {
		lastErr = s.Requests.UpsertBid(requestID, bid)
		if lastErr == nil {
			s.notifyBidPlaced(requestID, bid)
			return nil
		}
		if errors.Is(lastErr, database.ErrNotFound) || errors.Is(lastErr, database.ErrConflict) {
			return lastErr
		}
		time.Sleep(time.Duration(attempt) * bidRetryBackoff)
	}
	return fmt.Errorf("failed to place bid after %d attempts: %w", bidWriteAttempts, lastErr)
}

func (s *DefaultNegotiationService) notifyBidPlaced(requestID string, bid models.Bid) {
	if s.Notifier == nil {
		return
	}
	req, err := s.Requests.GetByID(requestID)
	if err != nil {
		utils.GetLogger().Warn("skipping bid notification", zap.String("requestId", requestID), zap.Error(err))
		return
	}
	s.Notifier.NotifyBidPlaced(req, bid)
}

// AcceptBid converts the given provider's bid into a confirmed booking and
// closes the request. The booking is written first so a reader can never
// observe a booked request without its booking; the inverse transient is
// recognized and reconciled in the background.
func (s *DefaultNegotiationService) AcceptBid(requestID, providerID string) (*models.Booking, error) {
	req, err := s.Requests.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.RequestStatusOpen {
		return nil, fmt.Errorf("request %s has status %q: %w", requestID, req.Status, database.ErrConflict)
	}

	var accepted *models.Bid
	for i := range req.Bids {
		if req.Bids[i].ProviderID == providerID {
			accepted = &req.Bids[i]
			break
		}
	}
	if accepted == nil {
		return nil, fmt.Errorf("no bid from provider %s on request %s: %w", providerID, requestID, database.ErrNotFound)
	}

	booking := &models.Booking{
		ID:             uuid.New().String(),
		UserID:         req.ClientID,
		ProviderID:     accepted.ProviderID,
		ServiceID:      req.ServiceID,
		ServiceName:    req.ServiceName,
		ScheduleTime:   req.StartTime,
		TotalPrice:     accepted.OfferAmount,
		Address:        req.Address,
		RecurrenceType: models.RecurrenceNone,
		Status:         models.BookingStatusConfirmed,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Bookings.Create(booking); err != nil {
		return nil, fmt.Errorf("failed to create booking for accepted bid: %w", err)
	}

	if err := s.Requests.MarkBooked(requestID, providerID); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, s.resolveAcceptConflict(requestID, providerID, booking, err)
		}
		// Transient store failure: the booking exists, the flip is deferred.
		s.enqueueReconcile(requestID, providerID, booking.ID)
		return booking, &PartialFailure{Warning: "booking confirmed but request flip deferred", Cause: err}
	}

	if s.Notifier != nil {
		s.Notifier.NotifyBidAccepted(req, *accepted)
	}
	return booking, nil
}

// resolveAcceptConflict handles a MarkBooked miss: a concurrent accept or
// cancellation won the flip. The just-created booking is withdrawn so no
// orphaned confirmed booking survives.
func (s *DefaultNegotiationService) resolveAcceptConflict(requestID, providerID string, booking *models.Booking, cause error) error {
	req, err := s.Requests.GetByID(requestID)
	if err == nil && req.Status == models.RequestStatusBooked && req.BookedBy == providerID {
		// Another caller already accepted this same bid; our extra booking
		// is redundant and gets withdrawn.
		_ = s.Bookings.UpdateStatus(booking.ID, []string{models.BookingStatusConfirmed}, models.BookingStatusCancelled)
		return fmt.Errorf("bid from provider %s already accepted on request %s: %w", providerID, requestID, database.ErrConflict)
	}
	if cancelErr := s.Bookings.UpdateStatus(booking.ID, []string{models.BookingStatusConfirmed}, models.BookingStatusCancelled); cancelErr != nil {
		utils.GetLogger().Error("failed to withdraw booking after accept conflict",
			zap.String("bookingId", booking.ID), zap.Error(cancelErr))
	}
	return cause
}

func (s *DefaultNegotiationService) enqueueReconcile(requestID, providerID, bookingID string) {
	if s.Tasks == nil {
		return
	}
	payload := models.ReconcileAcceptPayload{
		RequestID:  requestID,
		BookingID:  bookingID,
		ProviderID: providerID,
	}
	if err := s.Tasks.EnqueueReconcileAccept(payload); err != nil {
		utils.GetLogger().Error("failed to enqueue accept reconciliation",
			zap.String("requestId", requestID), zap.Error(err))
	}
}

// ReconcileAccept re-runs the request status flip for an accepted bid whose
// second write failed. Safe to call any number of times; it never creates a
// booking.
func (s *DefaultNegotiationService) ReconcileAccept(requestID, providerID string) error {
	req, err := s.Requests.GetByID(requestID)
	if err != nil {
		return err
	}
	switch req.Status {
	case models.RequestStatusBooked:
		return nil
	case models.RequestStatusOpen:
		if err := s.Requests.MarkBooked(requestID, providerID); err != nil && !errors.Is(err, database.ErrConflict) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("request %s was cancelled after bid acceptance: %w", requestID, database.ErrConflict)
	}
}

// CancelRequest withdraws an open request from bidding.
func (s *DefaultNegotiationService) CancelRequest(requestID, clientID string) error {
	req, err := s.Requests.GetByID(requestID)
	if err != nil {
		return err
	}
	if req.ClientID != clientID {
		return &ValidationError{Field: "clientId", Message: "request belongs to another client"}
	}
	return s.Requests.MarkCancelled(requestID)
}

// ListOpenRequests returns every request currently accepting bids.
func (s *DefaultNegotiationService) ListOpenRequests() ([]models.ServiceRequest, error) {
	return s.Requests.ListOpen()
}

// ListClientRequests returns the client's still-open requests. The status is
// re-checked here on top of the store query to guard against stale index
// reads.
func (s *DefaultNegotiationService) ListClientRequests(clientID string) ([]models.ServiceRequest, error) {
	all, err := s.Requests.ListByClient(clientID)
	if err != nil {
		return nil, err
	}
	open := []models.ServiceRequest{}
	for _, req := range all {
		if req.Status == models.RequestStatusOpen {
			open = append(open, req)
		}
	}
	return open, nil
}
