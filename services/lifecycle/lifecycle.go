package lifecycle

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"homely/database"
	bookingRepo "homely/database/repository/booking"
	catalogRepo "homely/database/repository/catalog"
	"homely/models"
	"homely/services/tasks"
	"homely/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Placeholder names used when an enrichment lookup cannot resolve an id.
const (
	unknownProviderName = "Unknown"
	unknownServiceName  = "Unknown Service"
)

// transitionSources lists the statuses a booking may move to the key status
// from. Completed and cancelled are terminal.
var transitionSources = map[string][]string{
	models.BookingStatusInProgress: {models.BookingStatusConfirmed},
	models.BookingStatusCompleted:  {models.BookingStatusInProgress},
	models.BookingStatusCancelled:  {models.BookingStatusConfirmed, models.BookingStatusInProgress},
}

// DefaultLifecycleService is the production LifecycleService.
type DefaultLifecycleService struct {
	Bookings  bookingRepo.BookingRepository
	Catalog   catalogRepo.CatalogRepository
	Directory DirectoryLookup
	Tasks     tasks.Enqueuer // optional
}

// ScheduleBooking creates a confirmed booking directly, without bidding.
func (s *DefaultLifecycleService) ScheduleBooking(input ScheduleInput) (*models.Booking, error) {
	if input.UserID == "" {
		return nil, &ValidationError{Field: "userId", Message: "is required"}
	}
	if input.ProviderID == "" {
		return nil, &ValidationError{Field: "providerId", Message: "is required"}
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, &ValidationError{Field: "address", Message: "is required"}
	}
	if math.IsNaN(input.TotalPrice) || math.IsInf(input.TotalPrice, 0) || input.TotalPrice < 0 {
		return nil, &ValidationError{Field: "totalPrice", Message: "must be a non-negative number"}
	}
	scheduleTime, err := time.Parse(time.RFC3339, input.ScheduleTime)
	if err != nil {
		return nil, &ValidationError{Field: "scheduleTime", Message: "must be RFC 3339"}
	}
	recurrence := input.RecurrenceType
	if recurrence == "" {
		recurrence = models.RecurrenceNone
	}
	switch recurrence {
	case models.RecurrenceNone, models.RecurrenceDaily, models.RecurrenceWeekly, models.RecurrenceMonthly:
	default:
		return nil, &ValidationError{Field: "recurrenceType", Message: "must be none, daily, weekly or monthly"}
	}

	booking := &models.Booking{
		ID:             uuid.New().String(),
		UserID:         input.UserID,
		ProviderID:     input.ProviderID,
		ServiceID:      input.ServiceID,
		ServiceName:    strings.TrimSpace(input.ServiceName),
		ScheduleTime:   scheduleTime,
		TotalPrice:     input.TotalPrice,
		Address:        strings.TrimSpace(input.Address),
		CustomNotes:    strings.TrimSpace(input.CustomNotes),
		RecurrenceType: recurrence,
		Status:         models.BookingStatusConfirmed,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Bookings.Create(booking); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}
	return booking, nil
}

// UpdateStatus applies a validated status transition. The write carries the
// expected source statuses, so a concurrent writer already past the same
// transition makes this a conflict rather than a silent double-apply.
func (s *DefaultLifecycleService) UpdateStatus(bookingID, newStatus string) (*models.Booking, error) {
	sources, ok := transitionSources[newStatus]
	if !ok {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("%q is not a reachable status", newStatus)}
	}

	if err := s.Bookings.UpdateStatus(bookingID, sources, newStatus); err != nil {
		return nil, err
	}
	booking, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	if newStatus == models.BookingStatusCompleted && booking.RecurrenceType != models.RecurrenceNone {
		if err := s.spawnSuccessor(booking); err != nil {
			s.enqueueRecurrenceRetry(booking.ID)
			return booking, &PartialFailure{Warning: "completed but recurrence failed", Cause: err}
		}
	}
	return booking, nil
}

// successorID derives a stable id for a booking's one successor, so retried
// recurrence creation can never materialize two of them: the unique index on
// booking ids turns the second insert into a conflict.
func successorID(parentID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("successor:"+parentID)).String()
}

// spawnSuccessor materializes the single follow-up booking for a completed
// recurring booking. Everything is copied verbatim except id, status,
// scheduleTime, rating flags and createdAt.
func (s *DefaultLifecycleService) spawnSuccessor(completed *models.Booking) error {
	next, ok := NextOccurrence(completed.ScheduleTime, completed.RecurrenceType)
	if !ok {
		return nil
	}

	successor := &models.Booking{
		ID:             successorID(completed.ID),
		UserID:         completed.UserID,
		ProviderID:     completed.ProviderID,
		ServiceID:      completed.ServiceID,
		ServiceName:    completed.ServiceName,
		ScheduleTime:   next,
		TotalPrice:     completed.TotalPrice,
		Address:        completed.Address,
		CustomNotes:    completed.CustomNotes,
		RecurrenceType: completed.RecurrenceType,
		Status:         models.BookingStatusConfirmed,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Bookings.Create(successor); err != nil {
		if errors.Is(err, database.ErrConflict) {
			// A previous attempt already created it.
			return nil
		}
		return fmt.Errorf("failed to create successor booking: %w", err)
	}
	return nil
}

func (s *DefaultLifecycleService) enqueueRecurrenceRetry(bookingID string) {
	if s.Tasks == nil {
		return
	}
	if err := s.Tasks.EnqueueRecurrenceRetry(models.RecurrencePayload{BookingID: bookingID}); err != nil {
		utils.GetLogger().Error("failed to enqueue recurrence retry",
			zap.String("bookingId", bookingID), zap.Error(err))
	}
}

// RetryRecurrence re-attempts successor creation for a completed recurring
// booking. The derived successor id keeps this idempotent.
func (s *DefaultLifecycleService) RetryRecurrence(bookingID string) error {
	booking, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return err
	}
	if booking.Status != models.BookingStatusCompleted || booking.RecurrenceType == models.RecurrenceNone {
		return nil
	}
	return s.spawnSuccessor(booking)
}

// ListForClient returns the client's bookings, enriched and triage-sorted.
func (s *DefaultLifecycleService) ListForClient(userID string) ([]models.Booking, error) {
	statuses := []string{
		models.BookingStatusConfirmed,
		models.BookingStatusInProgress,
		models.BookingStatusCompleted,
	}
	bookings, err := s.Bookings.ListByUser(userID, statuses)
	if err != nil {
		return nil, err
	}
	s.enrich(bookings)
	TriageSort(bookings)
	return bookings, nil
}

// ListForProvider returns the provider's active bookings, most recent first.
func (s *DefaultLifecycleService) ListForProvider(providerID string) ([]models.Booking, error) {
	statuses := []string{
		models.BookingStatusConfirmed,
		models.BookingStatusInProgress,
	}
	bookings, err := s.Bookings.ListByProvider(providerID, statuses)
	if err != nil {
		return nil, err
	}
	s.enrich(bookings)
	sortByScheduleDesc(bookings)
	return bookings, nil
}

// ListActiveForClient filters the triage-sorted client list down to what the
// active view shows: no cancelled rows and no completed rows already rated
// or skipped. Nothing is deleted; history queries still see every row.
func (s *DefaultLifecycleService) ListActiveForClient(userID string) ([]models.Booking, error) {
	bookings, err := s.ListForClient(userID)
	if err != nil {
		return nil, err
	}
	active := []models.Booking{}
	for _, b := range bookings {
		if b.Status == models.BookingStatusCancelled {
			continue
		}
		if b.Status == models.BookingStatusCompleted && (b.RatingSubmitted || b.RatingSkipped) {
			continue
		}
		active = append(active, b)
	}
	return active, nil
}

// SubmitRating stores a review for a completed booking and marks it rated.
func (s *DefaultLifecycleService) SubmitRating(bookingID, userID string, input RatingInput) error {
	if input.Rating < 1 || input.Rating > 5 {
		return &ValidationError{Field: "rating", Message: "must be between 1 and 5"}
	}
	booking, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != userID {
		return &ValidationError{Field: "userId", Message: "booking belongs to another client"}
	}
	// Checked up front so a rejected rating cannot leave a review behind.
	if booking.Status != models.BookingStatusCompleted {
		return fmt.Errorf("booking %s has status %q: %w", bookingID, booking.Status, database.ErrConflict)
	}

	review := &models.Review{
		ID:         uuid.New().String(),
		BookingID:  booking.ID,
		UserID:     userID,
		ProviderID: booking.ProviderID,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Catalog.CreateReview(review); err != nil {
		return fmt.Errorf("failed to store review: %w", err)
	}
	return s.Bookings.MarkRated(bookingID)
}

// SkipRating marks a completed booking as skipped for rating.
func (s *DefaultLifecycleService) SkipRating(bookingID, userID string) error {
	booking, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != userID {
		return &ValidationError{Field: "userId", Message: "booking belongs to another client"}
	}
	return s.Bookings.MarkRatingSkipped(bookingID)
}

// enrich resolves provider, client and service display names in one batch
// per directory, filling placeholders where a name cannot be resolved.
// Enrichment never fails the parent listing.
func (s *DefaultLifecycleService) enrich(bookings []models.Booking) {
	if s.Directory == nil || len(bookings) == 0 {
		return
	}

	profileIDs := distinct(bookings, func(b models.Booking) []string {
		return []string{b.ProviderID, b.UserID}
	})
	serviceIDs := distinct(bookings, func(b models.Booking) []string {
		return []string{b.ServiceID}
	})

	profiles := s.Directory.ProfileNames(profileIDs)
	services := s.Directory.ServiceNames(serviceIDs)

	for i := range bookings {
		b := &bookings[i]
		b.ProviderName = nameOr(profiles, b.ProviderID, unknownProviderName)
		b.ClientName = nameOr(profiles, b.UserID, unknownProviderName)
		if name := nameOr(services, b.ServiceID, unknownServiceName); b.ServiceName == "" {
			b.ServiceName = name
		}
	}
}

func nameOr(names map[string]string, id, fallback string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return fallback
}

func distinct(bookings []models.Booking, pick func(models.Booking) []string) []string {
	seen := map[string]struct{}{}
	ids := []string{}
	for _, b := range bookings {
		for _, id := range pick(b) {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

func sortByScheduleDesc(bookings []models.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].ScheduleTime.After(bookings[j].ScheduleTime)
	})
}
