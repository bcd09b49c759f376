package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pcs/src/metrics"
	"pcs/src/models"
	"pcs/src/store"
	"pcs/src/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Notifier is the external notification collaborator. Sends happen strictly
// after the storage commit and are best-effort: a failed send is logged and
// counted, never returned to the caller.
type Notifier interface {
	Notify(ctx context.Context, kind types.NotificationKind, recipient string, data map[string]any) error
}

// BookingService is the sole authority for booking mutations: creation, the
// status state machine, and the cancellation workflow with its cascades.
type BookingService struct {
	Bookings      store.BookingStore
	Cancellations store.CancellationStore
	Notifier      Notifier
	OfficeEmail   string
	Log           zerolog.Logger

	// TechnicianStatuses is the status subset a technician may set on their
	// own bookings. The permitted set is policy, not a constant.
	TechnicianStatuses []types.BookingStatus

	// Now is swapped in tests; defaults to time.Now.
	Now func() time.Time
}

func DefaultTechnicianStatuses() []types.BookingStatus {
	return []types.BookingStatus{types.BOOKING_IN_PROGRESS, types.BOOKING_COMPLETED}
}

func (s *BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *BookingService) CreateBooking(ctx context.Context, in types.CreateBookingRequestBody, actor *types.Actor) (*models.Booking, error) {
	scheduledAt, verr := ValidateCreateBooking(in, s.now())
	if verr != nil {
		return nil, verr
	}

	booking := &models.Booking{
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		ServiceType:   types.ServiceType(in.ServiceType),
		PropertySize:  types.PropertySize(in.PropertySize),
		ScheduledAt:   &scheduledAt,
		Address:       in.Address,
		Postcode:      in.Postcode,
		Notes:         in.Notes,
		Status:        types.BOOKING_PENDING,
	}
	if actor != nil {
		id := actor.ID
		booking.CustomerID = &id
	}

	if err := s.Bookings.Create(ctx, booking); err != nil {
		return nil, NewStorageError(err)
	}

	data := map[string]any{
		"booking_id":   booking.ID,
		"service_type": booking.ServiceType,
		"scheduled_at": scheduledAt,
	}
	s.notify(ctx, types.NOTIFY_BOOKING_CREATED, booking.CustomerEmail, booking.ID, data)
	s.notify(ctx, types.NOTIFY_BOOKING_CREATED, s.OfficeEmail, booking.ID, data)

	return booking, nil
}

// SetStatus validates and applies a status transition. Setting confirmed
// auto-rejects any pending cancellation request; setting canceled
// auto-approves it. Both cascades commit with the status write.
func (s *BookingService) SetStatus(ctx context.Context, id uint, newStatus types.BookingStatus, actor types.Actor, note *string) (*models.Booking, error) {
	if !newStatus.Valid() {
		return nil, NewValidationError(FieldError{Field: "new_status", Message: "must be a valid booking status"})
	}

	switch actor.Role {
	case types.ROLE_ADMIN, types.ROLE_STAFF, types.ROLE_TECHNICIAN:
	default:
		return nil, NewAuthorizationError("role is not permitted to change booking status")
	}

	booking, err := s.Bookings.GetByID(ctx, id, store.Scope{All: true})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFoundError("booking")
		}
		return nil, NewStorageError(err)
	}

	if actor.Role == types.ROLE_TECHNICIAN {
		if booking.TechnicianID == nil || *booking.TechnicianID != actor.ID {
			return nil, NewAuthorizationError("booking is not assigned to this technician")
		}
		if !s.technicianMay(newStatus) {
			return nil, NewAuthorizationError(fmt.Sprintf("technicians may not set status %q", newStatus))
		}
	}

	if newStatus == booking.Status {
		return nil, NewInvalidTransitionError(fmt.Sprintf("booking is already %q", newStatus))
	}
	if newStatus == types.BOOKING_PENDING {
		return nil, NewInvalidTransitionError("bookings cannot return to pending")
	}
	if booking.Status.Terminal() {
		return nil, NewInvalidTransitionError(fmt.Sprintf("booking is %q and accepts no further transitions", booking.Status))
	}

	update := store.StatusUpdate{Status: newStatus}
	if newStatus == types.BOOKING_COMPLETED {
		update.CompletionNotes = note
	}
	switch newStatus {
	case types.BOOKING_CONFIRMED:
		update.Resolve = &store.Resolution{Status: types.CANCELLATION_REJECTED, ProcessedBy: actor.ID, Note: note}
	case types.BOOKING_CANCELED:
		update.Resolve = &store.Resolution{Status: types.CANCELLATION_APPROVED, ProcessedBy: actor.ID, Note: note}
	}

	from := booking.Status
	updated, err := s.Bookings.UpdateStatus(ctx, id, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFoundError("booking")
		}
		return nil, NewStorageError(err)
	}
	metrics.IncTransition(string(from), string(newStatus))

	s.notify(ctx, types.NOTIFY_STATUS_CHANGED, updated.CustomerEmail, updated.ID, map[string]any{
		"booking_id": updated.ID,
		"old_status": from,
		"new_status": newStatus,
	})

	return updated, nil
}

// RequestCancellation opens a cancellation request on behalf of the owning
// customer and parks the booking in cancellation_requested.
func (s *BookingService) RequestCancellation(ctx context.Context, bookingID uint, customer types.Actor, reason string) (*models.CancellationRequest, error) {
	if customer.Role != types.ROLE_CUSTOMER {
		return nil, NewAuthorizationError("only the booking's customer may request cancellation")
	}
	booking, err := s.Bookings.GetByID(ctx, bookingID, ScopeFor(customer))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFoundError("booking")
		}
		return nil, NewStorageError(err)
	}
	if booking.Status.Terminal() {
		return nil, NewInvalidStateError(fmt.Sprintf("a %q booking cannot be canceled", booking.Status))
	}

	cr := &models.CancellationRequest{
		BookingID:   booking.ID,
		RequestedBy: customer.ID,
		Reason:      reason,
	}
	if err := s.Cancellations.Create(ctx, cr); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicatePending):
			return nil, NewDuplicateRequestError()
		case errors.Is(err, store.ErrNotFound):
			return nil, NewNotFoundError("booking")
		default:
			return nil, NewStorageError(err)
		}
	}
	metrics.IncTransition(string(booking.Status), string(types.BOOKING_CANCELLATION_REQUESTED))

	data := map[string]any{
		"booking_id": booking.ID,
		"request_id": cr.ID,
		"reason":     reason,
	}
	s.notify(ctx, types.NOTIFY_CANCELLATION_REQUESTED, s.OfficeEmail, booking.ID, data)
	s.notify(ctx, types.NOTIFY_CANCELLATION_REQUESTED, booking.CustomerEmail, booking.ID, data)

	return cr, nil
}

// ProcessCancellation resolves a pending request. Approval cancels the
// booking in the same transaction; rejection leaves the booking parked in
// cancellation_requested for staff to move on.
func (s *BookingService) ProcessCancellation(ctx context.Context, requestID uuid.UUID, admin types.Actor, approve bool, note *string) (*models.CancellationRequest, error) {
	if admin.Role != types.ROLE_ADMIN {
		return nil, NewAuthorizationError("only admins may process cancellation requests")
	}

	cr, err := s.Cancellations.Process(ctx, requestID, approve, admin.ID, note)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, NewNotFoundError("cancellation request")
		case errors.Is(err, store.ErrAlreadyProcessed):
			return nil, NewAlreadyProcessedError()
		case errors.Is(err, store.ErrInvalidState):
			return nil, NewInvalidStateError("booking is already completed")
		default:
			return nil, NewStorageError(err)
		}
	}
	if approve {
		metrics.IncTransition(string(types.BOOKING_CANCELLATION_REQUESTED), string(types.BOOKING_CANCELED))
	}

	booking, err := s.Bookings.GetByID(ctx, cr.BookingID, store.Scope{All: true})
	if err == nil {
		s.notify(ctx, types.NOTIFY_CANCELLATION_DECIDED, booking.CustomerEmail, booking.ID, map[string]any{
			"booking_id": booking.ID,
			"request_id": cr.ID,
			"decision":   cr.Status,
			"admin_note": note,
		})
	}

	return cr, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id uint, actor types.Actor) (*models.Booking, error) {
	booking, err := s.Bookings.GetByID(ctx, id, ScopeFor(actor))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFoundError("booking")
		}
		return nil, NewStorageError(err)
	}
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, actor types.Actor, q types.ListBookingsQuery) ([]models.Booking, int64, error) {
	if q.Status != "" && !types.BookingStatus(q.Status).Valid() {
		return nil, 0, NewValidationError(FieldError{Field: "status", Message: "must be a valid booking status"})
	}
	bookings, total, err := s.Bookings.List(ctx, ScopeFor(actor), store.BookingFilters{
		Status:  types.BookingStatus(q.Status),
		Page:    q.Page,
		PerPage: q.PerPage,
	})
	if err != nil {
		return nil, 0, NewStorageError(err)
	}
	return bookings, total, nil
}

func (s *BookingService) ListCancellationRequests(ctx context.Context, actor types.Actor, status types.CancellationStatus) ([]models.CancellationRequest, error) {
	if actor.Role != types.ROLE_ADMIN && actor.Role != types.ROLE_STAFF {
		return nil, NewAuthorizationError("role may not list cancellation requests")
	}
	requests, err := s.Cancellations.List(ctx, store.CancellationFilters{Status: status})
	if err != nil {
		return nil, NewStorageError(err)
	}
	return requests, nil
}

// AssignTechnician sets the technician and optional price. A pending booking
// moves to assigned; other non-terminal statuses are left as they are.
func (s *BookingService) AssignTechnician(ctx context.Context, id uint, technicianID uint, price *float64, actor types.Actor) (*models.Booking, error) {
	if actor.Role != types.ROLE_ADMIN && actor.Role != types.ROLE_STAFF {
		return nil, NewAuthorizationError("role may not assign technicians")
	}
	booking, err := s.Bookings.GetByID(ctx, id, store.Scope{All: true})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFoundError("booking")
		}
		return nil, NewStorageError(err)
	}
	if booking.Status.Terminal() {
		return nil, NewInvalidStateError(fmt.Sprintf("a %q booking cannot be reassigned", booking.Status))
	}

	status := booking.Status
	if status == types.BOOKING_PENDING {
		status = types.BOOKING_ASSIGNED
	}
	updated, err := s.Bookings.Assign(ctx, id, technicianID, price, status)
	if err != nil {
		return nil, NewStorageError(err)
	}
	if status != booking.Status {
		metrics.IncTransition(string(booking.Status), string(status))
		s.notify(ctx, types.NOTIFY_STATUS_CHANGED, updated.CustomerEmail, updated.ID, map[string]any{
			"booking_id": updated.ID,
			"old_status": booking.Status,
			"new_status": status,
		})
	}
	return updated, nil
}

// RateBooking records the customer's 1-5 rating on a completed booking.
func (s *BookingService) RateBooking(ctx context.Context, id uint, rating int, customer types.Actor) (*models.Booking, error) {
	if rating < 1 || rating > 5 {
		return nil, NewValidationError(FieldError{Field: "rating", Message: "must be between 1 and 5"})
	}
	booking, err := s.Bookings.GetByID(ctx, id, ScopeFor(customer))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFoundError("booking")
		}
		return nil, NewStorageError(err)
	}
	if booking.Status != types.BOOKING_COMPLETED {
		return nil, NewInvalidStateError("only completed bookings can be rated")
	}
	updated, err := s.Bookings.Rate(ctx, id, rating)
	if err != nil {
		return nil, NewStorageError(err)
	}
	return updated, nil
}

func (s *BookingService) Stats(ctx context.Context, actor types.Actor) (map[types.BookingStatus]int64, error) {
	if actor.Role != types.ROLE_ADMIN && actor.Role != types.ROLE_STAFF {
		return nil, NewAuthorizationError("role may not view booking stats")
	}
	counts, err := s.Bookings.CountByStatus(ctx)
	if err != nil {
		return nil, NewStorageError(err)
	}
	return counts, nil
}

func (s *BookingService) technicianMay(status types.BookingStatus) bool {
	allowed := s.TechnicianStatuses
	if len(allowed) == 0 {
		allowed = DefaultTechnicianStatuses()
	}
	for _, v := range allowed {
		if v == status {
			return true
		}
	}
	return false
}

// notify delivers one notification and swallows any failure.
func (s *BookingService) notify(ctx context.Context, kind types.NotificationKind, recipient string, bookingID uint, data map[string]any) {
	if s.Notifier == nil || recipient == "" {
		return
	}
	if err := s.Notifier.Notify(ctx, kind, recipient, data); err != nil {
		metrics.IncNotificationFailure()
		s.Log.Warn().
			Err(err).
			Str("kind", string(kind)).
			Str("recipient", recipient).
			Uint("booking_id", bookingID).
			Msg("notification failed")
	}
}
