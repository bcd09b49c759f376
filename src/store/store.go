// Package store defines the persistence contracts for bookings and
// cancellation requests. The transition engine is storage-agnostic; backends
// live in gormstore (relational) and memstore (in-memory).
package store

import (
	"context"
	"errors"

	"pcs/src/models"
	"pcs/src/types"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicatePending = errors.New("booking already has a pending cancellation request")
	ErrAlreadyProcessed = errors.New("cancellation request already processed")
	ErrInvalidState     = errors.New("booking state does not allow this operation")
)

// Scope is the visibility predicate derived from the caller's role. Backends
// must AND it onto every query, direct-by-id lookups included: a booking
// outside the scope reads as ErrNotFound.
type Scope struct {
	All           bool
	TechnicianID  uint
	CustomerID    uint
	CustomerEmail string
}

// Resolution is the cascade applied to any pending cancellation request when
// a booking status is written. It commits in the same transaction as the
// status change.
type Resolution struct {
	Status      types.CancellationStatus
	ProcessedBy uint
	Note        *string
}

type BookingFilters struct {
	Status  types.BookingStatus
	Page    int
	PerPage int
}

type CancellationFilters struct {
	Status    types.CancellationStatus
	BookingID uint
}

type StatusUpdate struct {
	Status          types.BookingStatus
	CompletionNotes *string
	Resolve         *Resolution
}

type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id uint, scope Scope) (*models.Booking, error)
	List(ctx context.Context, scope Scope, f BookingFilters) ([]models.Booking, int64, error)
	// UpdateStatus writes the new status and executes any cascade atomically.
	UpdateStatus(ctx context.Context, id uint, u StatusUpdate) (*models.Booking, error)
	// Assign sets the technician, optional price, and the given status.
	Assign(ctx context.Context, id uint, technicianID uint, price *float64, status types.BookingStatus) (*models.Booking, error)
	Rate(ctx context.Context, id uint, rating int) (*models.Booking, error)
	CountByStatus(ctx context.Context) (map[types.BookingStatus]int64, error)
}

type CancellationStore interface {
	// Create inserts a pending request and flips the booking to
	// cancellation_requested in one transaction. Returns ErrDuplicatePending
	// if a pending request already exists for the booking.
	Create(ctx context.Context, cr *models.CancellationRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CancellationRequest, error)
	List(ctx context.Context, f CancellationFilters) ([]models.CancellationRequest, error)
	// Process resolves a pending request; approval cancels the booking in the
	// same transaction. ErrAlreadyProcessed when the request is not pending,
	// ErrInvalidState when the booking is already completed.
	Process(ctx context.Context, id uuid.UUID, approve bool, adminID uint, note *string) (*models.CancellationRequest, error)
}

type ContactStore interface {
	Create(ctx context.Context, m *models.ContactMessage) error
	List(ctx context.Context, unreadOnly bool) ([]models.ContactMessage, error)
	MarkRead(ctx context.Context, id uint) error
}

type NotificationStore interface {
	Record(ctx context.Context, n *models.Notification) error
	ListRecent(ctx context.Context, limit int) ([]models.Notification, error)
}
