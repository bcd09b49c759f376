// Package memstore is an in-process backend for the store interfaces. It
// backs the test suites and doubles as the swappable non-relational backend.
// Bookings and cancellation requests share one mutex, which stands in for the
// database transaction around the cancellation cascade.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"pcs/src/models"
	"pcs/src/store"
	"pcs/src/types"

	"github.com/google/uuid"
)

type Bookings struct {
	mu     *sync.RWMutex
	nextID uint
	rows   map[uint]*models.Booking

	cancels *Cancellations
}

type Cancellations struct {
	mu   *sync.RWMutex
	rows map[uuid.UUID]*models.CancellationRequest

	bookings *Bookings
}

// New wires the two stores over a shared lock; the cancellation workflow
// touches both record sets atomically.
func New() (*Bookings, *Cancellations) {
	mu := &sync.RWMutex{}
	b := &Bookings{mu: mu, rows: make(map[uint]*models.Booking)}
	c := &Cancellations{mu: mu, rows: make(map[uuid.UUID]*models.CancellationRequest)}
	b.cancels = c
	c.bookings = b
	return b, c
}

func inScope(b *models.Booking, s store.Scope) bool {
	if s.All {
		return true
	}
	if s.TechnicianID > 0 {
		return b.TechnicianID != nil && *b.TechnicianID == s.TechnicianID
	}
	if s.CustomerID > 0 && b.CustomerID != nil && *b.CustomerID == s.CustomerID {
		return true
	}
	return s.CustomerEmail != "" && b.CustomerEmail == s.CustomerEmail
}

func cloneBooking(b *models.Booking) *models.Booking {
	cp := *b
	return &cp
}

func (r *Bookings) Create(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	r.rows[b.ID] = cloneBooking(b)
	return nil
}

func (r *Bookings) GetByID(ctx context.Context, id uint, scope store.Scope) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.rows[id]
	if !ok || !inScope(b, scope) {
		return nil, store.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *Bookings) List(ctx context.Context, scope store.Scope, f store.BookingFilters) ([]models.Booking, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []models.Booking
	for _, b := range r.rows {
		if !inScope(b, scope) {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		matched = append(matched, *cloneBooking(b))
	}
	sort.Slice(matched, func(i, j int) bool {
		si, sj := matched[i].ScheduledAt, matched[j].ScheduledAt
		if si == nil || sj == nil {
			return matched[i].ID < matched[j].ID
		}
		return si.Before(*sj)
	})
	total := int64(len(matched))

	page := f.Page
	if page < 1 {
		page = 1
	}
	perPage := f.PerPage
	if perPage < 1 {
		perPage = 20
	}
	start := (page - 1) * perPage
	if start >= len(matched) {
		return []models.Booking{}, total, nil
	}
	end := start + perPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *Bookings) UpdateStatus(ctx context.Context, id uint, u store.StatusUpdate) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	b.Status = u.Status
	if u.CompletionNotes != nil {
		b.CompletionNotes = u.CompletionNotes
	}
	b.UpdatedAt = time.Now()
	if u.Resolve != nil {
		r.cancels.resolvePendingLocked(id, *u.Resolve)
	}
	return cloneBooking(b), nil
}

func (r *Bookings) Assign(ctx context.Context, id uint, technicianID uint, price *float64, status types.BookingStatus) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	tid := technicianID
	b.TechnicianID = &tid
	if price != nil {
		p := *price
		b.Price = &p
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	return cloneBooking(b), nil
}

func (r *Bookings) Rate(ctx context.Context, id uint, rating int) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	v := rating
	b.Rating = &v
	b.UpdatedAt = time.Now()
	return cloneBooking(b), nil
}

func (r *Bookings) CountByStatus(ctx context.Context) (map[types.BookingStatus]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[types.BookingStatus]int64)
	for _, b := range r.rows {
		counts[b.Status]++
	}
	return counts, nil
}

func cloneRequest(cr *models.CancellationRequest) *models.CancellationRequest {
	cp := *cr
	return &cp
}

func (r *Cancellations) Create(ctx context.Context, cr *models.CancellationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings.rows[cr.BookingID]
	if !ok {
		return store.ErrNotFound
	}
	// Uniqueness of the pending request is checked under the shared lock,
	// this backend's equivalent of the partial unique index.
	for _, existing := range r.rows {
		if existing.BookingID == cr.BookingID && existing.Status == types.CANCELLATION_PENDING {
			return store.ErrDuplicatePending
		}
	}
	cr.ID = uuid.New()
	cr.Status = types.CANCELLATION_PENDING
	now := time.Now()
	cr.CreatedAt = now
	cr.UpdatedAt = now
	r.rows[cr.ID] = cloneRequest(cr)
	b.Status = types.BOOKING_CANCELLATION_REQUESTED
	b.UpdatedAt = now
	return nil
}

func (r *Cancellations) GetByID(ctx context.Context, id uuid.UUID) (*models.CancellationRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cr, ok := r.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneRequest(cr), nil
}

func (r *Cancellations) List(ctx context.Context, f store.CancellationFilters) ([]models.CancellationRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []models.CancellationRequest
	for _, cr := range r.rows {
		if f.Status != "" && cr.Status != f.Status {
			continue
		}
		if f.BookingID > 0 && cr.BookingID != f.BookingID {
			continue
		}
		matched = append(matched, *cloneRequest(cr))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func (r *Cancellations) Process(ctx context.Context, id uuid.UUID, approve bool, adminID uint, note *string) (*models.CancellationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cr, ok := r.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if cr.Status != types.CANCELLATION_PENDING {
		return nil, store.ErrAlreadyProcessed
	}
	b, ok := r.bookings.rows[cr.BookingID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if b.Status == types.BOOKING_COMPLETED {
		return nil, store.ErrInvalidState
	}
	now := time.Now()
	if approve {
		cr.Status = types.CANCELLATION_APPROVED
		b.Status = types.BOOKING_CANCELED
		b.UpdatedAt = now
	} else {
		cr.Status = types.CANCELLATION_REJECTED
	}
	admin := adminID
	cr.ProcessedBy = &admin
	cr.ProcessedAt = &now
	cr.AdminNote = note
	cr.UpdatedAt = now
	return cloneRequest(cr), nil
}

// resolvePendingLocked applies a status-cascade resolution to any pending
// request for the booking. Caller holds the shared lock.
func (r *Cancellations) resolvePendingLocked(bookingID uint, res store.Resolution) {
	now := time.Now()
	for _, cr := range r.rows {
		if cr.BookingID != bookingID || cr.Status != types.CANCELLATION_PENDING {
			continue
		}
		cr.Status = res.Status
		admin := res.ProcessedBy
		cr.ProcessedBy = &admin
		cr.ProcessedAt = &now
		cr.AdminNote = res.Note
		cr.UpdatedAt = now
	}
}

type Contacts struct {
	mu     sync.RWMutex
	nextID uint
	rows   map[uint]*models.ContactMessage
}

func NewContacts() *Contacts {
	return &Contacts{rows: make(map[uint]*models.ContactMessage)}
}

func (r *Contacts) Create(ctx context.Context, m *models.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	m.CreatedAt = time.Now()
	cp := *m
	r.rows[m.ID] = &cp
	return nil
}

func (r *Contacts) List(ctx context.Context, unreadOnly bool) ([]models.ContactMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var messages []models.ContactMessage
	for _, m := range r.rows {
		if unreadOnly && m.Read {
			continue
		}
		messages = append(messages, *m)
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
	return messages, nil
}

func (r *Contacts) MarkRead(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	m.Read = true
	return nil
}

type Notifications struct {
	mu   sync.Mutex
	rows []models.Notification
}

func NewNotifications() *Notifications {
	return &Notifications{}
}

func (r *Notifications) Record(ctx context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now()
	r.rows = append(r.rows, *n)
	return nil
}

func (r *Notifications) ListRecent(ctx context.Context, limit int) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit < 1 {
		limit = 50
	}
	out := make([]models.Notification, 0, limit)
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.rows[i])
	}
	return out, nil
}
