package gormstore

import (
	"context"
	"errors"
	"time"

	"pcs/src/models"
	"pcs/src/store"
	"pcs/src/types"

	"gorm.io/gorm"
)

type Bookings struct {
	DB *gorm.DB
}

func NewBookings(d *gorm.DB) *Bookings {
	return &Bookings{DB: d}
}

func applyScope(tx *gorm.DB, s store.Scope) *gorm.DB {
	if s.All {
		return tx
	}
	if s.TechnicianID > 0 {
		return tx.Where("technician_id = ?", s.TechnicianID)
	}
	return tx.Where("customer_id = ? OR customer_email = ?", s.CustomerID, s.CustomerEmail)
}

func (r *Bookings) Create(ctx context.Context, b *models.Booking) error {
	if err := r.DB.WithContext(ctx).Create(b).Error; err != nil {
		return err
	}
	return nil
}

func (r *Bookings) GetByID(ctx context.Context, id uint, scope store.Scope) (*models.Booking, error) {
	var booking models.Booking
	tx := applyScope(r.DB.WithContext(ctx).Model(&models.Booking{}), scope)
	if err := tx.
		Where("id = ?", id).
		Preload("CancellationRequests").
		First(&booking).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *Bookings) List(ctx context.Context, scope store.Scope, f store.BookingFilters) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	var total int64

	tx := applyScope(r.DB.WithContext(ctx).Model(&models.Booking{}), scope)
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	perPage := f.PerPage
	if perPage < 1 {
		perPage = 20
	}
	err := tx.
		Order("scheduled_at asc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&bookings).
		Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *Bookings) UpdateStatus(ctx context.Context, id uint, u store.StatusUpdate) (*models.Booking, error) {
	var booking models.Booking
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("id = ?", id).
			First(&booking).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrNotFound
			}
			return err
		}
		updates := map[string]any{"status": u.Status}
		if u.CompletionNotes != nil {
			updates["completion_notes"] = *u.CompletionNotes
		}
		if err := tx.
			Model(&models.Booking{}).
			Where("id = ?", id).
			Updates(updates).
			Error; err != nil {
			return err
		}
		if u.Resolve != nil {
			now := time.Now()
			if err := tx.
				Model(&models.CancellationRequest{}).
				Where("booking_id = ? AND status = ?", id, types.CANCELLATION_PENDING).
				Updates(map[string]any{
					"status":       u.Resolve.Status,
					"processed_by": u.Resolve.ProcessedBy,
					"processed_at": now,
					"admin_note":   u.Resolve.Note,
				}).
				Error; err != nil {
				return err
			}
		}
		return tx.
			Where("id = ?", id).
			Preload("CancellationRequests").
			First(&booking).
			Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *Bookings) Assign(ctx context.Context, id uint, technicianID uint, price *float64, status types.BookingStatus) (*models.Booking, error) {
	var booking models.Booking
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("id = ?", id).
			First(&booking).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrNotFound
			}
			return err
		}
		updates := map[string]any{
			"technician_id": technicianID,
			"status":        status,
		}
		if price != nil {
			updates["price"] = *price
		}
		if err := tx.
			Model(&models.Booking{}).
			Where("id = ?", id).
			Updates(updates).
			Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *Bookings) Rate(ctx context.Context, id uint, rating int) (*models.Booking, error) {
	var booking models.Booking
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("id = ?", id).
			First(&booking).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrNotFound
			}
			return err
		}
		if err := tx.
			Model(&models.Booking{}).
			Where("id = ?", id).
			Update("rating", rating).
			Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *Bookings) CountByStatus(ctx context.Context) (map[types.BookingStatus]int64, error) {
	type row struct {
		Status types.BookingStatus
		Count  int64
	}
	var rows []row
	err := r.DB.WithContext(ctx).
		Model(&models.Booking{}).
		Select("status, COUNT(id) as count").
		Group("status").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	counts := make(map[types.BookingStatus]int64, len(rows))
	for _, v := range rows {
		counts[v.Status] = v.Count
	}
	return counts, nil
}
