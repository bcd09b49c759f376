package gormstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"pcs/src/models"
	"pcs/src/store"
	"pcs/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Cancellations struct {
	DB *gorm.DB
}

func NewCancellations(d *gorm.DB) *Cancellations {
	return &Cancellations{DB: d}
}

func (r *Cancellations) Create(ctx context.Context, cr *models.CancellationRequest) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending int64
		if err := tx.
			Model(&models.CancellationRequest{}).
			Where("booking_id = ? AND status = ?", cr.BookingID, types.CANCELLATION_PENDING).
			Count(&pending).
			Error; err != nil {
			return err
		}
		if pending > 0 {
			return store.ErrDuplicatePending
		}
		cr.Status = types.CANCELLATION_PENDING
		if err := tx.Create(cr).Error; err != nil {
			// Two near-simultaneous requests can both pass the count above;
			// the partial unique index catches the loser here.
			if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
				return store.ErrDuplicatePending
			}
			return err
		}
		return tx.
			Model(&models.Booking{}).
			Where("id = ?", cr.BookingID).
			Update("status", types.BOOKING_CANCELLATION_REQUESTED).
			Error
	})
}

func (r *Cancellations) GetByID(ctx context.Context, id uuid.UUID) (*models.CancellationRequest, error) {
	var cr models.CancellationRequest
	if err := r.DB.WithContext(ctx).
		Where("id = ?", id).
		Preload("Booking").
		First(&cr).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &cr, nil
}

func (r *Cancellations) List(ctx context.Context, f store.CancellationFilters) ([]models.CancellationRequest, error) {
	var requests []models.CancellationRequest
	tx := r.DB.WithContext(ctx).Model(&models.CancellationRequest{})
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.BookingID > 0 {
		tx = tx.Where("booking_id = ?", f.BookingID)
	}
	err := tx.
		Preload("Booking").
		Order("created_at desc").
		Find(&requests).
		Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *Cancellations) Process(ctx context.Context, id uuid.UUID, approve bool, adminID uint, note *string) (*models.CancellationRequest, error) {
	var cr models.CancellationRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("id = ?", id).
			First(&cr).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrNotFound
			}
			return err
		}
		if cr.Status != types.CANCELLATION_PENDING {
			return store.ErrAlreadyProcessed
		}
		var booking models.Booking
		if err := tx.
			Where("id = ?", cr.BookingID).
			First(&booking).
			Error; err != nil {
			return err
		}
		if booking.Status == types.BOOKING_COMPLETED {
			return store.ErrInvalidState
		}
		decision := types.CANCELLATION_REJECTED
		if approve {
			decision = types.CANCELLATION_APPROVED
		}
		now := time.Now()
		if err := tx.
			Model(&models.CancellationRequest{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status":       decision,
				"processed_by": adminID,
				"processed_at": now,
				"admin_note":   note,
			}).
			Error; err != nil {
			return err
		}
		if approve {
			if err := tx.
				Model(&models.Booking{}).
				Where("id = ?", cr.BookingID).
				Update("status", types.BOOKING_CANCELED).
				Error; err != nil {
				return err
			}
		}
		return tx.
			Where("id = ?", id).
			Preload("Booking").
			First(&cr).
			Error
	})
	if err != nil {
		return nil, err
	}
	return &cr, nil
}
