package gormstore

import (
	"context"
	"errors"

	"pcs/src/models"
	"pcs/src/store"

	"gorm.io/gorm"
)

type Contacts struct {
	DB *gorm.DB
}

func NewContacts(d *gorm.DB) *Contacts {
	return &Contacts{DB: d}
}

func (r *Contacts) Create(ctx context.Context, m *models.ContactMessage) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *Contacts) List(ctx context.Context, unreadOnly bool) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	tx := r.DB.WithContext(ctx).Model(&models.ContactMessage{})
	if unreadOnly {
		tx = tx.Where("read = ?", false)
	}
	if err := tx.Order("created_at desc").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *Contacts) MarkRead(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).
		Model(&models.ContactMessage{}).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type Notifications struct {
	DB *gorm.DB
}

func NewNotifications(d *gorm.DB) *Notifications {
	return &Notifications{DB: d}
}

func (r *Notifications) Record(ctx context.Context, n *models.Notification) error {
	return r.DB.WithContext(ctx).Create(n).Error
}

func (r *Notifications) ListRecent(ctx context.Context, limit int) ([]models.Notification, error) {
	if limit < 1 {
		limit = 50
	}
	var notifications []models.Notification
	err := r.DB.WithContext(ctx).
		Model(&models.Notification{}).
		Order("created_at desc").
		Limit(limit).
		Find(&notifications).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return notifications, nil
}
