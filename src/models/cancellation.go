package models

import (
	"time"

	"pcs/src/types"

	"github.com/google/uuid"
)

// CancellationRequest ties a customer's cancellation ask to one Booking.
// At most one pending request may exist per booking at a time; the relational
// backend enforces this with a partial unique index (see db.Migrate).
type CancellationRequest struct {
	ID          uuid.UUID                `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	BookingID   uint                     `gorm:"index" json:"booking_id"`
	RequestedBy uint                     `json:"requested_by"`
	Reason      string                   `json:"reason,omitempty"`
	Status      types.CancellationStatus `gorm:"index" json:"status"`
	ProcessedBy *uint                    `json:"processed_by,omitempty"`
	ProcessedAt *time.Time               `json:"processed_at,omitempty"`
	AdminNote   *string                  `json:"admin_note,omitempty"`

	Booking *Booking `gorm:"foreignKey:booking_id" json:"booking,omitempty"`

	types.Timestamps
}
