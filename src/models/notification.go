package models

import (
	"pcs/src/types"

	"github.com/google/uuid"
)

// Notification is an audit row for a sent email. Written best-effort after a
// successful send; never part of the booking transaction.
type Notification struct {
	ID        uuid.UUID              `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Kind      types.NotificationKind `json:"kind"`
	Recipient string                 `json:"recipient"`
	BookingID *uint                  `json:"booking_id,omitempty"`
	Subject   string                 `json:"subject,omitempty"`

	types.Timestamps
}
