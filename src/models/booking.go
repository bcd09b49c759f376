package models

import (
	"time"

	"pcs/src/types"
)

type Booking struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	CustomerID    *uint               `json:"customer_id,omitempty"`
	CustomerName  string              `json:"customer_name,omitempty"`
	CustomerEmail string              `gorm:"index" json:"customer_email,omitempty"`
	CustomerPhone string              `json:"customer_phone,omitempty"`
	ServiceType   types.ServiceType   `json:"service_type,omitempty"`
	PropertySize  types.PropertySize  `json:"property_size,omitempty"`
	ScheduledAt   *time.Time          `json:"scheduled_at,omitempty"`
	Address       string              `json:"address,omitempty"`
	Postcode      string              `json:"postcode,omitempty"`
	Status        types.BookingStatus `gorm:"index" json:"status,omitempty"`
	TechnicianID  *uint               `gorm:"index" json:"technician_id,omitempty"`
	Price         *float64            `json:"price,omitempty"`
	Notes         *string             `json:"notes,omitempty"`
	// Filled in by the technician together with the completed transition.
	CompletionNotes *string `json:"completion_notes,omitempty"`
	Rating          *int    `json:"rating,omitempty"`

	Technician *User `gorm:"foreignKey:technician_id" json:"technician,omitempty"`
	Customer   *User `gorm:"foreignKey:customer_id" json:"customer,omitempty"`

	CancellationRequests []*CancellationRequest `json:"cancellation_requests,omitempty"`

	types.Timestamps
}
