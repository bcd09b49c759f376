package models

import (
	"pcs/src/types"
)

type User struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	Name          string     `json:"name,omitempty"`
	Email         string     `gorm:"uniqueIndex" json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Role          types.Role `json:"role,omitempty"`
	EmailVerified bool       `json:"email_verified,omitempty"`

	Bookings []Booking `gorm:"foreignKey:customer_id" json:"bookings,omitempty"`

	types.Timestamps
}
