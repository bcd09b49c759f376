package types

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type Role string

const (
	ROLE_CUSTOMER   Role = "customer"
	ROLE_TECHNICIAN Role = "technician"
	ROLE_STAFF      Role = "staff"
	ROLE_ADMIN      Role = "admin"
)

// Actor is the authenticated caller of an operation, resolved by the auth
// middleware and threaded through every service call.
type Actor struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type BookingStatus string

const (
	BOOKING_PENDING                BookingStatus = "pending"
	BOOKING_CONFIRMED              BookingStatus = "confirmed"
	BOOKING_ASSIGNED               BookingStatus = "assigned"
	BOOKING_IN_PROGRESS            BookingStatus = "in-progress"
	BOOKING_COMPLETED              BookingStatus = "completed"
	BOOKING_CANCELLATION_REQUESTED BookingStatus = "cancellation_requested"
	BOOKING_CANCELED               BookingStatus = "canceled"
)

var BookingStatuses = []BookingStatus{
	BOOKING_PENDING,
	BOOKING_CONFIRMED,
	BOOKING_ASSIGNED,
	BOOKING_IN_PROGRESS,
	BOOKING_COMPLETED,
	BOOKING_CANCELLATION_REQUESTED,
	BOOKING_CANCELED,
}

func (s BookingStatus) Valid() bool {
	for _, v := range BookingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BOOKING_COMPLETED || s == BOOKING_CANCELED
}

type CancellationStatus string

const (
	CANCELLATION_PENDING  CancellationStatus = "pending"
	CANCELLATION_APPROVED CancellationStatus = "approved"
	CANCELLATION_REJECTED CancellationStatus = "rejected"
)

type ServiceType string

const (
	SERVICE_RESIDENTIAL ServiceType = "residential"
	SERVICE_COMMERCIAL  ServiceType = "commercial"
	SERVICE_TERMITE     ServiceType = "termite"
	SERVICE_RODENT      ServiceType = "rodent"
	SERVICE_INSECT      ServiceType = "insect"
	SERVICE_ECO         ServiceType = "eco-friendly"
)

func (s ServiceType) Valid() bool {
	switch s {
	case SERVICE_RESIDENTIAL, SERVICE_COMMERCIAL, SERVICE_TERMITE, SERVICE_RODENT, SERVICE_INSECT, SERVICE_ECO:
		return true
	}
	return false
}

type PropertySize string

const (
	PROPERTY_SMALL      PropertySize = "small"
	PROPERTY_MEDIUM     PropertySize = "medium"
	PROPERTY_LARGE      PropertySize = "large"
	PROPERTY_COMMERCIAL PropertySize = "commercial"
)

func (p PropertySize) Valid() bool {
	switch p {
	case PROPERTY_SMALL, PROPERTY_MEDIUM, PROPERTY_LARGE, PROPERTY_COMMERCIAL:
		return true
	}
	return false
}

type NotificationKind string

const (
	NOTIFY_BOOKING_CREATED        NotificationKind = "booking_created"
	NOTIFY_STATUS_CHANGED         NotificationKind = "status_changed"
	NOTIFY_CANCELLATION_REQUESTED NotificationKind = "cancellation_requested"
	NOTIFY_CANCELLATION_DECIDED   NotificationKind = "cancellation_decided"
	NOTIFY_CONTACT_RECEIVED       NotificationKind = "contact_received"
)

type CreateBookingRequestBody struct {
	CustomerName  string  `json:"customer_name" binding:"required"`
	CustomerEmail string  `json:"customer_email" binding:"required,email"`
	CustomerPhone string  `json:"customer_phone" binding:"required,phone"`
	ServiceType   string  `json:"service_type" binding:"required,oneof=residential commercial termite rodent insect eco-friendly"`
	PropertySize  string  `json:"property_size" binding:"required,oneof=small medium large commercial"`
	ScheduledAt   string  `json:"scheduled_at" binding:"required,futuredate" time_format:"2006-01-02 15:04:05 -07:00"`
	Address       string  `json:"address" binding:"required"`
	Postcode      string  `json:"postcode" binding:"omitempty,postcode"`
	Notes         *string `json:"notes,omitempty"`
}

type UpdateStatusRequestBody struct {
	NewStatus string  `json:"new_status" binding:"required"`
	Note      *string `json:"note,omitempty"`
}

type RequestCancellationBody struct {
	Reason string `json:"reason,omitempty"`
}

type ProcessCancellationBody struct {
	Approve bool    `json:"approve"`
	Note    *string `json:"note,omitempty"`
}

type AssignTechnicianBody struct {
	TechnicianID uint     `json:"technician_id" binding:"required"`
	Price        *float64 `json:"price,omitempty" binding:"omitempty,gt=0"`
}

type RateBookingBody struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

type ContactRequestBody struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"omitempty,phone"`
	Message string `json:"message" binding:"required"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type ListBookingsQuery struct {
	Status  string `form:"status" binding:"omitempty"`
	Page    int    `form:"page,default=1" binding:"omitempty,min=1"`
	PerPage int    `form:"per_page,default=20" binding:"omitempty,min=1,max=100"`
}

// APIResponseBooking is the outward projection of a booking. Unauthenticated
// creators only ever receive id, type, date and status.
type APIResponseBooking struct {
	ID              uint       `json:"id"`
	ServiceType     string     `json:"service_type,omitempty"`
	PropertySize    string     `json:"property_size,omitempty"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	Status          string     `json:"status,omitempty"`
	Address         string     `json:"address,omitempty"`
	TechnicianID    *uint      `json:"technician_id,omitempty"`
	Price           *float64   `json:"price,omitempty"`
	CompletionNotes *string    `json:"completion_notes,omitempty"`
	Rating          *int       `json:"rating,omitempty"`

	Timestamps
}

type APIResponseCancellation struct {
	ID          string     `json:"id"`
	BookingID   uint       `json:"booking_id"`
	Reason      string     `json:"reason,omitempty"`
	Status      string     `json:"status"`
	ProcessedBy *uint      `json:"processed_by,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	AdminNote   *string    `json:"admin_note,omitempty"`

	Timestamps
}

type CatalogEntry struct {
	Slug      string      `json:"slug"`
	Type      ServiceType `json:"type"`
	Title     string      `json:"title"`
	Blurb     string      `json:"blurb"`
	BasePrice float64     `json:"base_price"`
}

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}
