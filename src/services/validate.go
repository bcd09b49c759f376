package services

import (
	"regexp"
	"strings"
	"time"

	"pcs/src/config"
	"pcs/src/types"
)

// PhonePattern matches local mobile numbers, with or without the +63 prefix.
var PhonePattern = regexp.MustCompile(`^(\+?63|0)9\d{9}$`)

// PostcodePattern matches the national 4-digit postal code format.
var PostcodePattern = regexp.MustCompile(`^\d{4}$`)

// ValidateCreateBooking checks every semantic rule on a booking submission
// and accumulates all violations. Shape-level checks (required fields, email
// format) are handled by the binding layer; this re-checks everything the
// state of the world can invalidate so non-HTTP callers get the same
// guarantees.
func ValidateCreateBooking(in types.CreateBookingRequestBody, now time.Time) (time.Time, *Error) {
	var fields []FieldError
	var scheduledAt time.Time

	if !types.ServiceType(in.ServiceType).Valid() {
		fields = append(fields, FieldError{Field: "service_type", Message: "must be one of the offered service types"})
	}
	if !types.PropertySize(in.PropertySize).Valid() {
		fields = append(fields, FieldError{Field: "property_size", Message: "must be one of: small, medium, large, commercial"})
	}
	parsed, err := time.Parse(config.TIME_PARSE_FORMAT, in.ScheduledAt)
	if err != nil {
		fields = append(fields, FieldError{Field: "scheduled_at", Message: "must be a valid timestamp"})
	} else if !parsed.After(now) {
		fields = append(fields, FieldError{Field: "scheduled_at", Message: "must be a date in the future"})
	} else {
		scheduledAt = parsed
	}
	if strings.TrimSpace(in.Address) == "" {
		fields = append(fields, FieldError{Field: "address", Message: "is required"})
	}
	if !PhonePattern.MatchString(in.CustomerPhone) {
		fields = append(fields, FieldError{Field: "customer_phone", Message: "must be a valid phone number"})
	}
	if in.Postcode != "" && !PostcodePattern.MatchString(in.Postcode) {
		fields = append(fields, FieldError{Field: "postcode", Message: "must be a 4-digit postal code"})
	}

	if len(fields) > 0 {
		return time.Time{}, NewValidationError(fields...)
	}
	return scheduledAt, nil
}
