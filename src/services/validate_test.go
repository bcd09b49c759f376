package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pcs/src/config"
	"pcs/src/types"
)

func TestPhonePattern(t *testing.T) {
	valid := []string{"09171234567", "+639171234567", "639171234567"}
	for _, v := range valid {
		assert.True(t, PhonePattern.MatchString(v), v)
	}
	invalid := []string{"12345", "0917123456", "091712345678", "+19171234567", "hello"}
	for _, v := range invalid {
		assert.False(t, PhonePattern.MatchString(v), v)
	}
}

func TestPostcodePattern(t *testing.T) {
	assert.True(t, PostcodePattern.MatchString("1100"))
	assert.False(t, PostcodePattern.MatchString("110"))
	assert.False(t, PostcodePattern.MatchString("11000"))
	assert.False(t, PostcodePattern.MatchString("11a0"))
}

func TestValidateCreateBookingParsesSchedule(t *testing.T) {
	now := time.Now()
	in := types.CreateBookingRequestBody{
		CustomerName:  "Maria Santos",
		CustomerEmail: "maria@example.com",
		CustomerPhone: "09171234567",
		ServiceType:   "rodent",
		PropertySize:  "small",
		ScheduledAt:   now.Add(24 * time.Hour).Format(config.TIME_PARSE_FORMAT),
		Address:       "12 Mabini St",
	}
	scheduledAt, err := ValidateCreateBooking(in, now)
	assert.Nil(t, err)
	assert.True(t, scheduledAt.After(now))
}
