package mailer

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcs/src/store/memstore"
	"pcs/src/types"
)

func TestFailedSendIsNotAudited(t *testing.T) {
	t.Setenv("SMTP_HOST", "")

	audit := memstore.NewNotifications()
	m := New(audit, zerolog.Nop())

	err := m.Notify(context.Background(), types.NOTIFY_BOOKING_CREATED, "maria@example.com", map[string]any{
		"booking_id": uint(1),
	})
	require.Error(t, err)

	rows, err := audit.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRenderSubjects(t *testing.T) {
	data := map[string]any{
		"booking_id": uint(7),
		"old_status": types.BOOKING_PENDING,
		"new_status": types.BOOKING_CONFIRMED,
		"decision":   types.CANCELLATION_APPROVED,
		"reason":     "moving out",
		"name":       "Juan Cruz",
	}
	tests := []struct {
		kind    types.NotificationKind
		subject string
	}{
		{types.NOTIFY_BOOKING_CREATED, "Booking #7 received"},
		{types.NOTIFY_STATUS_CHANGED, "Booking #7 is now confirmed"},
		{types.NOTIFY_CANCELLATION_REQUESTED, "Cancellation requested for booking #7"},
		{types.NOTIFY_CANCELLATION_DECIDED, "Cancellation request for booking #7: approved"},
		{types.NOTIFY_CONTACT_RECEIVED, "New inquiry from Juan Cruz"},
	}
	for _, tt := range tests {
		subject, body := render(tt.kind, data)
		assert.Equal(t, tt.subject, subject, string(tt.kind))
		assert.NotEmpty(t, body)
	}
}
