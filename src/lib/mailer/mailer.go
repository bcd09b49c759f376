// Package mailer delivers booking notifications over SMTP and records every
// attempt in the notification audit table.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"pcs/src/config"
	"pcs/src/lib"
	"pcs/src/models"
	"pcs/src/store"
	"pcs/src/types"
)

type Mailer struct {
	Audit store.NotificationStore
	Log   zerolog.Logger
}

func New(audit store.NotificationStore, log zerolog.Logger) *Mailer {
	return &Mailer{Audit: audit, Log: log}
}

func (m *Mailer) Notify(ctx context.Context, kind types.NotificationKind, recipient string, data map[string]any) error {
	subject, body := render(kind, data)

	from, fromName := config.MailFrom()
	err := lib.SendMail(&lib.SendMailInput{
		From:     from,
		FromName: fromName,
		To:       []string{recipient},
		Subject:  subject,
		Body:     body,
	})
	if err != nil {
		return err
	}

	m.record(ctx, kind, recipient, subject, data)
	return nil
}

func (m *Mailer) record(ctx context.Context, kind types.NotificationKind, recipient, subject string, data map[string]any) {
	if m.Audit == nil {
		return
	}
	n := &models.Notification{
		Kind:      kind,
		Recipient: recipient,
		Subject:   subject,
	}
	if id, ok := data["booking_id"].(uint); ok {
		n.BookingID = &id
	}
	if err := m.Audit.Record(ctx, n); err != nil {
		m.Log.Warn().Err(err).Str("kind", string(kind)).Msg("failed to record notification")
	}
}

func render(kind types.NotificationKind, data map[string]any) (subject, body string) {
	bookingID := data["booking_id"]
	switch kind {
	case types.NOTIFY_BOOKING_CREATED:
		subject = fmt.Sprintf("Booking #%v received", bookingID)
		body = lines(
			fmt.Sprintf("We received your booking #%v.", bookingID),
			fmt.Sprintf("Service: %v", data["service_type"]),
			fmt.Sprintf("Schedule: %v", data["scheduled_at"]),
			"Our office will confirm your schedule shortly.",
		)
	case types.NOTIFY_STATUS_CHANGED:
		subject = fmt.Sprintf("Booking #%v is now %v", bookingID, data["new_status"])
		body = lines(
			fmt.Sprintf("Your booking #%v moved from %v to %v.", bookingID, data["old_status"], data["new_status"]),
		)
	case types.NOTIFY_CANCELLATION_REQUESTED:
		subject = fmt.Sprintf("Cancellation requested for booking #%v", bookingID)
		body = lines(
			fmt.Sprintf("A cancellation was requested for booking #%v.", bookingID),
			fmt.Sprintf("Reason: %v", data["reason"]),
			"The request is pending review by our office.",
		)
	case types.NOTIFY_CANCELLATION_DECIDED:
		subject = fmt.Sprintf("Cancellation request for booking #%v: %v", bookingID, data["decision"])
		body = lines(
			fmt.Sprintf("Your cancellation request for booking #%v was %v.", bookingID, data["decision"]),
		)
	case types.NOTIFY_CONTACT_RECEIVED:
		subject = fmt.Sprintf("New inquiry from %v", data["name"])
		body = lines(
			fmt.Sprintf("From: %v <%v>", data["name"], data["email"]),
			fmt.Sprintf("Message: %v", data["message"]),
		)
	default:
		subject = fmt.Sprintf("Update on booking #%v", bookingID)
		body = fmt.Sprintf("%v", data)
	}
	return subject, body
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n")
}
