package main

import (
	"errors"

	"github.com/gin-gonic/gin"

	"pcs/src/models"
	"pcs/src/services"
	"pcs/src/types"
)

func writeData(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, gin.H{"data": data})
}

// writeError maps a service error onto the error envelope. Anything that is
// not a *services.Error reads as an internal storage failure.
func writeError(ctx *gin.Context, err error) {
	var serr *services.Error
	if !errors.As(err, &serr) {
		serr = services.NewStorageError(err)
	}
	body := gin.H{"code": serr.Code, "message": serr.Message}
	if len(serr.Fields) > 0 {
		body["fields"] = serr.Fields
	}
	ctx.JSON(serr.Status, gin.H{"error": body})
}

func writeBindingError(ctx *gin.Context, err error) {
	writeError(ctx, services.ValidationFromBinding(err))
}

func toAPIBooking(b *models.Booking) types.APIResponseBooking {
	out := types.APIResponseBooking{
		ID:              b.ID,
		ServiceType:     string(b.ServiceType),
		PropertySize:    string(b.PropertySize),
		ScheduledAt:     b.ScheduledAt,
		Status:          string(b.Status),
		Address:         b.Address,
		TechnicianID:    b.TechnicianID,
		Price:           b.Price,
		CompletionNotes: b.CompletionNotes,
		Rating:          b.Rating,
	}
	out.Timestamps = b.Timestamps
	return out
}

func toAPIBookings(bookings []models.Booking) []types.APIResponseBooking {
	out := make([]types.APIResponseBooking, 0, len(bookings))
	for i := range bookings {
		out = append(out, toAPIBooking(&bookings[i]))
	}
	return out
}

func toAPICancellation(cr *models.CancellationRequest) types.APIResponseCancellation {
	out := types.APIResponseCancellation{
		ID:          cr.ID.String(),
		BookingID:   cr.BookingID,
		Reason:      cr.Reason,
		Status:      string(cr.Status),
		ProcessedBy: cr.ProcessedBy,
		ProcessedAt: cr.ProcessedAt,
		AdminNote:   cr.AdminNote,
	}
	out.Timestamps = cr.Timestamps
	return out
}
