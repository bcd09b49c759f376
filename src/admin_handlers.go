package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pcs/src/middlewares"
	"pcs/src/models"
	"pcs/src/services"
	"pcs/src/store"
	"pcs/src/types"
	"pcs/src/utils"
)

const exportPageSize = 100

func adminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/cancellations", func(ctx *gin.Context) {
			actor, _ := middlewares.ActorFrom(ctx)
			status := types.CancellationStatus(ctx.Query("status"))
			requests, err := app.bookings.ListCancellationRequests(ctx, actor, status)
			if err != nil {
				writeError(ctx, err)
				return
			}
			out := make([]types.APIResponseCancellation, 0, len(requests))
			for i := range requests {
				out = append(out, toAPICancellation(&requests[i]))
			}
			ctx.JSON(http.StatusOK, gin.H{"data": out, "count": len(out)})
		}).
		PUT("/cancellations/:id", func(ctx *gin.Context) {
			id, err := uuid.Parse(ctx.Param("id"))
			if err != nil {
				writeError(ctx, services.NewValidationError(services.FieldError{Field: "id", Message: "must be a valid uuid"}))
				return
			}
			var body types.ProcessCancellationBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				writeBindingError(ctx, err)
				return
			}
			actor, _ := middlewares.ActorFrom(ctx)
			cr, err := app.bookings.ProcessCancellation(ctx, id, actor, body.Approve, body.Note)
			if err != nil {
				writeError(ctx, err)
				return
			}
			writeData(ctx, http.StatusOK, toAPICancellation(cr))
		}).
		PUT("/bookings/:id/assign", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				writeBindingError(ctx, err)
				return
			}
			var body types.AssignTechnicianBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				writeBindingError(ctx, err)
				return
			}
			actor, _ := middlewares.ActorFrom(ctx)
			booking, err := app.bookings.AssignTechnician(ctx, params.ID, body.TechnicianID, body.Price, actor)
			if err != nil {
				writeError(ctx, err)
				return
			}
			writeData(ctx, http.StatusOK, toAPIBooking(booking))
		}).
		GET("/stats", func(ctx *gin.Context) {
			actor, _ := middlewares.ActorFrom(ctx)
			counts, err := app.bookings.Stats(ctx, actor)
			if err != nil {
				writeError(ctx, err)
				return
			}
			writeData(ctx, http.StatusOK, counts)
		}).
		GET("/bookings/export", func(ctx *gin.Context) {
			actor, _ := middlewares.ActorFrom(ctx)
			var bookings []models.Booking
			for page := 1; ; page++ {
				batch, total, err := app.bookings.ListBookings(ctx, actor, types.ListBookingsQuery{
					Status:  ctx.Query("status"),
					Page:    page,
					PerPage: exportPageSize,
				})
				if err != nil {
					writeError(ctx, err)
					return
				}
				bookings = append(bookings, batch...)
				if len(batch) == 0 || int64(len(bookings)) >= total {
					break
				}
			}
			file, err := utils.BookingsToExcel(bookings)
			if err != nil {
				writeError(ctx, err)
				return
			}
			fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
			ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
			ctx.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", file)
		}).
		GET("/notifications", func(ctx *gin.Context) {
			notifications, err := app.notifications.ListRecent(ctx, 0)
			if err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": notifications, "count": len(notifications)})
		})
	return g
}

func adminContactHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/contacts", func(ctx *gin.Context) {
			unreadOnly := ctx.Query("unread") == "true"
			messages, err := app.contacts.List(ctx, unreadOnly)
			if err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": messages, "count": len(messages)})
		}).
		PUT("/contacts/:id/read", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				writeBindingError(ctx, err)
				return
			}
			if err := app.contacts.MarkRead(ctx, params.ID); err != nil {
				if err == store.ErrNotFound {
					writeError(ctx, services.NewNotFoundError("contact message"))
					return
				}
				writeError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
