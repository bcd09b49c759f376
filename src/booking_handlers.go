package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pcs/src/lib"
	"pcs/src/middlewares"
	"pcs/src/services"
	"pcs/src/types"
)

func publicHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				writeBindingError(ctx, err)
				return
			}
			var actor *types.Actor
			if a, ok := middlewares.ActorFrom(ctx); ok {
				actor = &a
			}
			booking, err := app.bookings.CreateBooking(ctx, body, actor)
			if err != nil {
				writeError(ctx, err)
				return
			}
			// Anonymous creators get the minimal projection only.
			out := types.APIResponseBooking{
				ID:          booking.ID,
				ServiceType: string(booking.ServiceType),
				ScheduledAt: booking.ScheduledAt,
				Status:      string(booking.Status),
			}
			writeData(ctx, http.StatusCreated, out)
		}).
		GET("/services", func(ctx *gin.Context) {
			writeData(ctx, http.StatusOK, services.Catalog())
		}).
		GET("/services/:slug", func(ctx *gin.Context) {
			entry, ok := services.CatalogEntryBySlug(ctx.Param("slug"))
			if !ok {
				writeError(ctx, services.NewNotFoundError("service"))
				return
			}
			writeData(ctx, http.StatusOK, entry)
		})
	return g
}

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			var query types.ListBookingsQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				writeBindingError(ctx, err)
				return
			}
			actor, _ := middlewares.ActorFrom(ctx)
			bookings, total, err := app.bookings.ListBookings(ctx, actor, query)
			if err != nil {
				writeError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": toAPIBookings(bookings), "count": total})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				writeBindingError(ctx, err)
				return
			}
			actor, _ := middlewares.ActorFrom(ctx)
			booking, err := app.bookings.GetBooking(ctx, params.ID, actor)
			if err != nil {
				writeError(ctx, err)
				return
			}
			writeData(ctx, http.StatusOK, toAPIBooking(booking))
		}).
		PUT("/bookings/:id/status", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				writeBindingError(ctx, err)
				return
			}
			var body types.UpdateStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				writeBindingError(ctx, err)
				return
			}
			actor, _ := middlewares.ActorFrom(ctx)
			booking, err := app.bookings.SetStatus(ctx, params.ID, types.BookingStatus(body.NewStatus), actor, body.Note)
			if err != nil {
				writeError(ctx, err)
				return
			}
			writeData(ctx, http.StatusOK, toAPIBooking(booking))
		}).
		POST("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				writeBindingError(ctx, err)
				return
			}
			var body types.RequestCancellationBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				writeBindingError(ctx, err)
				return
			}
			actor, _ := middlewares.ActorFrom(ctx)
			cr, err := app.bookings.RequestCancellation(ctx, params.ID, actor, body.Reason)
			if err != nil {
				writeError(ctx, err)
				return
			}
			writeData(ctx, http.StatusCreated, toAPICancellation(cr))
		}).
		POST("/bookings/:id/rating", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				writeBindingError(ctx, err)
				return
			}
			var body types.RateBookingBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				writeBindingError(ctx, err)
				return
			}
			actor, _ := middlewares.ActorFrom(ctx)
			booking, err := app.bookings.RateBooking(ctx, params.ID, body.Rating, actor)
			if err != nil {
				writeError(ctx, err)
				return
			}
			writeData(ctx, http.StatusOK, toAPIBooking(booking))
		}).
		POST("/logout", func(ctx *gin.Context) {
			v, ok := ctx.Get("claims")
			if !ok {
				ctx.Status(http.StatusNoContent)
				return
			}
			claims := v.(*types.Claims)
			if claims.ID != "" {
				ttl := time.Minute
				if claims.ExpiresAt != nil {
					ttl = time.Until(claims.ExpiresAt.Time)
				}
				if err := lib.RevokeToken(ctx, claims.ID, ttl); err != nil {
					app.log.Warn().Err(err).Msg("failed to revoke token")
				}
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
