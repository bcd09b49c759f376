package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pcs/src/models"
	"pcs/src/types"
)

func contactHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/contact", func(ctx *gin.Context) {
			var body types.ContactRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				writeBindingError(ctx, err)
				return
			}
			msg := &models.ContactMessage{
				Name:    body.Name,
				Email:   body.Email,
				Phone:   body.Phone,
				Message: body.Message,
			}
			if err := app.contacts.Create(ctx, msg); err != nil {
				writeError(ctx, err)
				return
			}
			if app.notifier != nil {
				if err := app.notifier.Notify(ctx, types.NOTIFY_CONTACT_RECEIVED, app.officeEmail, map[string]any{
					"name":    body.Name,
					"email":   body.Email,
					"message": body.Message,
				}); err != nil {
					app.log.Warn().Err(err).Msg("contact notification failed")
				}
			}
			writeData(ctx, http.StatusCreated, gin.H{"id": msg.ID})
		})
	return g
}
