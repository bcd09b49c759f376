package middlewares

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"pcs/src/metrics"
)

// Metrics counts every request by method, route template and status.
func Metrics(ctx *gin.Context) {
	ctx.Next()
	path := ctx.FullPath()
	if path == "" {
		path = "unmatched"
	}
	metrics.IncHTTP(ctx.Request.Method, path, strconv.Itoa(ctx.Writer.Status()))
}
