// internal/middleware/recovery_middleware.go
package middleware

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"escpos-service/internal/utils"
)

// RecoveryMiddleware turns a handler panic into a 500 API response and a
// single structured log entry. gin's own stderr dump is discarded.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered interface{}) {
		utils.LoggerWithRequestID(logger, c.GetString(RequestIDKey)).Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("route", c.FullPath()),
			zap.String("method", c.Request.Method),
			zap.String("printer_id", c.Param("printer_id")),
			zap.Stack("stacktrace"),
		)

		if c.Writer.Written() {
			c.Abort()
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error", nil)
		c.Abort()
	})
}
