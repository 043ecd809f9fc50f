// internal/middleware/logging_middleware.go
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"escpos-service/internal/utils"
)

// probe paths polled by orchestrators; only failures are logged
var quietPaths = map[string]bool{
	"/live":  true,
	"/ready": true,
}

// LoggingMiddleware logs every served request under its route template,
// so /api/v1/jobs/:job_id groups across ids. Unmatched requests keep the raw path.
func LoggingMiddleware(logger *utils.ServiceLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if quietPaths[path] && status == http.StatusOK {
			return
		}

		logger.LogAPIRequest(c.Request.Method, path, c.ClientIP(), c.GetString(RequestIDKey), status, time.Since(startTime))
	}
}
