package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoggedPath is the only route whose traffic RequestLogger records.
const LoggedPath = "/ping"

// RequestLogger logs the method, path and inbound headers of every /ping
// request, then the status and outbound headers once the chain has run.
// Other paths pass through untouched.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path != LoggedPath {
			c.Next()
			return
		}

		start := time.Now()
		logger.Info("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("headers", c.Request.Header),
		)

		c.Next()

		logger.Info("Response",
			zap.Int("status", c.Writer.Status()),
			zap.Any("headers", c.Writer.Header()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
