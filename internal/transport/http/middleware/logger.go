package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4/pkg/logging"
)

// RequestLogger replaces gin.Logger so request lines go through zerolog.
func RequestLogger() gin.HandlerFunc {
	logger := logging.Component("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := logger.Info()
		if c.Writer.Status() >= 500 {
			event = logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
