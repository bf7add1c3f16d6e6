package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hainam0320/EXE201-sub000/logging"
)

// RequestLog emits one structured line per request on the shared slog
// handler.
func RequestLog() gin.HandlerFunc {
	log := logging.New("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		log.Info("request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}
