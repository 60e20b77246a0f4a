package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Latency holds every request for d before handing it on, so clients see
// their loading states. A cancelled request stops waiting immediately.
func Latency(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
		c.Next()
	}
}
