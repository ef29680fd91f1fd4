package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"brainplan/internal/shared/metrics"
	"brainplan/internal/shared/server/respond"
	"brainplan/internal/shared/telemetry"
)

const panicMessage = "Unexpected server error"

// Recovery recovers from handler panics. API callers get the JSON error
// envelope; browsers get a plain-text message.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			metrics.IncPanic()
			telemetry.Error("panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"session_id": SessionIDFromContext(c),
				"error":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			})
			if wantsHTML(c) {
				c.Header("Content-Type", "text/plain; charset=utf-8")
				c.AbortWithStatus(http.StatusInternalServerError)
				_, _ = c.Writer.WriteString(panicMessage)
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal", panicMessage, nil)
		}()
		c.Next()
	}
}

func wantsHTML(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return false
	}
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
