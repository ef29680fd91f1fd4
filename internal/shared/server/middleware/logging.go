package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"brainplan/internal/shared/metrics"
	"brainplan/internal/shared/telemetry"
)

// StatusTransitionKey is set by handlers that moved a workflow state,
// e.g. "pending->displayed".
const StatusTransitionKey = "statusTransition"

// SubmissionIDKey is set by handlers that ran or read a submission.
const SubmissionIDKey = "submissionId"

// Logging writes one "request.complete" line per request and records its
// latency. Server errors log at error level and client errors at warn.
// Preflight requests are not logged.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		status := c.Writer.Status()
		metrics.ObserveRequest(c.Request.Method, c.FullPath(), status, elapsed)

		fields := map[string]any{
			"request_id":        RequestIDFromContext(c),
			"session_id":        SessionIDFromContext(c),
			"new_session":       c.GetBool(newSessionFlag),
			"submission_id":     c.GetString(SubmissionIDKey),
			"status_transition": c.GetString(StatusTransitionKey),
			"method":            c.Request.Method,
			"path":              c.Request.URL.Path,
			"route":             c.FullPath(),
			"status":            status,
			"duration_ms":       float64(elapsed.Microseconds()) / 1000.0,
			"client_ip":         c.ClientIP(),
			"user_agent":        c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case status >= http.StatusInternalServerError:
			telemetry.Error("request.complete", fields)
		case status >= http.StatusBadRequest:
			telemetry.Warn("request.complete", fields)
		default:
			telemetry.Info("request.complete", fields)
		}
	}
}
