package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie = "brainplan_session"
	SessionHeader = "X-Session-Id"

	sessionIDKey   = "sessionId"
	sessionMaxAge  = 7 * 24 * 60 * 60
	newSessionFlag = "sessionNew"
)

// Session resolves the visitor's session id from the X-Session-Id header or
// the session cookie, minting a new one when neither carries a valid id.
func Session(env string) gin.HandlerFunc {
	secure := env == "production"
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		id := validSessionID(c.GetHeader(SessionHeader))
		if id == "" {
			if raw, err := c.Cookie(SessionCookie); err == nil {
				id = validSessionID(raw)
			}
		}
		if id == "" {
			id = uuid.NewString()
			c.Set(newSessionFlag, true)
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, sessionMaxAge, "/", "", secure, true)
		c.Writer.Header().Set(SessionHeader, id)
		c.Set(sessionIDKey, id)
		c.Next()
	}
}

// SessionIDFromContext fetches the session id stored by Session middleware.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

func validSessionID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.String()
}
