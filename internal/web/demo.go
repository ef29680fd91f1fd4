package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"brainplan/internal/backend"
	"brainplan/internal/brainstorm"
	"brainplan/internal/shared/server/middleware"
	"brainplan/internal/shared/telemetry"
)

// DemoBackend answers the brainstorm wire protocol with synthesized
// documents so live mode can be exercised without the real generator.
type DemoBackend struct{}

// RegisterRoutes attaches the demo endpoint at backend.Path.
func (DemoBackend) RegisterRoutes(r gin.IRoutes) {
	r.POST(backend.Path, demoBrainstorm)
}

func demoBrainstorm(c *gin.Context) {
	var body backend.Request
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Idea) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "idea is required"})
		return
	}
	telemetry.Info("demo.brainstorm", map[string]any{
		"request_id": middleware.RequestIDFromContext(c),
		"focus":      body.Focus,
		"round_info": body.RoundInfo,
	})
	doc := brainstorm.Synthesize(brainstorm.SubmissionRequest{
		Idea:    body.Idea,
		Context: body.Context,
		Focus:   brainstorm.Focus(body.Focus),
	}.Normalize())
	c.JSON(http.StatusOK, doc)
}
