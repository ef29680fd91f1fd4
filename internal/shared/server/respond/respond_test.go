package respond

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainplan/internal/shared/telemetry"
)

func serve(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", handler)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))
	return resp
}

func TestValidationEnvelope(t *testing.T) {
	var logs bytes.Buffer
	t.Cleanup(telemetry.SetOutput(&logs))

	resp := serve(func(c *gin.Context) {
		c.Set("sessionId", "s-1")
		Validation(c, "idea", "Please enter an idea")
	})

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.JSONEq(t, `{"error":{"code":"validation_error","message":"Please enter an idea","details":[{"field":"idea","issue":"invalid"}]}}`, resp.Body.String())
	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), `"session_id":"s-1"`)
}

func TestServerErrorsLogAtErrorLevel(t *testing.T) {
	var logs bytes.Buffer
	t.Cleanup(telemetry.SetOutput(&logs))

	resp := serve(func(c *gin.Context) {
		Error(c, http.StatusBadGateway, "backend_error", "API error: Bad Gateway", nil)
	})

	require.Equal(t, http.StatusBadGateway, resp.Code)
	assert.JSONEq(t, `{"error":{"code":"backend_error","message":"API error: Bad Gateway"}}`, resp.Body.String())
	assert.Contains(t, logs.String(), `"level":"error"`)
}

func TestMarkdownAttachment(t *testing.T) {
	resp := serve(func(c *gin.Context) {
		Markdown(c, "brainstorm-1.md", "# Title\n")
	})

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, `attachment; filename="brainstorm-1.md"`, resp.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/markdown; charset=utf-8", resp.Header().Get("Content-Type"))
	assert.Equal(t, "# Title\n", resp.Body.String())
}
