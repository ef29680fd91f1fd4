package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainplan/internal/backend"
	"brainplan/internal/brainstorm"
	"brainplan/internal/shared/server/middleware"
	"brainplan/internal/shared/telemetry"
)

func TestDemoBackendRejectsBlankIdea(t *testing.T) {
	env := setupRouter(t)

	resp := env.do(jsonRequest(t, http.MethodPost, backend.Path, map[string]string{"idea": " "}), "")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.JSONEq(t, `{"error":"idea is required"}`, resp.Body.String())
}

func TestDemoBackendServesLiveClient(t *testing.T) {
	env := setupRouter(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	client, err := backend.NewClient(srv.URL+"/", 0)
	require.NoError(t, err)

	req := brainstorm.SubmissionRequest{Idea: "Carpool planner", Context: "Small town", Focus: brainstorm.FocusTechnical}
	doc, err := client.Resolve(t.Context(), req)
	require.NoError(t, err)

	rendered := brainstorm.Render(req.Idea, doc)
	for _, s := range rendered.Sections {
		assert.False(t, s.Placeholder, string(s.Key))
	}
	fr, ok := rendered.Section(brainstorm.FieldFunctionalRequirements)
	require.True(t, ok)
	assert.Contains(t, fr.Text(), "Carpool planner")
}

func TestDemoBackendLogsForwardedRequestID(t *testing.T) {
	env := setupRouter(t)
	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	defer restore()

	req := jsonRequest(t, http.MethodPost, backend.Path, map[string]string{"idea": "Carpool planner"})
	req.Header.Set(middleware.RequestIDHeader, "req-demo-1")
	resp := env.do(req, "")
	require.Equal(t, http.StatusOK, resp.Code)

	var entry map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &payload))
		if payload["msg"] == "demo.brainstorm" {
			entry = payload
		}
	}
	require.NotNil(t, entry, buf.String())
	assert.Equal(t, "req-demo-1", entry["request_id"])
}
