package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"brainplan/internal/attachments"
	"brainplan/internal/brainstorm"
	"brainplan/internal/shared/server/middleware"
	"brainplan/internal/shared/storage/object/local"
	"brainplan/internal/submissions"
)

const testBackendURL = "http://backend.test"

// capturingSource records the requests it resolves. When gate is set, each
// Resolve signals entered and then waits for gate to close.
type capturingSource struct {
	mu      sync.Mutex
	reqs    []brainstorm.SubmissionRequest
	err     error
	gate    chan struct{}
	entered chan struct{}
}

func (s *capturingSource) Resolve(_ context.Context, req brainstorm.SubmissionRequest) (brainstorm.ResultDocument, error) {
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	err, gate, entered := s.err, s.gate, s.entered
	s.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		<-gate
	}
	if err != nil {
		return brainstorm.ResultDocument{}, err
	}
	return brainstorm.Synthesize(req), nil
}

func (s *capturingSource) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reqs)
}

func (s *capturingSource) last() brainstorm.SubmissionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reqs) == 0 {
		return brainstorm.SubmissionRequest{}
	}
	return s.reqs[len(s.reqs)-1]
}

type testEnv struct {
	router   *gin.Engine
	history  *submissions.Service
	source   *capturingSource
	storeDir string
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mode := brainstorm.Mode{UseMock: true, BackendBaseURL: testBackendURL}
	limits := brainstorm.DefaultLimits()
	src := &capturingSource{}

	repo, err := submissions.NewMemoryRepo(50)
	require.NoError(t, err)
	history := &submissions.Service{Repo: repo}

	sessions, err := brainstorm.NewSessions(16, func(id string) *brainstorm.Coordinator {
		return brainstorm.NewCoordinator(mode,
			brainstorm.WithMockSource(src),
			brainstorm.WithRecorder(history),
			brainstorm.WithSession(id),
			brainstorm.WithLimits(limits),
		)
	})
	require.NoError(t, err)

	storeDir := t.TempDir()
	intake := &attachments.Intake{Store: local.New(storeDir), Limits: limits}

	r := gin.New()
	r.SetHTMLTemplate(Templates())
	r.Use(middleware.RequestID(), middleware.Session("test"))
	NewHandler(sessions, intake, mode, limits).RegisterRoutes(r)
	NewAPIHandler(sessions, intake, history, mode).RegisterRoutes(r.Group("/api/v1"))
	DemoBackend{}.RegisterRoutes(r)

	return &testEnv{router: r, history: history, source: src, storeDir: storeDir}
}

func (e *testEnv) do(req *http.Request, sessionID string) *httptest.ResponseRecorder {
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func formRequest(t *testing.T, path string, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, content := range files {
		part, err := w.CreateFormFile(attachmentField, name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// archived lists every file written to the attachment store.
func (e *testEnv) archived(t *testing.T) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(e.storeDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func decodeJSON(t *testing.T, resp *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out), resp.Body.String())
}
