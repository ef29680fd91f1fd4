package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainplan/internal/backend"
	"brainplan/internal/shared/config"
)

func baseConfig(t *testing.T) config.Config {
	return config.Config{
		Env:                "dev",
		UseMockData:        true,
		BackendURL:         "http://localhost:5000",
		ObjectStoreType:    "local",
		LocalStoreDir:      t.TempDir(),
		MaxAttachments:     5,
		MaxAttachmentBytes: 1024,
		SessionCacheSize:   8,
		HistoryCacheSize:   8,
		SubmitRate:         1,
		SubmitBurst:        5,
	}
}

func TestBuildMockModeUsesMemoryHistory(t *testing.T) {
	app, err := Build(t.Context(), baseConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.Nil(t, app.DB)
	assert.Nil(t, app.Live)
	assert.NotNil(t, app.Store)
	require.NotNil(t, app.Router)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", strings.NewReader(`{"idea":"Book club"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func TestBuildLiveModeCreatesClient(t *testing.T) {
	cfg := baseConfig(t)
	cfg.UseMockData = false
	cfg.BackendURL = "http://backend.internal:5000/"

	app, err := Build(t.Context(), cfg)
	require.NoError(t, err)

	client, ok := app.Live.(*backend.Client)
	require.True(t, ok)
	assert.Equal(t, "http://backend.internal:5000", client.BaseURL())
}

func TestBuildRejectsIncompleteStoreConfig(t *testing.T) {
	cfg := baseConfig(t)
	cfg.ObjectStoreType = "s3"

	_, err := Build(t.Context(), cfg)
	assert.ErrorContains(t, err, "S3_BUCKET")
}

func TestBuildWithoutStore(t *testing.T) {
	cfg := baseConfig(t)
	cfg.ObjectStoreType = "none"

	app, err := Build(t.Context(), cfg)
	require.NoError(t, err)
	assert.Nil(t, app.Store)
	assert.Nil(t, app.Intake.Store)
}
