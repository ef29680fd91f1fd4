package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainplan/internal/brainstorm"
)

func TestResolvePostsRequestAndDecodesDocument(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, Path, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"problem_statement":"Hi","task_list":"","followup_prompts":{"prompt_dev":"code"}}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/", time.Second)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, client.BaseURL())

	doc, err := client.Resolve(context.Background(), brainstorm.SubmissionRequest{
		Idea:                "Idea",
		Context:             "Ctx",
		Focus:               brainstorm.FocusBusiness,
		AttachmentSummaries: []string{"Content from a.txt:\nA"},
	})
	require.NoError(t, err)

	assert.Equal(t, Request{
		Idea:      "Idea",
		Context:   "Ctx\n\nContent from a.txt:\nA",
		Focus:     "business",
		RoundInfo: RoundInfo,
	}, got)
	require.NotNil(t, doc.ProblemStatement)
	assert.Equal(t, "Hi", *doc.ProblemStatement)
	require.NotNil(t, doc.TaskList)
	assert.Equal(t, "", *doc.TaskList)
	assert.Nil(t, doc.GoalsKPIs)
	require.NotNil(t, doc.FollowupPrompts)
	assert.Equal(t, "code", *doc.FollowupPrompts.Dev)
}

func TestResolveNonSuccessReturnsServiceError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"model unavailable"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = client.Resolve(context.Background(), brainstorm.SubmissionRequest{Idea: "Idea"})
	var svcErr *brainstorm.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusInternalServerError, svcErr.Status)
	assert.Equal(t, "API error: Internal Server Error", svcErr.Error())
	assert.Equal(t, "model unavailable", svcErr.Detail)
	assert.Equal(t, 1, calls)
}

func TestResolveUndecodableBodyIsServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = client.Resolve(context.Background(), brainstorm.SubmissionRequest{Idea: "Idea"})
	var svcErr *brainstorm.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Contains(t, svcErr.Detail, "decode")
}

func TestResolveUnreachableIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := NewClient(url, time.Second)
	require.NoError(t, err)

	_, err = client.Resolve(context.Background(), brainstorm.SubmissionRequest{Idea: "Idea"})
	var trErr *brainstorm.TransportError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, url+Path, trErr.URL)
}

func TestResolveTimeoutIsTransportError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client, err := NewClient(srv.URL, 20*time.Millisecond)
	require.NoError(t, err)

	_, err = client.Resolve(context.Background(), brainstorm.SubmissionRequest{Idea: "Idea"})
	var trErr *brainstorm.TransportError
	require.ErrorAs(t, err, &trErr)
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ", 0)
	require.Error(t, err)
}

func TestResolveForwardsRequestID(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	ctx := brainstorm.WithRequestID(context.Background(), "req-42")
	_, err = client.Resolve(ctx, brainstorm.SubmissionRequest{Idea: "Idea"})
	require.NoError(t, err)
	assert.Equal(t, "req-42", seen)
}
