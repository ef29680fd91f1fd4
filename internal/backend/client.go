// Package backend talks to the remote brainstorm analysis service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"brainplan/internal/brainstorm"
)

const (
	// Path is the analysis endpoint relative to the backend base URL.
	Path = "/api/brainstorm"
	// RoundInfo marks every submission as a first iteration.
	RoundInfo = "Erste Iteration"

	// RequestIDHeader carries the inbound request ID to the backend.
	RequestIDHeader = "X-Request-Id"

	DefaultTimeout = 60 * time.Second

	maxErrorDetail = 512
)

// Request is the JSON body sent to the analysis endpoint.
type Request struct {
	Idea      string `json:"idea"`
	Context   string `json:"context"`
	Focus     string `json:"focus,omitempty"`
	RoundInfo string `json:"round_info"`
}

// NewRequest builds the wire body for a submission. Attachment summaries are
// appended to the context.
func NewRequest(req brainstorm.SubmissionRequest) Request {
	return Request{
		Idea:      req.Idea,
		Context:   req.FullContext(),
		Focus:     string(req.Focus),
		RoundInfo: RoundInfo,
	}
}

// Client implements brainstorm.Source against the live backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a client for baseURL. A non-positive timeout uses
// DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("BACKEND_URL is required for live mode")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Endpoint returns the full analysis URL.
func (c *Client) Endpoint() string {
	return c.baseURL + Path
}

// Resolve posts the submission and decodes the result document. It makes
// exactly one attempt.
func (c *Client) Resolve(ctx context.Context, req brainstorm.SubmissionRequest) (brainstorm.ResultDocument, error) {
	url := c.Endpoint()
	payload, err := json.Marshal(NewRequest(req))
	if err != nil {
		return brainstorm.ResultDocument{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return brainstorm.ResultDocument{}, &brainstorm.TransportError{URL: url, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if id := brainstorm.RequestID(ctx); id != "" {
		httpReq.Header.Set(RequestIDHeader, id)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return brainstorm.ResultDocument{}, &brainstorm.TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return brainstorm.ResultDocument{}, &brainstorm.TransportError{URL: url, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return brainstorm.ResultDocument{}, &brainstorm.ServiceError{
			URL:        url,
			Status:     resp.StatusCode,
			StatusText: statusText(resp),
			Detail:     errorDetail(body),
		}
	}

	var doc brainstorm.ResultDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return brainstorm.ResultDocument{}, &brainstorm.ServiceError{
			URL:        url,
			Status:     resp.StatusCode,
			StatusText: "invalid response body",
			Detail:     fmt.Sprintf("decode: %v", err),
		}
	}
	return doc, nil
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func errorDetail(body []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Error) > 0 {
		var msg string
		if json.Unmarshal(envelope.Error, &msg) == nil {
			return msg
		}
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(envelope.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
	}
	detail := strings.TrimSpace(string(body))
	if len(detail) > maxErrorDetail {
		detail = detail[:maxErrorDetail]
	}
	return detail
}
