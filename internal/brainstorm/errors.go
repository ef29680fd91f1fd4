package brainstorm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	ErrLiveNotConfigured  = errors.New("live backend not configured")
)

// RemediationHint accompanies every failed cycle.
const RemediationHint = "Check that the analysis backend is running and that the backend URL is correct, then submit again."

// ValidationError rejects a submission before it enters the pending state.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// TransportError reports a request that could not be sent or whose response
// could not be received.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceError reports a non-success response from the backend.
type ServiceError struct {
	URL        string
	Status     int
	StatusText string
	Detail     string
}

func (e *ServiceError) Error() string {
	text := e.StatusText
	if text == "" {
		text = http.StatusText(e.Status)
	}
	if text == "" {
		text = fmt.Sprintf("status %d", e.Status)
	}
	return "API error: " + text
}

// ErrorKind classifies a failed cycle.
type ErrorKind string

const (
	ErrorKindTransport ErrorKind = "transport"
	ErrorKindService   ErrorKind = "service"
	ErrorKindInternal  ErrorKind = "internal"
)

// ErrorInfo describes a failed cycle for presentation.
type ErrorInfo struct {
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	Status     int       `json:"status,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	BackendURL string    `json:"backendUrl"`
	Hint       string    `json:"hint"`
}

// NewErrorInfo classifies err for display alongside the configured backend URL.
func NewErrorInfo(err error, backendURL string) ErrorInfo {
	info := ErrorInfo{
		Kind:       ErrorKindInternal,
		BackendURL: backendURL,
		Hint:       RemediationHint,
	}
	if err == nil {
		info.Message = "unknown error"
		return info
	}

	var svcErr *ServiceError
	var trErr *TransportError
	switch {
	case errors.As(err, &svcErr):
		info.Kind = ErrorKindService
		info.Status = svcErr.Status
		info.Detail = svcErr.Detail
		info.Message = svcErr.Error()
	case errors.As(err, &trErr):
		info.Kind = ErrorKindTransport
		info.Message = trErr.Err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		info.Kind = ErrorKindTransport
		info.Message = err.Error()
	default:
		info.Message = err.Error()
	}
	return info
}
