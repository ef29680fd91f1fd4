package brainstorm

import "context"

// Source resolves a submission into a result document.
type Source interface {
	Resolve(ctx context.Context, req SubmissionRequest) (ResultDocument, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, req SubmissionRequest) (ResultDocument, error)

// Resolve calls f.
func (f SourceFunc) Resolve(ctx context.Context, req SubmissionRequest) (ResultDocument, error) {
	return f(ctx, req)
}

// Mode selects where submissions are resolved. It is read once at startup.
type Mode struct {
	UseMock        bool   `json:"useMock"`
	BackendBaseURL string `json:"backendUrl"`
}

// Label names the source the mode selects.
func (m Mode) Label() string {
	if m.UseMock {
		return "mock"
	}
	return "live"
}
