package brainstorm

import "context"

// CommandKind tags a PresentationCommand.
type CommandKind string

const (
	CommandShowLoading CommandKind = "show_loading"
	CommandShowResult  CommandKind = "show_result"
	CommandShowError   CommandKind = "show_error"
)

// PresentationCommand tells a presentation surface what to show. Result is
// set for ShowResult, Error for ShowError.
type PresentationCommand struct {
	Kind         CommandKind       `json:"kind"`
	SubmissionID string            `json:"submissionId"`
	Idea         string            `json:"idea"`
	Result       *RenderedDocument `json:"result,omitempty"`
	Error        *ErrorInfo        `json:"error,omitempty"`
}

// Presenter consumes presentation commands.
type Presenter interface {
	Present(ctx context.Context, cmd PresentationCommand)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(ctx context.Context, cmd PresentationCommand)

// Present calls f.
func (f PresenterFunc) Present(ctx context.Context, cmd PresentationCommand) {
	f(ctx, cmd)
}
