package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"brainplan/internal/brainstorm"
)

// Presenter prints presentation commands as plain text.
type Presenter struct {
	Out  io.Writer
	Mode brainstorm.Mode
}

// Present implements brainstorm.Presenter.
func (p *Presenter) Present(_ context.Context, cmd brainstorm.PresentationCommand) {
	switch cmd.Kind {
	case brainstorm.CommandShowLoading:
		fmt.Fprintf(p.Out, "Analyzing %q (%s mode)...\n", cmd.Idea, p.Mode.Label())
	case brainstorm.CommandShowResult:
		if cmd.Result != nil {
			fmt.Fprint(p.Out, FormatDocument(*cmd.Result))
		}
	case brainstorm.CommandShowError:
		if cmd.Error != nil {
			fmt.Fprint(p.Out, FormatError(*cmd.Error))
		}
	}
}

// FormatDocument renders every section and prompt as plain text.
func FormatDocument(doc brainstorm.RenderedDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nBrainstorming Result: %s\n", doc.Idea)
	for _, s := range doc.Sections {
		fmt.Fprintf(&b, "\n== %s ==\n%s\n", s.Title, s.Text())
	}
	b.WriteString("\n== Follow-up Prompts ==\n")
	for _, p := range doc.Prompts {
		fmt.Fprintf(&b, "\n-- %s --\n%s\n", p.Title, p.Text)
	}
	return b.String()
}

// FormatError renders a failed cycle with the backend URL and remediation hint.
func FormatError(info brainstorm.ErrorInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nError: %s\n", info.Message)
	if info.Detail != "" {
		fmt.Fprintf(&b, "Details: %s\n", info.Detail)
	}
	fmt.Fprintf(&b, "Backend: %s\n", info.BackendURL)
	fmt.Fprintf(&b, "%s\n", info.Hint)
	return b.String()
}

var _ brainstorm.Presenter = (*Presenter)(nil)
