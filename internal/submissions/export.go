package submissions

import (
	"fmt"
	"strings"
	"time"

	"brainplan/internal/brainstorm"
)

// Export renders a record as a markdown report.
func Export(rec Record) string {
	var b strings.Builder
	b.WriteString("# Brainstorming Result\n\n")
	fmt.Fprintf(&b, "**Idea:** %s\n\n", rec.Idea)
	if rec.Context != "" {
		fmt.Fprintf(&b, "**Context:** %s\n\n", rec.Context)
	}
	fmt.Fprintf(&b, "**Focus:** %s | **Mode:** %s | **Submitted:** %s\n\n",
		rec.Focus, rec.Mode, rec.CreatedAt.UTC().Format(time.RFC3339))

	if rec.Status == StatusFailed {
		b.WriteString("## Error\n")
		if rec.ErrorMessage != nil {
			b.WriteString(*rec.ErrorMessage)
			b.WriteString("\n")
		}
		if rec.BackendURL != "" {
			fmt.Fprintf(&b, "\nBackend: %s\n", rec.BackendURL)
		}
		return b.String()
	}

	var doc brainstorm.ResultDocument
	if rec.Result != nil {
		doc = *rec.Result
	}
	rendered := brainstorm.Render(rec.Idea, doc)
	for i, section := range rendered.Sections {
		fmt.Fprintf(&b, "## %d. %s\n%s\n\n", i+1, section.Title, section.Text())
	}
	fmt.Fprintf(&b, "## %d. Follow-up Prompts\n", len(rendered.Sections)+1)
	for _, prompt := range rendered.Prompts {
		fmt.Fprintf(&b, "### %s\n%s\n\n", prompt.Title, prompt.Text)
	}
	return b.String()
}
