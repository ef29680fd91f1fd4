package brainstorm

import (
	"fmt"
	"strings"
)

// Focus is an optional category tag steering the analysis.
type Focus string

const (
	FocusGeneral   Focus = "general"
	FocusTechnical Focus = "technical"
	FocusBusiness  Focus = "business"
	FocusUser      Focus = "user"
)

// Foci lists the focus options offered by the form.
var Foci = []Focus{FocusGeneral, FocusTechnical, FocusBusiness, FocusUser}

const (
	DefaultMaxAttachments     = 5
	DefaultMaxAttachmentBytes = 64 << 10
)

// Limits bounds the attachment summaries carried by one submission.
type Limits struct {
	MaxAttachments     int
	MaxAttachmentBytes int
}

// DefaultLimits returns the default attachment bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxAttachments:     DefaultMaxAttachments,
		MaxAttachmentBytes: DefaultMaxAttachmentBytes,
	}
}

func (l Limits) normalized() Limits {
	if l.MaxAttachments <= 0 {
		l.MaxAttachments = DefaultMaxAttachments
	}
	if l.MaxAttachmentBytes <= 0 {
		l.MaxAttachmentBytes = DefaultMaxAttachmentBytes
	}
	return l
}

// SubmissionRequest is the user's input for one submission cycle.
type SubmissionRequest struct {
	Idea                string   `json:"idea"`
	Context             string   `json:"context"`
	Focus               Focus    `json:"focus"`
	AttachmentSummaries []string `json:"attachments,omitempty"`
}

// Normalize trims the text inputs and defaults the focus.
func (r SubmissionRequest) Normalize() SubmissionRequest {
	r.Idea = strings.TrimSpace(r.Idea)
	r.Context = strings.TrimSpace(r.Context)
	r.Focus = Focus(strings.ToLower(strings.TrimSpace(string(r.Focus))))
	if r.Focus == "" {
		r.Focus = FocusGeneral
	}
	return r
}

// Validate checks a normalized request against limits.
func (r SubmissionRequest) Validate(limits Limits) error {
	limits = limits.normalized()
	if r.Idea == "" {
		return &ValidationError{Field: "idea", Message: "Please enter an idea"}
	}
	if len(r.AttachmentSummaries) > limits.MaxAttachments {
		return &ValidationError{
			Field:   "attachments",
			Message: fmt.Sprintf("At most %d attachments are allowed", limits.MaxAttachments),
		}
	}
	for i, summary := range r.AttachmentSummaries {
		if len(summary) > limits.MaxAttachmentBytes {
			return &ValidationError{
				Field:   "attachments",
				Message: fmt.Sprintf("Attachment %d exceeds %d bytes", i+1, limits.MaxAttachmentBytes),
			}
		}
	}
	return nil
}

// FullContext joins the context with the attachment summaries, separated by
// blank lines, in attachment order.
func (r SubmissionRequest) FullContext() string {
	parts := make([]string, 0, len(r.AttachmentSummaries)+1)
	if r.Context != "" {
		parts = append(parts, r.Context)
	}
	for _, s := range r.AttachmentSummaries {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}
