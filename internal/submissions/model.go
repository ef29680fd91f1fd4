package submissions

import (
	"time"

	"brainplan/internal/brainstorm"
)

const (
	StatusDisplayed = string(brainstorm.PhaseDisplayed)
	StatusFailed    = string(brainstorm.PhaseFailed)
)

// Record is one finished submission cycle kept in the history.
type Record struct {
	ID              string                     `json:"id"`
	SessionID       string                     `json:"sessionId"`
	Idea            string                     `json:"idea"`
	Context         string                     `json:"context,omitempty"`
	Focus           string                     `json:"focus"`
	Mode            string                     `json:"mode"`
	Status          string                     `json:"status"`
	AttachmentCount int                        `json:"attachmentCount"`
	BackendURL      string                     `json:"backendUrl,omitempty"`
	ErrorKind       string                     `json:"errorKind,omitempty"`
	ErrorMessage    *string                    `json:"errorMessage,omitempty"`
	Result          *brainstorm.ResultDocument `json:"result,omitempty"`
	CreatedAt       time.Time                  `json:"createdAt"`
	CompletedAt     time.Time                  `json:"completedAt"`
}

// FromOutcome maps a finished cycle to a history record.
func FromOutcome(o brainstorm.Outcome) Record {
	rec := Record{
		ID:              o.SubmissionID,
		SessionID:       o.SessionID,
		Idea:            o.Request.Idea,
		Context:         o.Request.Context,
		Focus:           string(o.Request.Focus),
		Mode:            o.Mode.Label(),
		Status:          string(o.Phase),
		AttachmentCount: len(o.Request.AttachmentSummaries),
		BackendURL:      o.Mode.BackendBaseURL,
		Result:          o.Document,
		CreatedAt:       o.StartedAt.UTC(),
		CompletedAt:     o.CompletedAt.UTC(),
	}
	if o.Error != nil {
		rec.ErrorKind = string(o.Error.Kind)
		msg := o.Error.Message
		rec.ErrorMessage = &msg
	}
	return rec
}
