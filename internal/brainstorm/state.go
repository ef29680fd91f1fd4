package brainstorm

import "time"

// Phase is the coarse position of the submission workflow.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePending   Phase = "pending"
	PhaseDisplayed Phase = "displayed"
	PhaseFailed    Phase = "failed"
)

// Terminal reports whether the phase ends a submission cycle.
func (p Phase) Terminal() bool {
	return p == PhaseDisplayed || p == PhaseFailed
}

// WorkflowState is a snapshot of a coordinator's state. Document is set only
// when displayed, Error only when failed.
type WorkflowState struct {
	Phase        Phase           `json:"phase"`
	SubmissionID string          `json:"submissionId,omitempty"`
	Idea         string          `json:"idea,omitempty"`
	Document     *ResultDocument `json:"document,omitempty"`
	Error        *ErrorInfo      `json:"error,omitempty"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func transition(from, to Phase) string {
	return string(from) + "->" + string(to)
}
