package brainstorm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"brainplan/internal/shared/metrics"
	"brainplan/internal/shared/telemetry"
)

// Outcome describes a finished submission cycle.
type Outcome struct {
	SubmissionID string
	SessionID    string
	Mode         Mode
	Request      SubmissionRequest
	Phase        Phase
	Document     *ResultDocument
	Error        *ErrorInfo
	StartedAt    time.Time
	CompletedAt  time.Time
}

// Recorder persists finished cycles. Failures are logged and never affect
// the workflow.
type Recorder interface {
	Record(ctx context.Context, outcome Outcome) error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithMockSource sets the source used when the mode selects mock data.
func WithMockSource(src Source) Option {
	return func(c *Coordinator) { c.mock = src }
}

// WithLiveSource sets the source used for the live backend.
func WithLiveSource(src Source) Option {
	return func(c *Coordinator) { c.live = src }
}

// WithPresenter sets the presenter receiving every command.
func WithPresenter(p Presenter) Option {
	return func(c *Coordinator) { c.presenter = p }
}

// WithRecorder sets the submission history recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Coordinator) { c.recorder = r }
}

// WithSession tags the coordinator with the owning session id.
func WithSession(id string) Option {
	return func(c *Coordinator) { c.session = id }
}

// WithLimits overrides the attachment bounds.
func WithLimits(l Limits) Option {
	return func(c *Coordinator) { c.limits = l.normalized() }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// Coordinator owns one workflow state and runs submission cycles against it.
// At most one cycle is pending at a time.
type Coordinator struct {
	mode      Mode
	mock      Source
	live      Source
	presenter Presenter
	recorder  Recorder
	session   string
	limits    Limits
	now       func() time.Time

	mu    sync.Mutex
	state WorkflowState
}

// NewCoordinator builds a coordinator in the Idle phase. Without WithMockSource
// the mock source is a MockGenerator using DefaultMockDelay.
func NewCoordinator(mode Mode, opts ...Option) *Coordinator {
	c := &Coordinator{
		mode:   mode,
		limits: DefaultLimits(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.mock == nil {
		c.mock = NewMockGenerator(DefaultMockDelay)
	}
	c.state = WorkflowState{Phase: PhaseIdle, UpdatedAt: c.now()}
	return c
}

// Mode returns the mode the coordinator was built with.
func (c *Coordinator) Mode() Mode {
	return c.mode
}

// Session returns the owning session id, if any.
func (c *Coordinator) Session() string {
	return c.session
}

// State returns a snapshot of the workflow state.
func (c *Coordinator) State() WorkflowState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Precheck reports whether req would be accepted by Submit right now,
// without changing state. Callers run it before side effects such as
// archiving attachments. It returns the same *ValidationError or
// ErrSubmissionInFlight that Submit would.
func (c *Coordinator) Precheck(req SubmissionRequest) error {
	if err := req.Normalize().Validate(c.limits); err != nil {
		metrics.IncValidationError()
		return err
	}
	if c.Pending() {
		return ErrSubmissionInFlight
	}
	return nil
}

// Pending reports whether a cycle is in flight.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Phase == PhasePending
}

// Submit runs one submission cycle and returns its final command. Invalid
// input yields a *ValidationError and leaves the state untouched; a submit
// while another cycle is pending yields ErrSubmissionInFlight. A cycle that
// ends in Failed is not an error: the returned command carries the ErrorInfo.
func (c *Coordinator) Submit(ctx context.Context, req SubmissionRequest) (PresentationCommand, error) {
	req = req.Normalize()
	if err := req.Validate(c.limits); err != nil {
		metrics.IncValidationError()
		return PresentationCommand{}, err
	}

	c.mu.Lock()
	if c.state.Phase == PhasePending {
		c.mu.Unlock()
		return PresentationCommand{}, ErrSubmissionInFlight
	}
	from := c.state.Phase
	id := uuid.NewString()
	startedAt := c.now()
	c.state = WorkflowState{
		Phase:        PhasePending,
		SubmissionID: id,
		Idea:         req.Idea,
		UpdatedAt:    startedAt,
	}
	c.mu.Unlock()

	c.logTransition(ctx, id, from, PhasePending)
	c.present(ctx, PresentationCommand{Kind: CommandShowLoading, SubmissionID: id, Idea: req.Idea})

	doc, err := c.resolve(ctx, req)
	completedAt := c.now()

	outcome := Outcome{
		SubmissionID: id,
		SessionID:    c.session,
		Mode:         c.mode,
		Request:      req,
		StartedAt:    startedAt,
		CompletedAt:  completedAt,
	}
	var cmd PresentationCommand
	c.mu.Lock()
	if err != nil {
		info := NewErrorInfo(err, c.mode.BackendBaseURL)
		c.state = WorkflowState{
			Phase:        PhaseFailed,
			SubmissionID: id,
			Idea:         req.Idea,
			Error:        &info,
			UpdatedAt:    completedAt,
		}
		outcome.Phase = PhaseFailed
		outcome.Error = &info
		cmd = PresentationCommand{Kind: CommandShowError, SubmissionID: id, Idea: req.Idea, Error: &info}
	} else {
		rendered := Render(req.Idea, doc)
		c.state = WorkflowState{
			Phase:        PhaseDisplayed,
			SubmissionID: id,
			Idea:         req.Idea,
			Document:     &doc,
			UpdatedAt:    completedAt,
		}
		outcome.Phase = PhaseDisplayed
		outcome.Document = &doc
		cmd = PresentationCommand{Kind: CommandShowResult, SubmissionID: id, Idea: req.Idea, Result: &rendered}
	}
	c.mu.Unlock()

	if err != nil {
		telemetry.Error("brainstorm.failed", map[string]any{
			"request_id":    RequestID(ctx),
			"session_id":    c.session,
			"submission_id": id,
			"mode":          c.mode.Label(),
			"backend_url":   c.mode.BackendBaseURL,
			"error_kind":    string(outcome.Error.Kind),
			"error":         err.Error(),
		})
	}
	c.logTransition(ctx, id, PhasePending, outcome.Phase)
	metrics.ObserveSubmission(c.mode.Label(), string(outcome.Phase), completedAt.Sub(startedAt))
	c.record(ctx, outcome)
	c.present(ctx, cmd)
	return cmd, nil
}

// Reset clears a finished cycle back to Idle. It is refused while a cycle
// is pending.
func (c *Coordinator) Reset() error {
	c.mu.Lock()
	if c.state.Phase == PhasePending {
		c.mu.Unlock()
		return ErrSubmissionInFlight
	}
	from := c.state.Phase
	id := c.state.SubmissionID
	c.state = WorkflowState{Phase: PhaseIdle, UpdatedAt: c.now()}
	c.mu.Unlock()

	if from != PhaseIdle {
		c.logTransition(context.Background(), id, from, PhaseIdle)
	}
	return nil
}

func (c *Coordinator) source() Source {
	if c.mode.UseMock {
		return c.mock
	}
	return c.live
}

func (c *Coordinator) resolve(ctx context.Context, req SubmissionRequest) (doc ResultDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = ResultDocument{}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	src := c.source()
	if src == nil {
		return ResultDocument{}, ErrLiveNotConfigured
	}
	return src.Resolve(ctx, req)
}

func (c *Coordinator) present(ctx context.Context, cmd PresentationCommand) {
	if c.presenter == nil {
		return
	}
	c.presenter.Present(ctx, cmd)
}

func (c *Coordinator) record(ctx context.Context, outcome Outcome) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(context.WithoutCancel(ctx), outcome); err != nil {
		telemetry.Warn("brainstorm.record_failed", map[string]any{
			"request_id":    RequestID(ctx),
			"session_id":    c.session,
			"submission_id": outcome.SubmissionID,
			"error":         err.Error(),
		})
	}
}

func (c *Coordinator) logTransition(ctx context.Context, submissionID string, from, to Phase) {
	telemetry.Info("brainstorm.status", map[string]any{
		"request_id":        RequestID(ctx),
		"session_id":        c.session,
		"submission_id":     submissionID,
		"mode":              c.mode.Label(),
		"status":            string(to),
		"status_transition": transition(from, to),
	})
}
