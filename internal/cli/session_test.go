package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainplan/internal/attachments"
	"brainplan/internal/brainstorm"
)

// stubDriver replays scripted answers in order.
type stubDriver struct {
	inputs    []string
	textAreas []string
	selects   []int
	confirms  []bool
	asked     []string
}

func (d *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.inputs) == 0 {
		return "", ErrAborted
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(v); err != nil {
			return "", err
		}
	}
	return v, nil
}

func (d *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.confirms) == 0 {
		return false, nil
	}
	v := d.confirms[0]
	d.confirms = d.confirms[1:]
	return v, nil
}

func (d *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.selects) == 0 {
		return cfg.DefaultIndex, nil
	}
	v := d.selects[0]
	d.selects = d.selects[1:]
	return v, nil
}

func (d *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.textAreas) == 0 {
		return "", nil
	}
	v := d.textAreas[0]
	d.textAreas = d.textAreas[1:]
	return v, nil
}

func newSession(t *testing.T, driver PromptDriver, src brainstorm.Source, mode brainstorm.Mode) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	presenter := &Presenter{Out: &out, Mode: mode}
	coord := brainstorm.NewCoordinator(mode,
		brainstorm.WithMockSource(src),
		brainstorm.WithLiveSource(src),
		brainstorm.WithPresenter(presenter),
		brainstorm.WithSession("terminal"),
	)
	return &Session{
		Driver:      driver,
		Coordinator: coord,
		Intake:      &attachments.Intake{Limits: brainstorm.DefaultLimits()},
		Out:         &out,
	}, &out
}

func TestRunSubmitsAndPrintsResult(t *testing.T) {
	var got brainstorm.SubmissionRequest
	src := brainstorm.SourceFunc(func(_ context.Context, req brainstorm.SubmissionRequest) (brainstorm.ResultDocument, error) {
		got = req
		return brainstorm.Synthesize(req), nil
	})

	notes := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(notes, []byte("# Notes\nKids share toys"), 0o600))

	driver := &stubDriver{
		inputs:    []string{"Toy swap app", notes},
		textAreas: []string{"Parents in one district"},
		selects:   []int{3},
	}
	session, out := newSession(t, driver, src, brainstorm.Mode{UseMock: true})

	require.NoError(t, session.Run(t.Context()))

	assert.Equal(t, "Toy swap app", got.Idea)
	assert.Equal(t, "Parents in one district", got.Context)
	assert.Equal(t, brainstorm.FocusUser, got.Focus)
	require.Len(t, got.AttachmentSummaries, 1)
	assert.Contains(t, got.AttachmentSummaries[0], "Content from notes.md:")

	text := out.String()
	assert.Contains(t, text, `Analyzing "Toy swap app" (mock mode)...`)
	assert.Contains(t, text, "== Functional Requirements ==")
	assert.Contains(t, text, "-- Planner Prompt --")
	assert.Equal(t, brainstorm.PhaseDisplayed, session.Coordinator.State().Phase)
}

func TestRunPrintsErrorWithBackendAndHint(t *testing.T) {
	mode := brainstorm.Mode{BackendBaseURL: "http://localhost:5000"}
	src := brainstorm.SourceFunc(func(context.Context, brainstorm.SubmissionRequest) (brainstorm.ResultDocument, error) {
		return brainstorm.ResultDocument{}, &brainstorm.ServiceError{URL: mode.BackendBaseURL, Status: 503, Detail: "warming up"}
	})
	driver := &stubDriver{inputs: []string{"Weather bot", ""}}
	session, out := newSession(t, driver, src, mode)

	require.NoError(t, session.Run(t.Context()))

	text := out.String()
	assert.Contains(t, text, "Error: API error: Service Unavailable")
	assert.Contains(t, text, "Details: warming up")
	assert.Contains(t, text, "Backend: http://localhost:5000")
	assert.Contains(t, text, brainstorm.RemediationHint)
}

func TestRunLoopsAfterResetAndStopsOnAbort(t *testing.T) {
	calls := 0
	src := brainstorm.SourceFunc(func(_ context.Context, req brainstorm.SubmissionRequest) (brainstorm.ResultDocument, error) {
		calls++
		return brainstorm.Synthesize(req), nil
	})
	driver := &stubDriver{
		inputs:   []string{"First", "", "Second", ""},
		confirms: []bool{true, false},
	}
	session, _ := newSession(t, driver, src, brainstorm.Mode{UseMock: true})

	require.NoError(t, session.Run(t.Context()))
	assert.Equal(t, 2, calls)

	aborted := &stubDriver{}
	session, _ = newSession(t, aborted, src, brainstorm.Mode{UseMock: true})
	assert.ErrorIs(t, session.Run(t.Context()), ErrAborted)
}

func TestRunReportsTooManyAttachments(t *testing.T) {
	src := brainstorm.SourceFunc(func(_ context.Context, req brainstorm.SubmissionRequest) (brainstorm.ResultDocument, error) {
		return brainstorm.Synthesize(req), nil
	})
	driver := &stubDriver{inputs: []string{"Idea", "a.txt,b.txt,c.txt,d.txt,e.txt,f.txt"}}
	session, out := newSession(t, driver, src, brainstorm.Mode{UseMock: true})

	assert.ErrorIs(t, session.Run(t.Context()), ErrAborted)
	assert.Contains(t, out.String(), "At most 5 attachments are allowed")
	assert.Equal(t, brainstorm.PhaseIdle, session.Coordinator.State().Phase)
}

func TestValidateIdea(t *testing.T) {
	assert.Error(t, validateIdea("  "))
	assert.NoError(t, validateIdea("Idea"))
}
