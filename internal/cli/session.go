package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"brainplan/internal/attachments"
	"brainplan/internal/brainstorm"
)

// Session runs the prompt, submit and display loop for one terminal user.
type Session struct {
	Driver      PromptDriver
	Coordinator *brainstorm.Coordinator
	Intake      *attachments.Intake
	Out         io.Writer
}

// Run loops until the user declines another round or aborts.
func (s *Session) Run(ctx context.Context) error {
	for {
		req, uploads, err := s.ask(ctx)
		if err != nil {
			return err
		}

		if len(uploads) > 0 && s.Intake != nil {
			summaries, err := s.Intake.Summarize(ctx, s.Coordinator.Session(), uploads)
			if err != nil {
				if !s.reportValidation(err) {
					return err
				}
				continue
			}
			req.AttachmentSummaries = summaries
		}

		if _, err := s.Coordinator.Submit(ctx, req); err != nil {
			if !s.reportValidation(err) {
				return err
			}
			continue
		}

		again, err := s.Driver.Confirm(ctx, ConfirmConfig{Message: "Brainstorm another idea?"})
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
		if err := s.Coordinator.Reset(); err != nil {
			return err
		}
	}
}

func (s *Session) ask(ctx context.Context) (brainstorm.SubmissionRequest, []attachments.Upload, error) {
	idea, err := s.Driver.Input(ctx, InputConfig{
		Message:   "Idea:",
		Help:      "Describe the product or feature you want to explore.",
		Validator: validateIdea,
	})
	if err != nil {
		return brainstorm.SubmissionRequest{}, nil, err
	}

	extra, err := s.Driver.TextArea(ctx, TextAreaConfig{
		Message: "Context (optional):",
		Help:    "Constraints, audience or background the analysis should consider.",
	})
	if err != nil {
		return brainstorm.SubmissionRequest{}, nil, err
	}

	options := make([]string, len(brainstorm.Foci))
	for i, f := range brainstorm.Foci {
		options[i] = string(f)
	}
	idx, err := s.Driver.Select(ctx, SelectConfig{Message: "Focus:", Options: options})
	if err != nil {
		return brainstorm.SubmissionRequest{}, nil, err
	}
	focus := brainstorm.FocusGeneral
	if idx >= 0 && idx < len(brainstorm.Foci) {
		focus = brainstorm.Foci[idx]
	}

	paths, err := s.Driver.Input(ctx, InputConfig{
		Message: "Attachment paths (comma-separated, optional):",
	})
	if err != nil {
		return brainstorm.SubmissionRequest{}, nil, err
	}

	req := brainstorm.SubmissionRequest{Idea: idea, Context: extra, Focus: focus}
	return req, uploadsFromPaths(paths), nil
}

// reportValidation prints validation and busy errors and reports whether the
// loop may continue.
func (s *Session) reportValidation(err error) bool {
	var vErr *brainstorm.ValidationError
	switch {
	case errors.As(err, &vErr):
		fmt.Fprintln(s.Out, vErr.Message)
		return true
	case errors.Is(err, brainstorm.ErrSubmissionInFlight):
		fmt.Fprintln(s.Out, "A submission is still pending.")
		return true
	}
	return false
}

func validateIdea(idea string) error {
	if strings.TrimSpace(idea) == "" {
		return errors.New("Please enter an idea")
	}
	return nil
}

func uploadsFromPaths(raw string) []attachments.Upload {
	var uploads []attachments.Upload
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			uploads = append(uploads, attachments.FromPath(p))
		}
	}
	return uploads
}
