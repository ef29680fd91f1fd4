package submissions

import (
	"context"
	"errors"
	"strings"

	"brainplan/internal/brainstorm"
)

// Service records finished cycles and serves a session's history.
type Service struct {
	Repo Repo
}

// Record implements brainstorm.Recorder.
func (s *Service) Record(ctx context.Context, outcome brainstorm.Outcome) error {
	if outcome.SubmissionID == "" {
		return errors.New("submission id is required")
	}
	return s.Repo.Create(ctx, FromOutcome(outcome))
}

// Get returns a record owned by sessionID. Records of other sessions are
// reported as not found.
func (s *Service) Get(ctx context.Context, sessionID, id string) (Record, error) {
	if strings.TrimSpace(id) == "" {
		return Record{}, ErrNotFound
	}
	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec.SessionID != sessionID {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// List returns a session's records newest-first.
func (s *Service) List(ctx context.Context, sessionID string, limit, offset int) ([]Record, error) {
	if sessionID == "" {
		return nil, errors.New("sessionID is required")
	}
	return s.Repo.ListBySession(ctx, sessionID, limit, offset)
}

var _ brainstorm.Recorder = (*Service)(nil)
