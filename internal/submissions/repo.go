package submissions

import "context"

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Repo defines persistence operations for submission records.
type Repo interface {
	Create(ctx context.Context, rec Record) error
	GetByID(ctx context.Context, id string) (Record, error)
	ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]Record, error)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
