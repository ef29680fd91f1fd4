package submissions

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultHistorySize bounds the in-memory history.
const DefaultHistorySize = 500

// MemoryRepo keeps the most recent records in memory and is safe for
// concurrent use. The oldest record is evicted once the bound is reached.
type MemoryRepo struct {
	mu        sync.RWMutex
	byID      *lru.Cache[string, Record]
	bySession map[string][]string
}

// NewMemoryRepo constructs a MemoryRepo holding at most size records.
func NewMemoryRepo(size int) (*MemoryRepo, error) {
	if size <= 0 {
		size = DefaultHistorySize
	}
	r := &MemoryRepo{bySession: make(map[string][]string)}
	cache, err := lru.NewWithEvict[string, Record](size, r.onEvict)
	if err != nil {
		return nil, err
	}
	r.byID = cache
	return r, nil
}

// onEvict runs inside Create, which already holds r.mu.
func (r *MemoryRepo) onEvict(id string, rec Record) {
	ids := r.bySession[rec.SessionID]
	for i, candidate := range ids {
		if candidate == id {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(r.bySession, rec.SessionID)
		return
	}
	r.bySession[rec.SessionID] = ids
}

// Create stores the record.
func (r *MemoryRepo) Create(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID.Contains(rec.ID) {
		r.byID.Add(rec.ID, rec)
		return nil
	}
	r.bySession[rec.SessionID] = append(r.bySession[rec.SessionID], rec.ID)
	r.byID.Add(rec.ID, rec)
	return nil
}

// GetByID returns a record by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID.Peek(id)
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// ListBySession returns a session's records newest-first.
func (r *MemoryRepo) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)

	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.bySession[sessionID]
	out := make([]Record, 0, limit)
	skipped := 0
	for i := len(ids) - 1; i >= 0 && len(out) < limit; i-- {
		rec, ok := r.byID.Peek(ids[i])
		if !ok {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
