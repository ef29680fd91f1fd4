package brainstorm

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSessionCacheSize bounds the number of live coordinators.
const DefaultSessionCacheSize = 1024

// Sessions maps session ids to coordinators, evicting the least recently
// used session once the registry is full. A coordinator evicted while its
// cycle is pending is parked until the session is seen again, so a
// session never runs two cycles at once.
type Sessions struct {
	mu      sync.Mutex
	cache   *lru.Cache[string, *Coordinator]
	parked  map[string]*Coordinator
	factory func(sessionID string) *Coordinator
}

// NewSessions builds a registry creating coordinators with factory.
func NewSessions(size int, factory func(sessionID string) *Coordinator) (*Sessions, error) {
	if size <= 0 {
		size = DefaultSessionCacheSize
	}
	s := &Sessions{parked: make(map[string]*Coordinator), factory: factory}
	cache, err := lru.NewWithEvict[string, *Coordinator](size, s.onEvict)
	if err != nil {
		return nil, err
	}
	s.cache = cache
	return s, nil
}

// onEvict runs inside cache.Add, which is only called with s.mu held.
func (s *Sessions) onEvict(sessionID string, c *Coordinator) {
	if c.Pending() {
		s.parked[sessionID] = c
	}
}

// Get returns the coordinator for sessionID, creating it on first use.
func (s *Sessions) Get(sessionID string) *Coordinator {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneParked()
	if c, ok := s.cache.Get(sessionID); ok {
		return c
	}
	c, ok := s.parked[sessionID]
	if ok {
		delete(s.parked, sessionID)
	} else {
		c = s.factory(sessionID)
	}
	s.cache.Add(sessionID, c)
	return c
}

// Peek returns the coordinator for sessionID without creating or touching it.
func (s *Sessions) Peek(sessionID string) (*Coordinator, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cache.Peek(sessionID); ok {
		return c, true
	}
	c, ok := s.parked[sessionID]
	return c, ok
}

// Len reports how many sessions are held, parked ones included.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len() + len(s.parked)
}

// pruneParked drops parked coordinators whose cycle has finished.
func (s *Sessions) pruneParked() {
	for id, c := range s.parked {
		if !c.Pending() {
			delete(s.parked, id)
		}
	}
}
