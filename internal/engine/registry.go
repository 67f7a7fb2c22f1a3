package engine

import (
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/leapstack-labs/penguineda/internal/penguins"
)

// DefaultMaxSessions bounds the registry when no limit is configured.
const DefaultMaxSessions = 1024

// Registry holds live sessions keyed by ID. Once full, the least recently
// used session is dropped; its owner gets a fresh default session on the
// next request.
type Registry struct {
	source   []penguins.Record
	sessions *lru.Cache[string, *Session]
}

// NewRegistry creates a registry holding at most size sessions.
func NewRegistry(source []penguins.Record, size int) (*Registry, error) {
	cache, err := lru.NewWithEvict(size, func(_ string, _ *Session) {
		activeSessions.Dec()
		evictedSessions.Inc()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session registry: %w", err)
	}
	return &Registry{source: source, sessions: cache}, nil
}

// Get returns the session for id, creating it when id is empty or unknown.
// The second result reports whether a new session was created; its ID may
// differ from id.
func (r *Registry) Get(id string) (*Session, bool) {
	if id != "" {
		if s, ok := r.sessions.Get(id); ok {
			return s, false
		}
	}
	return r.create(id), true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return r.sessions.Len()
}

func (r *Registry) create(id string) *Session {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	s := NewSession(id, r.source)
	if prev, ok, _ := r.sessions.PeekOrAdd(id, s); ok {
		// Lost a race with another request for the same ID.
		return prev
	}
	activeSessions.Inc()
	return s
}
