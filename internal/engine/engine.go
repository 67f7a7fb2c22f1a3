// Package engine owns the source dataset and turns per-session selections
// into filtered views for the displays.
package engine

import (
	"log/slog"

	"github.com/leapstack-labs/penguineda/internal/penguins"
)

// Engine holds the immutable source dataset and the live sessions.
type Engine struct {
	source   []penguins.Record
	sessions *Registry
	logger   *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Source is the dataset loaded at start. The engine keeps it for the
	// life of the process and never modifies it.
	Source []penguins.Record
	// MaxSessions bounds the session registry (DefaultMaxSessions if zero).
	MaxSessions int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine over cfg.Source.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	size := cfg.MaxSessions
	if size == 0 {
		size = DefaultMaxSessions
	}
	reg, err := NewRegistry(cfg.Source, size)
	if err != nil {
		return nil, err
	}

	logger.Debug("engine ready",
		slog.Int("records", len(cfg.Source)),
		slog.Int("max_sessions", size),
	)

	return &Engine{
		source:   cfg.Source,
		sessions: reg,
		logger:   logger,
	}, nil
}

// Source returns the full dataset. Callers must not modify it.
func (e *Engine) Source() []penguins.Record {
	return e.source
}

// Session returns the session for id, creating a new one when needed.
func (e *Engine) Session(id string) (*Session, bool) {
	s, created := e.sessions.Get(id)
	if created {
		e.logger.Debug("session created", slog.String("session", s.ID))
	}
	return s, created
}

// Sessions returns the session registry.
func (e *Engine) Sessions() *Registry {
	return e.sessions
}
