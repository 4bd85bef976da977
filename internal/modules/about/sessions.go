package about

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/halcyonlabs/halcyon/internal/analytics"
	"github.com/halcyonlabs/halcyon/internal/content"
)

const (
	// DefaultIdleTimeout is how long a session survives without client
	// events before the reaper closes it.
	DefaultIdleTimeout = 5 * time.Minute
	// DefaultReapInterval is how often the reaper sweeps.
	DefaultReapInterval = time.Minute
)

// Sessions owns the per-visitor session map and reaps idle sessions so
// abandoned tabs do not leak timers.
type Sessions struct {
	doc       *content.Document
	collector analytics.Collector

	idleTimeout  time.Duration
	reapInterval time.Duration
	sessionCfg   sessionConfig

	mu          sync.Mutex
	sessions    map[string]*Session
	preferences map[string]bool // visitorID -> prefers reduced motion
}

// SessionsOption configures the manager.
type SessionsOption func(*Sessions)

// WithIdleTimeout overrides how long idle sessions live.
func WithIdleTimeout(d time.Duration) SessionsOption {
	return func(s *Sessions) { s.idleTimeout = d }
}

// WithReapInterval overrides the sweep cadence.
func WithReapInterval(d time.Duration) SessionsOption {
	return func(s *Sessions) { s.reapInterval = d }
}

// WithSessionConfig overrides the tracker knobs for every created session.
func WithSessionConfig(cfg sessionConfig) SessionsOption {
	return func(s *Sessions) { s.sessionCfg = cfg }
}

// NewSessions creates the session manager.
func NewSessions(doc *content.Document, collector analytics.Collector, opts ...SessionsOption) *Sessions {
	s := &Sessions{
		doc:          doc,
		collector:    collector,
		idleTimeout:  DefaultIdleTimeout,
		reapInterval: DefaultReapInterval,
		sessions:     make(map[string]*Session),
		preferences:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the idle reaper. It returns immediately and stops when ctx
// is cancelled, closing every remaining session on the way out.
func (s *Sessions) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.reapInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.CloseAll()
				return
			case <-ticker.C:
				s.reap()
			}
		}
	}()
}

// GetOrCreate returns the visitor's session, creating it with the visitor's
// recorded motion preference on first contact.
func (s *Sessions) GetOrCreate(visitorID string, push pushFunc) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[visitorID]; ok {
		return session
	}

	cfg := s.sessionCfg
	cfg.reducedMotion = s.preferences[visitorID]
	session := newSession(visitorID, s.doc, s.collector, push, cfg)
	s.sessions[visitorID] = session

	slog.Debug("created about session", "visitor_id", visitorID, "reduced_motion", cfg.reducedMotion)
	return session
}

// Get returns the visitor's session or nil.
func (s *Sessions) Get(visitorID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[visitorID]
}

// SetReducedMotion records the visitor's preference. If a session already
// exists with a different preference it is rebuilt, because reduced motion is
// a construction-time property of the trackers. Re-reporting the same
// preference is a no-op, so the shim's reconnect replay does not reset a
// live session.
func (s *Sessions) SetReducedMotion(visitorID string, reduced bool) {
	s.mu.Lock()
	if s.preferences[visitorID] == reduced {
		s.mu.Unlock()
		return
	}
	s.preferences[visitorID] = reduced
	session, ok := s.sessions[visitorID]
	if ok {
		delete(s.sessions, visitorID)
	}
	s.mu.Unlock()

	if ok {
		session.Close()
	}
}

// Close tears down one visitor's session.
func (s *Sessions) Close(visitorID string) {
	s.mu.Lock()
	session, ok := s.sessions[visitorID]
	delete(s.sessions, visitorID)
	s.mu.Unlock()

	if ok {
		session.Close()
	}
}

// CloseAll tears down everything. Used at shutdown.
func (s *Sessions) CloseAll() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

// Count returns the number of live sessions.
func (s *Sessions) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) reap() {
	cutoff := time.Now().Add(-s.idleTimeout)

	s.mu.Lock()
	stale := make([]*Session, 0)
	for id, session := range s.sessions {
		if session.LastSeen().Before(cutoff) {
			stale = append(stale, session)
			delete(s.sessions, id)
			slog.Debug("reaping idle about session", "visitor_id", id)
		}
	}
	s.mu.Unlock()

	for _, session := range stale {
		session.Close()
	}
}
