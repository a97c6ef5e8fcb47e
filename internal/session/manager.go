package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quantatsu/equiscope/internal/models"
)

// Session is an isolated, time-bounded context scoping pipeline runs.
// Pipeline runs derive their contexts from Context() so closing the session
// cancels them at their next collaborator call.
type Session struct {
	ID           string
	CreatedAt    time.Time
	LastActivity time.Time

	ttl    time.Duration
	ctx    context.Context
	cancel context.CancelFunc
}

// Context returns the session-scoped context.
func (s *Session) Context() context.Context { return s.ctx }

func (s *Session) expired(now time.Time) bool {
	return now.Sub(s.LastActivity) >= s.ttl
}

// Manager owns the session table. All methods are safe for concurrent use.
// Expired sessions are swept lazily on Create and Get; ids are never reused.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	max      int
	now      func() time.Time
}

// NewManager builds a manager bounded to max concurrent sessions, each
// expiring after ttl of inactivity.
func NewManager(ttl time.Duration, max int) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		max:      max,
		now:      time.Now,
	}
}

// Create opens a new session. It fails with ErrCapacityExceeded when the
// active-session count is already at the configured maximum.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)

	if len(m.sessions) >= m.max {
		return nil, fmt.Errorf("%w: %d active sessions", models.ErrCapacityExceeded, len(m.sessions))
	}

	sctx, cancel := context.WithCancel(ctx)
	s := &Session{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		LastActivity: now,
		ttl:          m.ttl,
		ctx:          sctx,
		cancel:       cancel,
	}
	m.sessions[s.ID] = s

	log.Debug().Str("session_id", s.ID).Msg("session created")
	return s, nil
}

// Get returns the session and refreshes its activity timestamp. An expired
// session is evicted and reported as ErrSessionExpired; it is never reused.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Inspect the requested session before sweeping so an expired target
	// is still distinguishable from a never-known id.
	now := m.now()
	s, ok := m.sessions[id]
	m.sweepLocked(now)

	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrSessionNotFound, id)
	}
	if s.expired(now) {
		return nil, fmt.Errorf("%w: %s", models.ErrSessionExpired, id)
	}
	s.LastActivity = now
	return s, nil
}

// Touch refreshes the activity timestamp. Absent and expired sessions both
// fail with ErrSessionNotFound.
func (m *Manager) Touch(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	s, ok := m.sessions[id]
	if !ok || s.expired(now) {
		if ok {
			m.removeLocked(s)
		}
		return fmt.Errorf("%w: %s", models.ErrSessionNotFound, id)
	}
	s.LastActivity = now
	return nil
}

// Close removes the session and cancels its in-flight pipeline runs.
// Closing an unknown or already-closed session is a no-op.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		m.removeLocked(s)
		log.Debug().Str("session_id", id).Msg("session closed")
	}
}

// Count reports the number of live sessions after sweeping expired ones.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked(m.now())
	return len(m.sessions)
}

func (m *Manager) sweepLocked(now time.Time) {
	for _, s := range m.sessions {
		if s.expired(now) {
			m.removeLocked(s)
		}
	}
}

func (m *Manager) removeLocked(s *Session) {
	s.cancel()
	delete(m.sessions, s.ID)
}
