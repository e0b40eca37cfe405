package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wricardo/triplanetary/game/engine"
	"github.com/wricardo/triplanetary/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = service.ErrSessionAlreadyExists
	ErrInvalidScenario      = errors.New("session requires a scenario")
)

// maxIDAttempts bounds retries when a generated ID is already taken
const maxIDAttempts = 16

// Manager owns the running games, keyed by lower-cased session ID
type Manager struct {
	sessions map[string]*service.Session
	log      zerolog.Logger
	mu       sync.RWMutex
}

// NewManager returns an empty manager that logs nothing
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
		log:      zerolog.Nop(),
	}
}

// NewManagerWithLogger creates a session manager that logs lifecycle events
func NewManagerWithLogger(log zerolog.Logger) *Manager {
	m := NewManager()
	m.log = log.With().Str("component", "sessions").Logger()
	return m
}

// Create creates a new session with the given ID and a fresh game built from the scenario
func (m *Manager) Create(id string, scenario *engine.Scenario) (*service.Session, error) {
	if scenario == nil {
		return nil, ErrInvalidScenario
	}

	game, err := scenario.NewGame()
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id, err = m.generateUniqueID()
		if err != nil {
			return nil, err
		}
	} else if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	now := time.Now()
	session := &service.Session{
		ID:             id,
		Game:           game,
		Scenario:       scenario,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	m.sessions[strings.ToLower(id)] = session
	m.log.Debug().Str("session", id).Str("scenario", scenario.Name).Msg("session created")

	return snapshot(session), nil
}

// Get looks a session up by ID, ignoring case
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return snapshot(session), nil
}

// GetOrCreate returns the session with id, starting a game from scenario if there is none.
// Concurrent callers with the same id all get the one session.
func (m *Manager) GetOrCreate(id string, scenario *engine.Scenario) (*service.Session, error) {
	if id == "" {
		return m.Create(id, scenario)
	}

	if session, err := m.Get(id); err == nil {
		return session, nil
	}

	if scenario == nil {
		return nil, ErrInvalidScenario
	}
	game, err := scenario.NewGame()
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if existing, exists := m.sessions[key]; exists {
		return snapshot(existing), nil
	}

	now := time.Now()
	session := &service.Session{
		ID:             id,
		Game:           game,
		Scenario:       scenario,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[key] = session
	m.log.Debug().Str("session", id).Str("scenario", scenario.Name).Msg("session created")

	return snapshot(session), nil
}

// List returns the sessions in no particular order
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, snapshot(session))
	}

	return result
}

// Delete drops a session and its game
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	if _, exists := m.sessions[lowerID]; !exists {
		return ErrSessionNotFound
	}

	delete(m.sessions, lowerID)
	m.log.Debug().Str("session", id).Msg("session deleted")
	return nil
}

// UpdateLastAccessed marks a session as used now
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}

	session.LastAccessedAt = time.Now()
	return nil
}

// CleanupExpiredSessions drops sessions idle for longer than maxAge and reports how many went
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for key, sess := range m.sessions {
		if !sess.LastAccessedAt.Before(cutoff) {
			continue
		}
		delete(m.sessions, key)
		removed++
		m.log.Debug().Str("session", sess.ID).Time("last_accessed", sess.LastAccessedAt).Msg("session expired")
	}

	return removed
}

// RunCleanup removes expired sessions every interval until ctx is done
func (m *Manager) RunCleanup(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := m.CleanupExpiredSessions(maxAge); removed > 0 {
				m.log.Info().Int("removed", removed).Dur("max_age", maxAge).Msg("expired sessions removed")
			}
		}
	}
}

// Count is the number of running games
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// snapshot copies the session's fields so callers can read them without the lock.
// The game itself is shared.
func snapshot(s *service.Session) *service.Session {
	cp := *s
	return &cp
}

// generateUniqueID returns a random ID not yet in use. Callers hold the write lock.
func (m *Manager) generateUniqueID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := generateSessionID()
		if !m.sessionExists(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate a free session ID after %d attempts", maxIDAttempts)
}

// generateSessionID returns 4 random hex characters
func generateSessionID() string {
	var b [2]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// sessionExists reports whether id is taken, ignoring case. Callers hold the lock.
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}
