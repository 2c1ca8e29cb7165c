package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/collect-game/game/engine"
	"github.com/wricardo/collect-game/game/loop"
	"github.com/wricardo/collect-game/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Observer receives every state change of every session. It runs on the
// session's loop goroutine and must not block.
type Observer func(sessionID string, view loop.View)

// Option customises a Manager
type Option func(*Manager)

// WithObserver registers fn to be notified of session state changes
func WithObserver(fn Observer) Option {
	return func(m *Manager) {
		m.observer = fn
	}
}

// WithPickerFactory gives each new session's enemies a picker from fn
func WithPickerFactory(fn func() engine.Picker) Option {
	return func(m *Manager) {
		m.pickers = fn
	}
}

// entry is a registered session and the handle to stop its loop
type entry struct {
	session *service.Session
	cancel  context.CancelFunc
	done    chan struct{}
}

func (e *entry) stop() {
	e.cancel()
	<-e.done
}

// Manager handles game session lifecycle
type Manager struct {
	config   engine.Config
	sessions map[string]*entry
	observer Observer
	pickers  func() engine.Picker
	mu       sync.RWMutex
}

// NewManager creates a new session manager whose engines use config
func NewManager(config engine.Config, opts ...Option) *Manager {
	m := &Manager{
		config:   config,
		sessions: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create loads mapPath into a new engine and starts its loop
func (m *Manager) Create(id, mapName, mapPath string) (*service.Session, error) {
	var engineOpts []engine.Option
	if m.pickers != nil {
		engineOpts = append(engineOpts, engine.WithPicker(m.pickers()))
	}
	eng, err := engine.NewEngine(mapPath, m.config, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.generateSessionID()
		for m.sessionExists(id) {
			id = m.generateSessionID()
		}
	} else if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	var loopOpts []loop.Option
	if m.observer != nil {
		observer, sessionID := m.observer, id
		loopOpts = append(loopOpts, loop.WithObserver(func(v loop.View) {
			observer(sessionID, v)
		}))
	}
	l := loop.New(eng, loopOpts...)

	sess := service.NewSession(id, mapName, l, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	e := &entry{session: sess, cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(e.done)
		if err := l.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Session %s loop stopped: %v", sess.ID, err)
		}
	}()

	m.sessions[strings.ToLower(id)] = e
	return sess, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return e.session, nil
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, e := range m.sessions {
		result = append(result, e.session)
	}
	return result
}

// Delete removes a session and waits for its loop to stop
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	lowerID := strings.ToLower(id)
	e, exists := m.sessions[lowerID]
	if exists {
		delete(m.sessions, lowerID)
	}
	m.mu.Unlock()

	if !exists {
		return ErrSessionNotFound
	}
	e.stop()
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}
	e.session.Touch(time.Now())
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	var expired []*entry
	for id, e := range m.sessions {
		if e.session.LastAccessedAt().Before(cutoff) {
			delete(m.sessions, id)
			expired = append(expired, e)
		}
	}
	m.mu.Unlock()

	for _, e := range expired {
		e.stop()
	}
	return len(expired)
}

// Close stops every session loop
func (m *Manager) Close() {
	m.mu.Lock()
	entries := m.sessions
	m.sessions = make(map[string]*entry)
	m.mu.Unlock()

	for _, e := range entries {
		e.stop()
	}
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID generates a random 4-character session ID
func (m *Manager) generateSessionID() string {
	// Generate 2 random bytes (4 hex characters)
	bytes := make([]byte, 2)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}

var _ service.SessionManager = (*Manager)(nil)
