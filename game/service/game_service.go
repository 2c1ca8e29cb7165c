package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/wricardo/collect-game/game/level"
	"github.com/wricardo/collect-game/game/loop"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrMapNotFound      = errors.New("map not found")
	ErrInvalidDirection = errors.New("invalid direction")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, mapName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*GameState, error)

	// Maps
	ListMaps(ctx context.Context) ([]*MapInfo, error)
	GetMap(ctx context.Context, name string) (*MapDetail, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, mapName, mapPath string) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// MapManager resolves map names to files in the maps directory
type MapManager interface {
	LoadMap(name string) (*level.Level, error)
	Path(name string) (string, error)
	ListMaps() ([]*MapInfo, error)
	DefaultMap() string
}

// Session represents an active game session. Its loop runs on its own
// goroutine; everything else talks to it through Submit and View.
type Session struct {
	ID        string
	MapName   string
	Loop      *loop.Loop
	CreatedAt time.Time

	// unix nanoseconds, read and written from request goroutines
	lastAccessed atomic.Int64
}

// NewSession returns a session created and last accessed at now
func NewSession(id, mapName string, l *loop.Loop, now time.Time) *Session {
	sess := &Session{ID: id, MapName: mapName, Loop: l, CreatedAt: now}
	sess.Touch(now)
	return sess
}

// Touch records an access at t
func (s *Session) Touch(t time.Time) {
	s.lastAccessed.Store(t.UnixNano())
}

// LastAccessedAt returns the time of the latest access
func (s *Session) LastAccessedAt() time.Time {
	return time.Unix(0, s.lastAccessed.Load())
}
