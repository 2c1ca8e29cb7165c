package engine

import (
	"fmt"

	"github.com/wricardo/collect-game/game/grid"
	"github.com/wricardo/collect-game/game/level"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Commands
	Move(dir Direction) MoveOutcome
	Tick() TickOutcome
	Reset() error

	// Queries
	Status() Status
	Remaining() int
	Moves() int
	PlayerPosition() grid.Position
	EnemyPositions() []grid.Position
	Version() uint64
	Snapshot() Snapshot
	Config() Config
}

// LoaderFunc loads and validates a level from a path
type LoaderFunc func(path string) (*level.Level, error)

// Option customises a GameEngine
type Option func(*GameEngine)

// WithPicker overrides the random source used by enemies
func WithPicker(p Picker) Option {
	return func(e *GameEngine) {
		e.picker = p
	}
}

// WithLoader overrides how the map file is read
func WithLoader(load LoaderFunc) Option {
	return func(e *GameEngine) {
		e.load = load
	}
}

// GameEngine implements the Engine interface
type GameEngine struct {
	mapPath string
	config  Config
	load    LoaderFunc
	picker  Picker
	state   *GameState
	version uint64
}

// NewEngine loads the map at mapPath and creates a game in the Playing state
func NewEngine(mapPath string, config Config, opts ...Option) (*GameEngine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	e := &GameEngine{
		mapPath: mapPath,
		config:  config,
		load:    level.Load,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.picker == nil {
		e.picker = NewRandPicker(config.Seed)
	}

	state, err := e.initLevel()
	if err != nil {
		return nil, err
	}
	e.state = state
	e.version = 1
	return e, nil
}

// initLevel loads the map and builds a fresh Playing state from it
func (e *GameEngine) initLevel() (*GameState, error) {
	lvl, err := e.load(e.mapPath)
	if err != nil {
		return nil, err
	}
	return NewGameState(lvl, e.config), nil
}

// NewGameState builds a Playing state from a validated level
func NewGameState(lvl *level.Level, config Config) *GameState {
	enemies := make([]*Enemy, 0, len(lvl.EnemyStarts))
	for _, pos := range lvl.EnemyStarts {
		enemies = append(enemies, NewEnemy(pos, config.EnemyStepDelay))
	}
	return &GameState{
		Grid:    lvl.Grid.Clone(),
		Player:  Player{Pos: lvl.PlayerStart},
		Enemies: enemies,
		Status:  StatusPlaying,
	}
}

// Reset reloads the map file and restarts the level. When the map no longer
// loads the current state is kept and the load error is returned.
func (e *GameEngine) Reset() error {
	state, err := e.initLevel()
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	e.state = state
	e.version++
	return nil
}

// MapPath returns the path the level is loaded from
func (e *GameEngine) MapPath() string {
	return e.mapPath
}

// Config returns the tuning values the engine was created with
func (e *GameEngine) Config() Config {
	return e.config
}

// State exposes the live state. Callers must not retain or mutate it.
func (e *GameEngine) State() *GameState {
	return e.state
}

// Status returns the current status
func (e *GameEngine) Status() Status {
	return e.state.Status
}

// Remaining returns the number of collectibles still on the grid
func (e *GameEngine) Remaining() int {
	return e.state.Grid.Remaining()
}

// Moves returns the number of accepted moves since the last reset
func (e *GameEngine) Moves() int {
	return e.state.Player.Moves
}

// PlayerPosition returns the player's cell
func (e *GameEngine) PlayerPosition() grid.Position {
	return e.state.Player.Pos
}

// EnemyPositions returns enemy cells in creation order
func (e *GameEngine) EnemyPositions() []grid.Position {
	positions := make([]grid.Position, len(e.state.Enemies))
	for i, enemy := range e.state.Enemies {
		positions[i] = enemy.Pos
	}
	return positions
}

// Version increases every time the observable state changes
func (e *GameEngine) Version() uint64 {
	return e.version
}

// Snapshot returns a deep copy of the observable state
func (e *GameEngine) Snapshot() Snapshot {
	return Snapshot{
		MapName:   e.mapPath,
		Grid:      e.state.Grid.Clone(),
		Cols:      e.state.Grid.Cols(),
		Rows:      e.state.Grid.Rows(),
		Player:    e.state.Player.Pos,
		Moves:     e.state.Player.Moves,
		Remaining: e.state.Grid.Remaining(),
		Enemies:   e.EnemyPositions(),
		Status:    e.state.Status,
		Version:   e.version,
	}
}

var _ Engine = (*GameEngine)(nil)
