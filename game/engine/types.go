package engine

import (
	"fmt"
	"strings"

	"github.com/wricardo/collect-game/game/grid"
)

// Status is the game's terminal-state flag
type Status string

const (
	StatusPlaying  Status = "playing"
	StatusGameOver Status = "game_over"
	StatusWon      Status = "won"
)

// Terminal reports whether the status only changes through a reset
func (s Status) Terminal() bool {
	return s == StatusGameOver || s == StatusWon
}

// Direction is one of the four move commands
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every move command
var Directions = []Direction{Up, Down, Left, Right}

// Delta returns the grid offset for the direction
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// ParseDirection accepts up/down/left/right (and the w/a/s/d and
// north/south/west/east spellings), case-insensitively
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u", "w", "north", "n":
		return Up, nil
	case "down", "s", "south":
		return Down, nil
	case "left", "l", "a", "west":
		return Left, nil
	case "right", "r", "d", "east", "e":
		return Right, nil
	}
	return "", fmt.Errorf("invalid direction %q: use up, down, left or right", s)
}

// BlockReason explains why a move command was rejected
type BlockReason string

const (
	BlockedNone       BlockReason = ""
	BlockedBoundary   BlockReason = "boundary"
	BlockedWall       BlockReason = "wall"
	BlockedNotPlaying BlockReason = "not_playing"
)

// Player is the user-controlled entity
type Player struct {
	Pos   grid.Position `json:"pos"`
	Moves int           `json:"moves"`
}

// GameState is the complete mutable simulation state
type GameState struct {
	Grid    *grid.Grid
	Player  Player
	Enemies []*Enemy
	Status  Status
}

// MoveOutcome describes the result of a single move command
type MoveOutcome struct {
	Direction Direction     `json:"direction"`
	From      grid.Position `json:"from"`
	To        grid.Position `json:"to"`
	Accepted  bool          `json:"accepted"`
	Blocked   BlockReason   `json:"blocked,omitempty"`
	Collected bool          `json:"collected,omitempty"`
	Tile      string        `json:"tile,omitempty"`
	Status    Status        `json:"status"`
}

// TickOutcome describes the result of a simulation tick
type TickOutcome struct {
	Ticked       bool   `json:"ticked"`
	EnemiesMoved int    `json:"enemies_moved"`
	Status       Status `json:"status"`
}

// Snapshot is a read-only deep copy of the game state
type Snapshot struct {
	MapName   string          `json:"map_name"`
	Grid      *grid.Grid      `json:"grid"`
	Cols      int             `json:"cols"`
	Rows      int             `json:"rows"`
	Player    grid.Position   `json:"player"`
	Moves     int             `json:"moves"`
	Remaining int             `json:"remaining"`
	Enemies   []grid.Position `json:"enemies"`
	Status    Status          `json:"status"`
	Version   uint64          `json:"version"`
}

// EnemyAt reports whether any enemy in the snapshot occupies pos
func (s *Snapshot) EnemyAt(pos grid.Position) bool {
	for _, e := range s.Enemies {
		if e == pos {
			return true
		}
	}
	return false
}
