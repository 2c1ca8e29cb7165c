package service

import (
	"time"

	"github.com/wricardo/collect-game/game/engine"
	"github.com/wricardo/collect-game/game/grid"
)

// MaxBulkMoves caps the number of moves accepted by one BulkMove call
const MaxBulkMoves = 50

// GameState is the API view of a session's game: the engine snapshot plus
// decision aids for remote players
type GameState struct {
	engine.Snapshot
	Message       string   `json:"message"`
	Notice        string   `json:"notice,omitempty"`
	PossibleMoves []string `json:"possible_moves"`
	LocalView3x3  []string `json:"local_view_3x3,omitempty"`
	Threat        string   `json:"threat,omitempty"`

	NearestCollectible *Target `json:"nearest_collectible,omitempty"`
	NearestExit        *Target `json:"nearest_exit,omitempty"`
}

// Target is a cell of interest and its Manhattan distance from the player
type Target struct {
	Pos      grid.Position `json:"pos"`
	Distance int           `json:"distance"`
}

func newTarget(pos grid.Position, distance int, ok bool) *Target {
	if !ok {
		return nil
	}
	return &Target{Pos: pos, Distance: distance}
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string     `json:"id"`
	MapName        string     `json:"map_name"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccessedAt time.Time  `json:"last_accessed_at"`
	GameState      *GameState `json:"game_state"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool                `json:"success"`
	GameState *GameState          `json:"game_state"`
	Message   string              `json:"message"`
	Events    []GameEvent         `json:"events,omitempty"`
	Outcome   *engine.MoveOutcome `json:"outcome,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	RequestedMoves int                  `json:"requested_moves"`
	MovesExecuted  int                  `json:"moves_executed"`
	Success        bool                 `json:"success"`
	GameState      *GameState           `json:"game_state"`
	Events         []GameEvent          `json:"events"`
	Steps          []engine.MoveOutcome `json:"steps,omitempty"`
	StoppedReason  string               `json:"stopped_reason,omitempty"`
	StopReasonCode string               `json:"stop_reason_code,omitempty"` // blocked_boundary|blocked_wall|invalid_direction|game_over|victory
	StoppedOnMove  int                  `json:"stopped_on_move,omitempty"`  // 1-based
	Truncated      bool                 `json:"truncated,omitempty"`
	Limit          int                  `json:"limit,omitempty"`
	StartPos       grid.Position        `json:"start_pos"`
	EndPos         grid.Position        `json:"end_pos"`
	Collected      int                  `json:"collected"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string        `json:"type"` // "move", "collect", "game_over", "victory", "reset"
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Position  grid.Position `json:"position"`
}

// MapInfo summarises a map file
type MapInfo struct {
	Name         string `json:"name"` // identifier to use for session creation
	Filename     string `json:"filename"`
	Cols         int    `json:"cols"`
	Rows         int    `json:"rows"`
	Collectibles int    `json:"collectibles"`
	Exits        int    `json:"exits"`
	Enemies      int    `json:"enemies"`
}

// MapDetail is a map's full layout plus reachability warnings
type MapDetail struct {
	MapInfo
	Layout      []string        `json:"layout"`
	PlayerStart grid.Position   `json:"player_start"`
	EnemyStarts []grid.Position `json:"enemy_starts"`
	Warnings    []string        `json:"warnings,omitempty"`
}
