package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/wricardo/collect-game/game/engine"
	"github.com/wricardo/collect-game/game/grid"
	"github.com/wricardo/collect-game/game/level"
	"github.com/wricardo/collect-game/game/loop"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	maps     MapManager
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, maps MapManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		maps:     maps,
	}
}

// CreateSession starts a new session on the named map, or on the default map
// when the name is empty
func (s *gameServiceImpl) CreateSession(ctx context.Context, mapName string) (*SessionInfo, error) {
	if mapName == "" {
		mapName = s.maps.DefaultMap()
	}

	path, err := s.maps.Path(mapName)
	if err != nil {
		if errors.Is(err, ErrMapNotFound) {
			return nil, s.mapNotFound(mapName)
		}
		return nil, fmt.Errorf("failed to resolve map %s: %w", mapName, err)
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", mapName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(sess), nil
}

// mapNotFound builds a helpful error listing the available maps
func (s *gameServiceImpl) mapNotFound(mapName string) error {
	maps, err := s.maps.ListMaps()
	if err == nil && len(maps) > 0 {
		names := make([]string, 0, len(maps))
		for _, m := range maps {
			names = append(names, m.Name)
		}
		return fmt.Errorf("%w: '%s'. Available maps: %v", ErrMapNotFound, mapName, names)
	}
	return fmt.Errorf("%w: '%s'. Use /api/maps to list available maps", ErrMapNotFound, mapName)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession stops the session's loop and removes it
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(sessionID)
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDirection, err)
	}

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	events := []GameEvent{}
	if reset {
		res, err := s.submit(ctx, sess, loop.Reset())
		if err != nil {
			return nil, err
		}
		events = append(events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to initial state",
			Timestamp: time.Now(),
			Position:  res.Snapshot.Player,
		})
	}

	res, err := s.submit(ctx, sess, loop.Move(dir))
	if err != nil {
		return nil, err
	}

	state := buildGameState(res.Snapshot, res.Notice)
	events = append(events, moveEvents(*res.Move, &res.Snapshot)...)

	return &MoveResult{
		Success:   res.Move.Accepted,
		GameState: state,
		Message:   moveMessage(*res.Move, state),
		Events:    events,
		Outcome:   res.Move,
	}, nil
}

// BulkMove executes moves in order, stopping at the first rejected move or
// when the game ends
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Success:        true,
		Events:         make([]GameEvent, 0),
	}

	// The published view lags the loop by up to a frame, so the state
	// comes from command results once one has run
	view := sess.Loop.View()
	snap, notice := view.Snapshot, view.Notice
	if reset {
		res, err := s.submit(ctx, sess, loop.Reset())
		if err != nil {
			return nil, err
		}
		snap, notice = res.Snapshot, res.Notice
		result.Events = append(result.Events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to initial state",
			Timestamp: time.Now(),
			Position:  snap.Player,
		})
	}
	result.StartPos = snap.Player

	// Limit moves to prevent abuse
	if len(moves) > MaxBulkMoves {
		result.Truncated = true
		result.Limit = MaxBulkMoves
		moves = moves[:MaxBulkMoves]
	}

	for i, move := range moves {
		if snap.Status.Terminal() {
			result.StoppedReason = fmt.Sprintf("game already ended (%s)", snap.Status)
			result.StopReasonCode = stopCode(snap.Status)
			result.StoppedOnMove = i + 1
			break
		}

		dir, err := engine.ParseDirection(move)
		if err != nil {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d: %v", i+1, err)
			result.StopReasonCode = "invalid_direction"
			result.StoppedOnMove = i + 1
			break
		}

		res, err := s.submit(ctx, sess, loop.Move(dir))
		if err != nil {
			return nil, err
		}
		snap, notice = res.Snapshot, res.Notice
		outcome := *res.Move
		result.Steps = append(result.Steps, outcome)

		if !outcome.Accepted {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d blocked: %s", i+1, move)
			result.StopReasonCode = "blocked_" + string(outcome.Blocked)
			result.StoppedOnMove = i + 1
			break
		}

		result.MovesExecuted++
		if outcome.Collected {
			result.Collected++
		}
		result.Events = append(result.Events, moveEvents(outcome, &snap)...)
	}

	if result.StopReasonCode == "" && snap.Status.Terminal() {
		result.StopReasonCode = stopCode(snap.Status)
	}

	result.GameState = buildGameState(snap, notice)
	result.EndPos = snap.Player
	return result, nil
}

// Reset reloads the session's map in any state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	res, err := s.submit(ctx, sess, loop.Reset())
	if err != nil {
		return nil, err
	}
	return buildGameState(res.Snapshot, res.Notice), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	view := sess.Loop.View()
	return buildGameState(view.Snapshot, view.Notice), nil
}

// ListMaps returns the maps available for new sessions
func (s *gameServiceImpl) ListMaps(ctx context.Context) ([]*MapInfo, error) {
	return s.maps.ListMaps()
}

// GetMap returns the layout of a map and any reachability warnings
func (s *gameServiceImpl) GetMap(ctx context.Context, name string) (*MapDetail, error) {
	lvl, err := s.maps.LoadMap(name)
	if err != nil {
		return nil, err
	}

	detail := &MapDetail{
		MapInfo:     *NewMapInfo(name, filepath.Base(lvl.Name), lvl),
		Layout:      layout(lvl),
		PlayerStart: lvl.PlayerStart,
		EnemyStarts: lvl.EnemyStarts,
	}
	for _, w := range level.Analyze(lvl) {
		detail.Warnings = append(detail.Warnings, w.String())
	}
	return detail, nil
}

// NewMapInfo summarises a loaded level
func NewMapInfo(name, filename string, lvl *level.Level) *MapInfo {
	return &MapInfo{
		Name:         name,
		Filename:     filename,
		Cols:         lvl.Grid.Cols(),
		Rows:         lvl.Grid.Rows(),
		Collectibles: lvl.Grid.Remaining(),
		Exits:        lvl.Grid.Count(grid.Exit),
		Enemies:      len(lvl.EnemyStarts),
	}
}

func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// submit hands a command to the session loop. A stopped loop means the
// session was deleted while the request was in flight.
func (s *gameServiceImpl) submit(ctx context.Context, sess *Session, cmd loop.Command) (loop.Result, error) {
	res, err := sess.Loop.Submit(ctx, cmd)
	if errors.Is(err, loop.ErrStopped) {
		return res, fmt.Errorf("session %s: %w", sess.ID, ErrSessionNotFound)
	}
	if err != nil {
		return res, fmt.Errorf("%s: %w", cmd.Kind, err)
	}
	return res, nil
}

func sessionInfo(sess *Session) *SessionInfo {
	view := sess.Loop.View()
	return &SessionInfo{
		ID:             sess.ID,
		MapName:        sess.MapName,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt(),
		GameState:      buildGameState(view.Snapshot, view.Notice),
	}
}

// buildGameState enriches a snapshot with decision aids
func buildGameState(snap engine.Snapshot, notice string) *GameState {
	state := &GameState{
		Snapshot:      snap,
		Notice:        notice,
		PossibleMoves: possibleMoves(&snap),
		LocalView3x3:  buildLocal3x3(&snap),
		Threat:        riskCode(engine.AnalyzeThreat(&snap)),
	}
	if snap.Grid != nil {
		state.NearestCollectible = newTarget(engine.NearestCollectible(&snap))
		state.NearestExit = newTarget(engine.NearestExit(&snap))
	}
	state.Message = statusMessage(&snap)
	return state
}

func statusMessage(snap *engine.Snapshot) string {
	switch snap.Status {
	case engine.StatusGameOver:
		return "GAME OVER: caught by an enemy. Reset to try again."
	case engine.StatusWon:
		return fmt.Sprintf("YOU WIN in %d moves!", snap.Moves)
	}
	if snap.Remaining == 0 {
		return "All items collected. Head for the exit!"
	}
	return fmt.Sprintf("Collect %d more item(s), then reach the exit", snap.Remaining)
}

func moveMessage(outcome engine.MoveOutcome, state *GameState) string {
	switch outcome.Blocked {
	case engine.BlockedWall:
		return fmt.Sprintf("Blocked by a wall at %s", outcome.To)
	case engine.BlockedBoundary:
		return fmt.Sprintf("Cannot move %s: edge of the map", outcome.Direction)
	case engine.BlockedNotPlaying:
		return "The game has ended. Reset to play again."
	}
	return state.Message
}

// moveEvents generates events from an accepted move
func moveEvents(outcome engine.MoveOutcome, snap *engine.Snapshot) []GameEvent {
	if !outcome.Accepted {
		return nil
	}
	now := time.Now()

	events := []GameEvent{{
		Type:      "move",
		Message:   fmt.Sprintf("Moved %s to %s", outcome.Direction, outcome.To),
		Timestamp: now,
		Position:  outcome.To,
	}}
	if outcome.Collected {
		events = append(events, GameEvent{
			Type:      "collect",
			Message:   fmt.Sprintf("Item collected! %d remaining", snap.Remaining),
			Timestamp: now,
			Position:  outcome.To,
		})
	}
	switch outcome.Status {
	case engine.StatusGameOver:
		events = append(events, GameEvent{
			Type:      "game_over",
			Message:   "Caught by an enemy",
			Timestamp: now,
			Position:  outcome.To,
		})
	case engine.StatusWon:
		events = append(events, GameEvent{
			Type:      "victory",
			Message:   "Victory! All items collected and exit reached",
			Timestamp: now,
			Position:  outcome.To,
		})
	}
	return events
}

func stopCode(status engine.Status) string {
	if status == engine.StatusWon {
		return "victory"
	}
	return "game_over"
}

func possibleMoves(snap *engine.Snapshot) []string {
	moves := []string{}
	for _, dir := range snap.PossibleMoves() {
		moves = append(moves, string(dir))
	}
	return moves
}

// buildLocal3x3 renders the cells around the player: T for the player,
// X for an enemy, B for off-map, otherwise the map character
func buildLocal3x3(snap *engine.Snapshot) []string {
	if snap.Grid == nil {
		return nil
	}
	lines := make([]string, 0, 3)
	for dy := -1; dy <= 1; dy++ {
		var row strings.Builder
		for dx := -1; dx <= 1; dx++ {
			pos := snap.Player.Add(dx, dy)
			switch {
			case dx == 0 && dy == 0:
				row.WriteString("T")
			case !snap.Grid.InBounds(pos):
				row.WriteString("B")
			case snap.EnemyAt(pos):
				row.WriteString("X")
			default:
				row.WriteByte(snap.Grid.TileAt(pos).Char())
			}
		}
		lines = append(lines, row.String())
	}
	return lines
}

func layout(lvl *level.Level) []string {
	rows := lvl.Grid.Lines()
	out := make([]string, len(rows))
	for y, line := range rows {
		b := []byte(line)
		for _, pos := range lvl.EnemyStarts {
			if pos.Y == y {
				b[pos.X] = level.CharEnemy
			}
		}
		if lvl.PlayerStart.Y == y {
			b[lvl.PlayerStart.X] = level.CharPlayer
		}
		out[y] = string(b)
	}
	return out
}

func riskCode(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "critical"):
		return "CRITICAL"
	case strings.Contains(t, "danger"):
		return "DANGER"
	case strings.Contains(t, "caution"):
		return "CAUTION"
	case strings.Contains(t, "safe"):
		return "SAFE"
	default:
		return "UNKNOWN"
	}
}
