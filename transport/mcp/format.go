package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/collect-game/game/engine"
	"github.com/wricardo/collect-game/game/grid"
	"github.com/wricardo/collect-game/game/service"
)

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nMap: %s\nCreated: %s\n\n%s",
		session.ID, session.MapName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

// renderGrid draws the map with the player as P and enemies as X
func renderGrid(state *service.GameState) string {
	if state.Grid == nil {
		return ""
	}

	var b strings.Builder
	for y := 0; y < state.Grid.Rows(); y++ {
		for x := 0; x < state.Grid.Cols(); x++ {
			pos := grid.Position{X: x, Y: y}
			switch {
			case pos == state.Player:
				b.WriteByte('P')
			case state.EnemyAt(pos):
				b.WriteByte('X')
			default:
				b.WriteByte(state.Grid.TileAt(pos).Char())
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatGameState(state *service.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Position: (%d,%d) | Moves: %d | Remaining: %d | Enemies: %d\n\n",
		state.Player.X, state.Player.Y, state.Moves, state.Remaining, len(state.Enemies))

	// Decision aids
	if state.Threat != "" {
		fmt.Fprintf(&b, "Threat: %s\n", state.Threat)
	}
	if t := state.NearestCollectible; t != nil {
		fmt.Fprintf(&b, "Nearest item: (%d,%d) %d away\n", t.Pos.X, t.Pos.Y, t.Distance)
	}
	if t := state.NearestExit; t != nil {
		fmt.Fprintf(&b, "Nearest exit: (%d,%d) %d away\n", t.Pos.X, t.Pos.Y, t.Distance)
	}
	if len(state.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(state.PossibleMoves, ","))
	}
	if len(state.LocalView3x3) == 3 {
		b.WriteString("Local 3x3:\n")
		for _, row := range state.LocalView3x3 {
			b.WriteString(row + "\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(renderGrid(state))

	switch state.Status {
	case engine.StatusWon:
		b.WriteString("\n🎉 VICTORY!")
	case engine.StatusGameOver:
		b.WriteString("\n💀 GAME OVER")
	}

	if state.Notice != "" {
		fmt.Fprintf(&b, "\nNotice: %s", state.Notice)
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func formatStep(o *engine.MoveOutcome) string {
	if o.Accepted {
		extra := ""
		if o.Collected {
			extra = " collected"
		}
		return fmt.Sprintf("%s (%d,%d)→(%d,%d) tile=%s%s ✓",
			o.Direction, o.From.X, o.From.Y, o.To.X, o.To.Y, o.Tile, extra)
	}
	return fmt.Sprintf("%s (%d,%d)→(%d,%d) blocked=%s ✗",
		o.Direction, o.From.X, o.From.Y, o.To.X, o.To.Y, o.Blocked)
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Move successful\n")
	} else {
		b.WriteString("✗ Move failed\n")
	}

	if result.Outcome != nil {
		fmt.Fprintf(&b, "Step: %s\n", formatStep(result.Outcome))
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "%s\n", result.Message)
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	mapName := ""
	if result.GameState != nil {
		mapName = result.GameState.MapName
	}
	fmt.Fprintf(&b, "Session: %s • Map: %s\n", sessionID, mapName)

	fmt.Fprintf(&b, "Executed %d/%d moves, collected %d\n", result.MovesExecuted, result.RequestedMoves, result.Collected)
	if result.Truncated {
		fmt.Fprintf(&b, "Truncated to the first %d moves\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d: %s (%s)\n", result.StoppedOnMove, result.StoppedReason, result.StopReasonCode)
	}
	fmt.Fprintf(&b, "Path: (%d,%d) → (%d,%d)\n", result.StartPos.X, result.StartPos.Y, result.EndPos.X, result.EndPos.Y)

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for i := range result.Steps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, formatStep(&result.Steps[i]))
		}
	}

	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}
