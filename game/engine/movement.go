package engine

import "github.com/wricardo/collect-game/game/grid"

// CanMoveTo checks if the player could stand on pos
func (gs *GameState) CanMoveTo(pos grid.Position) bool {
	return passable(gs.Grid, pos)
}

func passable(g *grid.Grid, pos grid.Position) bool {
	return g.InBounds(pos) && g.TileAt(pos) != grid.Wall
}

// Collides reports whether any enemy shares the player's cell
func (gs *GameState) Collides() bool {
	for _, enemy := range gs.Enemies {
		if enemy.Pos == gs.Player.Pos {
			return true
		}
	}
	return false
}

// MovePlayer applies one move command. Rejected moves change nothing.
func (gs *GameState) MovePlayer(dir Direction) MoveOutcome {
	from := gs.Player.Pos
	dx, dy := dir.Delta()
	to := from.Add(dx, dy)

	outcome := MoveOutcome{
		Direction: dir,
		From:      from,
		To:        to,
		Status:    gs.Status,
	}

	if gs.Status != StatusPlaying {
		outcome.Blocked = BlockedNotPlaying
		return outcome
	}
	if dx == 0 && dy == 0 {
		outcome.Blocked = BlockedBoundary
		return outcome
	}
	if !gs.Grid.InBounds(to) {
		outcome.Blocked = BlockedBoundary
		return outcome
	}

	tile := gs.Grid.TileAt(to)
	outcome.Tile = tile.String()
	if tile == grid.Wall {
		outcome.Blocked = BlockedWall
		return outcome
	}

	gs.Player.Pos = to
	gs.Player.Moves++
	outcome.Accepted = true

	if tile == grid.Collectible {
		gs.Grid.SetTile(to, grid.Floor)
		outcome.Collected = true
	}

	// A collision on the exit cell is a loss, never a win
	if gs.Collides() {
		gs.Status = StatusGameOver
	} else if tile == grid.Exit && gs.Grid.Remaining() == 0 {
		gs.Status = StatusWon
	}

	outcome.Status = gs.Status
	return outcome
}

// UpdateEnemies steps every enemy in creation order, then checks for a
// collision with the player
func (gs *GameState) UpdateEnemies(picker Picker) TickOutcome {
	if gs.Status != StatusPlaying {
		return TickOutcome{Status: gs.Status}
	}

	moved := 0
	for _, enemy := range gs.Enemies {
		if enemy.Update(gs.Grid, picker) {
			moved++
		}
	}
	if gs.Collides() {
		gs.Status = StatusGameOver
	}
	return TickOutcome{Ticked: true, EnemiesMoved: moved, Status: gs.Status}
}

// Move attempts to move the player in the specified direction
func (e *GameEngine) Move(dir Direction) MoveOutcome {
	outcome := e.state.MovePlayer(dir)
	if outcome.Accepted {
		e.version++
	}
	return outcome
}

// Tick advances the enemies by one simulation step
func (e *GameEngine) Tick() TickOutcome {
	before := e.state.Status
	outcome := e.state.UpdateEnemies(e.picker)
	if outcome.EnemiesMoved > 0 || outcome.Status != before {
		e.version++
	}
	return outcome
}

// CanMove checks if the player in the snapshot could move in the specified
// direction
func (s *Snapshot) CanMove(dir Direction) bool {
	if s.Status != StatusPlaying || s.Grid == nil {
		return false
	}
	dx, dy := dir.Delta()
	if dx == 0 && dy == 0 {
		return false
	}
	return passable(s.Grid, s.Player.Add(dx, dy))
}

// PossibleMoves returns all directions the player can currently take
func (s *Snapshot) PossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range Directions {
		if s.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}
