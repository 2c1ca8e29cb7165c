package engine

import "github.com/wricardo/collect-game/game/grid"

// Pattern names an enemy movement behaviour
type Pattern string

const (
	// PatternRandomStep stays or steps one cell in a random direction
	PatternRandomStep Pattern = "random_step"
)

// wanderSteps are the candidate offsets, chosen uniformly
var wanderSteps = [5][2]int{
	{0, 0},
	{1, 0},
	{-1, 0},
	{0, 1},
	{0, -1},
}

// Enemy is a wandering hazard. Enemies share no state with each other.
type Enemy struct {
	Pos     grid.Position
	Pattern Pattern
	delay   int
	ticks   int
}

// NewEnemy creates an enemy at pos that attempts a step every delay ticks
func NewEnemy(pos grid.Position, delay int) *Enemy {
	if delay < 1 {
		delay = 1
	}
	return &Enemy{
		Pos:     pos,
		Pattern: PatternRandomStep,
		delay:   delay,
	}
}

// Update advances the step counter and, when it reaches the delay, tries one
// random step. A step off the grid or into a wall leaves the enemy in place
// for this cycle. Returns true when the position changed.
func (e *Enemy) Update(g *grid.Grid, picker Picker) bool {
	e.ticks++
	if e.ticks < e.delay {
		return false
	}
	e.ticks = 0

	step := wanderSteps[picker.Pick(len(wanderSteps))]
	next := e.Pos.Add(step[0], step[1])
	if !g.InBounds(next) || g.TileAt(next) == grid.Wall {
		return false
	}
	moved := next != e.Pos
	e.Pos = next
	return moved
}
