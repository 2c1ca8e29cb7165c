package level

import (
	"fmt"

	"github.com/wricardo/collect-game/game/grid"
)

// Warning describes a playability problem that does not make a map invalid
type Warning struct {
	Pos     grid.Position
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s at %s", w.Message, w.Pos)
}

// Analyze reports collectibles and exits that cannot be reached from the
// player start by walking through non-wall cells.
// Enemies are ignored since they wander.
func Analyze(lvl *Level) []Warning {
	reachable := Reachable(lvl.Grid, lvl.PlayerStart)

	var warnings []Warning
	exitReachable := false
	for y := 0; y < lvl.Grid.Rows(); y++ {
		for x := 0; x < lvl.Grid.Cols(); x++ {
			pos := grid.Position{X: x, Y: y}
			switch lvl.Grid.TileAt(pos) {
			case grid.Collectible:
				if !reachable[pos] {
					warnings = append(warnings, Warning{Pos: pos, Message: "collectible is unreachable"})
				}
			case grid.Exit:
				if reachable[pos] {
					exitReachable = true
				}
			}
		}
	}
	if !exitReachable {
		warnings = append(warnings, Warning{Pos: lvl.PlayerStart, Message: "no exit is reachable from the player start"})
	}
	for _, e := range lvl.EnemyStarts {
		if e == lvl.PlayerStart {
			warnings = append(warnings, Warning{Pos: e, Message: "enemy starts on the player"})
		}
	}
	return warnings
}

// Reachable returns every cell reachable from start with 4-way steps that
// avoid walls
func Reachable(g *grid.Grid, start grid.Position) map[grid.Position]bool {
	seen := make(map[grid.Position]bool)
	for pos := range Distances(g, start) {
		seen[pos] = true
	}
	return seen
}

// Distances returns the shortest walking distance from start to every
// reachable cell. Walls block; enemies are ignored.
func Distances(g *grid.Grid, start grid.Position) map[grid.Position]int {
	dist := map[grid.Position]int{start: 0}
	queue := []grid.Position{start}
	steps := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, s := range steps {
			next := cur.Add(s[0], s[1])
			if _, ok := dist[next]; ok || !g.InBounds(next) || g.TileAt(next) == grid.Wall {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	return dist
}
