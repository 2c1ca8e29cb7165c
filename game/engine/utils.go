package engine

import "github.com/wricardo/collect-game/game/grid"

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to grid.Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// NearestCollectible finds the closest remaining collectible and returns its position and distance
func NearestCollectible(snap *Snapshot) (grid.Position, int, bool) {
	return nearest(snap, grid.Collectible)
}

// NearestExit finds the closest exit and returns its position and distance
func NearestExit(snap *Snapshot) (grid.Position, int, bool) {
	return nearest(snap, grid.Exit)
}

func nearest(snap *Snapshot, want grid.Symbol) (grid.Position, int, bool) {
	minDistance := -1
	var nearestPos grid.Position
	found := false

	for y := 0; y < snap.Rows; y++ {
		for x := 0; x < snap.Cols; x++ {
			pos := grid.Position{X: x, Y: y}
			if snap.Grid.TileAt(pos) != want {
				continue
			}
			distance := ManhattanDistance(snap.Player, pos)
			if minDistance == -1 || distance < minDistance {
				minDistance = distance
				nearestPos = pos
				found = true
			}
		}
	}

	return nearestPos, minDistance, found
}

// NearestEnemyDistance returns the distance to the closest enemy, or -1 when there are none
func NearestEnemyDistance(snap *Snapshot) int {
	minDistance := -1
	for _, e := range snap.Enemies {
		d := ManhattanDistance(snap.Player, e)
		if minDistance == -1 || d < minDistance {
			minDistance = d
		}
	}
	return minDistance
}

// AnalyzeThreat assesses danger based on how close the nearest enemy is
func AnalyzeThreat(snap *Snapshot) string {
	switch d := NearestEnemyDistance(snap); {
	case d < 0:
		return "SAFE: No enemies on this map"
	case d == 0:
		return "CRITICAL: Caught by an enemy!"
	case d == 1:
		return "DANGER: Enemy adjacent, it may step onto you"
	case d <= 3:
		return "CAUTION: Enemy nearby"
	default:
		return "SAFE: No enemy close"
	}
}
