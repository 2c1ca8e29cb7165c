package engine

import (
	"testing"

	"github.com/wricardo/collect-game/game/grid"
)

func TestEnemy_WaitsForDelay(t *testing.T) {
	g, err := grid.Parse([]string{"00000"})
	if err != nil {
		t.Fatalf("Failed to parse grid: %v", err)
	}
	enemy := NewEnemy(grid.Position{X: 2, Y: 0}, 3)
	picker := NewSequencePicker(pickRight)

	if enemy.Update(g, picker) || enemy.Update(g, picker) {
		t.Fatal("Enemy moved before its delay elapsed")
	}
	if !enemy.Update(g, picker) {
		t.Fatal("Expected enemy to move on the third tick")
	}
	if enemy.Pos != (grid.Position{X: 3, Y: 0}) {
		t.Errorf("Expected enemy at (3,0), got %s", enemy.Pos)
	}
}

func TestEnemy_RejectedStepDoesNotRetry(t *testing.T) {
	g, err := grid.Parse([]string{
		"010",
		"000",
	})
	if err != nil {
		t.Fatalf("Failed to parse grid: %v", err)
	}

	tests := []struct {
		name  string
		start grid.Position
		pick  int
	}{
		{"wall to the right", grid.Position{X: 0, Y: 0}, pickRight},
		{"left edge", grid.Position{X: 0, Y: 0}, pickLeft},
		{"top edge", grid.Position{X: 2, Y: 0}, pickUp},
		{"bottom edge", grid.Position{X: 1, Y: 1}, pickDown},
		{"wall above", grid.Position{X: 1, Y: 1}, pickUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enemy := NewEnemy(tt.start, 1)
			if enemy.Update(g, NewSequencePicker(tt.pick)) {
				t.Error("Expected rejected step to report no movement")
			}
			if enemy.Pos != tt.start {
				t.Errorf("Expected enemy to stay at %s, got %s", tt.start, enemy.Pos)
			}
		})
	}
}

func TestEnemy_NeverEntersWallOrLeavesGrid(t *testing.T) {
	g, err := grid.Parse([]string{
		"0000",
		"0110",
		"0C0E",
		"1100",
	})
	if err != nil {
		t.Fatalf("Failed to parse grid: %v", err)
	}

	picker := NewRandPicker(42)
	enemies := []*Enemy{
		NewEnemy(grid.Position{X: 0, Y: 0}, 1),
		NewEnemy(grid.Position{X: 3, Y: 3}, 2),
	}

	for i := 0; i < 5000; i++ {
		for _, enemy := range enemies {
			enemy.Update(g, picker)
			if !g.InBounds(enemy.Pos) {
				t.Fatalf("Enemy left the grid at %s", enemy.Pos)
			}
			if g.TileAt(enemy.Pos) == grid.Wall {
				t.Fatalf("Enemy entered a wall at %s", enemy.Pos)
			}
		}
	}
}

func TestEnemy_DoesNotChangeTiles(t *testing.T) {
	g, err := grid.Parse([]string{"0C0E"})
	if err != nil {
		t.Fatalf("Failed to parse grid: %v", err)
	}
	enemy := NewEnemy(grid.Position{X: 0, Y: 0}, 1)
	picker := NewSequencePicker(pickRight, pickRight, pickRight)

	for i := 0; i < 3; i++ {
		enemy.Update(g, picker)
	}
	if g.Remaining() != 1 || g.TileAt(grid.Position{X: 1, Y: 0}) != grid.Collectible {
		t.Error("Enemies must not collect items")
	}
	if enemy.Pos != (grid.Position{X: 3, Y: 0}) {
		t.Errorf("Expected enemy on the exit cell, got %s", enemy.Pos)
	}
}

func TestSequencePicker_Wraps(t *testing.T) {
	p := NewSequencePicker(1, 7, -2)

	got := []int{p.Pick(5), p.Pick(5), p.Pick(5), p.Pick(5)}
	want := []int{1, 2, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Pick %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestRandPicker_InRange(t *testing.T) {
	p := NewRandPicker(7)
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		n := p.Pick(5)
		if n < 0 || n >= 5 {
			t.Fatalf("Pick out of range: %d", n)
		}
		seen[n] = true
	}
	if len(seen) != 5 {
		t.Errorf("Expected every candidate to be picked, saw %v", seen)
	}
}
