package level

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/collect-game/game/grid"
)

func writeMap(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "map.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write map: %v", err)
	}
	return path
}

func TestLoad_ValidMap(t *testing.T) {
	path := writeMap(t, "11111\n1PCX1\n\n1C0E1\n1X0C1\n11111\n")

	lvl, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load map: %v", err)
	}

	if lvl.Grid.Rows() != 5 || lvl.Grid.Cols() != 5 {
		t.Fatalf("Expected 5x5 grid, got %dx%d", lvl.Grid.Cols(), lvl.Grid.Rows())
	}
	if lvl.Grid.Remaining() != 3 {
		t.Errorf("Expected 3 collectibles, got %d", lvl.Grid.Remaining())
	}
	if lvl.PlayerStart != (grid.Position{X: 1, Y: 1}) {
		t.Errorf("Expected player start (1,1), got %s", lvl.PlayerStart)
	}

	wantEnemies := []grid.Position{{X: 3, Y: 1}, {X: 1, Y: 3}}
	if len(lvl.EnemyStarts) != len(wantEnemies) {
		t.Fatalf("Expected %d enemies, got %d", len(wantEnemies), len(lvl.EnemyStarts))
	}
	for i, want := range wantEnemies {
		if lvl.EnemyStarts[i] != want {
			t.Errorf("Enemy %d: expected %s, got %s", i, want, lvl.EnemyStarts[i])
		}
	}

	// Start markers are stripped from the grid
	if lvl.Grid.TileAt(lvl.PlayerStart) != grid.Floor {
		t.Error("Player start should be floor")
	}
	for _, e := range lvl.EnemyStarts {
		if lvl.Grid.TileAt(e) != grid.Floor {
			t.Errorf("Enemy start %s should be floor", e)
		}
	}
}

func TestParse_RemainingMatchesSource(t *testing.T) {
	sources := []string{
		"PCE",
		"P0000\nCCCCC\nE1X1C",
		"1111\n1PC1\n1CE1\n1111",
		"CPC\r\nCEC\r\n",
	}

	for _, src := range sources {
		lvl, err := Parse("test", []byte(src))
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", src, err)
			continue
		}
		want := strings.Count(src, "C")
		if lvl.Grid.Remaining() != want {
			t.Errorf("Parse(%q): expected remaining %d, got %d", src, want, lvl.Grid.Remaining())
		}
	}
}

func TestLoad_InvalidMaps(t *testing.T) {
	tests := []struct {
		name    string
		content string
		reason  string
	}{
		{"empty", "\n   \n\n", "empty"},
		{"not rectangular", "PCE\nPC\n", "rectangular"},
		{"illegal character", "PCE\n0Z0\n", "invalid map character"},
		{"no player", "0CE\n000\n", "exactly one 'P'"},
		{"two players", "PCE\nP00\n", "exactly one 'P'"},
		{"no collectible", "P0E\n000\n", "collectible"},
		{"no exit", "PC0\n000\n", "exit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl, err := Load(writeMap(t, tt.content))
			if err == nil {
				t.Fatal("Expected error")
			}
			if lvl != nil {
				t.Error("Expected no level on failure")
			}
			if !errors.Is(err, ErrInvalidMap) {
				t.Errorf("Expected ErrInvalidMap, got %v", err)
			}
			var mapErr *MapError
			if !errors.As(err, &mapErr) {
				t.Fatalf("Expected *MapError, got %T", err)
			}
			if !strings.Contains(mapErr.Reason, tt.reason) {
				t.Errorf("Expected reason containing %q, got %q", tt.reason, mapErr.Reason)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")

	_, err := Load(path)
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.Is(err, ErrInvalidMap) {
		t.Errorf("Expected ErrInvalidMap, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected wrapped os.ErrNotExist, got %v", err)
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected 'not found' message, got %q", err.Error())
	}
}

func TestParse_RectangularCheckedBeforeCharacters(t *testing.T) {
	_, err := Parse("test", []byte("PZE\nC0\n"))
	if err == nil || !strings.Contains(err.Error(), "rectangular") {
		t.Errorf("Expected rectangular error first, got %v", err)
	}
}

func TestParse_MultibyteCharacterCountsAsOne(t *testing.T) {
	_, err := Parse("test", []byte("PCé\nPCE\n"))
	if err == nil || !strings.Contains(err.Error(), "invalid map character") {
		t.Errorf("Expected invalid character error, got %v", err)
	}
}

func TestAnalyze(t *testing.T) {
	lvl, err := Parse("test", []byte("P01C\n0E10\n0010"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	warnings := Analyze(lvl)
	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %v", warnings)
	}
	if warnings[0].Pos != (grid.Position{X: 3, Y: 0}) {
		t.Errorf("Expected warning at (3,0), got %s", warnings[0].Pos)
	}
}

func TestAnalyze_UnreachableExit(t *testing.T) {
	lvl, err := Parse("test", []byte("PC1E"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	warnings := Analyze(lvl)
	if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "exit") {
		t.Errorf("Expected single exit warning, got %v", warnings)
	}
}

func TestDistances(t *testing.T) {
	lvl, err := Parse("test", []byte("P01C\n0E10\n0010"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	dist := Distances(lvl.Grid, lvl.PlayerStart)

	tests := []struct {
		pos  grid.Position
		want int
	}{
		{grid.Position{X: 0, Y: 0}, 0},
		{grid.Position{X: 1, Y: 1}, 2},
		{grid.Position{X: 1, Y: 2}, 3},
	}
	for _, tt := range tests {
		if got, ok := dist[tt.pos]; !ok || got != tt.want {
			t.Errorf("Distance to %s = %d (reachable=%v), want %d", tt.pos, got, ok, tt.want)
		}
	}

	if _, ok := dist[grid.Position{X: 3, Y: 0}]; ok {
		t.Error("Walled-off collectible should have no distance")
	}
	if _, ok := dist[grid.Position{X: 2, Y: 0}]; ok {
		t.Error("Walls should have no distance")
	}
}
