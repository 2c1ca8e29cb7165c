package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/collect-game/game/config"
	"github.com/wricardo/collect-game/game/grid"
	"github.com/wricardo/collect-game/game/level"
)

var errInvalidMaps = errors.New("some maps have errors")

// ValidationResult captures the outcome of validating a single map file.
// Warnings never make a map invalid.
type ValidationResult struct {
	File     string
	Valid    bool
	Error    string
	Warnings []string
	Info     []string
}

// validateMap loads one map file and runs the reachability analysis on it
func validateMap(path string) ValidationResult {
	result := ValidationResult{File: filepath.Base(path)}

	lvl, err := level.Load(path)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Valid = true

	for _, w := range level.Analyze(lvl) {
		result.Warnings = append(result.Warnings, w.String())
	}

	result.Info = []string{
		fmt.Sprintf("✓ Grid: %dx%d", lvl.Grid.Cols(), lvl.Grid.Rows()),
		fmt.Sprintf("✓ Player start: %s", lvl.PlayerStart),
		fmt.Sprintf("✓ Collectibles: %d", lvl.Grid.Count(grid.Collectible)),
		fmt.Sprintf("✓ Exits: %d", lvl.Grid.Count(grid.Exit)),
		fmt.Sprintf("✓ Enemies: %d", len(lvl.EnemyStarts)),
	}
	return result
}

// expandMapPaths replaces directories with the map files they contain
func expandMapPaths(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			// Missing files are reported by validateMap
			files = append(files, p)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(p, "*"+config.MapExt))
		if err != nil {
			return nil, fmt.Errorf("error finding map files in %s: %w", p, err)
		}
		files = append(files, matches...)
	}
	return files, nil
}

// validateMaps writes a report for every map in paths to w and returns
// errInvalidMaps when any of them failed to load
func validateMaps(w io.Writer, paths []string) error {
	files, err := expandMapPaths(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no map files found")
	}

	allValid := true
	for _, file := range files {
		result := validateMap(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if !result.Valid {
			allValid = false
			fmt.Fprintln(w, "❌ INVALID")
			fmt.Fprintln(w, "  ❌ "+result.Error)
			continue
		}

		fmt.Fprintln(w, "✅ VALID")
		for _, info := range result.Info {
			fmt.Fprintln(w, "  "+info)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintln(w, "  ⚠️  "+warning)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		fmt.Fprintln(w, "❌ Some maps have errors")
		return errInvalidMaps
	}
	fmt.Fprintln(w, "✅ All maps are valid!")
	return nil
}
