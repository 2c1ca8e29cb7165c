// Command analyze prints quick, human-readable heuristics about the maps in a
// maps directory. It summarizes dimensions, counts of collectibles, exits and
// enemies, the walking distance to every collectible and the nearest exit,
// and highlights enemies that start close to the player.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/collect-game/game/config"
	"github.com/wricardo/collect-game/game/grid"
	"github.com/wricardo/collect-game/game/level"
)

// dangerRadius is the Manhattan distance at which an enemy start is flagged
const dangerRadius = 2

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "print heuristics for every map in a directory",
		ArgsUsage: "[MAPS_DIR]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := config.DefaultSettings().MapsDir
			if cmd.Args().Len() > 0 {
				dir = cmd.Args().First()
			}
			return analyzeDir(os.Stdout, dir)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func analyzeDir(w io.Writer, dir string) error {
	maps, err := config.NewManager(dir)
	if err != nil {
		return err
	}

	infos, err := maps.ListMaps()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return fmt.Errorf("no valid maps in %s", dir)
	}

	for _, info := range infos {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", info.Filename)
		lvl, err := maps.LoadMap(info.Name)
		if err != nil {
			fmt.Fprintf(w, "Error loading map: %v\n", err)
			continue
		}
		analyzeLevel(w, lvl)
	}
	return nil
}

func analyzeLevel(w io.Writer, lvl *level.Level) {
	g := lvl.Grid
	start := lvl.PlayerStart

	fmt.Fprintf(w, "Name: %s\n", lvl.Name)
	fmt.Fprintf(w, "Grid Size: %d x %d\n", g.Cols(), g.Rows())
	fmt.Fprintf(w, "Player Start: %s\n", start)
	fmt.Fprintf(w, "Collectibles: %d\n", g.Count(grid.Collectible))
	fmt.Fprintf(w, "Exits: %d\n", g.Count(grid.Exit))
	fmt.Fprintf(w, "Enemies: %d\n", len(lvl.EnemyStarts))

	dist := level.Distances(g, start)

	var collectibles, exits []grid.Position
	for y := 0; y < g.Rows(); y++ {
		for x := 0; x < g.Cols(); x++ {
			pos := grid.Position{X: x, Y: y}
			switch g.TileAt(pos) {
			case grid.Collectible:
				collectibles = append(collectibles, pos)
			case grid.Exit:
				exits = append(exits, pos)
			}
		}
	}

	// Nearest first
	sort.SliceStable(collectibles, func(i, j int) bool {
		return walk(dist, collectibles[i]) < walk(dist, collectibles[j])
	})

	unreachable := 0
	for _, c := range collectibles {
		if d, ok := dist[c]; ok {
			fmt.Fprintf(w, "  Collectible %s: %d steps\n", c, d)
		} else {
			unreachable++
			fmt.Fprintf(w, "  Collectible %s: unreachable\n", c)
		}
	}
	if unreachable > 0 {
		fmt.Fprintf(w, "⚠️  CRITICAL: %d collectibles are unreachable from the start!\n", unreachable)
	} else if len(collectibles) > 0 {
		fmt.Fprintf(w, "✅ All collectibles are reachable\n")
	}

	nearestExit := -1
	for _, e := range exits {
		if d, ok := dist[e]; ok && (nearestExit < 0 || d < nearestExit) {
			nearestExit = d
		}
	}
	if nearestExit < 0 {
		fmt.Fprintf(w, "⚠️  CRITICAL: no exit is reachable from the start!\n")
	} else {
		fmt.Fprintf(w, "✅ Nearest exit: %d steps\n", nearestExit)
	}

	nearby := 0
	for _, e := range lvl.EnemyStarts {
		if d := abs(e.X-start.X) + abs(e.Y-start.Y); d <= dangerRadius {
			nearby++
			fmt.Fprintf(w, "⚠️  WARNING: enemy at %s starts %d steps from the player\n", e, d)
		}
	}
	if nearby == 0 && len(lvl.EnemyStarts) > 0 {
		fmt.Fprintf(w, "✅ No enemy starts within %d steps of the player\n", dangerRadius)
	}
}

// walk is the walking distance to pos, with unreachable cells sorted last
func walk(dist map[grid.Position]int, pos grid.Position) int {
	if d, ok := dist[pos]; ok {
		return d
	}
	return int(^uint(0) >> 1)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
