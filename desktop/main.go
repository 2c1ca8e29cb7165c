// Package desktop is the windowed client: it loads a map and assets, runs
// the simulation loop on ebiten's update callback and draws every frame.
package desktop

import (
	"errors"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/wricardo/collect-game/game/assets"
	"github.com/wricardo/collect-game/game/engine"
	"github.com/wricardo/collect-game/game/loop"
)

const windowTitle = "2D Collect Game"

// Options configures a desktop run
type Options struct {
	MapPath   string
	AssetsDir string
	Config    engine.Config
}

// Run opens the window and blocks until the player quits. Map errors are
// returned before any window is created.
func Run(opts Options) error {
	eng, err := engine.NewEngine(opts.MapPath, opts.Config)
	if err != nil {
		return err
	}

	cfg := eng.Config()
	frames := assets.LoadAll(opts.AssetsDir, cfg.TileSize)
	l := loop.New(eng,
		loop.WithFrames(assets.Player, frames.Count(assets.Player)),
		loop.WithFrames(assets.Enemy, frames.Count(assets.Enemy)),
	)
	log.Printf("Loaded %s (%dx%d, %d collectibles, %d enemies)",
		opts.MapPath, eng.State().Grid.Cols(), eng.State().Grid.Rows(), eng.Remaining(), len(eng.EnemyPositions()))

	game := NewGame(l, cfg.TileSize, frames)

	snap := l.Snapshot()
	ebiten.SetWindowSize(snap.Cols*cfg.TileSize, snap.Rows*cfg.TileSize)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetTPS(cfg.TickRate)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
