package desktop

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/wricardo/collect-game/game/assets"
	"github.com/wricardo/collect-game/game/engine"
	"github.com/wricardo/collect-game/game/grid"
	"github.com/wricardo/collect-game/game/loop"
)

const restartHint = "Press R to restart or ESC to quit"

var (
	backgroundColor = color.RGBA{30, 30, 30, 255}
	textColor       = color.RGBA{255, 255, 255, 255}
	messageColor    = color.RGBA{255, 200, 50, 255}
	hintColor       = color.RGBA{200, 200, 200, 255}
	noticeColor     = color.RGBA{255, 120, 120, 255}
	panelColor      = color.RGBA{0, 0, 0, 160}
)

// keyBinding maps a set of keys to one command
type keyBinding struct {
	keys []ebiten.Key
	cmd  loop.Command
}

var keyBindings = []keyBinding{
	{[]ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp}, loop.Move(engine.Up)},
	{[]ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown}, loop.Move(engine.Down)},
	{[]ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft}, loop.Move(engine.Left)},
	{[]ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight}, loop.Move(engine.Right)},
	{[]ebiten.Key{ebiten.KeyR}, loop.Restart()},
	{[]ebiten.Key{ebiten.KeyEscape}, loop.Quit()},
}

// Game adapts a Loop to ebiten: input becomes loop commands and every
// Update is one simulation frame
type Game struct {
	loop     *loop.Loop
	tileSize int
	frames   map[assets.Kind][]*ebiten.Image
	face     font.Face
}

// NewGame wraps l, drawing with the given frames
func NewGame(l *loop.Loop, tileSize int, frames assets.Frames) *Game {
	g := &Game{
		loop:     l,
		tileSize: tileSize,
		frames:   make(map[assets.Kind][]*ebiten.Image, len(frames)),
		face:     basicfont.Face7x13,
	}
	for kind, imgs := range frames {
		for _, img := range imgs {
			g.frames[kind] = append(g.frames[kind], ebiten.NewImageFromImage(img))
		}
	}
	return g
}

// Update collects this frame's key presses and runs one loop step
func (g *Game) Update() error {
	for _, binding := range keyBindings {
		for _, key := range binding.keys {
			if inpututil.IsKeyJustPressed(key) {
				g.loop.Enqueue(binding.cmd)
				break
			}
		}
	}

	// Reset failures are shown as a notice, they do not end the game
	if res := g.loop.Step(); res.Quit {
		return ebiten.Termination
	}
	return nil
}

// Draw renders the board, the entities and the status text
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	view := g.loop.View()
	snap := &view.Snapshot
	g.drawGrid(screen, snap)

	enemyFrame := g.frame(assets.Enemy, view.AnimFrame(assets.Enemy))
	for _, pos := range snap.Enemies {
		g.drawTile(screen, enemyFrame, pos)
	}
	g.drawTile(screen, g.frame(assets.Player, view.AnimFrame(assets.Player)), snap.Player)

	g.drawStatus(screen, &view)
}

// Layout sizes the screen to the board
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	snap := g.loop.Snapshot()
	return snap.Cols * g.tileSize, snap.Rows * g.tileSize
}

func (g *Game) drawGrid(screen *ebiten.Image, snap *engine.Snapshot) {
	for y := 0; y < snap.Rows; y++ {
		for x := 0; x < snap.Cols; x++ {
			pos := grid.Position{X: x, Y: y}
			tile := snap.Grid.TileAt(pos)

			if tile == grid.Wall {
				g.drawTile(screen, g.frame(assets.Wall, 0), pos)
				continue
			}
			g.drawTile(screen, g.frame(assets.Floor, 0), pos)

			switch tile {
			case grid.Collectible:
				g.drawTile(screen, g.frame(assets.Collectible, 0), pos)
			case grid.Exit:
				g.drawTile(screen, g.frame(assets.Exit, 0), pos)
			}
		}
	}
}

func (g *Game) drawStatus(screen *ebiten.Image, view *loop.View) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	snap := &view.Snapshot

	text.Draw(screen, fmt.Sprintf("Moves: %d", snap.Moves), g.face, 8, 20, textColor)
	text.Draw(screen, fmt.Sprintf("Remaining: %d", snap.Remaining), g.face, 8, 44, textColor)

	if view.Notice != "" {
		text.Draw(screen, view.Notice, g.face, 8, h-48, noticeColor)
	}

	var msg string
	switch snap.Status {
	case engine.StatusGameOver:
		msg = "GAME OVER"
	case engine.StatusWon:
		msg = "YOU WIN"
	default:
		return
	}

	bounds := text.BoundString(g.face, msg)
	mx := (w - bounds.Dx()) / 2
	my := (h + bounds.Dy()) / 2
	vector.DrawFilledRect(screen, float32(mx-8), float32(my-bounds.Dy()-8), float32(bounds.Dx()+16), float32(bounds.Dy()+16), panelColor, false)
	text.Draw(screen, msg, g.face, mx, my, messageColor)
	text.Draw(screen, restartHint, g.face, 8, h-16, hintColor)
}

func (g *Game) frame(kind assets.Kind, index int) *ebiten.Image {
	frames := g.frames[kind]
	if len(frames) == 0 {
		return nil
	}
	return frames[index%len(frames)]
}

func (g *Game) drawTile(screen, img *ebiten.Image, pos grid.Position) {
	if img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(pos.X*g.tileSize), float64(pos.Y*g.tileSize))
	screen.DrawImage(img, op)
}
