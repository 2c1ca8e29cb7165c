package level

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/wricardo/collect-game/game/grid"
)

// Map file characters
const (
	CharFloor       = '0'
	CharWall        = '1'
	CharCollectible = 'C'
	CharExit        = 'E'
	CharPlayer      = 'P'
	CharEnemy       = 'X'
)

// ErrInvalidMap is matched by every MapError
var ErrInvalidMap = errors.New("invalid map")

// MapError reports why a map could not be loaded
type MapError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MapError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("map %s: %s", e.Path, e.Reason)
}

// Unwrap exposes the underlying I/O error, if any
func (e *MapError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidMap) true for any MapError
func (e *MapError) Is(target error) bool {
	return target == ErrInvalidMap
}

// Level is a validated map: the board plus extracted start positions
type Level struct {
	Name        string
	Grid        *grid.Grid
	PlayerStart grid.Position
	// EnemyStarts are in row-major scan order
	EnemyStarts []grid.Position
}

// Load reads and validates a map file
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MapError{Path: path, Reason: "map file not found", Err: err}
		}
		return nil, &MapError{Path: path, Reason: fmt.Sprintf("cannot read map file: %v", err), Err: err}
	}
	return Parse(path, data)
}

// Parse validates map text. name is used only in error messages.
func Parse(name string, data []byte) (*Level, error) {
	fail := func(format string, args ...any) (*Level, error) {
		return nil, &MapError{Path: name, Reason: fmt.Sprintf(format, args...)}
	}

	lines := nonBlankLines(string(data))
	if len(lines) == 0 {
		return fail("map file is empty")
	}

	width := utf8.RuneCountInString(lines[0])
	for i, line := range lines {
		if n := utf8.RuneCountInString(line); n != width {
			return fail("map must be rectangular: row %d has %d characters, expected %d", i+1, n, width)
		}
	}

	for i, line := range lines {
		col := 0
		for _, r := range line {
			col++
			switch r {
			case CharFloor, CharWall, CharCollectible, CharExit, CharPlayer, CharEnemy:
			default:
				return fail("invalid map character %q at row %d, col %d", r, i+1, col)
			}
		}
	}

	var (
		players      []grid.Position
		enemies      []grid.Position
		collectibles int
		exits        int
	)
	rows := make([][]grid.Symbol, len(lines))
	for y, line := range lines {
		rows[y] = make([]grid.Symbol, width)
		for x := 0; x < width; x++ {
			pos := grid.Position{X: x, Y: y}
			switch line[x] {
			case CharPlayer:
				players = append(players, pos)
				rows[y][x] = grid.Floor
			case CharEnemy:
				enemies = append(enemies, pos)
				rows[y][x] = grid.Floor
			default:
				s, _ := grid.SymbolFromChar(line[x])
				rows[y][x] = s
				switch s {
				case grid.Collectible:
					collectibles++
				case grid.Exit:
					exits++
				}
			}
		}
	}

	if len(players) != 1 {
		return fail("map must contain exactly one '%c' (player start), found %d", CharPlayer, len(players))
	}
	if collectibles == 0 {
		return fail("map must contain at least one '%c' (collectible)", CharCollectible)
	}
	if exits == 0 {
		return fail("map must contain at least one '%c' (exit)", CharExit)
	}

	g, err := grid.New(rows)
	if err != nil {
		return nil, &MapError{Path: name, Reason: err.Error(), Err: err}
	}

	return &Level{
		Name:        name,
		Grid:        g,
		PlayerStart: players[0],
		EnemyStarts: enemies,
	}, nil
}

// nonBlankLines splits text into rows, dropping whitespace-only lines and
// trailing carriage returns
func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
