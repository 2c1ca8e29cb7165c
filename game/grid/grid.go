package grid

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Symbol is the typed classification of a single cell
type Symbol uint8

const (
	Floor Symbol = iota
	Wall
	Collectible
	Exit
)

// Char returns the map-file character for the symbol
func (s Symbol) Char() byte {
	switch s {
	case Wall:
		return '1'
	case Collectible:
		return 'C'
	case Exit:
		return 'E'
	default:
		return '0'
	}
}

func (s Symbol) String() string {
	switch s {
	case Floor:
		return "floor"
	case Wall:
		return "wall"
	case Collectible:
		return "collectible"
	case Exit:
		return "exit"
	}
	return fmt.Sprintf("symbol(%d)", uint8(s))
}

// SymbolFromChar converts a map-file character into a Symbol.
// Only the four cell characters are accepted; start markers are not cells.
func SymbolFromChar(c byte) (Symbol, bool) {
	switch c {
	case '0':
		return Floor, true
	case '1':
		return Wall, true
	case 'C':
		return Collectible, true
	case 'E':
		return Exit, true
	}
	return Floor, false
}

// Position represents x,y grid coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the position offset by dx, dy
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Grid is a rectangular board of symbols.
// The count of Collectible cells is tracked on every mutation.
type Grid struct {
	cells     [][]Symbol
	remaining int
}

// New builds a grid from rows of symbols. Rows must be non-empty and equal length.
func New(rows [][]Symbol) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("grid: at least one non-empty row is required")
	}
	width := len(rows[0])
	cells := make([][]Symbol, len(rows))
	remaining := 0
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("grid: row %d has %d cells, expected %d", y+1, len(row), width)
		}
		cells[y] = make([]Symbol, width)
		copy(cells[y], row)
		for _, s := range row {
			if s == Collectible {
				remaining++
			}
		}
	}
	return &Grid{cells: cells, remaining: remaining}, nil
}

// Parse builds a grid from text rows using the cell characters 0, 1, C and E
func Parse(rows []string) (*Grid, error) {
	symbols := make([][]Symbol, len(rows))
	for y, row := range rows {
		symbols[y] = make([]Symbol, len(row))
		for x := 0; x < len(row); x++ {
			s, ok := SymbolFromChar(row[x])
			if !ok {
				return nil, fmt.Errorf("grid: invalid character '%c' at row %d, col %d", row[x], y+1, x+1)
			}
			symbols[y][x] = s
		}
	}
	return New(symbols)
}

// Rows returns the number of rows
func (g *Grid) Rows() int {
	return len(g.cells)
}

// Cols returns the number of columns
func (g *Grid) Cols() int {
	return len(g.cells[0])
}

// InBounds reports whether pos lies on the grid
func (g *Grid) InBounds(pos Position) bool {
	return pos.Y >= 0 && pos.Y < len(g.cells) && pos.X >= 0 && pos.X < len(g.cells[0])
}

// TileAt returns the symbol at pos. Callers bounds-check first; out of range panics.
func (g *Grid) TileAt(pos Position) Symbol {
	if !g.InBounds(pos) {
		panic(fmt.Sprintf("grid: position %s out of range %dx%d", pos, g.Cols(), g.Rows()))
	}
	return g.cells[pos.Y][pos.X]
}

// SetTile replaces the symbol at pos, keeping the collectible count in step
func (g *Grid) SetTile(pos Position, s Symbol) {
	prev := g.TileAt(pos)
	if prev == Collectible {
		g.remaining--
	}
	if s == Collectible {
		g.remaining++
	}
	g.cells[pos.Y][pos.X] = s
}

// Remaining returns the number of Collectible cells currently on the grid
func (g *Grid) Remaining() int {
	return g.remaining
}

// Count scans the grid and counts cells of the given symbol
func (g *Grid) Count(s Symbol) int {
	count := 0
	for _, row := range g.cells {
		for _, cell := range row {
			if cell == s {
				count++
			}
		}
	}
	return count
}

// Clone returns a deep copy
func (g *Grid) Clone() *Grid {
	cells := make([][]Symbol, len(g.cells))
	for y, row := range g.cells {
		cells[y] = make([]Symbol, len(row))
		copy(cells[y], row)
	}
	return &Grid{cells: cells, remaining: g.remaining}
}

// Lines renders the grid as map-file rows
func (g *Grid) Lines() []string {
	lines := make([]string, len(g.cells))
	buf := make([]byte, g.Cols())
	for y, row := range g.cells {
		for x, cell := range row {
			buf[x] = cell.Char()
		}
		lines[y] = string(buf)
	}
	return lines
}

func (g *Grid) String() string {
	return strings.Join(g.Lines(), "\n")
}

// MarshalJSON encodes the grid as an array of text rows
func (g *Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Lines())
}

// UnmarshalJSON decodes the array-of-rows form produced by MarshalJSON
func (g *Grid) UnmarshalJSON(data []byte) error {
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	parsed, err := Parse(lines)
	if err != nil {
		return err
	}
	*g = *parsed
	return nil
}
