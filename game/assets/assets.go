// Package assets resolves sprite frames for each entity kind from a
// directory of images, falling back to flat-colour tiles when nothing usable
// is found. Resolution never fails.
package assets

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Kind is a logical entity kind that can be drawn
type Kind string

const (
	Player      Kind = "player"
	Wall        Kind = "wall"
	Floor       Kind = "floor"
	Collectible Kind = "collectible"
	Exit        Kind = "exit"
	Enemy       Kind = "enemy"
)

// Kinds lists every drawable kind in draw order
var Kinds = []Kind{Floor, Wall, Collectible, Exit, Enemy, Player}

// Prefix returns the file-name prefix that selects frames for the kind
func (k Kind) Prefix() string {
	if k == Floor {
		return "empty"
	}
	return string(k)
}

var placeholderColors = map[Kind]color.RGBA{
	Player:      {50, 180, 50, 255},
	Wall:        {70, 70, 70, 255},
	Floor:       {200, 200, 200, 255},
	Collectible: {200, 180, 50, 255},
	Exit:        {180, 50, 50, 255},
	Enemy:       {180, 30, 30, 255},
}

// PlaceholderColor returns the fixed fallback colour for a kind
func PlaceholderColor(k Kind) color.RGBA {
	if c, ok := placeholderColors[k]; ok {
		return c
	}
	return color.RGBA{100, 100, 100, 255}
}

// Placeholder returns a size×size tile filled with the kind's colour
func Placeholder(k Kind, size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: PlaceholderColor(k)}, image.Point{}, draw.Src)
	return img
}

// Frames holds the resolved frames of every kind
type Frames map[Kind][]image.Image

// Count returns the number of frames for a kind (at least 1 once resolved)
func (f Frames) Count(k Kind) int {
	return len(f[k])
}

// Resolver loads frames from a directory and scales them to a tile size
type Resolver struct {
	dir      string
	tileSize int
}

// NewResolver creates a resolver for dir producing tileSize×tileSize frames
func NewResolver(dir string, tileSize int) *Resolver {
	return &Resolver{dir: dir, tileSize: tileSize}
}

// Resolve returns the frames for k, or a single placeholder when none load
func (r *Resolver) Resolve(k Kind) []image.Image {
	frames := r.load(k.Prefix())
	if len(frames) == 0 {
		return []image.Image{Placeholder(k, r.tileSize)}
	}
	return frames
}

// LoadAll resolves every kind
func (r *Resolver) LoadAll() Frames {
	frames := make(Frames, len(Kinds))
	for _, k := range Kinds {
		frames[k] = r.Resolve(k)
	}
	return frames
}

// LoadAll resolves every kind from dir at the given tile size
func LoadAll(dir string, tileSize int) Frames {
	return NewResolver(dir, tileSize).LoadAll()
}

func (r *Resolver) load(prefix string) []image.Image {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if strings.HasPrefix(strings.ToLower(stem), prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var frames []image.Image
	for _, name := range names {
		img, err := r.decode(filepath.Join(r.dir, name))
		if err != nil {
			log.Printf("Skipping asset: %v", err)
			continue
		}
		frames = append(frames, img)
	}
	return frames
}

func (r *Resolver) decode(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	src, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return Scale(src, r.tileSize), nil
}

// Scale resizes src to a size×size RGBA image
func Scale(src image.Image, size int) image.Image {
	if b := src.Bounds(); b.Dx() == size && b.Dy() == size {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
