package export

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/slidekit/slide-export/internal/slide"
)

// TiledOptions configures the tile-pyramid flavor.
type TiledOptions struct {
	OutputDir  string
	TileSize   int     // tile edge in pixels, default 512
	Downsample float64 // read scale for the base level
	Format     string  // tile image format, "png" (default) or "jpeg"
}

// Tiled writes an image as a directory of fixed-size tiles across a
// pyramid of halved levels, plus a metadata.json describing the layout.
// Level 0 is the base resolution; each level above it halves both
// dimensions until the whole image fits in a single tile.
type Tiled struct {
	Opts TiledOptions
}

// TileMetadata is the layout descriptor written alongside the tiles.
type TileMetadata struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	TileSize int    `json:"tile_size"`
	Levels   int    `json:"levels"`
	Format   string `json:"format"`
}

func (t Tiled) Name() string { return "tiled" }

// LevelCount returns the number of pyramid levels for an image of the
// given base size: halving continues until both dimensions fit one tile.
func LevelCount(width, height, tileSize int) int {
	levels := 1
	for width > tileSize || height > tileSize {
		width = (width + 1) / 2
		height = (height + 1) / 2
		levels++
	}
	return levels
}

func (t Tiled) Export(res slide.Resource, name string) error {
	tileSize := t.Opts.TileSize
	if tileSize <= 0 {
		tileSize = 512
	}
	format := t.Opts.Format
	if format == "" {
		format = "png"
	}

	plane, err := readWhole(res, t.Opts.Downsample)
	if err != nil {
		return err
	}
	base := flattenImage(plane, res.BitsPerSample())

	dir := filepath.Join(t.Opts.OutputDir, strings.NewReplacer("/", "_", "\\", "_").Replace(name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create tile directory: %w", err)
	}

	levels := LevelCount(plane.Width, plane.Height, tileSize)
	level := base
	for l := 0; l < levels; l++ {
		if err := t.writeLevel(dir, l, level, tileSize, format); err != nil {
			return err
		}
		if l < levels-1 {
			b := level.Bounds()
			level = imaging.Resize(level, (b.Dx()+1)/2, (b.Dy()+1)/2, imaging.Box)
		}
	}

	meta := TileMetadata{
		Width:    plane.Width,
		Height:   plane.Height,
		TileSize: tileSize,
		Levels:   levels,
		Format:   format,
	}
	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), raw, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// writeLevel cuts one pyramid level into tiles named <x>_<y>.<format>.
func (t Tiled) writeLevel(dir string, level int, img image.Image, tileSize int, format string) error {
	levelDir := filepath.Join(dir, fmt.Sprintf("%d", level))
	if err := os.MkdirAll(levelDir, 0o755); err != nil {
		return fmt.Errorf("create level directory: %w", err)
	}

	b := img.Bounds()
	for ty := 0; ty*tileSize < b.Dy(); ty++ {
		for tx := 0; tx*tileSize < b.Dx(); tx++ {
			rect := image.Rect(tx*tileSize, ty*tileSize, (tx+1)*tileSize, (ty+1)*tileSize).
				Intersect(image.Rect(0, 0, b.Dx(), b.Dy()))
			tile := imaging.Crop(img, rect)
			path := filepath.Join(levelDir, fmt.Sprintf("%d_%d.%s", tx, ty, format))
			if err := imaging.Save(tile, path, imaging.JPEGQuality(92)); err != nil {
				return fmt.Errorf("save tile %s: %w", path, err)
			}
		}
	}
	return nil
}
