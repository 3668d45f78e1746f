package slide

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"
)

// Ref identifies one image in a batch.
//
// Path is interpreted by the Opener that receives it (a file path for
// FileOpener). Name is the display name used in status messages and error
// reports; if empty, consumers fall back to the path.
type Ref struct {
	Path string `json:"path"`
	Name string `json:"name,omitempty"`
}

// DisplayName returns the name to use in user-facing messages.
func (r Ref) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Path
}

// Channel describes one scalar component of a pixel.
type Channel struct {
	Name  string `json:"name"`
	Color int    `json:"color"` // packed 0xRRGGBB display color
}

// ChannelRange is a computed display range for one channel.
//
// MinDisplay and MaxDisplay are sample values (not bin indices); the
// invariant MaxDisplay > MinDisplay always holds, the range builder bumps a
// degenerate maximum by one bin width before constructing the value.
type ChannelRange struct {
	Name       string  `json:"name"`
	Color      int     `json:"color"`
	MinDisplay float64 `json:"min_display"`
	MaxDisplay float64 `json:"max_display"`
}

// Normalize maps a sample value into [0, 1] within the range, clamping
// values outside it.
func (r ChannelRange) Normalize(v float64) float64 {
	n := (v - r.MinDisplay) / (r.MaxDisplay - r.MinDisplay)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// Resource is an open handle onto one image.
//
// Implementations are not safe for concurrent use; the toolkit drives each
// resource from a single goroutine. Close must be called exactly once and
// releases any decoder or pixel buffer held by the handle.
type Resource interface {
	// Size returns the full-resolution pixel dimensions.
	Size() (width, height int)

	// Channels returns channel metadata in channel-index order.
	Channels() []Channel

	// BitsPerSample returns the native integer sample depth (8 or 16).
	// The value is meaningful only when IsFloat reports false.
	BitsPerSample() int

	// IsFloat reports whether samples are floating point (a continuous
	// pixel domain with no a-priori bounds).
	IsFloat() bool

	// ReadRegion decodes the given full-resolution pixel rectangle at
	// 1/downsample scale. A downsample below 1 is treated as 1.
	ReadRegion(downsample float64, region image.Rectangle) (*Plane, error)

	// Close releases the handle.
	Close() error
}

// Opener maps a Ref to an open Resource.
type Opener interface {
	Open(ref Ref) (Resource, error)
}

// PackColor packs 8-bit RGB components into the 0xRRGGBB encoding used by
// Channel.Color.
func PackColor(r, g, b uint8) int {
	return int(r)<<16 | int(g)<<8 | int(b)
}

// UnpackColor is the inverse of PackColor.
func UnpackColor(c int) (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// defaultPalette provides display colors for channels whose source carries
// none. Single-channel images render white; multi-channel images cycle
// through the fluorescence-style palette below.
var defaultPalette = []string{
	"#FF0000", // red
	"#00FF00", // green
	"#0000FF", // blue
	"#FFFF00", // yellow
	"#FF00FF", // magenta
	"#00FFFF", // cyan
}

// DefaultChannelColor returns the display color for channel index i out of n.
func DefaultChannelColor(i, n int) int {
	if n <= 1 {
		return PackColor(255, 255, 255)
	}
	c, err := colorful.Hex(defaultPalette[i%len(defaultPalette)])
	if err != nil {
		return PackColor(255, 255, 255)
	}
	r, g, b := c.RGB255()
	return PackColor(r, g, b)
}
