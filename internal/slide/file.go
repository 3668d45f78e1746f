package slide

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"math"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder (16-bit microscopy)
)

// FileOpener opens image files from the local filesystem.
//
// Supported formats are PNG, JPEG, GIF, BMP, and TIFF. The whole image is
// decoded into memory when opened; region reads then operate on the decoded
// pixels. This fits the toolkit's one-resource-at-a-time processing model,
// where the batch loop closes each resource before opening the next.
type FileOpener struct{}

// Open decodes the file behind ref and returns it as a Resource.
func (FileOpener) Open(ref Ref) (Resource, error) {
	f, err := os.Open(ref.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return NewImageResource(img), nil
}

// imageResource adapts a decoded image.Image to the Resource interface.
type imageResource struct {
	img      image.Image
	channels []Channel
	bits     int
	closed   bool
}

// NewImageResource wraps an already-decoded image as a Resource.
//
// Channel metadata is derived from the color model: grayscale images expose
// a single "Gray" channel rendered white, everything else exposes Red,
// Green, and Blue. Bit depth is 16 for 16-bit-per-sample models
// (Gray16, RGBA64, NRGBA64) and 8 otherwise.
func NewImageResource(img image.Image) Resource {
	r := &imageResource{img: img, bits: 8}
	switch img.(type) {
	case *image.Gray16:
		r.bits = 16
	case *image.RGBA64, *image.NRGBA64:
		r.bits = 16
	}
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		r.channels = []Channel{{Name: "Gray", Color: PackColor(255, 255, 255)}}
	default:
		r.channels = []Channel{
			{Name: "Red", Color: PackColor(255, 0, 0)},
			{Name: "Green", Color: PackColor(0, 255, 0)},
			{Name: "Blue", Color: PackColor(0, 0, 255)},
		}
	}
	return r
}

func (r *imageResource) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *imageResource) Channels() []Channel { return r.channels }

func (r *imageResource) BitsPerSample() int { return r.bits }

func (r *imageResource) IsFloat() bool { return false }

func (r *imageResource) Close() error {
	if r.closed {
		return fmt.Errorf("resource already closed")
	}
	r.closed = true
	r.img = nil
	return nil
}

func (r *imageResource) ReadRegion(downsample float64, region image.Rectangle) (*Plane, error) {
	if r.closed {
		return nil, fmt.Errorf("read on closed resource")
	}
	if downsample < 1 {
		downsample = 1
	}
	region = region.Intersect(r.img.Bounds())
	if region.Empty() {
		return nil, fmt.Errorf("region %v outside image bounds %v", region, r.img.Bounds())
	}

	outW := int(math.Round(float64(region.Dx()) / downsample))
	outH := int(math.Round(float64(region.Dy()) / downsample))
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}

	if r.bits > 8 {
		return r.readRegion16(region, outW, outH), nil
	}
	return r.readRegion8(region, outW, outH), nil
}

// readRegion8 reads an 8-bit region through the imaging resampler.
func (r *imageResource) readRegion8(region image.Rectangle, outW, outH int) *Plane {
	small := imaging.Resize(imaging.Crop(r.img, region), outW, outH, imaging.Box)

	p := NewPlane(len(r.channels), outW, outH)
	gray := len(r.channels) == 1
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			c := small.NRGBAAt(x, y)
			if gray {
				p.Set(0, x, y, float64(c.R))
				continue
			}
			p.Set(0, x, y, float64(c.R))
			p.Set(1, x, y, float64(c.G))
			p.Set(2, x, y, float64(c.B))
		}
	}
	return p
}

// readRegion16 reads a 16-bit region. The imaging resampler works at 8-bit
// depth, so 16-bit planes are point-sampled directly from the source to
// preserve the full sample range.
func (r *imageResource) readRegion16(region image.Rectangle, outW, outH int) *Plane {
	sx := float64(region.Dx()) / float64(outW)
	sy := float64(region.Dy()) / float64(outH)

	p := NewPlane(len(r.channels), outW, outH)
	gray := len(r.channels) == 1
	for y := 0; y < outH; y++ {
		srcY := region.Min.Y + int((float64(y)+0.5)*sy)
		for x := 0; x < outW; x++ {
			srcX := region.Min.X + int((float64(x)+0.5)*sx)
			cr, cg, cb, _ := r.img.At(srcX, srcY).RGBA()
			if gray {
				p.Set(0, x, y, float64(cr))
				continue
			}
			p.Set(0, x, y, float64(cr))
			p.Set(1, x, y, float64(cg))
			p.Set(2, x, y, float64(cb))
		}
	}
	return p
}
