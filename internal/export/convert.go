package export

import (
	"image"
	"image/color"

	"github.com/slidekit/slide-export/internal/slide"
)

// grayImage converts one channel of a plane to a grayscale image at the
// given bit depth. Samples are clamped to the depth's range.
func grayImage(p *slide.Plane, channel, bits int) image.Image {
	if bits > 8 {
		img := image.NewGray16(image.Rect(0, 0, p.Width, p.Height))
		for y := 0; y < p.Height; y++ {
			for x := 0; x < p.Width; x++ {
				img.SetGray16(x, y, gray16(p.At(channel, x, y)))
			}
		}
		return img
	}
	img := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			img.SetGray(x, y, gray8(p.At(channel, x, y)))
		}
	}
	return img
}

// rgbImage converts the first three channels of a plane to an RGB image at
// the given bit depth.
func rgbImage(p *slide.Plane, bits int) image.Image {
	if bits > 8 {
		img := image.NewNRGBA64(image.Rect(0, 0, p.Width, p.Height))
		for y := 0; y < p.Height; y++ {
			for x := 0; x < p.Width; x++ {
				img.SetNRGBA64(x, y, nrgba64(p.At(0, x, y), p.At(1, x, y), p.At(2, x, y)))
			}
		}
		return img
	}
	img := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			img.SetNRGBA(x, y, nrgba8(p.At(0, x, y), p.At(1, x, y), p.At(2, x, y)))
		}
	}
	return img
}

// flattenImage converts a plane to the closest native image type: RGB for
// three or more channels, grayscale otherwise.
func flattenImage(p *slide.Plane, bits int) image.Image {
	if p.NumChannels() >= 3 {
		return rgbImage(p, bits)
	}
	return grayImage(p, 0, bits)
}

func clampTo(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func gray8(v float64) color.Gray {
	return color.Gray{Y: uint8(clampTo(v, 255))}
}

func gray16(v float64) color.Gray16 {
	return color.Gray16{Y: uint16(clampTo(v, 65535))}
}

func nrgba8(r, g, b float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(clampTo(r, 255)),
		G: uint8(clampTo(g, 255)),
		B: uint8(clampTo(b, 255)),
		A: 255,
	}
}

func nrgba64(r, g, b float64) color.NRGBA64 {
	return color.NRGBA64{
		R: uint16(clampTo(r, 65535)),
		G: uint16(clampTo(g, 65535)),
		B: uint16(clampTo(b, 65535)),
		A: 65535,
	}
}
