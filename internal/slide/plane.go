package slide

import "fmt"

// Plane holds the decoded samples for one region read, one float64 slice
// per channel in row-major order at the downsampled size.
type Plane struct {
	Width   int
	Height  int
	Samples [][]float64 // Samples[channel][y*Width+x]
}

// NewPlane allocates a zero-filled plane.
func NewPlane(channels, width, height int) *Plane {
	p := &Plane{Width: width, Height: height, Samples: make([][]float64, channels)}
	for c := range p.Samples {
		p.Samples[c] = make([]float64, width*height)
	}
	return p
}

// NumChannels returns the number of channels in the plane.
func (p *Plane) NumChannels() int {
	return len(p.Samples)
}

// At returns the sample for one channel at pixel (x, y).
func (p *Plane) At(channel, x, y int) float64 {
	return p.Samples[channel][y*p.Width+x]
}

// Set stores the sample for one channel at pixel (x, y).
func (p *Plane) Set(channel, x, y int, v float64) {
	p.Samples[channel][y*p.Width+x] = v
}

// Validate checks that every channel slice matches the declared dimensions.
func (p *Plane) Validate() error {
	want := p.Width * p.Height
	for c, s := range p.Samples {
		if len(s) != want {
			return fmt.Errorf("channel %d: %d samples, want %d", c, len(s), want)
		}
	}
	return nil
}
