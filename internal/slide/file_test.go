package slide

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writePNG encodes img to a file under dir and returns its path.
func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return path
}

func solidRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestFileOpener_RGB(t *testing.T) {
	path := writePNG(t, t.TempDir(), "rgb.png", solidRGBA(8, 6, color.NRGBA{R: 200, G: 100, B: 50, A: 255}))

	res, err := FileOpener{}.Open(Ref{Path: path})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer res.Close()

	w, h := res.Size()
	if w != 8 || h != 6 {
		t.Errorf("Size: got %dx%d, want 8x6", w, h)
	}
	if res.BitsPerSample() != 8 {
		t.Errorf("BitsPerSample: got %d, want 8", res.BitsPerSample())
	}
	if res.IsFloat() {
		t.Error("IsFloat: got true for an integer-domain PNG")
	}

	channels := res.Channels()
	if len(channels) != 3 {
		t.Fatalf("Channels: got %d, want 3", len(channels))
	}
	if channels[0].Name != "Red" || channels[0].Color != PackColor(255, 0, 0) {
		t.Errorf("channel 0: got %+v", channels[0])
	}
}

func TestFileOpener_ReadRegion(t *testing.T) {
	path := writePNG(t, t.TempDir(), "rgb.png", solidRGBA(8, 8, color.NRGBA{R: 200, G: 100, B: 50, A: 255}))

	res, err := FileOpener{}.Open(Ref{Path: path})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer res.Close()

	plane, err := res.ReadRegion(2, image.Rect(0, 0, 8, 8))
	if err != nil {
		t.Fatalf("ReadRegion failed: %v", err)
	}
	if plane.Width != 4 || plane.Height != 4 {
		t.Errorf("downsampled dimensions: got %dx%d, want 4x4", plane.Width, plane.Height)
	}
	if plane.NumChannels() != 3 {
		t.Fatalf("channels: got %d, want 3", plane.NumChannels())
	}
	if err := plane.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	// A solid image stays solid through the box filter.
	if got := plane.At(0, 2, 2); got != 200 {
		t.Errorf("red sample: got %g, want 200", got)
	}
	if got := plane.At(2, 1, 3); got != 50 {
		t.Errorf("blue sample: got %g, want 50", got)
	}
}

func TestFileOpener_Gray16(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetGray16(x, y, color.Gray16{Y: 40000})
		}
	}
	path := writePNG(t, t.TempDir(), "gray16.png", img)

	res, err := FileOpener{}.Open(Ref{Path: path})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer res.Close()

	if res.BitsPerSample() != 16 {
		t.Errorf("BitsPerSample: got %d, want 16", res.BitsPerSample())
	}
	channels := res.Channels()
	if len(channels) != 1 || channels[0].Name != "Gray" {
		t.Fatalf("Channels: got %+v, want single Gray", channels)
	}

	plane, err := res.ReadRegion(1, image.Rect(0, 0, 4, 4))
	if err != nil {
		t.Fatalf("ReadRegion failed: %v", err)
	}
	if got := plane.At(0, 0, 0); got != 40000 {
		t.Errorf("16-bit sample: got %g, want 40000", got)
	}
}

func TestFileOpener_MissingFile(t *testing.T) {
	_, err := FileOpener{}.Open(Ref{Path: filepath.Join(t.TempDir(), "absent.png")})
	if err == nil {
		t.Fatal("Open should fail for a missing file")
	}
}

func TestImageResource_CloseSemantics(t *testing.T) {
	res := NewImageResource(solidRGBA(2, 2, color.NRGBA{A: 255}))

	if err := res.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := res.Close(); err == nil {
		t.Error("second Close should report an error")
	}
	if _, err := res.ReadRegion(1, image.Rect(0, 0, 2, 2)); err == nil {
		t.Error("ReadRegion on a closed resource should fail")
	}
}

func TestImageResource_RegionOutsideBounds(t *testing.T) {
	res := NewImageResource(solidRGBA(4, 4, color.NRGBA{A: 255}))
	defer res.Close()

	if _, err := res.ReadRegion(1, image.Rect(10, 10, 20, 20)); err == nil {
		t.Error("ReadRegion outside bounds should fail")
	}
}

func TestRef_DisplayName(t *testing.T) {
	if got := (Ref{Path: "/data/a.tif", Name: "slide A"}).DisplayName(); got != "slide A" {
		t.Errorf("DisplayName: got %q, want %q", got, "slide A")
	}
	if got := (Ref{Path: "/data/a.tif"}).DisplayName(); got != "/data/a.tif" {
		t.Errorf("DisplayName fallback: got %q, want path", got)
	}
}

func TestPackColor_RoundTrip(t *testing.T) {
	c := PackColor(10, 20, 30)
	r, g, b := UnpackColor(c)
	if r != 10 || g != 20 || b != 30 {
		t.Errorf("round trip: got (%d, %d, %d)", r, g, b)
	}
}

func TestDefaultChannelColor(t *testing.T) {
	if got := DefaultChannelColor(0, 1); got != PackColor(255, 255, 255) {
		t.Errorf("single channel: got %06X, want white", got)
	}
	if got := DefaultChannelColor(0, 3); got != PackColor(255, 0, 0) {
		t.Errorf("first of many: got %06X, want red", got)
	}
	// The palette cycles past its end.
	if got := DefaultChannelColor(6, 8); got != DefaultChannelColor(0, 8) {
		t.Errorf("palette should cycle: got %06X", got)
	}
}

func TestChannelRange_Normalize(t *testing.T) {
	r := ChannelRange{MinDisplay: 100, MaxDisplay: 200}

	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"below range clamps to 0", 50, 0},
		{"min maps to 0", 100, 0},
		{"midpoint", 150, 0.5},
		{"max maps to 1", 200, 1},
		{"above range clamps to 1", 300, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Normalize(tt.v); got != tt.want {
				t.Errorf("Normalize(%g) = %g, want %g", tt.v, got, tt.want)
			}
		})
	}
}
