package export

import (
	"fmt"
	"image"
	"os"

	"golang.org/x/image/tiff"

	"github.com/slidekit/slide-export/internal/slide"
)

// RawOptions configures the raw-region flavor.
type RawOptions struct {
	OutputDir  string
	Downsample float64

	// Region selects a full-resolution pixel rectangle; the zero value
	// exports the whole image.
	Region image.Rectangle
}

// Raw writes pixel data as a deflate-compressed TIFF at native bit depth,
// the interchange format downstream analysis tools expect. TIFF has no
// standard float-sample layout this encoder produces, so float-domain
// images are refused.
type Raw struct {
	Opts RawOptions
}

func (r Raw) Name() string { return "raw" }

func (r Raw) Export(res slide.Resource, name string) error {
	if res.IsFloat() {
		return incompatible(r.Name(), "raw TIFF export requires an integer pixel domain")
	}

	region := r.Opts.Region
	if region.Empty() {
		w, h := res.Size()
		region = image.Rect(0, 0, w, h)
	}
	downsample := r.Opts.Downsample
	if downsample < 1 {
		downsample = 1
	}
	plane, err := res.ReadRegion(downsample, region)
	if err != nil {
		return fmt.Errorf("read region: %w", err)
	}

	img := flattenImage(plane, res.BitsPerSample())
	path, err := outputPath(r.Opts.OutputDir, name, ".tif")
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
