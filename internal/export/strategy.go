package export

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/slidekit/slide-export/internal/slide"
)

// Strategy is one export flavor. Export writes the output for a single
// image; the runner calls it at most once per item.
type Strategy interface {
	// Name identifies the flavor in logs, metrics, and reproducibility
	// records.
	Name() string

	// Export writes the output for res under the given display name.
	// A *IncompatibleError return means the image cannot go through this
	// flavor; any other error is a genuine failure.
	Export(res slide.Resource, name string) error
}

// IncompatibleError marks an image as structurally unsuited to a strategy.
// The batch runner counts these as skips rather than failures.
type IncompatibleError struct {
	Strategy string
	Reason   string
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("incompatible with %s export: %s", e.Strategy, e.Reason)
}

func incompatible(strategy, format string, args ...any) error {
	return &IncompatibleError{Strategy: strategy, Reason: fmt.Sprintf(format, args...)}
}

// IsIncompatible reports whether err (or anything it wraps) is an
// IncompatibleError.
func IsIncompatible(err error) bool {
	var e *IncompatibleError
	return errors.As(err, &e)
}

// outputPath builds the output file path for one item, flattening any path
// separators in the display name and ensuring the directory exists.
func outputPath(dir, name, ext string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	base := strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	if base == "" {
		base = "image"
	}
	return filepath.Join(dir, base+ext), nil
}

// readWhole reads the full extent of a resource at the given downsample.
func readWhole(res slide.Resource, downsample float64) (*slide.Plane, error) {
	w, h := res.Size()
	plane, err := res.ReadRegion(downsample, image.Rect(0, 0, w, h))
	if err != nil {
		return nil, fmt.Errorf("read region: %w", err)
	}
	return plane, nil
}
