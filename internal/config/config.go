// Package config loads export profiles from disk and turns them into the
// immutable option values the core packages consume.
//
// Profiles are YAML (.yaml/.yml) or JSONC (.json/.jsonc, comments and
// trailing commas allowed). The core never reads configuration itself; the
// CLI loads a profile here, applies flag overrides, and passes plain
// structs down.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/slidekit/slide-export/internal/export"
	"github.com/slidekit/slide-export/internal/slide"
)

// Export flavors accepted in a profile.
const (
	FlavorRendered = "rendered"
	FlavorMask     = "mask"
	FlavorRaw      = "raw"
	FlavorTiled    = "tiled"
)

// Profile is one on-disk export configuration.
type Profile struct {
	Flavor     string  `yaml:"flavor" json:"flavor"`
	OutputDir  string  `yaml:"outputDir" json:"outputDir"`
	Format     string  `yaml:"format,omitempty" json:"format,omitempty"`
	Downsample float64 `yaml:"downsample,omitempty" json:"downsample,omitempty"`
	Gamma      float64 `yaml:"gamma,omitempty" json:"gamma,omitempty"`

	// Tiled flavor.
	TileSize int `yaml:"tileSize,omitempty" json:"tileSize,omitempty"`

	// Mask flavor.
	MaskChannel int `yaml:"maskChannel,omitempty" json:"maskChannel,omitempty"`

	// Global range scan, consumed by the rendered flavor.
	GlobalRanges   bool    `yaml:"globalRanges,omitempty" json:"globalRanges,omitempty"`
	ClipPercent    float64 `yaml:"clipPercent,omitempty" json:"clipPercent,omitempty"`
	ScanDownsample float64 `yaml:"scanDownsample,omitempty" json:"scanDownsample,omitempty"`

	// Orthogonal best-effort steps.
	Annotations   bool   `yaml:"annotations,omitempty" json:"annotations,omitempty"`
	AnnotationDir string `yaml:"annotationDir,omitempty" json:"annotationDir,omitempty"`
	RecordSteps   bool   `yaml:"recordSteps,omitempty" json:"recordSteps,omitempty"`
	HistoryDir    string `yaml:"historyDir,omitempty" json:"historyDir,omitempty"`
}

// Default returns the profile used when no file is given.
func Default() Profile {
	return Profile{
		Flavor:         FlavorRendered,
		Format:         "png",
		Downsample:     1,
		TileSize:       512,
		ClipPercent:    1,
		ScanDownsample: 32,
	}
}

// Load reads a profile file, with defaults applied underneath it.
func Load(path string) (Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}

	p := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &p); err != nil {
			return Profile{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(raw), &p); err != nil {
			return Profile{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return Profile{}, fmt.Errorf("unsupported profile format %q (want .yaml, .yml, .json, or .jsonc)", filepath.Ext(path))
	}

	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Validate checks the profile's fields against the values the export
// strategies accept.
func (p Profile) Validate() error {
	switch p.Flavor {
	case FlavorRendered, FlavorMask, FlavorRaw, FlavorTiled:
	default:
		return fmt.Errorf("unknown flavor %q", p.Flavor)
	}
	if p.OutputDir == "" {
		return fmt.Errorf("outputDir is required")
	}
	if p.Format != "" && p.Format != "png" && p.Format != "jpeg" {
		return fmt.Errorf("unknown format %q (want png or jpeg)", p.Format)
	}
	if p.Downsample != 0 && p.Downsample < 1 {
		return fmt.Errorf("downsample must be >= 1, got %g", p.Downsample)
	}
	if p.ScanDownsample != 0 && p.ScanDownsample < 1 {
		return fmt.Errorf("scanDownsample must be >= 1, got %g", p.ScanDownsample)
	}
	if p.ClipPercent < 0 || p.ClipPercent >= 50 {
		return fmt.Errorf("clipPercent must be in [0, 50), got %g", p.ClipPercent)
	}
	if p.TileSize < 0 {
		return fmt.Errorf("tileSize must be positive, got %d", p.TileSize)
	}
	if p.MaskChannel < 0 {
		return fmt.Errorf("maskChannel must be >= 0, got %d", p.MaskChannel)
	}
	if p.Annotations && p.AnnotationDir == "" {
		return fmt.Errorf("annotations enabled but annotationDir is empty")
	}
	if p.RecordSteps && p.HistoryDir == "" {
		return fmt.Errorf("recordSteps enabled but historyDir is empty")
	}
	return nil
}

// Strategy builds the export strategy the profile describes. ranges is the
// output of a global range scan and applies only to the rendered flavor;
// nil means per-image defaults.
func (p Profile) Strategy(ranges []slide.ChannelRange) (export.Strategy, error) {
	switch p.Flavor {
	case FlavorRendered:
		return export.Rendered{Opts: export.RenderedOptions{
			OutputDir:  p.OutputDir,
			Format:     p.Format,
			Downsample: p.Downsample,
			Gamma:      p.Gamma,
			Ranges:     ranges,
		}}, nil
	case FlavorMask:
		return export.Mask{Opts: export.MaskOptions{
			OutputDir:  p.OutputDir,
			Downsample: p.Downsample,
			Channel:    p.MaskChannel,
		}}, nil
	case FlavorRaw:
		return export.Raw{Opts: export.RawOptions{
			OutputDir:  p.OutputDir,
			Downsample: p.Downsample,
		}}, nil
	case FlavorTiled:
		return export.Tiled{Opts: export.TiledOptions{
			OutputDir:  p.OutputDir,
			TileSize:   p.TileSize,
			Downsample: p.Downsample,
			Format:     p.Format,
		}}, nil
	default:
		return nil, fmt.Errorf("unknown flavor %q", p.Flavor)
	}
}
