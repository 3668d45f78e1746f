package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/slidekit/slide-export/internal/slide"
)

// AnnotationExporter writes the annotation geometry associated with one
// image. The batch runner treats annotation export as best-effort: a
// failure here is logged and never affects the item's outcome.
type AnnotationExporter interface {
	Export(res slide.Resource, dir, name string) error
}

// GeoJSON writes annotations as a GeoJSON FeatureCollection next to the
// exported pixels. With no annotation source attached to the resource the
// collection carries a single feature for the image extent, with channel
// metadata in its properties; viewers use it to place the export in slide
// coordinates.
type GeoJSON struct{}

type geoFeature struct {
	Type       string         `json:"type"`
	Geometry   geoGeometry    `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geoGeometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

type geoCollection struct {
	Type     string       `json:"type"`
	Features []geoFeature `json:"features"`
}

func (GeoJSON) Export(res slide.Resource, dir, name string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create annotation directory: %w", err)
	}

	w, h := res.Size()
	channels := res.Channels()
	names := make([]string, len(channels))
	for i, ch := range channels {
		names[i] = ch.Name
	}

	fw := float64(w)
	fh := float64(h)
	col := geoCollection{
		Type: "FeatureCollection",
		Features: []geoFeature{{
			Type: "Feature",
			Geometry: geoGeometry{
				Type: "Polygon",
				Coordinates: [][][2]float64{{
					{0, 0}, {fw, 0}, {fw, fh}, {0, fh}, {0, 0},
				}},
			},
			Properties: map[string]any{
				"name":     name,
				"channels": names,
			},
		}},
	}

	raw, err := json.MarshalIndent(col, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal annotations: %w", err)
	}
	base := strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	path := filepath.Join(dir, base+".geojson")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
