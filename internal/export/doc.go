// Package export implements the per-image export flavors driven by the
// batch runner.
//
// Each flavor is a Strategy: it takes an open slide resource and a display
// name and either writes its output or returns an error. Errors split into
// two kinds the runner treats differently. An *IncompatibleError means the
// image is structurally unable to go through this flavor (a float-domain
// image offered to the label-mask writer, say); the runner counts it as a
// skip, an expected condition in heterogeneous batches. Any other error is
// a real export failure.
//
// Flavors:
//
//   - Rendered: channels flattened into an RGB overlay using per-channel
//     display ranges and colors, written as PNG or JPEG.
//   - Mask: a single channel written as an 8- or 16-bit grayscale label
//     mask.
//   - Raw: pixel data written as TIFF at native bit depth.
//   - Tiled: a tile pyramid directory plus a JSON metadata file.
//
// The GeoJSON annotation exporter is orthogonal to the flavors and always
// best-effort; the runner never fails an item over it.
package export
