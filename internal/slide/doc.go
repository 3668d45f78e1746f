// Package slide defines how the rest of the toolkit addresses and reads
// tiled microscopy images.
//
// The central abstraction is Resource: an open handle onto one image that
// exposes its dimensions, channel metadata, sample depth, and a region-read
// operation parameterized by a downsample factor. Resources are heavyweight
// (they may hold decoders and pixel buffers) and must be closed explicitly;
// the batch and scan packages guarantee a full open/read/close cycle per
// image so that at most one decoded image is resident at a time.
//
// # Channels and sample values
//
// Every resource exposes one or more channels, each with a display name and
// a packed 0xRRGGBB display color. ReadRegion returns samples as float64
// regardless of the on-disk representation so that 8-bit, 16-bit, and
// floating-point pixel domains flow through the same histogram and export
// code. BitsPerSample and IsFloat describe the native domain:
//
//   - 8-bit integer: samples in [0, 255]
//   - 16-bit integer: samples in [0, 65535]
//   - floating point: unbounded, may contain NaN for missing data
//
// # Downsampling
//
// A downsample factor of N reads a region at 1/N of its native resolution.
// Statistical consumers (the range scanner) read heavily downsampled whole
// images; export consumers choose their own factor per output flavor.
//
// # File-backed resources
//
// FileOpener reads PNG, JPEG, GIF, BMP, and TIFF files, including the
// 16-bit grayscale TIFFs common in fluorescence microscopy. Remote or
// proprietary slide formats plug in behind the Opener interface.
package slide
