// Package scan computes percentile-clipped per-channel display ranges
// across an entire batch of images, ahead of any export.
//
// The scanner reads every image at a heavily reduced resolution and folds
// the sampled values into per-channel histograms, so memory stays bounded
// by channels x bins no matter how large the batch or the individual
// images are. Integer pixel domains get an exact histogram in a single
// pass; floating point domains have no a-priori bounds, so they cost two
// passes: one to find the true per-channel minimum and maximum, a second
// to bin every sample into a fixed number of bins spanning that range.
// This asymmetry is deliberate and should stay: discrete domains get their
// bounds for free from the bit depth.
//
// Scanning is best-effort sampling, not per-item accounting. An image that
// fails to open or read is logged and simply contributes nothing to the
// histograms; only a failure to open the first image, which supplies the
// channel layout the whole scan is keyed on, aborts the scan (with an
// empty result, never an error).
package scan
