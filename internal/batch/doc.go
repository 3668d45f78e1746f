// Package batch runs an export strategy over a sequence of images, one at
// a time, and accounts for each item independently.
//
// The runner is deliberately sequential: image resources are heavyweight
// (decoders plus pixel buffers), and isolating one item's failure from the
// next depends on completing a full open/export/close cycle before moving
// on. One bad image never aborts the batch; the loop only stops early on
// cooperative cancellation, checked once at the top of each iteration.
//
// Every processed item lands in exactly one of three buckets:
//
//   - succeeded: the export strategy returned no error
//   - skipped: the strategy reported the image structurally incompatible
//     (an expected, benign condition in mixed batches)
//   - failed: anything else
//
// Skips and failures append a "{name}: {message}" line to the tally's
// error list. Annotation export, reproducibility recording, and resource
// close are best-effort sub-steps: their failures are logged and never
// change an item's classification.
//
// Progress and status are published through a Progress value that other
// goroutines may read at any time while the runner works.
package batch
