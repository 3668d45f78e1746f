package batch

import "fmt"

// Tally accumulates per-item outcomes for one batch run.
//
// Succeeded + Failed + Skipped never exceeds the item count, and equals it
// exactly when the batch ran to completion; items never reached because of
// cancellation are simply not counted. The runner mutates the tally once
// per processed item and hands it back read-only.
type Tally struct {
	Succeeded int
	Failed    int
	Skipped   int

	// Errors holds one "{name}: {message}" line per failed or skipped
	// item, in processing order.
	Errors []string

	// Cancelled reports whether the run stopped early on cancellation.
	Cancelled bool
}

// Processed returns the number of items that reached a classification.
func (t *Tally) Processed() int {
	return t.Succeeded + t.Failed + t.Skipped
}

// HasErrors reports whether any item genuinely failed. Skips are expected
// in heterogeneous batches and do not count as errors here.
func (t *Tally) HasErrors() bool {
	return t.Failed > 0
}

// Summary renders a one-line human-readable account of the run.
func (t *Tally) Summary() string {
	state := "complete"
	if t.Cancelled {
		state = "cancelled"
	}
	return fmt.Sprintf("Export %s: %d succeeded, %d failed, %d skipped",
		state, t.Succeeded, t.Failed, t.Skipped)
}

func (t *Tally) recordFailure(name string, err error) {
	t.Failed++
	t.Errors = append(t.Errors, fmt.Sprintf("%s: %v", name, err))
}

func (t *Tally) recordSkip(name string, err error) {
	t.Skipped++
	t.Errors = append(t.Errors, fmt.Sprintf("%s: %v", name, err))
}
