package batch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/slidekit/slide-export/internal/export"
	"github.com/slidekit/slide-export/internal/metrics"
	"github.com/slidekit/slide-export/internal/slide"
)

// Item is one unit of work: an image reference plus its display name.
type Item struct {
	Name string
	Ref  slide.Ref
}

// DisplayName returns the name used in status messages and error reports.
func (i Item) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Ref.DisplayName()
}

// Recorder persists a reproducibility record against an item's history.
// It is invoked only after a successful export, and only best-effort.
type Recorder interface {
	Record(item Item, step, script string) error
}

// Options carries the optional per-batch collaborators.
type Options struct {
	// Annotations, with a non-empty AnnotationDir, enables best-effort
	// annotation export after each successful item.
	Annotations   export.AnnotationExporter
	AnnotationDir string

	// Recorder, when non-nil, attaches Script as a named workflow step to
	// each successfully exported item.
	Recorder Recorder
	Script   string

	// Progress, when non-nil, receives position and status updates that
	// other goroutines may observe while the batch runs.
	Progress *Progress
}

// Runner drives export strategies over batches of items.
type Runner struct {
	opener slide.Opener
	runID  string
}

// New returns a Runner opening resources through the given opener. Each
// Runner carries a unique run ID used to correlate its log lines.
func New(opener slide.Opener) *Runner {
	return &Runner{opener: opener, runID: uuid.NewString()}
}

// Run processes every item in order with the given strategy and returns
// the final tally.
//
// Cancellation is cooperative: the context is checked once at the top of
// each iteration and never interrupts an in-flight export. Items not
// reached before cancellation are not counted in any bucket. The returned
// tally is final; the runner does not touch it after returning.
func (r *Runner) Run(ctx context.Context, items []Item, strategy export.Strategy, opts Options) *Tally {
	tally := &Tally{}
	total := len(items)
	start := time.Now()
	log.Printf("Batch %s: starting %s export of %d items", r.runID, strategy.Name(), total)

	for i, item := range items {
		if ctx.Err() != nil {
			tally.Cancelled = true
			log.Printf("Batch %s: cancelled after %d of %d items", r.runID, i, total)
			break
		}

		publish(opts, i, total, fmt.Sprintf("Exporting %s (%d/%d)", item.DisplayName(), i+1, total))

		itemStart := time.Now()
		err := r.runItem(item, strategy, opts)
		metrics.ExportItemDuration.WithLabelValues(strategy.Name()).Observe(time.Since(itemStart).Seconds())

		switch {
		case err == nil:
			tally.Succeeded++
			metrics.ExportItems.WithLabelValues(metrics.OutcomeSucceeded).Inc()
		case export.IsIncompatible(err):
			tally.recordSkip(item.DisplayName(), err)
			metrics.ExportItems.WithLabelValues(metrics.OutcomeSkipped).Inc()
			log.Printf("WARN: skipping %s: %v", item.DisplayName(), err)
		default:
			tally.recordFailure(item.DisplayName(), err)
			metrics.ExportItems.WithLabelValues(metrics.OutcomeFailed).Inc()
			log.Printf("ERROR: export failed for %s: %v", item.DisplayName(), err)
		}
	}

	state := metrics.BatchCompleted
	if tally.Cancelled {
		state = metrics.BatchCancelled
	}
	metrics.ExportBatches.WithLabelValues(state).Inc()

	publish(opts, total, total, tally.Summary())
	log.Printf("Batch %s: %s in %s", r.runID, tally.Summary(), time.Since(start).Round(time.Millisecond))
	return tally
}

// runItem performs one full open/export/close cycle. The resource opened
// here is closed on every path out, including a failed open that still
// produced partial state; a close failure is logged and swallowed.
func (r *Runner) runItem(item Item, strategy export.Strategy, opts Options) error {
	res, err := r.opener.Open(item.Ref)
	if res != nil {
		defer func() {
			if cerr := res.Close(); cerr != nil {
				log.Printf("WARN: closing %s: %v", item.DisplayName(), cerr)
			}
		}()
	}
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	if err := strategy.Export(res, item.DisplayName()); err != nil {
		return err
	}

	if opts.Annotations != nil && opts.AnnotationDir != "" {
		if err := opts.Annotations.Export(res, opts.AnnotationDir, item.DisplayName()); err != nil {
			log.Printf("WARN: annotation export failed for %s: %v", item.DisplayName(), err)
		}
	}

	if opts.Recorder != nil {
		if err := opts.Recorder.Record(item, strategy.Name(), opts.Script); err != nil {
			log.Printf("WARN: recording workflow step for %s: %v", item.DisplayName(), err)
		}
	}
	return nil
}

func publish(opts Options, done, total int, status string) {
	if opts.Progress != nil {
		opts.Progress.set(done, total, status)
	}
}
