// Package metrics provides Prometheus metrics for the export toolkit.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ExportItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slide_export_items_total",
			Help: "Total number of batch items processed, by outcome",
		},
		[]string{"outcome"},
	)
	ExportBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slide_export_batches_total",
			Help: "Total number of batch runs, by final state",
		},
		[]string{"state"},
	)
	ExportItemDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slide_export_item_duration_seconds",
			Help:    "Per-item export duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"flavor"},
	)
	ScanImages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slide_export_scan_images_total",
			Help: "Total number of images visited by the range scanner, by result",
		},
		[]string{"result"},
	)
	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "slide_export_scan_duration_seconds",
			Help:    "Global range scan duration in seconds",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 300, 600, 1800},
		},
	)
)

// Outcome label values for ExportItems.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
)

// Batch state label values for ExportBatches.
const (
	BatchCompleted = "completed"
	BatchCancelled = "cancelled"
)

// Scan result label values for ScanImages.
const (
	ScanScanned = "scanned"
	ScanSkipped = "skipped"
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
