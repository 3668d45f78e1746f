// Package cli implements the cobra commands for the slide-export binary.
package cli

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/slidekit/slide-export/internal/metrics"
)

// Version is set at build time via ldflags.
var Version = "dev"

// metricsListen, when set, serves the Prometheus endpoint for the lifetime
// of the command.
var metricsListen string

// NewRootCommand builds the root command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "slide-export",
		Short: "Batch export toolkit for large tiled microscopy images",
		Long: `slide-export batch-processes collections of tiled microscopy images.

It exports each image independently (rendered overlay, label mask, raw
TIFF, or tile pyramid), accounting for per-image success and failure
without ever aborting the batch, and can pre-compute globally consistent
per-channel brightness ranges across the whole collection before
rendering.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(os.Stderr)
			log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
			if metricsListen != "" {
				go serveMetrics(metricsListen)
			}
		},
	}

	root.PersistentFlags().StringVar(&metricsListen, "metrics-listen", "",
		"address to serve Prometheus metrics on (e.g. :9090), disabled when empty")

	root.AddCommand(newExportCommand())
	root.AddCommand(newScanCommand())
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute(root *cobra.Command) {
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("slide-export %s\n", Version)
		},
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("WARN: metrics endpoint: %v", err)
	}
}
