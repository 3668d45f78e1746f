package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/slidekit/slide-export/internal/scan"
	"github.com/slidekit/slide-export/internal/slide"
)

type scanFlags struct {
	clipPercent float64
	downsample  float64
}

func newScanCommand() *cobra.Command {
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan <image>...",
		Short: "Compute global per-channel display ranges for a batch",
		Long: `Scan every given image at reduced resolution and print the
percentile-clipped per-channel display ranges for the whole collection.

This is the same pre-pass "export --global-ranges" runs before rendering;
running it standalone is useful for inspecting a batch's brightness
distribution without exporting anything.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), args, flags)
		},
	}

	cmd.Flags().Float64Var(&flags.clipPercent, "clip", 1, "percentile clip per tail (0-50)")
	cmd.Flags().Float64Var(&flags.downsample, "downsample", 32, "scan downsample factor (>= 1)")
	return cmd
}

func runScan(ctx context.Context, paths []string, flags *scanFlags) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	refs := make([]slide.Ref, len(paths))
	for i, p := range paths {
		refs[i] = slide.Ref{Path: p}
	}

	ranges := scan.New(slide.FileOpener{}).GlobalRanges(ctx, refs, scan.Options{
		ClipPercent: flags.clipPercent,
		Downsample:  flags.downsample,
		Progress: func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rScanning %d/%d", done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		},
	})
	if len(ranges) == 0 {
		return fmt.Errorf("no global ranges available")
	}

	fmt.Printf("Global display ranges over %d images (%.3g%% clip per tail):\n",
		len(paths), flags.clipPercent)
	printRanges(ranges)
	return nil
}
