package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/slidekit/slide-export/internal/batch"
	"github.com/slidekit/slide-export/internal/config"
	"github.com/slidekit/slide-export/internal/export"
	"github.com/slidekit/slide-export/internal/scan"
	"github.com/slidekit/slide-export/internal/slide"
)

// exportFlags holds flag overrides layered on top of the profile.
type exportFlags struct {
	profile       string
	flavor        string
	outputDir     string
	format        string
	downsample    float64
	globalRanges  bool
	clipPercent   float64
	annotations   bool
	annotationDir string
}

func newExportCommand() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export <image>...",
		Short: "Export a batch of images",
		Long: `Export every given image with the selected flavor.

Each image is processed independently: a failure or an incompatible image
is recorded and the batch moves on. With --global-ranges the whole batch
is scanned first to compute consistent per-channel brightness ranges for
the rendered flavor.

Examples:
  slide-export export --flavor rendered --output out/ slides/*.tif
  slide-export export --profile export.yaml slides/*.tif
  slide-export export --flavor rendered --global-ranges --clip 1 --output out/ slides/*.tif`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.profile, "profile", "", "profile file (.yaml, .yml, .json, .jsonc)")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "", "export flavor: rendered, mask, raw, or tiled")
	cmd.Flags().StringVar(&flags.outputDir, "output", "", "output directory")
	cmd.Flags().StringVar(&flags.format, "format", "", "image format for rendered/tiled output: png or jpeg")
	cmd.Flags().Float64Var(&flags.downsample, "downsample", 0, "export downsample factor (>= 1)")
	cmd.Flags().BoolVar(&flags.globalRanges, "global-ranges", false, "scan the batch first for consistent display ranges")
	cmd.Flags().Float64Var(&flags.clipPercent, "clip", -1, "percentile clip per tail for the range scan (0-50)")
	cmd.Flags().BoolVar(&flags.annotations, "annotations", false, "also export GeoJSON annotations")
	cmd.Flags().StringVar(&flags.annotationDir, "annotation-dir", "", "annotation output directory (default: output directory)")
	return cmd
}

func runExport(ctx context.Context, paths []string, flags *exportFlags) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	profile, err := loadProfile(flags)
	if err != nil {
		return err
	}

	items := makeItems(paths)
	opener := slide.FileOpener{}

	var ranges []slide.ChannelRange
	if profile.GlobalRanges {
		fmt.Printf("Scanning %d images for global display ranges...\n", len(items))
		refs := make([]slide.Ref, len(items))
		for i, it := range items {
			refs[i] = it.Ref
		}
		ranges = scan.New(opener).GlobalRanges(ctx, refs, scan.Options{
			ClipPercent: profile.ClipPercent,
			Downsample:  profile.ScanDownsample,
		})
		if len(ranges) == 0 {
			fmt.Println("No global ranges available, falling back to per-image display settings")
		} else {
			printRanges(ranges)
		}
	}

	strategy, err := profile.Strategy(ranges)
	if err != nil {
		return err
	}

	opts := batch.Options{Progress: batch.NewProgress()}
	if profile.Annotations {
		opts.Annotations = export.GeoJSON{}
		opts.AnnotationDir = profile.AnnotationDir
	}
	if profile.RecordSteps {
		opts.Recorder = batch.FileRecorder{Dir: profile.HistoryDir}
		opts.Script = scriptFor(profile.Flavor, paths)
	}

	tally := batch.New(opener).Run(ctx, items, strategy, opts)

	fmt.Println(tally.Summary())
	for _, line := range tally.Errors {
		fmt.Printf("  %s\n", line)
	}
	if tally.HasErrors() {
		return fmt.Errorf("%d of %d items failed", tally.Failed, len(items))
	}
	return nil
}

// loadProfile reads the profile file (or defaults) and layers the flag
// overrides on top.
func loadProfile(flags *exportFlags) (config.Profile, error) {
	profile := config.Default()
	if flags.profile != "" {
		p, err := config.Load(flags.profile)
		if err != nil {
			return config.Profile{}, err
		}
		profile = p
	}
	if flags.flavor != "" {
		profile.Flavor = flags.flavor
	}
	if flags.outputDir != "" {
		profile.OutputDir = flags.outputDir
	}
	if flags.format != "" {
		profile.Format = flags.format
	}
	if flags.downsample > 0 {
		profile.Downsample = flags.downsample
	}
	if flags.globalRanges {
		profile.GlobalRanges = true
	}
	if flags.clipPercent >= 0 {
		profile.ClipPercent = flags.clipPercent
	}
	if flags.annotations {
		profile.Annotations = true
		if flags.annotationDir != "" {
			profile.AnnotationDir = flags.annotationDir
		} else if profile.AnnotationDir == "" {
			profile.AnnotationDir = profile.OutputDir
		}
	}
	if err := profile.Validate(); err != nil {
		return config.Profile{}, err
	}
	return profile, nil
}

func makeItems(paths []string) []batch.Item {
	items := make([]batch.Item, len(paths))
	for i, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		items[i] = batch.Item{Name: name, Ref: slide.Ref{Path: p, Name: name}}
	}
	return items
}

// scriptFor renders the reproducibility script attached to each item's
// history on success.
func scriptFor(flavor string, paths []string) string {
	return fmt.Sprintf("slide-export export --flavor %s %s", flavor, strings.Join(paths, " "))
}

func printRanges(ranges []slide.ChannelRange) {
	for _, r := range ranges {
		fmt.Printf("  %-12s #%06X  [%g, %g]\n", r.Name, r.Color, r.MinDisplay, r.MaxDisplay)
	}
}
