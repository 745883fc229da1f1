package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ppiankov/scirap/internal/model"
	"github.com/ppiankov/scirap/internal/pipeline"
	"github.com/ppiankov/scirap/internal/report"
	"github.com/ppiankov/scirap/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	fetchTimeout time.Duration
	batchFormats []string
	rps          float64
	burst        int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file|dir>",
	Short: "Evaluate many study documents in parallel",
	Long: `Batch evaluates multiple documents concurrently:
- Read file paths and URLs from a list file (one per line), or every
  .txt, .md, .html and .pdf file in a directory
- Evaluate documents in parallel with a configurable worker count
- Throttle URL downloads per domain
- Write one report directory per document

Example:
  scirap batch studies.txt
  scirap batch ./papers --concurrency 8 --output-dir ./reports
  scirap batch urls.txt --rps 1 --burst 2 --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	addBatchFlags(batchCmd.Flags())
}

func addBatchFlags(fs *pflag.FlagSet) {
	fs.IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	fs.StringVar(&outputDir, "output-dir", "./scirap-report", "output directory for reports (overrides output.dir)")
	fs.DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	fs.DurationVar(&fetchTimeout, "fetch-timeout", 30*time.Second, "HTTP timeout for individual downloads")
	fs.StringSliceVar(&batchFormats, "format", []string{"csv", "json"}, "output formats (csv, json, md, xlsx)")
	fs.Float64Var(&rps, "rps", 2, "requests per second per domain (0 = unlimited)")
	fs.IntVar(&burst, "burst", 5, "request burst size per domain")

	addIngestFlags(fs)
}

// applyBatchFlags copies explicitly set batch flags over the loaded configuration
func applyBatchFlags(flags *pflag.FlagSet, cfg *model.Config) {
	applyIngestFlags(flags, cfg)
	if flags.Changed("fetch-timeout") {
		cfg.HTTP.Timeout = fetchTimeout
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir = outputDir
	}
	if flags.Changed("concurrency") || cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if flags.Changed("format") {
		cfg.Output.Formats = batchFormats
	}
	if flags.Changed("rps") {
		cfg.RateLimiting.RequestsPerSecond = rps
	}
	if flags.Changed("burst") {
		cfg.RateLimiting.BurstSize = burst
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	input := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyBatchFlags(cmd.Flags(), cfg)
	reportRoot := cfg.Output.Dir

	outFormats, err := report.ParseFormats(cfg.Output.Formats)
	if err != nil {
		return err
	}

	// Catalog problems stop the run before any document is read
	cat, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	refs, err := worker.ExpandRefs(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  scirap Batch Evaluation\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s (%d documents)\n", input, len(refs))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", reportRoot)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(reportRoot, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg, cat, logger)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers,
		cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize, logger)

	fmt.Fprintf(os.Stderr, "⚙️  Evaluating documents with %d workers...\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "\n")

	results := processor.ProcessRefs(ctx, refs)

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Ref, result.Error)
			continue
		}

		dir := filepath.Join(reportRoot, reportDirName(result.Index, result.Report.Document.Name))
		if _, err := p.RenderReport(result.Report, dir, outFormats, nil); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write report: %v\n", result.Ref, err)
			continue
		}

		successCount++
		summary := result.Report.Summary
		fmt.Fprintf(os.Stderr, "✓ %s (%s / %d, %s)\n", result.Ref, formatFinal(summary.Final), summary.Max, summary.Band)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d documents\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", reportRoot)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d documents failed", failureCount, len(results))
	}
	return nil
}

// reportDirName builds a unique per-document directory name such as "003_study-a"
func reportDirName(index int, name string) string {
	return fmt.Sprintf("%03d_%s", index+1, sanitizeFilename(name))
}

// sanitizeFilename sanitizes a string for use as a filename
func sanitizeFilename(s string) string {
	s = strings.TrimSuffix(s, filepath.Ext(s))

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = strings.Trim(replacer.Replace(s), ".-_")

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "document"
	}

	return s
}

func formatFinal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
