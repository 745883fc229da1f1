package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ppiankov/scirap/internal/model"
	"github.com/ppiankov/scirap/internal/pipeline"
	"github.com/ppiankov/scirap/internal/report"
)

var (
	outDir      string
	formats     []string
	catalogPath string
	timeout     time.Duration
	evalFetch   time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	noFooter    bool
	insecureTLS bool
	noRobots    bool
	httpProxy   string
	httpsProxy  string
)

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval <file|url>",
	Short: "Evaluate a single study document",
	Long: `Eval reads one study report (plain text, HTML or PDF; local file or URL) and:
- Normalizes the extracted text
- Evaluates the 24 reporting quality and 16 methodological quality criteria
- Evaluates the 4 relevance criteria
- Scores each rubric and assigns an overall quality band
- Writes per-rubric result tables and a console summary

Example:
  scirap eval study.pdf
  scirap eval https://example.org/article.html --format csv,md
  scirap eval study.txt --out-dir ./reports/study --catalog my-catalog.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	addEvalFlags(evalCmd.Flags())
}

func addEvalFlags(fs *pflag.FlagSet) {
	fs.StringVar(&outDir, "out-dir", "./scirap-report", "output directory for report files")
	fs.StringSliceVar(&formats, "format", []string{"csv", "json"}, "output formats (csv, json, md, xlsx)")
	fs.DurationVar(&timeout, "timeout", 2*time.Minute, "overall evaluation timeout")
	fs.DurationVar(&evalFetch, "fetch-timeout", 30*time.Second, "HTTP timeout for the document download")
	addIngestFlags(fs)
}

// applyEvalFlags copies explicitly set eval flags over the loaded configuration.
// --timeout bounds the whole run and never changes the HTTP timeout.
func applyEvalFlags(fs *pflag.FlagSet, cfg *model.Config) {
	applyIngestFlags(fs, cfg)
	if fs.Changed("fetch-timeout") {
		cfg.HTTP.Timeout = evalFetch
	}
	if fs.Changed("out-dir") {
		cfg.Output.Dir = outDir
	}
	if fs.Changed("format") {
		cfg.Output.Formats = formats
	}
}

// addIngestFlags registers the catalog, HTTP and rendering flags shared by eval and batch
func addIngestFlags(fs *pflag.FlagSet) {
	fs.StringVar(&catalogPath, "catalog", "", "rule catalog YAML (default: built-in catalog)")
	fs.StringVar(&userAgent, "ua", "scirap/0.1 (+https://github.com/ppiankov/scirap)", "HTTP User-Agent")
	fs.Int64Var(&maxBytes, "max-bytes", 20_000_000, "max document bytes to download")
	fs.BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	fs.BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	fs.BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	fs.BoolVar(&noRobots, "no-robots", false, "do not consult robots.txt before fetching")
	fs.StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	fs.StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

// applyIngestFlags copies explicitly set flags over the loaded configuration
func applyIngestFlags(fs *pflag.FlagSet, cfg *model.Config) {
	if fs.Changed("catalog") {
		cfg.Catalog.Path = catalogPath
	}
	if fs.Changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if fs.Changed("max-bytes") {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	if fs.Changed("insecure") {
		cfg.HTTP.InsecureTLS = insecureTLS
	}
	if fs.Changed("no-robots") {
		cfg.HTTP.RespectRobots = !noRobots
	}
	if fs.Changed("http-proxy") {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if fs.Changed("https-proxy") {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	if fs.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if fs.Changed("no-footer") {
		cfg.Output.IncludeFooter = !noFooter
	}
}

func runEval(cmd *cobra.Command, args []string) error {
	ref := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyEvalFlags(cmd.Flags(), cfg)

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

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Evaluating: %s\n", ref)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg, cat, logger)

	rep, err := p.Evaluate(ctx, ref)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Loaded %s (%d bytes)\n", rep.Document.Name, rep.Document.Bytes)
		for _, rubric := range rep.Rubrics {
			fmt.Fprintf(os.Stderr, "✓ Evaluated %d %s rules\n", rubric.Max, rubric.Kind)
		}
		fmt.Fprintln(os.Stderr)
	}

	paths, err := p.RenderReport(rep, cfg.Output.Dir, outFormats, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if verbose {
		for _, path := range paths {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
		}
	}

	return nil
}
