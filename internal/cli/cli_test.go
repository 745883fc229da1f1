package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/ppiankov/scirap/internal/model"
	"github.com/ppiankov/scirap/internal/report"
)

// run executes the root command with args and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		cfgFile = ""
		catalogPath = ""
		showKind = ""
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "scirap v") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestEval_TextFile(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "study.txt")
	if err := os.WriteFile(doc, []byte("Cells were dissolved in DMSO with a vehicle control."), 0644); err != nil {
		t.Fatal(err)
	}
	outDirPath := filepath.Join(dir, "out")

	out, err := run(t, "eval", doc, "--out-dir", outDirPath, "--format", "csv,md", "--no-cache")
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if !strings.Contains(out, "Final Score") {
		t.Errorf("expected console summary, got %q", out)
	}

	for _, name := range []string{"RQ_results.csv", "MQ_results.csv", "Relevance_results.csv", "report.md"} {
		if _, err := os.Stat(filepath.Join(outDirPath, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	rq, err := report.ReadCSVFile(filepath.Join(outDirPath, "RQ_results.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if rq.Max != 24 {
		t.Errorf("expected 24 RQ rules, got %d", rq.Max)
	}
}

func TestEval_InvalidCatalogIsFatal(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("version: 1\nrules: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	outDirPath := filepath.Join(dir, "out")

	_, err := run(t, "eval", filepath.Join(dir, "missing.txt"), "--catalog", bad, "--out-dir", outDirPath)
	if err == nil || !strings.Contains(err.Error(), "catalog") {
		t.Fatalf("expected catalog error, got %v", err)
	}
	if _, statErr := os.Stat(outDirPath); !os.IsNotExist(statErr) {
		t.Error("no output expected when the catalog is invalid")
	}
}

func TestCatalog_ExportValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")

	if _, err := run(t, "catalog", "export", path); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	out, err := run(t, "catalog", "validate", path)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "is valid") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestCatalog_ShowKind(t *testing.T) {
	out, err := run(t, "catalog", "show", "--kind", "relevance")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "R4") || strings.Contains(out, "RQ1 ") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestConfig_EnvOverride(t *testing.T) {
	t.Setenv("SCIRAP_HTTP_TIMEOUT", "7s")
	t.Setenv("SCIRAP_SCORING_HIGH_THRESHOLD", "0.9")

	out, err := run(t, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "timeout: 7s") || !strings.Contains(out, "high_threshold: 0.9") {
		t.Errorf("env overrides not applied:\n%s", out)
	}
}

func TestConfig_FileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "http:\n  timeout: 45s\nconcurrency:\n  workers: 9\n  parallel_rubrics: false\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfgFile = path
	initConfig()
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.Timeout != 45*time.Second || cfg.Concurrency.Workers != 9 {
		t.Errorf("file values not applied: %v %d", cfg.HTTP.Timeout, cfg.Concurrency.Workers)
	}
	if cfg.Concurrency.ParallelRubrics {
		t.Error("expected parallel_rubrics: false to disable rubric fan-out")
	}
	// Keys the file does not mention keep their defaults
	if cfg.Scoring.HighThreshold != 0.75 {
		t.Errorf("expected default high threshold, got %v", cfg.Scoring.HighThreshold)
	}
	cfgFile = ""
}

func TestConfig_Init(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if _, err := run(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfgFile = path
	initConfig()
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("expected default timeout, got %v", cfg.HTTP.Timeout)
	}
	cfgFile = ""

	if _, err := run(t, "--config", path, "config", "init"); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"study.pdf", "study"},
		{"my study: part 1.txt", "my-study_-part-1"},
		{"a/b\\c", "a_b_c"},
		{"", "document"},
		{strings.Repeat("x", 150), strings.Repeat("x", 100)},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := reportDirName(2, "paper.html"); got != "003_paper" {
		t.Errorf("unexpected dir name %q", got)
	}
}

func TestEvalFlags_TimeoutDoesNotChangeFetchTimeout(t *testing.T) {
	fs := pflag.NewFlagSet("eval", pflag.ContinueOnError)
	addEvalFlags(fs)
	if err := fs.Parse([]string{"--timeout", "5m"}); err != nil {
		t.Fatal(err)
	}

	cfg := model.DefaultConfig()
	applyEvalFlags(fs, cfg)
	if timeout != 5*time.Minute {
		t.Errorf("expected overall timeout 5m, got %v", timeout)
	}
	if cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("expected HTTP timeout to keep its default, got %v", cfg.HTTP.Timeout)
	}

	fs = pflag.NewFlagSet("eval", pflag.ContinueOnError)
	addEvalFlags(fs)
	if err := fs.Parse([]string{"--fetch-timeout", "5s"}); err != nil {
		t.Fatal(err)
	}
	cfg = model.DefaultConfig()
	applyEvalFlags(fs, cfg)
	if cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("expected HTTP timeout 5s, got %v", cfg.HTTP.Timeout)
	}
	if timeout != 2*time.Minute {
		t.Errorf("expected default overall timeout, got %v", timeout)
	}
}

func TestBatchFlags_OutputDirPrecedence(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"config value kept", nil, "from-config"},
		{"flag wins", []string{"--output-dir", "from-flag"}, "from-flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := pflag.NewFlagSet("batch", pflag.ContinueOnError)
			addBatchFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatal(err)
			}

			cfg := model.DefaultConfig()
			cfg.Output.Dir = "from-config"
			applyBatchFlags(fs, cfg)
			if cfg.Output.Dir != tt.want {
				t.Errorf("expected output dir %q, got %q", tt.want, cfg.Output.Dir)
			}
		})
	}
}

func TestBatch_UsesConfiguredOutputDir(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs")
	if err := os.MkdirAll(docs, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(docs, "study.txt"), []byte("Cells were tested in triplicate."), 0644); err != nil {
		t.Fatal(err)
	}

	reports := filepath.Join(dir, "reports")
	cfgPath := filepath.Join(dir, "config.yaml")
	content := "output:\n  dir: " + reports + "\n  formats: [csv]\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "--config", cfgPath, "batch", docs, "--no-cache"); err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(reports, "001_study", "RQ_results.csv")); err != nil {
		t.Errorf("expected report under the configured output dir: %v", err)
	}
}
