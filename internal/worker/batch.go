package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/scirap/internal/ingest"
	"github.com/ppiankov/scirap/internal/model"
)

// Evaluator evaluates one document reference (file path or URL)
type Evaluator interface {
	Evaluate(ctx context.Context, ref string) (*model.Report, error)
}

// DocumentJob evaluates a single document
type DocumentJob struct {
	Index     int
	Ref       string
	Evaluator Evaluator
	Limiter   *Limiter
}

// Execute executes the document job
func (j *DocumentJob) Execute(ctx context.Context) Result {
	start := time.Now()
	res := &DocumentResult{Index: j.Index, Ref: j.Ref}

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Ref); err != nil {
			res.Error = fmt.Errorf("rate limit: %w", err)
			res.Duration = time.Since(start)
			return res
		}
	}

	res.Report, res.Error = j.Evaluator.Evaluate(ctx, j.Ref)
	res.Duration = time.Since(start)
	return res
}

// DocumentResult represents the result of a document job
type DocumentResult struct {
	Index    int
	Ref      string
	Report   *model.Report
	Error    error
	Duration time.Duration
}

// GetError returns the error from the document result
func (r *DocumentResult) GetError() error {
	return r.Error
}

// BatchProcessor evaluates multiple documents concurrently
type BatchProcessor struct {
	evaluator   Evaluator
	concurrency int
	limiter     *Limiter
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor. URL refs are throttled
// per domain at rps requests per second.
func NewBatchProcessor(evaluator Evaluator, concurrency int, rps float64, burst int, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		evaluator:   evaluator,
		concurrency: concurrency,
		limiter:     NewLimiter(rps, burst),
		logger:      logger,
	}
}

// ProcessRefs evaluates refs concurrently and returns one result per ref in input order
func (b *BatchProcessor) ProcessRefs(ctx context.Context, refs []string) []*DocumentResult {
	out := make([]*DocumentResult, len(refs))
	if len(refs) == 0 {
		return out
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	defer pool.Shutdown()

	go func() {
		defer pool.Close()
		for i, ref := range refs {
			job := &DocumentJob{
				Index:     i,
				Ref:       ref,
				Evaluator: b.evaluator,
				Limiter:   b.limiter,
			}
			if !pool.Submit(job) {
				return
			}
		}
	}()

	for r := range pool.Results() {
		res := r.(*DocumentResult)
		out[res.Index] = res

		if res.Error != nil {
			b.logger.Warn("document failed", zap.String("ref", res.Ref), zap.Error(res.Error))
		} else {
			b.logger.Info("document evaluated",
				zap.String("ref", res.Ref),
				zap.Float64("final", res.Report.Summary.Final),
				zap.String("band", string(res.Report.Summary.Band)),
				zap.Duration("elapsed", res.Duration),
			)
		}
	}

	// Jobs that never ran because ctx was cancelled
	for i, res := range out {
		if res == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &DocumentResult{Index: i, Ref: refs[i], Error: err}
		}
	}

	b.logger.Debug("batch finished",
		zap.Int("documents", len(refs)),
		zap.Strings("hosts", b.limiter.Hosts()),
	)

	return out
}

// ReadRefsFromFile reads document refs from a file (one per line).
// Blank lines and # comments are skipped and duplicates removed.
func ReadRefsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var refs []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			refs = append(refs, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return refs, nil
}

// ExpandRefs turns a batch argument into document refs: a directory yields
// its supported files (sorted, not recursive), a file is read as a ref list.
func ExpandRefs(arg string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", arg, err)
	}
	if !info.IsDir() {
		return ReadRefsFromFile(arg)
	}

	entries, err := os.ReadDir(arg)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var refs []string
	for _, e := range entries {
		if e.IsDir() || !ingest.IsSupportedFile(e.Name()) {
			continue
		}
		refs = append(refs, filepath.Join(arg, e.Name()))
	}
	sort.Strings(refs)
	return refs, nil
}
