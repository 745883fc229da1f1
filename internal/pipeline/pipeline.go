// Package pipeline wires ingestion, normalization, rule evaluation, scoring
// and report assembly into a single per-document evaluation.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/scirap/internal/cache"
	"github.com/ppiankov/scirap/internal/catalog"
	"github.com/ppiankov/scirap/internal/evaluate"
	"github.com/ppiankov/scirap/internal/ingest"
	"github.com/ppiankov/scirap/internal/model"
	"github.com/ppiankov/scirap/internal/normalize"
	"github.com/ppiankov/scirap/internal/report"
	"github.com/ppiankov/scirap/internal/score"
)

// Pipeline orchestrates the complete evaluation of one document
type Pipeline struct {
	loader    *ingest.Loader
	catalog   *catalog.Catalog
	evaluator *evaluate.Evaluator
	scorer    *score.Scorer
	assembler *report.Assembler
	renderer  *report.Renderer
	logger    *zap.Logger
	config    *model.Config
}

// NewPipeline creates a pipeline for the given configuration and catalog.
// A nil catalog selects the built-in one.
func NewPipeline(cfg *model.Config, cat *catalog.Catalog, logger *zap.Logger) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		loader:    ingest.NewLoader(cfg.HTTP, cache.New(cfg.Cache), logger),
		catalog:   cat,
		evaluator: evaluate.NewEvaluator(),
		scorer:    score.NewScorer(cfg.Scoring),
		assembler: report.NewAssembler(),
		renderer:  report.NewRenderer(cfg.Output.IncludeFooter),
		logger:    logger,
		config:    cfg,
	}
}

// Evaluate loads ref (a file path or URL) and evaluates it
func (p *Pipeline) Evaluate(ctx context.Context, ref string) (*model.Report, error) {
	// 1. Ingest
	doc, err := p.loader.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	// 2-5. Normalize, evaluate, score, assemble
	rep, err := p.EvaluateDocument(ctx, *doc)
	if err != nil {
		return nil, err
	}

	p.logger.Info("document evaluated",
		zap.String("ref", ref),
		zap.Float64("final", rep.Summary.Final),
		zap.Int("max", rep.Summary.Max),
		zap.String("band", string(rep.Summary.Band)),
	)
	return rep, nil
}

// EvaluateDocument evaluates already extracted text. Every rubric is built
// before the report is assembled; if any rubric fails no report is returned.
func (p *Pipeline) EvaluateDocument(ctx context.Context, doc model.Document) (*model.Report, error) {
	text := normalize.Normalize(doc.Text)
	kinds := p.catalog.Kinds()
	rubrics := make([]model.RubricResult, len(kinds))

	build := func(i int) error {
		kind := kinds[i]
		results := p.evaluator.EvaluateRubric(p.catalog.Rules(kind), text)
		rubric, err := p.scorer.ScoreRubric(kind, results)
		if err != nil {
			return fmt.Errorf("score %s: %w", kind, err)
		}
		rubrics[i] = rubric

		p.logger.Debug("rubric scored",
			zap.String("ref", doc.Source),
			zap.String("kind", string(kind)),
			zap.Float64("total", rubric.Total),
			zap.Int("max", rubric.Max),
		)
		return nil
	}

	if p.config.Concurrency.ParallelRubrics {
		g, _ := errgroup.WithContext(ctx)
		for i := range kinds {
			i := i
			g.Go(func() error { return build(i) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range kinds {
			if err := build(i); err != nil {
				return nil, err
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return p.assembler.Assemble(doc, rubrics, p.scorer.Summarize(rubrics)), nil
}

// EvaluateText evaluates raw text under the given document name
func (p *Pipeline) EvaluateText(ctx context.Context, name, text string) (*model.Report, error) {
	return p.EvaluateDocument(ctx, model.Document{
		Name:        name,
		Source:      name,
		ContentType: ingest.TypeText,
		Bytes:       len(text),
		Text:        text,
	})
}

// RenderReport writes report into dir in each format and, when w is not
// nil, prints the console summary to it.
func (p *Pipeline) RenderReport(rep *model.Report, dir string, formats []string, w io.Writer) ([]string, error) {
	paths, err := p.renderer.Render(rep, dir, formats)
	if err != nil {
		return paths, err
	}

	for _, path := range paths {
		p.logger.Debug("report written", zap.String("path", path))
	}
	if w != nil {
		p.renderer.RenderSummary(w, rep)
	}
	return paths, nil
}

// Catalog returns the rule catalog used by the pipeline
func (p *Pipeline) Catalog() *catalog.Catalog {
	return p.catalog
}
