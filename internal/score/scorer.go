package score

import (
	"errors"
	"fmt"

	"github.com/ppiankov/scirap/internal/model"
)

// ErrUnknownVerdict is returned when a verdict is not in the score table of its rubric
var ErrUnknownVerdict = errors.New("unknown verdict")

// Score tables per rubric. Not reported is listed explicitly so every
// verdict the evaluator can emit has a value.
var tables = map[model.Kind]map[model.Verdict]float64{
	model.KindReporting: {
		model.VerdictFulfilled:          1,
		model.VerdictPartiallyFulfilled: 0.5,
		model.VerdictNotFulfilled:       0,
		model.VerdictNotReported:        0,
	},
	model.KindMethodological: {
		model.VerdictFulfilled:          1,
		model.VerdictPartiallyFulfilled: 0.5,
		model.VerdictNotFulfilled:       0,
		model.VerdictNotReported:        0,
	},
	model.KindRelevance: {
		model.VerdictDirectlyRelevant:   1,
		model.VerdictIndirectlyRelevant: 0.5,
		model.VerdictNotRelevant:        0,
	},
}

// Scorer maps verdicts to numbers and aggregates rubric totals
type Scorer struct {
	high     float64
	moderate float64
}

// NewScorer creates a new scorer. Zero thresholds fall back to the defaults.
func NewScorer(cfg model.ScoringConfig) *Scorer {
	defaults := model.DefaultConfig().Scoring
	s := &Scorer{high: cfg.HighThreshold, moderate: cfg.ModerateThreshold}
	if s.high <= 0 {
		s.high = defaults.HighThreshold
	}
	if s.moderate <= 0 {
		s.moderate = defaults.ModerateThreshold
	}
	return s
}

// Score returns the numeric value of verdict within rubric kind
func (s *Scorer) Score(kind model.Kind, verdict model.Verdict) (float64, error) {
	table, ok := tables[kind]
	if !ok {
		return 0, fmt.Errorf("%w: no score table for kind %q", ErrUnknownVerdict, kind)
	}
	v, ok := table[verdict]
	if !ok {
		return 0, fmt.Errorf("%w: %q for %s rules", ErrUnknownVerdict, verdict, kind)
	}
	return v, nil
}

// ScoreRubric fills in per-rule scores and the rubric total.
// Results are copied; the input slice is left untouched.
func (s *Scorer) ScoreRubric(kind model.Kind, results []model.RuleResult) (model.RubricResult, error) {
	rubric := model.RubricResult{
		Kind:    kind,
		Results: make([]model.RuleResult, len(results)),
		Max:     len(results),
	}

	for i, r := range results {
		v, err := s.Score(kind, r.Verdict)
		if err != nil {
			return model.RubricResult{}, fmt.Errorf("rule %s: %w", r.Key, err)
		}
		r.Score = v
		rubric.Results[i] = r
		rubric.Total += v
	}

	return rubric, nil
}

// Summarize combines rubric totals into the final score and quality band
func (s *Scorer) Summarize(rubrics []model.RubricResult) model.Summary {
	var sum model.Summary
	for _, r := range rubrics {
		sum.Final += r.Total
		sum.Max += r.Max
	}
	sum.Band = s.Band(sum.Final, sum.Max)
	return sum
}

// Band classifies final against max. Lower bounds are inclusive.
func (s *Scorer) Band(final float64, max int) model.Band {
	if max <= 0 {
		return model.BandLow
	}
	m := float64(max)
	switch {
	case final >= s.high*m:
		return model.BandHigh
	case final >= s.moderate*m:
		return model.BandModerate
	default:
		return model.BandLow
	}
}
