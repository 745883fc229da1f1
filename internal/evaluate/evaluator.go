// Package evaluate applies catalog rules to normalized document text.
//
// Disqualifying evidence is checked first: a contradiction (quality rules)
// or an exclusion term (relevance rules) decides the verdict no matter how
// many supporting keywords also match.
package evaluate

import (
	"strings"

	"github.com/ppiankov/scirap/internal/model"
	"github.com/ppiankov/scirap/internal/normalize"
)

const (
	noInformation = "No information found."
	noRelevance   = "No relevance terms found."
)

// Evaluator turns rules and normalized text into verdicts
type Evaluator struct{}

// NewEvaluator creates a new evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate applies one rule to text. The returned result has no score yet.
func (e *Evaluator) Evaluate(rule model.Rule, text normalize.Text) model.RuleResult {
	var verdict model.Verdict
	var explanation string

	switch rule.Kind {
	case model.KindRelevance:
		verdict, explanation = EvaluateRelevance(rule.Direct, rule.Indirect, rule.NotRelevant, text)
	case model.KindReporting:
		// Reporting rules carry no contradiction list
		verdict, explanation = EvaluateRule(rule.Strong, rule.Weak, nil, text)
	default:
		verdict, explanation = EvaluateRule(rule.Strong, rule.Weak, rule.Contradict, text)
	}

	return model.RuleResult{
		Key:         rule.Key,
		Question:    rule.Question,
		Verdict:     verdict,
		Explanation: explanation,
	}
}

// EvaluateRubric applies every rule to text, keeping rule order
func (e *Evaluator) EvaluateRubric(rules []model.Rule, text normalize.Text) []model.RuleResult {
	results := make([]model.RuleResult, len(rules))
	for i, rule := range rules {
		results[i] = e.Evaluate(rule, text)
	}
	return results
}

// EvaluateRule decides a reporting or methodological verdict.
// Precedence: contradict, then strong, then weak, then nothing found.
func EvaluateRule(strong, weak, contradict []string, text normalize.Text) (model.Verdict, string) {
	if hits := Hits(contradict, text); len(hits) > 0 {
		return model.VerdictNotFulfilled, explain("Contradictory", hits)
	}
	if hits := Hits(strong, text); len(hits) > 0 {
		return model.VerdictFulfilled, explain("Strong", hits)
	}
	if hits := Hits(weak, text); len(hits) > 0 {
		return model.VerdictPartiallyFulfilled, explain("Weak", hits)
	}
	return model.VerdictNotReported, noInformation
}

// EvaluateRelevance decides a relevance verdict.
// Precedence: exclusion terms, then direct, then indirect. Exclusion and
// absence both yield Not relevant; only the explanation tells them apart.
func EvaluateRelevance(direct, indirect, notRelevant []string, text normalize.Text) (model.Verdict, string) {
	if hits := Hits(notRelevant, text); len(hits) > 0 {
		return model.VerdictNotRelevant, explain("Excluded terms", hits)
	}
	if hits := Hits(direct, text); len(hits) > 0 {
		return model.VerdictDirectlyRelevant, explain("Direct", hits)
	}
	if hits := Hits(indirect, text); len(hits) > 0 {
		return model.VerdictIndirectlyRelevant, explain("Indirect", hits)
	}
	return model.VerdictNotRelevant, noRelevance
}

// Hits returns the keywords found in text, in keyword order
func Hits(keywords []string, text normalize.Text) []string {
	var hits []string
	for _, kw := range keywords {
		if text.Contains(kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}

func explain(label string, hits []string) string {
	return label + ": " + strings.Join(hits, ", ")
}
