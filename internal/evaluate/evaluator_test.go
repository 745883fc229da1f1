package evaluate

import (
	"strings"
	"testing"

	"github.com/ppiankov/scirap/internal/catalog"
	"github.com/ppiankov/scirap/internal/model"
	"github.com/ppiankov/scirap/internal/normalize"
)

func mustRule(t *testing.T, key string) model.Rule {
	t.Helper()
	r, ok := catalog.Default().Lookup(key)
	if !ok {
		t.Fatalf("rule %s not in default catalog", key)
	}
	return r
}

func TestEvaluateRule_Precedence(t *testing.T) {
	strong := []string{"triplicate", "n3"}
	weak := []string{"replicated"}
	contradict := []string{"n1", "single replicate"}

	tests := []struct {
		name        string
		text        string
		verdict     model.Verdict
		explanation string
	}{
		{"nothing", "the cells were green", model.VerdictNotReported, "No information found."},
		{"weak only", "experiments were replicated", model.VerdictPartiallyFulfilled, "Weak: replicated"},
		{"strong beats weak", "replicated in triplicate", model.VerdictFulfilled, "Strong: triplicate"},
		{"all strong hits listed", "n=3, done in triplicate", model.VerdictFulfilled, "Strong: triplicate, n3"},
		{"spaced n = 3 is not n3", "n = 3, done in triplicate", model.VerdictFulfilled, "Strong: triplicate"},
		{"contradiction beats strong", "n=1 but triplicate replicated", model.VerdictNotFulfilled, "Contradictory: n1"},
		{"all contradictions listed", "a single replicate (n=1)", model.VerdictNotFulfilled, "Contradictory: n1, single replicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, explanation := EvaluateRule(strong, weak, contradict, normalize.Normalize(tt.text))
			if verdict != tt.verdict {
				t.Errorf("expected verdict %q, got %q", tt.verdict, verdict)
			}
			if explanation != tt.explanation {
				t.Errorf("expected explanation %q, got %q", tt.explanation, explanation)
			}
		})
	}
}

func TestEvaluateRelevance_Precedence(t *testing.T) {
	direct := []string{"oligodendrocyte", "myelination"}
	indirect := []string{"mixed glia"}
	notRelevant := []string{"hepg2", "glioblastoma"}

	tests := []struct {
		name        string
		text        string
		verdict     model.Verdict
		explanation string
	}{
		{"nothing", "kidney cells", model.VerdictNotRelevant, "No relevance terms found."},
		{"indirect", "mixed glia cultures", model.VerdictIndirectlyRelevant, "Indirect: mixed glia"},
		{"direct beats indirect", "oligodendrocyte and mixed glia", model.VerdictDirectlyRelevant, "Direct: oligodendrocyte"},
		{"exclusion beats direct", "HepG2 and oligodendrocyte myelination", model.VerdictNotRelevant, "Excluded terms: hepg2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, explanation := EvaluateRelevance(direct, indirect, notRelevant, normalize.Normalize(tt.text))
			if verdict != tt.verdict {
				t.Errorf("expected verdict %q, got %q", tt.verdict, verdict)
			}
			if explanation != tt.explanation {
				t.Errorf("expected explanation %q, got %q", tt.explanation, explanation)
			}
		})
	}
}

func TestEvaluator_Scenarios(t *testing.T) {
	e := NewEvaluator()

	t.Run("RQ23 conflict of interest statement", func(t *testing.T) {
		res := e.Evaluate(mustRule(t, "RQ23"), normalize.Normalize("The authors declare no conflict of interest."))
		if res.Verdict != model.VerdictFulfilled {
			t.Errorf("expected Fulfilled, got %q", res.Verdict)
		}
		if !strings.HasPrefix(res.Explanation, "Strong: ") || !strings.Contains(res.Explanation, "no conflict of interest") {
			t.Errorf("unexpected explanation %q", res.Explanation)
		}
		if !strings.Contains(res.Explanation, "the authors declare no conflict") {
			t.Errorf("expected every strong hit in explanation, got %q", res.Explanation)
		}
	})

	t.Run("RQ5 control group only", func(t *testing.T) {
		res := e.Evaluate(mustRule(t, "RQ5"), normalize.Normalize("Cells of the control group were untreated."))
		if res.Verdict != model.VerdictPartiallyFulfilled {
			t.Errorf("expected Partially fulfilled, got %q", res.Verdict)
		}
		if res.Explanation != "Weak: control group" {
			t.Errorf("unexpected explanation %q", res.Explanation)
		}
	})

	t.Run("MQ12 single replicate despite triplicate", func(t *testing.T) {
		res := e.Evaluate(mustRule(t, "MQ12"), normalize.Normalize("Pilot run (n=1). Main assays were run in triplicate."))
		if res.Verdict != model.VerdictNotFulfilled {
			t.Errorf("expected Not fulfilled, got %q", res.Verdict)
		}
		if !strings.HasPrefix(res.Explanation, "Contradictory: ") {
			t.Errorf("unexpected explanation %q", res.Explanation)
		}
	})

	t.Run("MQ12 n1 also matches n=12", func(t *testing.T) {
		res := e.Evaluate(mustRule(t, "MQ12"), normalize.Normalize("n=12 biological replicates in triplicate"))
		if res.Verdict != model.VerdictNotFulfilled || res.Explanation != "Contradictory: n1" {
			t.Errorf("expected n12 to hit the n1 contradiction, got %q / %q", res.Verdict, res.Explanation)
		}
	})

	t.Run("MQ12 spaced n = 1 is missed", func(t *testing.T) {
		res := e.Evaluate(mustRule(t, "MQ12"), normalize.Normalize("a pilot with n = 1 was run"))
		if res.Verdict != model.VerdictNotReported {
			t.Errorf("expected Not reported, got %q / %q", res.Verdict, res.Explanation)
		}
	})

	t.Run("culture medium is not a concentration", func(t *testing.T) {
		text := normalize.Normalize("Cells were kept in culture medium with 10% serum, calcium and sodium pyruvate.")

		res := e.Evaluate(mustRule(t, "R4"), text)
		if res.Verdict == model.VerdictDirectlyRelevant {
			t.Errorf("R4: medium must not read as a concentration, got %q / %q", res.Verdict, res.Explanation)
		}
		res = e.Evaluate(mustRule(t, "RQ13"), text)
		if res.Verdict == model.VerdictFulfilled {
			t.Errorf("RQ13: medium must not read as a dose level, got %q / %q", res.Verdict, res.Explanation)
		}
	})

	t.Run("R4 micromolar is direct", func(t *testing.T) {
		res := e.Evaluate(mustRule(t, "R4"), normalize.Normalize("treated at 5 micromolar"))
		if res.Verdict != model.VerdictDirectlyRelevant || res.Explanation != "Direct: micromolar" {
			t.Errorf("unexpected %q / %q", res.Verdict, res.Explanation)
		}
	})

	t.Run("R2 hepg2 excludes oligodendrocyte", func(t *testing.T) {
		res := e.Evaluate(mustRule(t, "R2"), normalize.Normalize("HepG2 cells and primary oligodendrocyte cultures"))
		if res.Verdict != model.VerdictNotRelevant {
			t.Errorf("expected Not relevant, got %q", res.Verdict)
		}
		if res.Explanation != "Excluded terms: hepg2" {
			t.Errorf("unexpected explanation %q", res.Explanation)
		}
	})

	t.Run("RQ24 catch-all never matches", func(t *testing.T) {
		res := e.Evaluate(mustRule(t, "RQ24"), normalize.Normalize("anything at all: cas, hplc, dmso"))
		if res.Verdict != model.VerdictNotReported || res.Explanation != "No information found." {
			t.Errorf("expected no-information result, got %q / %q", res.Verdict, res.Explanation)
		}
	})
}

func TestEvaluator_ReportingIgnoresContradict(t *testing.T) {
	rule := model.Rule{
		Key:        "RQX",
		Kind:       model.KindReporting,
		Question:   "q",
		Strong:     []string{"dmso"},
		Contradict: []string{"dmso"},
	}

	res := NewEvaluator().Evaluate(rule, normalize.Normalize("DMSO"))
	if res.Verdict != model.VerdictFulfilled {
		t.Errorf("expected reporting rule to skip contradictions, got %q", res.Verdict)
	}
}

func TestEvaluator_ContradictionDominates(t *testing.T) {
	e := NewEvaluator()

	for _, rule := range catalog.Default().Rules(model.KindMethodological) {
		parts := []string{rule.Contradict[0]}
		parts = append(parts, rule.Strong...)
		parts = append(parts, rule.Weak...)
		text := normalize.Normalize(strings.Join(parts, " . "))

		if res := e.Evaluate(rule, text); res.Verdict != model.VerdictNotFulfilled {
			t.Errorf("%s: expected Not fulfilled with contradiction present, got %q", rule.Key, res.Verdict)
		}
	}

	for _, rule := range catalog.Default().Rules(model.KindRelevance) {
		parts := []string{rule.NotRelevant[0]}
		parts = append(parts, rule.Direct...)
		parts = append(parts, rule.Indirect...)
		text := normalize.Normalize(strings.Join(parts, " . "))

		if res := e.Evaluate(rule, text); res.Verdict != model.VerdictNotRelevant {
			t.Errorf("%s: expected Not relevant with exclusion present, got %q", rule.Key, res.Verdict)
		}
	}
}

func TestEvaluateRubric_EmptyText(t *testing.T) {
	e := NewEvaluator()
	c := catalog.Default()
	empty := normalize.Normalize("")

	for _, kind := range c.Kinds() {
		rules := c.Rules(kind)
		results := e.EvaluateRubric(rules, empty)
		if len(results) != len(rules) {
			t.Fatalf("%s: expected %d results, got %d", kind, len(rules), len(results))
		}
		for i, res := range results {
			if res.Key != rules[i].Key {
				t.Errorf("%s: result %d out of order: %s vs %s", kind, i, res.Key, rules[i].Key)
			}
			switch kind {
			case model.KindRelevance:
				if res.Verdict != model.VerdictNotRelevant || res.Explanation != "No relevance terms found." {
					t.Errorf("%s: unexpected %q / %q", res.Key, res.Verdict, res.Explanation)
				}
			default:
				if res.Verdict != model.VerdictNotReported || res.Explanation != "No information found." {
					t.Errorf("%s: unexpected %q / %q", res.Key, res.Verdict, res.Explanation)
				}
			}
		}
	}
}

func TestHits_PreservesKeywordOrder(t *testing.T) {
	got := Hits([]string{"b", "a", "z"}, normalize.Normalize("a b c"))
	if strings.Join(got, ",") != "b,a" {
		t.Errorf("expected [b a], got %v", got)
	}
	if Hits(nil, normalize.Normalize("a")) != nil {
		t.Error("expected no hits for nil keywords")
	}
}
