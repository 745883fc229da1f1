package model

import "fmt"

// Verdict is the categorical outcome of evaluating one rule
type Verdict string

const (
	VerdictFulfilled          Verdict = "Fulfilled"
	VerdictPartiallyFulfilled Verdict = "Partially fulfilled"
	VerdictNotFulfilled       Verdict = "Not fulfilled"
	VerdictNotReported        Verdict = "Not reported"

	VerdictDirectlyRelevant   Verdict = "Directly relevant"
	VerdictIndirectlyRelevant Verdict = "Indirectly relevant"
	VerdictNotRelevant        Verdict = "Not relevant"
)

// VerdictsFor returns the closed set of verdicts a rule of the given kind can carry
func VerdictsFor(kind Kind) []Verdict {
	switch kind {
	case KindReporting, KindMethodological:
		return []Verdict{VerdictFulfilled, VerdictPartiallyFulfilled, VerdictNotFulfilled, VerdictNotReported}
	case KindRelevance:
		return []Verdict{VerdictDirectlyRelevant, VerdictIndirectlyRelevant, VerdictNotRelevant}
	default:
		return nil
	}
}

// ParseVerdict parses a verdict string and checks it belongs to kind
func ParseVerdict(kind Kind, s string) (Verdict, error) {
	for _, v := range VerdictsFor(kind) {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("verdict %q is not valid for %s rules", s, kind)
}

// Band is the overall quality label derived from the final score
type Band string

const (
	BandHigh     Band = "HIGH"
	BandModerate Band = "MODERATE"
	BandLow      Band = "LOW"
)
