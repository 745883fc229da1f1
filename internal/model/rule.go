package model

import "fmt"

// Kind identifies which rubric a rule belongs to
type Kind string

const (
	KindReporting      Kind = "reporting"      // Reporting Quality (RQ)
	KindMethodological Kind = "methodological" // Methodological Quality (MQ)
	KindRelevance      Kind = "relevance"      // Relevance (R)
)

// Kinds lists the rubric kinds in report order
func Kinds() []Kind {
	return []Kind{KindReporting, KindMethodological, KindRelevance}
}

// ParseKind parses a rubric kind name
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindReporting, KindMethodological, KindRelevance:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown rule kind %q (supported: reporting, methodological, relevance)", s)
}

// Valid reports whether k is one of the known kinds
func (k Kind) Valid() bool {
	_, err := ParseKind(string(k))
	return err == nil
}

// Code returns the short rubric code used in rule keys and table headers
func (k Kind) Code() string {
	switch k {
	case KindReporting:
		return "RQ"
	case KindMethodological:
		return "MQ"
	case KindRelevance:
		return "R"
	default:
		return ""
	}
}

// Title returns the display name of the rubric
func (k Kind) Title() string {
	switch k {
	case KindReporting:
		return "Reporting Quality"
	case KindMethodological:
		return "Methodological Quality"
	case KindRelevance:
		return "Relevance"
	default:
		return string(k)
	}
}

// KindFromCode maps a rubric code (RQ, MQ, R) back to its kind
func KindFromCode(code string) (Kind, bool) {
	for _, k := range Kinds() {
		if k.Code() == code {
			return k, true
		}
	}
	return "", false
}

// Rule is a single evaluation rule. Which keyword lists are meaningful
// depends on Kind: reporting uses Strong/Weak, methodological adds
// Contradict, relevance uses Direct/Indirect/NotRelevant.
type Rule struct {
	Key      string `json:"key" yaml:"key"`
	Kind     Kind   `json:"kind" yaml:"kind"`
	Question string `json:"question" yaml:"question"`

	Strong     []string `json:"strong,omitempty" yaml:"strong,omitempty"`
	Weak       []string `json:"weak,omitempty" yaml:"weak,omitempty"`
	Contradict []string `json:"contradict,omitempty" yaml:"contradict,omitempty"`

	Direct      []string `json:"direct,omitempty" yaml:"direct,omitempty"`
	Indirect    []string `json:"indirect,omitempty" yaml:"indirect,omitempty"`
	NotRelevant []string `json:"not_relevant,omitempty" yaml:"not_relevant,omitempty"`
}

// Keywords returns every keyword list of the rule keyed by category name
func (r Rule) Keywords() map[string][]string {
	return map[string][]string{
		"strong":       r.Strong,
		"weak":         r.Weak,
		"contradict":   r.Contradict,
		"direct":       r.Direct,
		"indirect":     r.Indirect,
		"not_relevant": r.NotRelevant,
	}
}

// Clone returns a deep copy of the rule
func (r Rule) Clone() Rule {
	c := r
	c.Strong = cloneStrings(r.Strong)
	c.Weak = cloneStrings(r.Weak)
	c.Contradict = cloneStrings(r.Contradict)
	c.Direct = cloneStrings(r.Direct)
	c.Indirect = cloneStrings(r.Indirect)
	c.NotRelevant = cloneStrings(r.NotRelevant)
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
