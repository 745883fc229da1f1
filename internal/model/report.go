package model

import "time"

// Report is the complete evaluation of one document
type Report struct {
	ID          string    `json:"id"`
	Document    Document  `json:"document"`
	EvaluatedAt time.Time `json:"evaluated_at"`

	Rubrics []RubricResult `json:"rubrics"` // Always in report order: RQ, MQ, R
	Summary Summary        `json:"summary"`
}

// Rubric returns the result table for kind, if present
func (r *Report) Rubric(kind Kind) (RubricResult, bool) {
	for _, rr := range r.Rubrics {
		if rr.Kind == kind {
			return rr, true
		}
	}
	return RubricResult{}, false
}

// Document describes the ingested source. Text is the raw extracted text
// and is not serialized into reports.
type Document struct {
	Name        string `json:"name"`
	Source      string `json:"source"`                 // File path or final URL
	ContentType string `json:"content_type,omitempty"` // text/plain, text/html, application/pdf
	Pages       int    `json:"pages,omitempty"`        // PDF page count
	Bytes       int    `json:"bytes"`
	Text        string `json:"-"`
}

// RuleResult is one row of a rubric table
type RuleResult struct {
	Key         string  `json:"key"`
	Question    string  `json:"question"`
	Verdict     Verdict `json:"verdict"`
	Explanation string  `json:"explanation"`
	Score       float64 `json:"score"`
}

// RubricResult is the ordered result table of one rubric
type RubricResult struct {
	Kind    Kind         `json:"kind"`
	Results []RuleResult `json:"results"`
	Total   float64      `json:"total"`
	Max     int          `json:"max"` // Rule count
}

// Summary is the combined score across all rubrics
type Summary struct {
	Final float64 `json:"final"`
	Max   int     `json:"max"`
	Band  Band    `json:"band"`
}
