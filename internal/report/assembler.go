// Package report assembles evaluation results into reports and renders
// them as CSV, XLSX, JSON, Markdown and console summaries.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/scirap/internal/model"
)

// Assembler builds the final report value for one document
type Assembler struct {
	newID func() string
	now   func() time.Time
}

// NewAssembler creates an assembler that stamps random report IDs and the current UTC time
func NewAssembler() *Assembler {
	return &Assembler{
		newID: func() string { return uuid.NewString() },
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Assemble combines the document descriptor, scored rubrics and summary.
// Rubrics are placed in report order (RQ, MQ, R) whatever order they arrive in.
func (a *Assembler) Assemble(doc model.Document, rubrics []model.RubricResult, summary model.Summary) *model.Report {
	ordered := make([]model.RubricResult, 0, len(rubrics))
	for _, kind := range model.Kinds() {
		for _, r := range rubrics {
			if r.Kind == kind {
				ordered = append(ordered, r)
			}
		}
	}

	return &model.Report{
		ID:          a.newID(),
		Document:    doc,
		EvaluatedAt: a.now(),
		Rubrics:     ordered,
		Summary:     summary,
	}
}
