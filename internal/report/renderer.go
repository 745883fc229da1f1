package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/scirap/internal/model"
)

// Output formats
const (
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatMarkdown = "md"
	FormatXLSX     = "xlsx"
)

// ParseFormats validates and de-duplicates a list of output formats
func ParseFormats(formats []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		switch f {
		case "":
			continue
		case FormatCSV, FormatJSON, FormatMarkdown, FormatXLSX:
		case "markdown":
			f = FormatMarkdown
		default:
			return nil, fmt.Errorf("unknown output format %q (supported: csv, json, md, xlsx)", f)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no output formats selected")
	}
	return out, nil
}

// Renderer writes reports to disk and prints console summaries
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// Render writes report into dir in each of formats and returns the written paths
func (r *Renderer) Render(report *model.Report, dir string, formats []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	for _, format := range formats {
		switch format {
		case FormatCSV:
			paths, err := WriteCSVFiles(report, dir)
			written = append(written, paths...)
			if err != nil {
				return written, fmt.Errorf("render csv: %w", err)
			}
		case FormatJSON:
			path := filepath.Join(dir, "report.json")
			if err := r.RenderJSON(report, path); err != nil {
				return written, fmt.Errorf("render json: %w", err)
			}
			written = append(written, path)
		case FormatMarkdown:
			path := filepath.Join(dir, "report.md")
			if err := r.RenderMarkdown(report, path); err != nil {
				return written, fmt.Errorf("render markdown: %w", err)
			}
			written = append(written, path)
		case FormatXLSX:
			path := filepath.Join(dir, "report.xlsx")
			if err := r.RenderXLSX(report, path); err != nil {
				return written, fmt.Errorf("render xlsx: %w", err)
			}
			written = append(written, path)
		default:
			return written, fmt.Errorf("unknown output format %q", format)
		}
	}
	return written, nil
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// RenderXLSX writes the report workbook
func (r *Renderer) RenderXLSX(report *model.Report, path string) error {
	data, err := XLSX(report)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// RenderMarkdown writes the report as a Markdown document
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return os.WriteFile(path, []byte(r.Markdown(report)), 0644)
}

// Markdown returns the Markdown rendering of report
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# SciRAP In-Vitro Evaluation: %s\n\n", report.Document.Name)
	fmt.Fprintf(&b, "- **Source:** %s\n", report.Document.Source)
	if report.Document.Pages > 0 {
		fmt.Fprintf(&b, "- **Pages:** %d\n", report.Document.Pages)
	}
	fmt.Fprintf(&b, "- **Evaluated:** %s\n", report.EvaluatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- **Report ID:** %s\n\n", report.ID)

	for _, rubric := range report.Rubrics {
		fmt.Fprintf(&b, "## %s\n\n", rubricLabel(rubric.Kind))
		fmt.Fprintf(&b, "| %s | Question | Verdict | Explanation | Score |\n", rubric.Kind.Code())
		b.WriteString("|---|---|---|---|---|\n")
		for _, res := range rubric.Results {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				res.Key, escapeCell(res.Question), res.Verdict, escapeCell(res.Explanation), formatScore(res.Score))
		}
		fmt.Fprintf(&b, "\n**%s Total Score = %s / %d**\n\n", rubric.Kind.Code(), formatScore(rubric.Total), rubric.Max)
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "**Final Score: %s / %d**\n\n", formatScore(report.Summary.Final), report.Summary.Max)
	fmt.Fprintf(&b, "Overall Quality: **%s**\n", report.Summary.Band)

	if r.includeFooter {
		b.WriteString("\n---\n\n")
		b.WriteString("_Generated by scirap. Verdicts come from keyword matching against the SciRAP in-vitro criteria and need expert review._\n")
	}

	return b.String()
}

// RenderSummary prints per-rubric totals, the final score and band
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	fmt.Fprintf(w, "Document: %s\n", report.Document.Name)
	for _, rubric := range report.Rubrics {
		fmt.Fprintf(w, "  %-30s %s / %d\n", rubricLabel(rubric.Kind), formatScore(rubric.Total), rubric.Max)
	}
	fmt.Fprintf(w, "  %-30s %s / %d\n", "Final Score", formatScore(report.Summary.Final), report.Summary.Max)
	fmt.Fprintf(w, "  %-30s %s\n", "Overall Quality", report.Summary.Band)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
