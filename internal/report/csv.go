package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ppiankov/scirap/internal/model"
	"github.com/ppiankov/scirap/internal/score"
)

// ErrMalformedCSV is returned when a rubric table cannot be read back
var ErrMalformedCSV = errors.New("malformed rubric csv")

// Column names after the rubric code column
var csvColumns = []string{"Question", "Verdict", "Explanation", "Numeric Score"}

// CSVFileName returns the export file name for a rubric
func CSVFileName(kind model.Kind) string {
	if kind == model.KindRelevance {
		return "Relevance_results.csv"
	}
	return kind.Code() + "_results.csv"
}

// CSVHeader returns the header row of a rubric table
func CSVHeader(kind model.Kind) []string {
	return append([]string{kind.Code()}, csvColumns...)
}

// WriteCSV writes one rubric table with a header row, one row per rule
func WriteCSV(w io.Writer, rubric model.RubricResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader(rubric.Kind)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rubric.Results {
		row := []string{r.Key, r.Question, string(r.Verdict), r.Explanation, formatScore(r.Score)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", r.Key, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a rubric table written by WriteCSV. The rubric kind comes
// from the header, each verdict must belong to that kind and each numeric
// score must agree with the verdict. Total and Max are recomputed.
func ReadCSV(r io.Reader) (model.RubricResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvColumns) + 1

	header, err := cr.Read()
	if err != nil {
		return model.RubricResult{}, fmt.Errorf("%w: read header: %v", ErrMalformedCSV, err)
	}

	kind, ok := model.KindFromCode(header[0])
	if !ok {
		return model.RubricResult{}, fmt.Errorf("%w: unknown rubric code %q", ErrMalformedCSV, header[0])
	}
	for i, col := range csvColumns {
		if header[i+1] != col {
			return model.RubricResult{}, fmt.Errorf("%w: column %d is %q, expected %q", ErrMalformedCSV, i+2, header[i+1], col)
		}
	}

	scorer := score.NewScorer(model.ScoringConfig{})
	rubric := model.RubricResult{Kind: kind, Results: []model.RuleResult{}}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.RubricResult{}, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}

		verdict, err := model.ParseVerdict(kind, rec[2])
		if err != nil {
			return model.RubricResult{}, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line, err)
		}
		value, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return model.RubricResult{}, fmt.Errorf("%w: line %d: bad score %q", ErrMalformedCSV, line, rec[4])
		}
		if want, _ := scorer.Score(kind, verdict); want != value {
			return model.RubricResult{}, fmt.Errorf("%w: line %d: score %s does not match verdict %q", ErrMalformedCSV, line, rec[4], verdict)
		}

		rubric.Results = append(rubric.Results, model.RuleResult{
			Key:         rec[0],
			Question:    rec[1],
			Verdict:     verdict,
			Explanation: rec[3],
			Score:       value,
		})
		rubric.Total += value
	}

	rubric.Max = len(rubric.Results)
	return rubric, nil
}

// WriteCSVFiles writes one CSV file per rubric of report into dir
func WriteCSVFiles(report *model.Report, dir string) ([]string, error) {
	var paths []string
	for _, rubric := range report.Rubrics {
		path := filepath.Join(dir, CSVFileName(rubric.Kind))
		if err := writeCSVFile(path, rubric); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSVFile(path string, rubric model.RubricResult) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := WriteCSV(f, rubric); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadCSVFile reads a rubric table from path
func ReadCSVFile(path string) (model.RubricResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.RubricResult{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rubric, err := ReadCSV(f)
	if err != nil {
		return model.RubricResult{}, fmt.Errorf("%s: %w", path, err)
	}
	return rubric, nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
