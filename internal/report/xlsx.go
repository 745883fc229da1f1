package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/scirap/internal/model"
)

const summarySheet = "Summary"

// XLSX returns a workbook with a Summary sheet and one sheet per rubric
func XLSX(report *model.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	if err := writeSummarySheet(f, report, bold); err != nil {
		return nil, err
	}
	for _, rubric := range report.Rubrics {
		if err := writeRubricSheet(f, rubric, bold); err != nil {
			return nil, err
		}
	}

	index, _ := f.GetSheetIndex(summarySheet)
	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, report *model.Report, bold int) error {
	const sheet = summarySheet

	rows := [][]interface{}{
		{"Report ID", report.ID},
		{"Document", report.Document.Name},
		{"Source", report.Document.Source},
		{"Evaluated At", report.EvaluatedAt.Format(time.RFC3339)},
		{},
		{"Rubric", "Total", "Max"},
	}
	for _, rubric := range report.Rubrics {
		rows = append(rows, []interface{}{rubricLabel(rubric.Kind), rubric.Total, rubric.Max})
	}
	rows = append(rows,
		[]interface{}{"Final Score", report.Summary.Final, report.Summary.Max},
		[]interface{}{"Overall Quality", string(report.Summary.Band)},
	)

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("summary row %d: %w", i+1, err)
		}
		_ = f.SetCellStyle(sheet, cell, cell, bold)
	}

	_ = f.SetColWidth(sheet, "A", "A", 32)
	_ = f.SetColWidth(sheet, "B", "B", 40)
	return nil
}

func writeRubricSheet(f *excelize.File, rubric model.RubricResult, bold int) error {
	sheet := rubric.Kind.Title()
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	header := CSVHeader(rubric.Kind)
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	_ = f.SetCellStyle(sheet, "A1", last, bold)

	row := 2
	for _, r := range rubric.Results {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.Key)
		write(2, r.Question)
		write(3, string(r.Verdict))
		write(4, r.Explanation)
		write(5, r.Score)
		row++
	}

	totalLabel, _ := excelize.CoordinatesToCellName(1, row)
	totalValue, _ := excelize.CoordinatesToCellName(5, row)
	_ = f.SetCellValue(sheet, totalLabel, "Total")
	_ = f.SetCellValue(sheet, totalValue, fmt.Sprintf("%s / %d", formatScore(rubric.Total), rubric.Max))
	_ = f.SetCellStyle(sheet, totalLabel, totalValue, bold)

	_ = f.SetColWidth(sheet, "A", "A", 8)  // key
	_ = f.SetColWidth(sheet, "B", "B", 60) // question
	_ = f.SetColWidth(sheet, "C", "C", 20) // verdict
	_ = f.SetColWidth(sheet, "D", "D", 60) // explanation
	_ = f.SetColWidth(sheet, "E", "E", 14) // score
	return nil
}

func rubricLabel(kind model.Kind) string {
	return fmt.Sprintf("%s (%s)", kind.Title(), kind.Code())
}
