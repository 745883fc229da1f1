package ingest

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disablePDFConfig sync.Once

// PDFText validates a PDF with pdfcpu and returns the text shown on every
// page, plus the page count. Glyphs are mapped through each font's encoding
// and ToUnicode CMap, so text set in subset or CID fonts survives extraction.
func PDFText(data []byte) (string, int, error) {
	pages, err := validatePDF(data)
	if err != nil {
		return "", 0, err
	}

	text, err := extractPDFText(data)
	if err != nil {
		return "", 0, err
	}
	return text, pages, nil
}

func validatePDF(data []byte) (int, error) {
	// pdfcpu otherwise writes a config directory under the user's home
	disablePDFConfig.Do(api.DisableConfigDir)

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return 0, fmt.Errorf("validate pdf: %w", err)
	}
	return ctx.PageCount, nil
}

func extractPDFText(data []byte) (text string, err error) {
	// the reader panics on some malformed object graphs pdfcpu tolerates
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extract pdf text: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var buf strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		s, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d text: %w", i, err)
		}
		buf.WriteString(s)
		buf.WriteString("\n")
	}
	return strings.TrimSpace(buf.String()), nil
}
