package ingest

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ImportPDF extracts the plain text of a PDF journal export and imports it
// the same way as a text dump. The PDF must carry dated headings as text;
// scanned images yield nothing.
func (im *Importer) ImportPDF(path string) (Result, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return Result{}, fmt.Errorf("extracting pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return Result{}, fmt.Errorf("reading pdf text: %w", err)
	}
	return im.ImportText(buf.String())
}
