package extract

import (
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"refsift/internal/tabular"
)

// File extracts records from an export file. PDF exports are converted to
// plain text page by page; everything else is read as text with encoding
// fallback. Both paths feed the same line scanner.
func File(path, source string) ([]Record, error) {
	var text string
	var err error
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err = pdfText(path)
	} else {
		text, err = tabular.ReadText(path)
	}
	if err != nil {
		return nil, err
	}
	return Text(text, source), nil
}

// pdfText concatenates the plain text of every page. Pages that fail to
// render are skipped; extraction stays best-effort.
func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}
