// Package tabular reads and writes the CSV interchange files shared by
// the parse and merge pipelines. Reads are best-effort across a small
// fixed list of encodings; writes are atomic so an interrupted run never
// leaves a partial output file.
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// utf8BOM is the byte order mark some exporters prepend to UTF-8 files.
var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Table is a fully materialized tabular file: one header row plus zero or
// more data rows. Rows may be ragged; use Cell for safe access.
type Table struct {
	Header []string
	Rows   [][]string
}

// Cell returns row[col], or "" when the row is shorter than the header.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// DecodeText converts raw file bytes to a string, trying UTF-8 (with or
// without BOM) first and falling back to Latin-1. Latin-1 maps every byte
// to a rune, so decoding is total: garbage in, mojibake out, never an
// error. This mirrors the tolerance the source exports require.
func DecodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

// ReadText reads a text file with encoding fallback.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return DecodeText(data), nil
}

// ReadCSV reads a CSV file with encoding fallback. Ragged rows are
// accepted; an empty file yields an empty table.
func ReadCSV(path string) (Table, error) {
	text, err := ReadText(path)
	if err != nil {
		return Table{}, err
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1 // exports are frequently ragged
	records, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	if len(records) == 0 {
		return Table{}, nil
	}
	return Table{Header: records[0], Rows: records[1:]}, nil
}

// WriteCSV writes header and rows to path atomically: the data goes to a
// temp file in the destination directory, which is renamed into place
// only after a successful flush. Interruption leaves either the previous
// file or nothing, never a truncated CSV.
func WriteCSV(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".refsift-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	writeErr := w.Write(header)
	for _, row := range rows {
		if writeErr != nil {
			break
		}
		writeErr = w.Write(row)
	}
	if writeErr == nil {
		w.Flush()
		writeErr = w.Error()
	}
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}
