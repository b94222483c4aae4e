package main

import (
	"testing"

	"refsift/internal/extract"
)

func TestExtractRows(t *testing.T) {
	records := []extract.Record{
		{Source: "ScienceDirect", Title: "Foo", Year: "2020", DOI: "10.1234/x", URL: "https://x"},
	}

	rows := extractRows(records, "")
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	want := []string{"ScienceDirect", "Foo", "", "2020", "10.1234/x", "https://x"}
	for i, cell := range want {
		if rows[0][i] != cell {
			t.Errorf("rows[0][%d] = %q, want %q", i, rows[0][i], cell)
		}
	}

	rows = extractRows(records, "query-B.txt")
	if len(rows[0]) != len(extractHeader)+1 {
		t.Fatalf("row width = %d, want %d", len(rows[0]), len(extractHeader)+1)
	}
	if rows[0][len(rows[0])-1] != "query-B.txt" {
		t.Errorf("src file cell = %q", rows[0][len(rows[0])-1])
	}
}

func TestRowMap(t *testing.T) {
	m := rowMap([]string{"title", "doi"}, []string{"Foo", "10.1234/x"})
	if m["title"] != "Foo" || m["doi"] != "10.1234/x" {
		t.Errorf("rowMap = %v", m)
	}
}
