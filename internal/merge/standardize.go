package merge

import (
	"refsift/internal/norm"
	"refsift/internal/tabular"
)

// Aliases lists candidate column names per canonical field, in priority
// order: the first name present in a table's header wins. A plain lookup
// table, deliberately not inference over cell contents.
type Aliases struct {
	Title   []string
	DOI     []string
	URL     []string
	Authors []string
	Year    []string
}

// DefaultAliases covers the column vocabularies of the supported export
// formats (Scopus, Web of Science, publisher CSVs).
func DefaultAliases() Aliases {
	return Aliases{
		Title:   []string{"Title", "title"},
		DOI:     []string{"DOI", "doi", "DOI Link", "Link", "DOI URL", "Article DOI", "url", "URL"},
		URL:     []string{"url", "URL", "PDF Link", "Link"},
		Authors: []string{"Authors", "authors", "Authors Full Names", "Author(s)"},
		Year:    []string{"Publication Year", "Year", "year"},
	}
}

// Standardize maps a source table onto the canonical record shape using
// the alias lists, attaches the set label, and derives each record's key.
// A field with no matching column degrades to empty for every record; the
// title falls back to the table's first column, since every supported
// export leads with it.
func Standardize(t tabular.Table, label string, aliases Aliases) []Record {
	titleIdx := columnIndex(t.Header, aliases.Title)
	if titleIdx < 0 && len(t.Header) > 0 {
		titleIdx = 0
	}
	doiIdx := columnIndex(t.Header, aliases.DOI)
	urlIdx := columnIndex(t.Header, aliases.URL)
	authorsIdx := columnIndex(t.Header, aliases.Authors)
	yearIdx := columnIndex(t.Header, aliases.Year)

	records := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := Record{
			Title:    tabular.Cell(row, titleIdx),
			DOI:      tabular.Cell(row, doiIdx),
			URL:      tabular.Cell(row, urlIdx),
			Authors:  tabular.Cell(row, authorsIdx),
			Year:     tabular.Cell(row, yearIdx),
			QuerySet: label,
		}
		rec.Key = norm.Key(rec.DOI, rec.Title)
		records = append(records, rec)
	}
	return records
}

// columnIndex returns the header index of the first candidate present,
// or -1 when none is.
func columnIndex(header, candidates []string) int {
	for _, name := range candidates {
		for i, col := range header {
			if col == name {
				return i
			}
		}
	}
	return -1
}
