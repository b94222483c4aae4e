// Package extract recovers structured bibliographic records from loosely
// formatted literature-search exports. The format carries no field
// markers, so extraction is positional: every line containing a DOI is an
// anchor, and title, year, and URL are recovered from a small window of
// lines around it.
package extract

import (
	"regexp"
	"strings"

	"refsift/internal/norm"
)

var (
	doiPattern  = regexp.MustCompile(`10\.\d{4,9}/\S+`)
	urlPattern  = regexp.MustCompile(`https?://\S+`)
	yearPattern = regexp.MustCompile(`\b(20\d{2}|19\d{2})\b`)
)

// Lookback and lookahead radii around an anchor line.
const (
	titleLookback = 3 // lines scanned above the anchor for a title
	yearRadius    = 5 // lines each side of the anchor searched for a year
)

// Record is one bibliographic record recovered from an export. DOI is the
// anchor and always set; the other fields are best-effort and empty when
// the surrounding lines yield nothing. Authors is never recoverable from
// this format and stays empty.
type Record struct {
	Source  string
	Title   string
	Authors string
	Year    string
	DOI     string
	URL     string
}

// Lines scans a trimmed line sequence for DOI anchors and emits one
// record per anchor, in line order, then deduplicates by normalized DOI.
// Empty input yields an empty result, never an error.
func Lines(lines []string, source string) []Record {
	var records []Record
	for i, ln := range lines {
		m := doiPattern.FindString(ln)
		if m == "" {
			continue
		}

		rec := Record{
			Source: source,
			DOI:    strings.TrimRight(m, ".,;)"),
			Title:  titleBefore(lines, i),
			Year:   yearAround(lines, i),
			URL:    urlAt(lines, i),
		}
		records = append(records, rec)
	}
	return dedupeByDOI(records)
}

// Text splits a raw document into trimmed lines and extracts records.
func Text(text, source string) []Record {
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	for i, ln := range raw {
		lines[i] = strings.TrimSpace(ln)
	}
	return Lines(lines, source)
}

// titleBefore returns the nearest preceding line within the lookback
// window that is non-empty and not a URL or "doi:" line, or "".
func titleBefore(lines []string, anchor int) string {
	for j := anchor - 1; j >= 0 && j >= anchor-titleLookback; j-- {
		if lines[j] == "" {
			continue
		}
		low := strings.ToLower(lines[j])
		if strings.HasPrefix(low, "http://") ||
			strings.HasPrefix(low, "https://") ||
			strings.HasPrefix(low, "doi:") {
			continue
		}
		return lines[j]
	}
	return ""
}

// yearAround searches the lines within yearRadius of the anchor, joined
// into one window, for the first plausible publication year.
func yearAround(lines []string, anchor int) string {
	lo := anchor - yearRadius
	if lo < 0 {
		lo = 0
	}
	hi := anchor + yearRadius + 1
	if hi > len(lines) {
		hi = len(lines)
	}
	return yearPattern.FindString(strings.Join(lines[lo:hi], " "))
}

// urlAt returns the first URL on the anchor line, falling back to the
// immediately preceding line only.
func urlAt(lines []string, anchor int) string {
	m := urlPattern.FindString(lines[anchor])
	if m == "" && anchor > 0 {
		m = urlPattern.FindString(lines[anchor-1])
	}
	return strings.TrimRight(m, ".,;)")
}

// dedupeByDOI keeps the first record per normalized DOI, preserving
// order. Records whose DOI fails to normalize all share the empty key, so
// at most one of them survives; the historical pipeline behaves this way
// and downstream row counts depend on it.
func dedupeByDOI(records []Record) []Record {
	seen := make(map[string]bool, len(records))
	var out []Record
	for _, rec := range records {
		key := norm.DOI(rec.DOI)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	return out
}
