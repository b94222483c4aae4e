// Package norm provides canonical comparison forms for bibliographic
// identifiers. DOI and Title are pure functions: identical input always
// yields identical output, with no locale or time dependency.
package norm

import (
	"regexp"
	"strings"
	"unicode"
)

// doiPattern matches a DOI body: "10." followed by 4-9 registrant digits,
// a slash, and a run of non-whitespace characters.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/\S+`)

// DOI extracts the canonical form of a DOI from raw text. It is
// deliberately permissive: the pattern is searched anywhere in the input,
// so a full doi.org URL or an entire citation line both work. Returns ""
// when no DOI pattern is present.
func DOI(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "https://doi.org/", "")
	s = strings.ReplaceAll(s, "http://doi.org/", "")
	s = strings.Trim(strings.TrimSpace(s), ".")

	m := doiPattern.FindString(s)
	if m == "" {
		return ""
	}
	// Trailing punctuation belongs to the surrounding text, not the DOI.
	return strings.TrimRight(m, ".,;)")
}

// Title reduces a title to a canonical comparison form: lowercase, every
// non-alphanumeric rune replaced by a space, whitespace runs collapsed.
// Total over all strings, including empty.
func Title(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Key derives the cross-record identity key: the normalized DOI when one
// can be extracted, otherwise the normalized title. Two records with the
// same key are treated as the same bibliographic work.
func Key(doi, title string) string {
	if d := DOI(doi); d != "" {
		return d
	}
	return Title(title)
}
