package norm

import (
	"strings"
	"testing"
)

func TestDOI(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare doi", "10.1016/j.example.2020.01.001", "10.1016/j.example.2020.01.001"},
		{"doi.org url with trailing period", "https://doi.org/10.1016/j.example.2020.01.001.", "10.1016/j.example.2020.01.001"},
		{"http prefix", "http://doi.org/10.1007/xyz-123", "10.1007/xyz-123"},
		{"uppercase input", "DOI: 10.1234/ABC.Def", "10.1234/abc.def"},
		{"embedded in citation line", "See Smith et al., 10.1093/bib/bbaa001; for details", "10.1093/bib/bbaa001"},
		{"trailing close paren", "(10.5555/12345678)", "10.5555/12345678"},
		{"whitespace padding", "  10.1101/2020.01.01.123456  ", "10.1101/2020.01.01.123456"},
		{"registrant too short", "10.123/abc", ""},
		{"no doi", "just a plain sentence", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DOI(tt.in); got != tt.want {
				t.Errorf("DOI(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDOI_Idempotent(t *testing.T) {
	inputs := []string{
		"https://doi.org/10.1016/j.example.2020.01.001.",
		"10.1007/xyz-123",
		"not a doi at all",
		"",
		"DOI 10.1234/upper.CASE)",
	}
	for _, in := range inputs {
		once := DOI(in)
		if twice := DOI(once); twice != once {
			t.Errorf("DOI not idempotent on %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"punctuation stripped", "Deep Learning: A Review!", "deep learning a review"},
		{"already normalized", "deep learning a review", "deep learning a review"},
		{"internal whitespace collapsed", "  Multiple   spaces\tand tabs  ", "multiple spaces and tabs"},
		{"digits kept", "COVID-19 surveillance (2020)", "covid 19 surveillance 2020"},
		{"unicode letters kept", "Café résumés", "café résumés"},
		{"only punctuation", "!!! --- ???", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.in); got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTitle_NoPunctuationNoDoubledSpace(t *testing.T) {
	inputs := []string{
		"A; strange -- title!! (with) [brackets]",
		"under_score and slash/slash",
		"trailing punctuation...",
	}
	for _, in := range inputs {
		got := Title(in)
		if strings.Contains(got, "  ") {
			t.Errorf("Title(%q) = %q contains doubled whitespace", in, got)
		}
		for _, r := range got {
			if r != ' ' && !isAlnum(r) {
				t.Errorf("Title(%q) = %q contains punctuation %q", in, got, r)
			}
		}
	}
}

func isAlnum(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
}

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		doi   string
		title string
		want  string
	}{
		{"doi wins", "10.1234/x", "Foo", "10.1234/x"},
		{"short registrant not a doi", "10.1/x", "Foo", "foo"},
		{"title fallback", "", "Deep Learning: A Review!", "deep learning a review"},
		{"malformed doi falls back to title", "not-a-doi", "Foo Bar", "foo bar"},
		{"both empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.doi, tt.title); got != tt.want {
				t.Errorf("Key(%q, %q) = %q, want %q", tt.doi, tt.title, got, tt.want)
			}
		})
	}
}
