// Package merge consolidates per-source record sets into one
// cross-deduplicated dataset. Each input set is standardized onto a
// common shape, keyed by normalized DOI (or title when no DOI parses),
// grouped across sets, and reduced to one representative per key with a
// provenance label recording which sets contained the work.
package merge

import (
	"sort"
	"strings"

	"refsift/internal/norm"
)

// Record is a standardized record from one source set. Key is derived
// once at standardization time and is the sole cross-record identity.
type Record struct {
	Title    string
	DOI      string
	URL      string
	Authors  string
	Year     string
	QuerySet string
	Key      string
}

// Merged is the chosen representative for one key, annotated with the
// sorted, pipe-joined labels of every set the key appeared in.
type Merged struct {
	Record
	QuerySets string
}

// Stats summarizes a merge for diagnostics.
type Stats struct {
	Total     int       `json:"total"`
	Unique    int       `json:"unique"`
	Removed   int       `json:"removed"`
	Partition Partition `json:"partition"`
}

// Partition counts distinct keys by which of the three input sets they
// appear in. The seven counts sum to Unique.
type Partition struct {
	AOnly int `json:"a_only"`
	BOnly int `json:"b_only"`
	COnly int `json:"c_only"`
	AB    int `json:"a_b"`
	AC    int `json:"a_c"`
	BC    int `json:"b_c"`
	ABC   int `json:"a_b_c"`
}

// Result is the outcome of a cross-source merge: one representative per
// distinct key, in first-seen key order, plus diagnostics.
type Result struct {
	Records []Merged
	Stats   Stats
}

// Merge unions the three standardized sets, groups by key, and selects
// one representative per group. Within a group, a record carrying a
// parseable DOI beats one matched by title alone, and among those a
// longer title wins; remaining ties keep concatenation order (A, then B,
// then C, original order within each). Empty sets contribute nothing and
// are not an error.
func Merge(a, b, c []Record) Result {
	all := make([]Record, 0, len(a)+len(b)+len(c))
	all = append(all, a...)
	all = append(all, b...)
	all = append(all, c...)

	groups := make(map[string][]Record)
	var order []string
	for _, rec := range all {
		if _, ok := groups[rec.Key]; !ok {
			order = append(order, rec.Key)
		}
		groups[rec.Key] = append(groups[rec.Key], rec)
	}

	merged := make([]Merged, 0, len(order))
	for _, key := range order {
		members := groups[key]
		merged = append(merged, Merged{
			Record:    representative(members),
			QuerySets: querySets(members),
		})
	}

	return Result{
		Records: merged,
		Stats: Stats{
			Total:     len(all),
			Unique:    len(merged),
			Removed:   len(all) - len(merged),
			Partition: partition(a, b, c),
		},
	}
}

// representative picks the group member standing in for the whole group:
// DOI-bearing records first, then longer titles. The sort is stable, so
// anything still tied resolves to the earliest record.
func representative(members []Record) Record {
	ranked := make([]Record, len(members))
	copy(ranked, members)
	sort.SliceStable(ranked, func(i, j int) bool {
		di, dj := norm.DOI(ranked[i].DOI) != "", norm.DOI(ranked[j].DOI) != ""
		if di != dj {
			return di
		}
		return len(ranked[i].Title) > len(ranked[j].Title)
	})
	return ranked[0]
}

// querySets returns the distinct QuerySet labels of a group, sorted and
// joined with "|".
func querySets(members []Record) string {
	seen := make(map[string]bool)
	var labels []string
	for _, rec := range members {
		if !seen[rec.QuerySet] {
			seen[rec.QuerySet] = true
			labels = append(labels, rec.QuerySet)
		}
	}
	sort.Strings(labels)
	return strings.Join(labels, "|")
}

// partition computes the seven-way key membership breakdown over the
// three input sets. Set-theoretic only: independent of representative
// selection.
func partition(a, b, c []Record) Partition {
	aKeys, bKeys, cKeys := keySet(a), keySet(b), keySet(c)

	var p Partition
	for key := range union(aKeys, bKeys, cKeys) {
		inA, inB, inC := aKeys[key], bKeys[key], cKeys[key]
		switch {
		case inA && inB && inC:
			p.ABC++
		case inA && inB:
			p.AB++
		case inA && inC:
			p.AC++
		case inB && inC:
			p.BC++
		case inA:
			p.AOnly++
		case inB:
			p.BOnly++
		default:
			p.COnly++
		}
	}
	return p
}

func keySet(records []Record) map[string]bool {
	set := make(map[string]bool, len(records))
	for _, rec := range records {
		set[rec.Key] = true
	}
	return set
}

func union(sets ...map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for _, s := range sets {
		for k := range s {
			out[k] = true
		}
	}
	return out
}
