package merge

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	"refsift/internal/tabular"
)

func std(t tabular.Table, label string) []Record {
	return Standardize(t, label, DefaultAliases())
}

func TestStandardize_AliasPriority(t *testing.T) {
	// "DOI" outranks "Link" even though both are present.
	table := tabular.Table{
		Header: []string{"Title", "Link", "DOI"},
		Rows:   [][]string{{"Foo", "https://example.com", "10.1234/x"}},
	}
	records := std(table, "A")
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	if records[0].DOI != "10.1234/x" {
		t.Errorf("DOI = %q, want the DOI column, not Link", records[0].DOI)
	}
	if records[0].Key != "10.1234/x" {
		t.Errorf("Key = %q", records[0].Key)
	}
}

func TestStandardize_DOIFromLinkColumn(t *testing.T) {
	table := tabular.Table{
		Header: []string{"Title", "Link"},
		Rows:   [][]string{{"Foo", "https://doi.org/10.1234/x"}},
	}
	records := std(table, "A")
	if records[0].Key != "10.1234/x" {
		t.Errorf("Key = %q, want doi extracted from Link column", records[0].Key)
	}
}

func TestStandardize_MissingColumnsDegrade(t *testing.T) {
	table := tabular.Table{
		Header: []string{"Title"},
		Rows:   [][]string{{"Only A Title"}},
	}
	records := std(table, "B")
	rec := records[0]
	if rec.DOI != "" || rec.URL != "" || rec.Authors != "" || rec.Year != "" {
		t.Errorf("missing fields should be empty, got %+v", rec)
	}
	if rec.Key != "only a title" {
		t.Errorf("Key = %q, want normalized title fallback", rec.Key)
	}
}

func TestStandardize_TitleFallsBackToFirstColumn(t *testing.T) {
	table := tabular.Table{
		Header: []string{"Document Title", "Year"},
		Rows:   [][]string{{"Fallback Title", "2020"}},
	}
	records := std(table, "C")
	if records[0].Title != "Fallback Title" {
		t.Errorf("Title = %q, want first-column fallback", records[0].Title)
	}
	if records[0].Year != "2020" {
		t.Errorf("Year = %q", records[0].Year)
	}
}

func TestStandardize_RaggedRows(t *testing.T) {
	table := tabular.Table{
		Header: []string{"Title", "DOI", "Year"},
		Rows:   [][]string{{"Short Row"}},
	}
	records := std(table, "A")
	if records[0].DOI != "" || records[0].Year != "" {
		t.Errorf("short row should degrade to empty cells, got %+v", records[0])
	}
}

func TestMerge_DistinctKeysStayDistinct(t *testing.T) {
	// A keys on its DOI, B keys on its title: different works, no merge.
	a := std(tabular.Table{
		Header: []string{"Title", "DOI"},
		Rows:   [][]string{{"Foo", "10.1234/x"}},
	}, "A")
	b := std(tabular.Table{
		Header: []string{"Title", "DOI"},
		Rows:   [][]string{{"Foo", ""}},
	}, "B")

	res := Merge(a, b, nil)
	if res.Stats.Unique != 2 {
		t.Fatalf("Unique = %d, want 2 (doi key and title key differ)", res.Stats.Unique)
	}
}

func TestMerge_TitleKeyedGroup(t *testing.T) {
	// A's DOI "10.1/x" fails to parse (registrant too short), so both
	// records key on the title "foo" and form one group. The DOI
	// preference is moot for the group; title length ties, and the
	// stable sort keeps A's record as representative.
	a := std(tabular.Table{
		Header: []string{"Title", "DOI"},
		Rows:   [][]string{{"Foo", "10.1/x"}},
	}, "A")
	b := std(tabular.Table{
		Header: []string{"Title", "DOI"},
		Rows:   [][]string{{"Foo", ""}},
	}, "B")

	res := Merge(a, b, nil)
	if res.Stats.Unique != 1 {
		t.Fatalf("Unique = %d, want 1", res.Stats.Unique)
	}
	m := res.Records[0]
	if m.QuerySets != "A|B" {
		t.Errorf("QuerySets = %q, want A|B", m.QuerySets)
	}
	if m.QuerySet != "A" {
		t.Errorf("representative from set %q, want A", m.QuerySet)
	}
	if res.Stats.Removed != 1 {
		t.Errorf("Removed = %d, want 1", res.Stats.Removed)
	}
}

func TestMerge_RepresentativePrefersParseableDOI(t *testing.T) {
	a := []Record{{Title: "Short", DOI: "", QuerySet: "A", Key: "k"}}
	b := []Record{{Title: "S", DOI: "10.1234/x", QuerySet: "B", Key: "k"}}
	res := Merge(a, b, nil)
	if res.Records[0].QuerySet != "B" {
		t.Errorf("representative from %q, want B (has DOI despite shorter title)", res.Records[0].QuerySet)
	}
}

func TestMerge_RepresentativePrefersLongerTitle(t *testing.T) {
	a := []Record{{Title: "Short", DOI: "10.1234/x", QuerySet: "A", Key: "k"}}
	c := []Record{{Title: "A Much Longer Title", DOI: "10.1234/x", QuerySet: "C", Key: "k"}}
	res := Merge(a, nil, c)
	if res.Records[0].QuerySet != "C" {
		t.Errorf("representative from %q, want C (longer title)", res.Records[0].QuerySet)
	}
	if res.Records[0].QuerySets != "A|C" {
		t.Errorf("QuerySets = %q, want A|C", res.Records[0].QuerySets)
	}
}

func TestMerge_EmptySetContributesNothing(t *testing.T) {
	a := []Record{{Title: "Foo", QuerySet: "A", Key: "foo"}}
	res := Merge(a, nil, nil)
	if res.Stats.Total != 1 || res.Stats.Unique != 1 || res.Stats.Removed != 0 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.Records[0].QuerySets != "A" {
		t.Errorf("QuerySets = %q", res.Records[0].QuerySets)
	}
}

func TestMerge_AllEmpty(t *testing.T) {
	res := Merge(nil, nil, nil)
	if len(res.Records) != 0 || res.Stats.Total != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestMerge_CountIdentity(t *testing.T) {
	a := []Record{
		{Title: "P1", DOI: "10.1111/a", QuerySet: "A", Key: "10.1111/a"},
		{Title: "P2", QuerySet: "A", Key: "p2"},
	}
	b := []Record{
		{Title: "P1 again", DOI: "10.1111/a", QuerySet: "B", Key: "10.1111/a"},
		{Title: "P3", QuerySet: "B", Key: "p3"},
	}
	c := []Record{
		{Title: "P2", QuerySet: "C", Key: "p2"},
		{Title: "P4", QuerySet: "C", Key: "p4"},
	}
	res := Merge(a, b, c)

	distinct := map[string]bool{}
	for _, r := range append(append(append([]Record{}, a...), b...), c...) {
		distinct[r.Key] = true
	}
	if res.Stats.Unique != len(distinct) {
		t.Errorf("Unique = %d, want %d", res.Stats.Unique, len(distinct))
	}
	if res.Stats.Removed != res.Stats.Total-res.Stats.Unique {
		t.Errorf("Removed = %d, want Total-Unique = %d", res.Stats.Removed, res.Stats.Total-res.Stats.Unique)
	}

	p := res.Stats.Partition
	sum := p.AOnly + p.BOnly + p.COnly + p.AB + p.AC + p.BC + p.ABC
	if sum != res.Stats.Unique {
		t.Errorf("partition sum = %d, want Unique = %d", sum, res.Stats.Unique)
	}
	want := Partition{AOnly: 0, BOnly: 1, COnly: 1, AB: 1, AC: 1, BC: 0, ABC: 0}
	if p != want {
		t.Errorf("Partition = %+v, want %+v", p, want)
	}
}

func TestMerge_CommutativeUpToRelabeling(t *testing.T) {
	x := []Record{
		{Title: "Alpha", DOI: "10.1111/a", QuerySet: "A", Key: "10.1111/a"},
		{Title: "Beta", QuerySet: "A", Key: "beta"},
	}
	y := []Record{
		{Title: "Alpha encore", DOI: "10.1111/a", QuerySet: "B", Key: "10.1111/a"},
	}
	z := []Record{
		{Title: "Beta", QuerySet: "C", Key: "beta"},
		{Title: "Gamma", QuerySet: "C", Key: "gamma"},
	}

	keysAndSets := func(res Result) map[string]string {
		out := make(map[string]string, len(res.Records))
		for _, m := range res.Records {
			out[m.Key] = m.QuerySets
		}
		return out
	}

	first := keysAndSets(Merge(x, y, z))

	// Permute inputs among the labels: relabel then remap expectations.
	relabel := func(rs []Record, label string) []Record {
		out := make([]Record, len(rs))
		copy(out, rs)
		for i := range out {
			out[i].QuerySet = label
		}
		return out
	}
	second := keysAndSets(Merge(relabel(z, "A"), relabel(x, "B"), relabel(y, "C")))

	// Map second run's labels back: A<-z(C), B<-x(A), C<-y(B).
	back := strings.NewReplacer("A", "c", "B", "a", "C", "b")
	for key, sets := range second {
		remapped := strings.ToUpper(back.Replace(sets))
		parts := strings.Split(remapped, "|")
		sort.Strings(parts)
		second[key] = strings.Join(parts, "|")
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("merge not commutative up to relabeling:\nfirst:  %v\nsecond: %v", first, second)
	}
}
