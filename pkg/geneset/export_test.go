package geneset

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestIntersectionTableRoundTrip(t *testing.T) {
	sets := SetCollection{
		makeSet("X", "a", "b", "c"),
		makeSet("Y", "b", "c", "d"),
	}
	rows, err := ComputeIntersections(sets)
	if err != nil {
		t.Fatal(err)
	}
	table := IntersectionTable(rows)

	var buf bytes.Buffer
	if err := table.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	parsed, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	if !reflect.DeepEqual(parsed.Header, table.Header) {
		t.Errorf("header = %v; want %v", parsed.Header, table.Header)
	}

	// (combination, size) pairs survive the round trip
	type pair struct{ label, size string }
	var got, want []pair
	for _, r := range parsed.Rows {
		got = append(got, pair{r[0], r[1]})
	}
	for _, r := range table.Rows {
		want = append(want, pair{r[0], r[1]})
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("pairs = %v; want %v", got, want)
	}
}

func TestWriteCSVQuotesDelimiter(t *testing.T) {
	table := Table{
		Header: []string{"Set", "Exclusive Elements"},
		Rows:   [][]string{{"X", "a, b"}},
	}
	var buf bytes.Buffer
	if err := table.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"a, b"`) {
		t.Errorf("field with delimiter not quoted: %q", buf.String())
	}

	parsed, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Rows[0][1] != "a, b" {
		t.Errorf("round trip lost quoting: %q", parsed.Rows[0][1])
	}
}

func TestExclusiveTableOrder(t *testing.T) {
	sets := SetCollection{
		makeSet("Zeta", "a"),
		makeSet("Alpha", "b"),
	}
	table := ExclusiveTable(sets, Exclusive(sets))
	// rows follow input order, not lexicographic
	if table.Rows[0][0] != "Zeta" || table.Rows[1][0] != "Alpha" {
		t.Errorf("rows out of input order: %v", table.Rows)
	}
}

func TestEnrichmentTable(t *testing.T) {
	records := []EnrichmentRecord{{
		Term: "GO:1", Overlap: 2, TermSize: 3, QuerySize: 4,
		UniverseSize: 10, FoldEnrichment: 1.25, PValue: 0.05, AdjustedP: 0.1,
	}}
	table := EnrichmentTable(records)
	want := []string{"GO:1", "2", "3", "4", "10", "1.25", "0.05", "0.1"}
	if !reflect.DeepEqual(table.Rows[0], want) {
		t.Errorf("row = %v; want %v", table.Rows[0], want)
	}
}
