package geneset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Table is any table-shaped result ready for export: a header row plus one
// record per line. A pure format transform with no business logic.
type Table struct {
	Header []string
	Rows   [][]string
}

// IntersectionTable renders the full subset-intersection table.
func IntersectionTable(rows []IntersectionRow) Table {
	var t = Table{Header: []string{"Sets", "Size", "Elements"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Label(),
			strconv.Itoa(r.Size),
			strings.Join(r.Elements, ", "),
		})
	}
	return t
}

// ExclusiveTable renders per-set exclusive regions in the collection's input
// order.
func ExclusiveTable(sets SetCollection, exclusive map[string][]string) Table {
	var t = Table{Header: []string{"Set", "Exclusive Elements"}}
	for _, s := range sets {
		t.Rows = append(t.Rows, []string{
			s.Name,
			strings.Join(exclusive[s.Name], ", "),
		})
	}
	return t
}

// EnrichmentTable renders enrichment records in their sorted order.
func EnrichmentTable(records []EnrichmentRecord) Table {
	var t = Table{Header: []string{
		"Term", "Overlap", "TermSize", "QuerySize", "UniverseSize",
		"FoldEnrichment", "PValue", "AdjustedP",
	}}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{
			r.Term,
			strconv.Itoa(r.Overlap),
			strconv.Itoa(r.TermSize),
			strconv.Itoa(r.QuerySize),
			strconv.Itoa(r.UniverseSize),
			strconv.FormatFloat(r.FoldEnrichment, 'g', -1, 64),
			strconv.FormatFloat(r.PValue, 'g', -1, 64),
			strconv.FormatFloat(r.AdjustedP, 'g', -1, 64),
		})
	}
	return t
}

// WriteCSV serializes the table as comma-separated text with a header row;
// fields containing the delimiter are quoted by the writer.
func (t Table) WriteCSV(w io.Writer) error {
	var cw = csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("geneset: write csv header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("geneset: write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses delimited text written by WriteCSV back into a Table.
func ReadCSV(r io.Reader) (Table, error) {
	var cr = csv.NewReader(r)
	cr.FieldsPerRecord = -1
	all, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("geneset: read csv: %w", err)
	}
	if len(all) == 0 {
		return Table{}, nil
	}
	return Table{Header: all[0], Rows: all[1:]}, nil
}
