package geneset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	gzip "github.com/klauspost/pgzip"
)

// TermIndex maps a term (GO term, KEGG pathway) to the set of gene IDs
// annotated with it. The inverse grouping of the two-column (gene_id, term)
// annotation table.
type TermIndex map[string]map[string]bool

// Universe returns every annotated gene: the default background when the
// caller supplies none.
func (index TermIndex) Universe() map[string]bool {
	var universe = make(map[string]bool)
	for _, genes := range index {
		for g := range genes {
			universe[g] = true
		}
	}
	return universe
}

// SepForFile infers the column separator from the file name: .tsv (optionally
// gzipped) is tab, everything else comma.
func SepForFile(name string) string {
	name = strings.ToLower(strings.TrimSuffix(name, ".gz"))
	if strings.HasSuffix(name, ".tsv") {
		return "\t"
	}
	return ","
}

// ReadAnnotation parses a two-column (gene_id, term) table. Rows with fewer
// than two non-empty fields are skipped silently; if nothing usable remains
// the source is reported as malformed.
func ReadAnnotation(r io.Reader, sep string, caseSensitive bool) (TermIndex, error) {
	var (
		index   = make(TermIndex)
		scanner = bufio.NewScanner(r)
		kept    int
	)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		var fields = strings.Split(strings.TrimSuffix(scanner.Text(), "\r"), sep)
		if len(fields) < 2 {
			continue
		}
		var gene = strings.TrimSpace(fields[0])
		var term = strings.TrimSpace(fields[1])
		if gene == "" || term == "" || strings.EqualFold(gene, "nan") {
			continue
		}
		if !caseSensitive {
			gene = strings.ToLower(gene)
		}
		if index[term] == nil {
			index[term] = make(map[string]bool)
		}
		index[term][gene] = true
		kept++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("geneset: reading annotation: %w", err)
	}
	if kept == 0 {
		return nil, ErrMalformedAnnotation
	}
	return index, nil
}

// LoadAnnotation reads an annotation file, transparently decompressing .gz
// sources and inferring the separator from the extension.
func LoadAnnotation(path string, caseSensitive bool) (TermIndex, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geneset: open annotation %s: %w", path, err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("geneset: decompress annotation %s: %w", path, err)
		}
		defer gzReader.Close()
		r = gzReader
	}
	return ReadAnnotation(r, SepForFile(path), caseSensitive)
}
