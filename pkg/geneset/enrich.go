package geneset

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/combin"
)

// Correction selects the multiple-testing correction scheme.
type Correction int

const (
	None Correction = iota
	FDRBH
)

// EnrichmentRecord is one term's over-representation result. Records are
// regenerated per run and never mutated in place.
type EnrichmentRecord struct {
	Term           string
	Overlap        int
	TermSize       int
	QuerySize      int
	UniverseSize   int
	FoldEnrichment float64
	PValue         float64
	AdjustedP      float64
}

// Enrich computes one-sided hypergeometric over-representation p-values for
// every term with at least one member in query ∩ universe. Terms and the
// query are both restricted to the universe before counting; zero-overlap
// terms are excluded. The result is sorted by adjusted p ascending, overlap
// descending, term ascending.
func Enrich(query, universe map[string]bool, index TermIndex, correction Correction) ([]EnrichmentRecord, error) {
	var effQuery = make(map[string]bool, len(query))
	for g := range query {
		if universe[g] {
			effQuery[g] = true
		}
	}
	if len(effQuery) == 0 {
		return nil, ErrEmptyOverlap
	}

	var (
		universeSize = len(universe)
		querySize    = len(effQuery)
		records      []EnrichmentRecord
	)
	for term, genes := range index {
		var termSize, overlap int
		for g := range genes {
			if !universe[g] {
				continue
			}
			termSize++
			if effQuery[g] {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		records = append(records, EnrichmentRecord{
			Term:         term,
			Overlap:      overlap,
			TermSize:     termSize,
			QuerySize:    querySize,
			UniverseSize: universeSize,
			FoldEnrichment: (float64(overlap) / float64(querySize)) /
				(float64(termSize) / float64(universeSize)),
			PValue: hypergeomUpperTail(universeSize, termSize, querySize, overlap),
		})
	}

	adjust(records, correction)

	sort.Slice(records, func(i, j int) bool {
		if records[i].AdjustedP != records[j].AdjustedP {
			return records[i].AdjustedP < records[j].AdjustedP
		}
		if records[i].Overlap != records[j].Overlap {
			return records[i].Overlap > records[j].Overlap
		}
		return records[i].Term < records[j].Term
	})
	return records, nil
}

// hypergeomUpperTail is P(X >= overlap) for X ~ Hypergeometric(N, K, n):
// the one-sided exact test of the 2x2 table
// [[overlap, n-overlap], [K-overlap, N-n-K+overlap]].
func hypergeomUpperTail(N, K, n, overlap int) float64 {
	var (
		logDenom = combin.LogGeneralizedBinomial(float64(N), float64(n))
		upper    = min(K, n)
		p        float64
	)
	for k := overlap; k <= upper; k++ {
		if n-k > N-K {
			continue
		}
		p += math.Exp(
			combin.LogGeneralizedBinomial(float64(K), float64(k)) +
				combin.LogGeneralizedBinomial(float64(N-K), float64(n-k)) -
				logDenom)
	}
	return math.Min(p, 1)
}

// adjust fills AdjustedP. FDRBH is the Benjamini-Hochberg step-up procedure:
// rank raw p-values ascending and back-propagate min over j>=i of p_j*m/j,
// clipped to [0,1], so adjusted values stay monotone in the raw ordering.
func adjust(records []EnrichmentRecord, correction Correction) {
	if correction != FDRBH {
		for i := range records {
			records[i].AdjustedP = records[i].PValue
		}
		return
	}

	var m = len(records)
	var order = make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return records[order[i]].PValue < records[order[j]].PValue
	})

	var runningMin = 1.0
	for rank := m; rank >= 1; rank-- {
		var idx = order[rank-1]
		var adj = records[idx].PValue * float64(m) / float64(rank)
		if adj < runningMin {
			runningMin = adj
		}
		records[idx].AdjustedP = math.Min(runningMin, 1)
	}
}
