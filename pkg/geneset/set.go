package geneset

import (
	"errors"
	"sort"
	"strings"
)

// error taxonomy; all recoverable at the boundary
var (
	ErrEmptyInput          = errors.New("geneset: required set is empty after normalization")
	ErrEmptyOverlap        = errors.New("geneset: query and universe share no members")
	ErrMalformedAnnotation = errors.New("geneset: annotation lacks the two required columns (gene_id, term)")
	ErrUnsupportedSetCount = errors.New("geneset: intersection engine requires 2 to 6 named sets")
)

const (
	// MinSets and MaxSets bound the exact-region engine; the state space is
	// 2^N-1 non-empty subsets.
	MinSets = 2
	MaxSets = 6

	// CombinationSep renders a subset label, e.g. "X ∩ Y".
	CombinationSep = " ∩ "
)

// NamedSet is a labeled collection of unique string identifiers.
type NamedSet struct {
	Name    string
	Members map[string]bool
}

// SetCollection is an ordered sequence of named sets; order is the user's
// input order and is preserved in combination labels.
type SetCollection []NamedSet

// NewNamedSet normalizes raw text into a NamedSet.
func NewNamedSet(name, raw string, policy Delimiter, caseSensitive bool) NamedSet {
	return NamedSet{Name: name, Members: Normalize(raw, policy, caseSensitive)}
}

// IntersectionRow is the exact intersection of one non-empty subset of the
// collection. Rows are raw subset intersections, not mutually exclusive Venn
// regions.
type IntersectionRow struct {
	Combination []string
	Size        int
	Elements    []string
}

// Label renders the combination in input order.
func (r IntersectionRow) Label() string {
	return strings.Join(r.Combination, CombinationSep)
}

// ComputeIntersections enumerates every non-empty subset of sets and returns
// one row per subset, 2^N-1 in total, sorted by Size descending with ties
// broken by the rendered label ascending. Any empty input set yields an empty
// result (the caller rejects empty sets upstream with ErrEmptyInput). Fewer
// than 2 or more than 6 sets is ErrUnsupportedSetCount.
func ComputeIntersections(sets SetCollection) ([]IntersectionRow, error) {
	var n = len(sets)
	if n < MinSets || n > MaxSets {
		return nil, ErrUnsupportedSetCount
	}
	for _, s := range sets {
		if len(s.Members) == 0 {
			return []IntersectionRow{}, nil
		}
	}

	var rows []IntersectionRow
	for mask := 1; mask < 1<<n; mask++ {
		var comb SetCollection
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				comb = append(comb, sets[i])
			}
		}
		var inter = intersect(comb)
		var names = make([]string, len(comb))
		for i, s := range comb {
			names[i] = s.Name
		}
		rows = append(rows, IntersectionRow{
			Combination: names,
			Size:        len(inter),
			Elements:    sortedKeys(inter),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Size != rows[j].Size {
			return rows[i].Size > rows[j].Size
		}
		return rows[i].Label() < rows[j].Label()
	})
	return rows, nil
}

// Exclusive returns, per set, the members found in no other set. Computed by
// direct set difference; the regions are pairwise disjoint.
func Exclusive(sets SetCollection) map[string][]string {
	var exclusive = make(map[string][]string, len(sets))
	for i, s := range sets {
		var only = make(map[string]bool, len(s.Members))
		for m := range s.Members {
			only[m] = true
		}
		for j, other := range sets {
			if j == i {
				continue
			}
			for m := range other.Members {
				delete(only, m)
			}
		}
		exclusive[s.Name] = sortedKeys(only)
	}
	return exclusive
}

// RegionCounts maps each membership mask (bit i set = member of sets[i]) to
// the number of elements in exactly that region. Feeds the 2-3 set diagram.
func RegionCounts(sets SetCollection) map[int]int {
	var counts = make(map[int]int)
	var seen = make(map[string]int)
	for i, s := range sets {
		for m := range s.Members {
			seen[m] |= 1 << i
		}
	}
	for _, mask := range seen {
		counts[mask]++
	}
	return counts
}

func intersect(sets SetCollection) map[string]bool {
	var out = make(map[string]bool)
	if len(sets) == 0 {
		return out
	}
	// scan the smallest set against the rest
	var base = sets[0]
	for _, s := range sets[1:] {
		if len(s.Members) < len(base.Members) {
			base = s
		}
	}
	for m := range base.Members {
		var hit = true
		for _, s := range sets {
			if !s.Members[m] {
				hit = false
				break
			}
		}
		if hit {
			out[m] = true
		}
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	var keys = make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
