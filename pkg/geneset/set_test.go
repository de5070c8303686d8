package geneset

import (
	"errors"
	"reflect"
	"testing"
)

func makeSet(name string, members ...string) NamedSet {
	var s = NamedSet{Name: name, Members: make(map[string]bool, len(members))}
	for _, m := range members {
		s.Members[m] = true
	}
	return s
}

func TestComputeIntersectionsTwoSets(t *testing.T) {
	sets := SetCollection{
		makeSet("X", "a", "b", "c"),
		makeSet("Y", "b", "c", "d"),
	}
	rows, err := ComputeIntersections(sets)
	if err != nil {
		t.Fatalf("ComputeIntersections() error: %v", err)
	}
	// size descending, then rendered label ascending
	want := []IntersectionRow{
		{Combination: []string{"X"}, Size: 3, Elements: []string{"a", "b", "c"}},
		{Combination: []string{"Y"}, Size: 3, Elements: []string{"b", "c", "d"}},
		{Combination: []string{"X", "Y"}, Size: 2, Elements: []string{"b", "c"}},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %+v; want %+v", rows, want)
	}
}

func TestIntersectionCountLaw(t *testing.T) {
	// 2^N - 1 rows for N input sets
	for n := 2; n <= 6; n++ {
		var sets SetCollection
		for i := 0; i < n; i++ {
			sets = append(sets, makeSet(string(rune('A'+i)), "shared", string(rune('a'+i))))
		}
		rows, err := ComputeIntersections(sets)
		if err != nil {
			t.Fatalf("N=%d: %v", n, err)
		}
		if want := 1<<n - 1; len(rows) != want {
			t.Errorf("N=%d: got %d rows; want %d", n, len(rows), want)
		}
	}
}

func TestSubsetMonotonicity(t *testing.T) {
	sets := SetCollection{
		makeSet("A", "1", "2", "3", "4"),
		makeSet("B", "2", "3", "4", "5"),
		makeSet("C", "3", "4", "5", "6"),
	}
	rows, err := ComputeIntersections(sets)
	if err != nil {
		t.Fatal(err)
	}
	size := make(map[string]int, len(rows))
	for _, r := range rows {
		size[r.Label()] = r.Size
	}
	// a superset combination can never have a larger intersection
	pairs := [][2]string{
		{"A", "A ∩ B"},
		{"B", "A ∩ B"},
		{"A ∩ B", "A ∩ B ∩ C"},
		{"B ∩ C", "A ∩ B ∩ C"},
	}
	for _, p := range pairs {
		if size[p[0]] < size[p[1]] {
			t.Errorf("size(%q)=%d < size(%q)=%d", p[0], size[p[0]], p[1], size[p[1]])
		}
	}
}

func TestComputeIntersectionsEmptySet(t *testing.T) {
	sets := SetCollection{
		makeSet("X", "a"),
		makeSet("Y"),
	}
	rows, err := ComputeIntersections(sets)
	if err != nil {
		t.Fatalf("expected empty result, not error, got %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %+v", rows)
	}
}

func TestComputeIntersectionsSetCountBounds(t *testing.T) {
	one := SetCollection{makeSet("A", "a")}
	if _, err := ComputeIntersections(one); !errors.Is(err, ErrUnsupportedSetCount) {
		t.Errorf("1 set: got %v; want ErrUnsupportedSetCount", err)
	}

	var seven SetCollection
	for i := 0; i < 7; i++ {
		seven = append(seven, makeSet(string(rune('A'+i)), "x"))
	}
	rows, err := ComputeIntersections(seven)
	if !errors.Is(err, ErrUnsupportedSetCount) {
		t.Errorf("7 sets: got %v; want ErrUnsupportedSetCount", err)
	}
	if rows != nil {
		t.Errorf("7 sets: expected no partial table, got %d rows", len(rows))
	}
}

func TestExclusive(t *testing.T) {
	sets := SetCollection{
		makeSet("X", "a", "b", "c"),
		makeSet("Y", "b", "c", "d"),
	}
	got := Exclusive(sets)
	want := map[string][]string{"X": {"a"}, "Y": {"d"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Exclusive() = %v; want %v", got, want)
	}
}

func TestExclusivePartition(t *testing.T) {
	sets := SetCollection{
		makeSet("A", "1", "2", "3"),
		makeSet("B", "2", "4", "5"),
		makeSet("C", "3", "5", "6", "7"),
	}
	excl := Exclusive(sets)

	// pairwise disjoint
	seen := make(map[string]string)
	for name, elems := range excl {
		for _, e := range elems {
			if prev, ok := seen[e]; ok {
				t.Errorf("element %q exclusive to both %q and %q", e, prev, name)
			}
			seen[e] = name
		}
	}

	// sum of exclusive sizes bounded by sum of set sizes
	var exclSum, setSum int
	for _, elems := range excl {
		exclSum += len(elems)
	}
	for _, s := range sets {
		setSum += len(s.Members)
	}
	if exclSum > setSum {
		t.Errorf("exclusive sum %d exceeds member sum %d", exclSum, setSum)
	}
}

func TestComputeIntersectionsDeterminism(t *testing.T) {
	sets := SetCollection{
		makeSet("S1", "g1", "g2", "g3"),
		makeSet("S2", "g2", "g3", "g4"),
		makeSet("S3", "g3", "g4", "g5"),
	}
	first, err := ComputeIntersections(sets)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := ComputeIntersections(sets)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs", i)
		}
	}
}

func TestRegionCounts(t *testing.T) {
	sets := SetCollection{
		makeSet("X", "a", "b", "c"),
		makeSet("Y", "b", "c", "d"),
	}
	got := RegionCounts(sets)
	want := map[int]int{1: 1, 2: 1, 3: 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RegionCounts() = %v; want %v", got, want)
	}
}
