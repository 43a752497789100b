package layout

import (
	"maps"
	"slices"
	"testing"
)

// sizesFromMap builds a SizeFunc over a literal map, reporting 0 (fallback)
// for unknown ids.
func sizesFromMap(m map[string]float64) SizeFunc {
	return func(id string) float64 { return m[id] }
}

// constSize builds a SizeFunc returning the same value for every id.
func constSize(v float64) SizeFunc {
	return func(string) float64 { return v }
}

// assertNoOverlap fails the test if any two positioned rectangles intersect.
func assertNoOverlap(t *testing.T, positions map[string]Point, heightFn, widthFn SizeFunc) {
	t.Helper()
	ids := slices.Sorted(maps.Keys(positions))
	for i, a := range ids {
		ra := rectAt(positions[a], sizeOf(widthFn, a, DefaultNodeWidth), sizeOf(heightFn, a, DefaultNodeHeight))
		for _, b := range ids[i+1:] {
			rb := rectAt(positions[b], sizeOf(widthFn, b, DefaultNodeWidth), sizeOf(heightFn, b, DefaultNodeHeight))
			if ra.Intersects(rb) {
				t.Errorf("nodes %s and %s overlap: %+v vs %+v", a, b, ra, rb)
			}
		}
	}
}

// distinctXs counts the distinct x coordinates in a position map.
func distinctXs(positions map[string]Point) int {
	seen := map[float64]struct{}{}
	for _, p := range positions {
		seen[p.X] = struct{}{}
	}
	return len(seen)
}
