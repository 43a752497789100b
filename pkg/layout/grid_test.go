package layout

import (
	"reflect"
	"testing"
)

func TestGrid(t *testing.T) {
	heights := sizesFromMap(map[string]float64{"orders": 820, "tags": 150, "users": 570})

	res := Grid([]string{"orders", "tags", "users"}, GridOptions{
		Columns:   2,
		NodeWidth: 300,
		GapX:      120,
		GapY:      100,
		HeightFn:  heights,
	})

	want := map[string]Point{
		"orders": {X: 0, Y: 0},
		"tags":   {X: 420, Y: 0},
		"users":  {X: 0, Y: 920}, // below the tallest of row 1, not the shorter sibling
	}
	if !reflect.DeepEqual(res.Positions, want) {
		t.Errorf("positions = %+v, want %+v", res.Positions, want)
	}

	if res.NextY != 1590 {
		t.Errorf("NextY = %v, want 1590", res.NextY)
	}
	if res.Bounds.MaxX != 720 {
		t.Errorf("Bounds.MaxX = %v, want 720", res.Bounds.MaxX)
	}
	if res.Bounds.MaxBottom != 1490 {
		t.Errorf("Bounds.MaxBottom = %v, want 1490", res.Bounds.MaxBottom)
	}

	assertNoOverlap(t, res.Positions, heights, constSize(300))
}

func TestGridEmptyInputIsChainable(t *testing.T) {
	res := Grid(nil, GridOptions{StartY: 350})
	if len(res.Positions) != 0 {
		t.Errorf("positions = %v, want empty", res.Positions)
	}
	if res.NextY != 350 {
		t.Errorf("NextY = %v, want start y 350", res.NextY)
	}
	if res.Bounds != (Bounds{}) {
		t.Errorf("bounds = %+v, want zero", res.Bounds)
	}
}

func TestGridKeepsInputOrder(t *testing.T) {
	ids := []string{"z", "a", "m"}
	res := Grid(ids, GridOptions{Columns: 3, NodeWidth: 100, GapX: 10})

	if res.Positions["z"].X >= res.Positions["a"].X || res.Positions["a"].X >= res.Positions["m"].X {
		t.Errorf("items reordered: %+v", res.Positions)
	}
}

func TestGridChaining(t *testing.T) {
	first := Grid([]string{"a", "b"}, GridOptions{Columns: 2, GapY: 40, HeightFn: constSize(200)})
	second := Grid([]string{"c", "d"}, GridOptions{Columns: 2, StartY: first.NextY, HeightFn: constSize(200)})

	for id, p := range second.Positions {
		if p.Y < first.NextY {
			t.Errorf("chained node %s at y=%v, want >= %v", id, p.Y, first.NextY)
		}
	}

	merged := map[string]Point{}
	for id, p := range first.Positions {
		merged[id] = p
	}
	for id, p := range second.Positions {
		merged[id] = p
	}
	assertNoOverlap(t, merged, constSize(200), nil)
}

func TestGridDeterminism(t *testing.T) {
	ids := []string{"t1", "t2", "t3", "t4", "t5"}
	opts := GridOptions{Columns: 2, GapX: 30, GapY: 30, HeightFn: sizesFromMap(map[string]float64{
		"t1": 120, "t2": 480, "t3": 260, "t4": 90, "t5": 310,
	})}

	a := Grid(ids, opts)
	b := Grid(ids, opts)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated calls differ:\n%+v\n%+v", a, b)
	}
}
