package layout

import "testing"

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{
			name: "overlapping",
			a:    Rect{Left: 0, Top: 0, Right: 100, Bottom: 100},
			b:    Rect{Left: 50, Top: 50, Right: 150, Bottom: 150},
			want: true,
		},
		{
			name: "disjoint",
			a:    Rect{Left: 0, Top: 0, Right: 100, Bottom: 100},
			b:    Rect{Left: 200, Top: 0, Right: 300, Bottom: 100},
			want: false,
		},
		{
			name: "touching edges do not overlap",
			a:    Rect{Left: 0, Top: 0, Right: 100, Bottom: 100},
			b:    Rect{Left: 100, Top: 0, Right: 200, Bottom: 100},
			want: false,
		},
		{
			name: "contained",
			a:    Rect{Left: 0, Top: 0, Right: 100, Bottom: 100},
			b:    Rect{Left: 25, Top: 25, Right: 75, Bottom: 75},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("Intersects() not symmetric: %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoundsOf(t *testing.T) {
	heights := sizesFromMap(map[string]float64{"a": 100, "b": 250})
	widths := sizesFromMap(map[string]float64{"a": 300, "b": 180})

	positions := map[string]Point{
		"a": {X: 10, Y: 20},
		"b": {X: 400, Y: -30},
	}

	b := BoundsOf(positions, heights, widths)

	if b.MinX != 10 {
		t.Errorf("MinX = %v, want 10", b.MinX)
	}
	if b.MaxX != 580 {
		t.Errorf("MaxX = %v, want 580", b.MaxX)
	}
	if b.MinY != -30 {
		t.Errorf("MinY = %v, want -30", b.MinY)
	}
	if b.MaxBottom != 220 {
		t.Errorf("MaxBottom = %v, want 220", b.MaxBottom)
	}
}

func TestBoundsOfEmpty(t *testing.T) {
	b := BoundsOf(map[string]Point{}, nil, nil)
	if b != (Bounds{}) {
		t.Errorf("empty input = %+v, want zero bounds", b)
	}
}

func TestBoundsOfNilAccessors(t *testing.T) {
	b := BoundsOf(map[string]Point{"a": {X: 0, Y: 0}}, nil, nil)
	if b.MaxX != DefaultNodeWidth {
		t.Errorf("MaxX = %v, want default width %v", b.MaxX, DefaultNodeWidth)
	}
	if b.MaxBottom != DefaultNodeHeight {
		t.Errorf("MaxBottom = %v, want default height %v", b.MaxBottom, DefaultNodeHeight)
	}
}
