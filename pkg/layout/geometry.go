package layout

// Default node dimensions, used whenever a size accessor is nil or the
// caller has no measurement for an id.
const (
	DefaultNodeWidth  = 300.0
	DefaultNodeHeight = 120.0
)

// SizeFunc returns one dimension (width or height) for a node id.
// Accessors are supplied by the caller and must be deterministic for the
// duration of a single layout call; the engine reads each node's size once
// and treats it as immutable afterwards.
type SizeFunc func(id string) float64

// Point is the top-left corner of a node's box in user units.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Rect is an axis-aligned rectangle. Top < Bottom (y grows downward).
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Intersects reports whether two rectangles overlap with positive area.
// Touching edges do not count as an intersection, so boxes separated by a
// zero gap are still considered non-overlapping.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right && r.Top < o.Bottom && o.Top < r.Bottom
}

// rectAt builds the rectangle covered by a node at p with the given size.
func rectAt(p Point, width, height float64) Rect {
	return Rect{Left: p.X, Top: p.Y, Right: p.X + width, Bottom: p.Y + height}
}

// Bounds is the axis-aligned bounding box of a set of positioned, sized
// nodes. MaxBottom is the largest y+height over the set, i.e. the first
// usable y below every node.
type Bounds struct {
	MinX      float64 `json:"minX" bson:"minX"`
	MaxX      float64 `json:"maxX" bson:"maxX"`
	MinY      float64 `json:"minY" bson:"minY"`
	MaxBottom float64 `json:"maxBottom" bson:"maxBottom"`
}

// BoundsOf folds over a position map and returns its bounding box.
// heightFn and widthFn may be nil, in which case DefaultNodeHeight and
// DefaultNodeWidth are assumed for every node. An empty input yields the
// zero Bounds; callers chaining layouts can use it safely as a no-op.
func BoundsOf(positions map[string]Point, heightFn, widthFn SizeFunc) Bounds {
	var b Bounds
	first := true
	for id, p := range positions {
		right := p.X + sizeOf(widthFn, id, DefaultNodeWidth)
		bottom := p.Y + sizeOf(heightFn, id, DefaultNodeHeight)
		if first {
			b = Bounds{MinX: p.X, MaxX: right, MinY: p.Y, MaxBottom: bottom}
			first = false
			continue
		}
		b.MinX = min(b.MinX, p.X)
		b.MaxX = max(b.MaxX, right)
		b.MinY = min(b.MinY, p.Y)
		b.MaxBottom = max(b.MaxBottom, bottom)
	}
	return b
}

// sizeOf reads a dimension through an accessor, falling back when the
// accessor is nil or reports a non-positive value.
func sizeOf(fn SizeFunc, id string, fallback float64) float64 {
	if fn == nil {
		return fallback
	}
	if v := fn(id); v > 0 {
		return v
	}
	return fallback
}
