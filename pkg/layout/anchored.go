package layout

import (
	"cmp"
	"math"
	"slices"
)

// Defaults for anchored-child placement.
const (
	DefaultBaseGapX       = 48.0
	DefaultStackGapY      = 24.0
	DefaultCollisionStepX = 40.0
)

// AnchoredOptions configures [AnchoredChildren].
type AnchoredOptions struct {
	BaseGapX       float64 // gap between the parent's right edge and the child stack; defaults to DefaultBaseGapX
	StackGapY      float64 // vertical gap between stacked children; defaults to DefaultStackGapY
	CollisionStepX float64 // step used when dodging occupied rectangles; defaults to DefaultCollisionStepX

	// OccupiedRects lists rectangles the child stack must not intersect.
	// The stack's anchor x is advanced in CollisionStepX increments until
	// the candidate rectangle spanning the full stack clears all of them.
	OccupiedRects []Rect

	// StartY overrides where the child stack begins. When nil the stack is
	// vertically centered within the parent's height. The parent's top-left
	// position is passed in.
	StartY func(parentID string, parent Point) float64

	HeightFn SizeFunc
	WidthFn  SizeFunc
}

// AnchoredResult is the output of [AnchoredChildren].
type AnchoredResult struct {
	Positions map[string]Point

	// UnplacedChildIDs lists children whose parent had no known position.
	// The caller is expected to fall back to its own placement (typically a
	// grid at the bottom of the diagram); this is never an error.
	UnplacedChildIDs []string

	Bounds Bounds
}

// AnchoredChildren places an ordered child list immediately right of its
// owning parent: each child sits at the parent's right edge plus BaseGapX,
// stacked top to bottom with StackGapY between children. Children are never
// placed left of, or overlapping, the parent.
//
// If the parent id is absent from parents, no child is positioned and all
// child ids are reported through UnplacedChildIDs.
func AnchoredChildren(parentID string, childIDs []string, parents map[string]Point, opts AnchoredOptions) AnchoredResult {
	baseGapX := opts.BaseGapX
	if baseGapX <= 0 {
		baseGapX = DefaultBaseGapX
	}
	stackGapY := opts.StackGapY
	if stackGapY <= 0 {
		stackGapY = DefaultStackGapY
	}
	stepX := opts.CollisionStepX
	if stepX <= 0 {
		stepX = DefaultCollisionStepX
	}

	parent, ok := parents[parentID]
	if !ok {
		return AnchoredResult{
			Positions:        map[string]Point{},
			UnplacedChildIDs: slices.Clone(childIDs),
		}
	}

	stackWidth, stackHeight := stackExtent(childIDs, stackGapY, opts.HeightFn, opts.WidthFn)

	x := parent.X + sizeOf(opts.WidthFn, parentID, DefaultNodeWidth) + baseGapX
	startY := parent.Y + (sizeOf(opts.HeightFn, parentID, DefaultNodeHeight)-stackHeight)/2
	if opts.StartY != nil {
		startY = opts.StartY(parentID, parent)
	}

	// Local search: step right until the whole stack clears the occupied
	// set. The occupied set is small and locally scoped, so a bounded-step
	// retest beats a general solver here.
	for intersectsAny(rectAt(Point{X: x, Y: startY}, stackWidth, stackHeight), opts.OccupiedRects) {
		x += stepX
	}

	positions := make(map[string]Point, len(childIDs))
	y := startY
	for _, id := range childIDs {
		positions[id] = Point{X: x, Y: y}
		y += sizeOf(opts.HeightFn, id, DefaultNodeHeight) + stackGapY
	}

	return AnchoredResult{
		Positions: positions,
		Bounds:    BoundsOf(positions, opts.HeightFn, opts.WidthFn),
	}
}

// Band is one ordered unit of the multi-parent reflow, typically one per
// layered-layout rank. ID identifies the band in BandShiftByID.
type Band struct {
	ID        string
	ParentIDs []string
}

// BandOptions configures [AnchoredChildrenByBands].
type BandOptions struct {
	BaseGapX  float64 // as in AnchoredOptions
	StackGapY float64 // as in AnchoredOptions

	// GetChildStackStartY overrides where a parent's child stack begins,
	// e.g. just below the parent's header region. Nil means vertical
	// centering within the parent.
	GetChildStackStartY func(parentID string, parent Point) float64

	HeightFn SizeFunc
	WidthFn  SizeFunc
}

// BandResult is the output of [AnchoredChildrenByBands].
type BandResult struct {
	Positions        map[string]Point
	UnplacedChildIDs []string

	// ParentShiftByID carries a positive x shift for parents whose own band
	// needed one: a parent in a right lane that would be overlapped by a
	// left-lane sibling's child stack. Shifts cascade through the band, so
	// a pushed parent that reaches the next lane pushes that lane too. The
	// caller applies the shift to the parent and its children when
	// finalizing positions. Normally empty.
	ParentShiftByID map[string]float64

	// BandShiftByID carries a cumulative positive x shift per band id,
	// recorded whenever an earlier band's children would overlap this
	// band's parents. Shifts only propagate forward; already-placed bands
	// are never moved retroactively. The caller applies each band's shift
	// to its parents and children when finalizing positions.
	BandShiftByID map[string]float64

	Bounds Bounds
}

// AnchoredChildrenByBands generalizes [AnchoredChildren] across many
// parents grouped into ordered bands. Every band reserves one shared lane
// width, the widest child stack any of its parents needs, so siblings at
// the same rank keep visually consistent spacing. Parents sharing a
// horizontal lane advance a lane cursor so a later stack starts below an
// earlier one. Parents absent from parents report their children through
// UnplacedChildIDs, as in the single-parent case.
func AnchoredChildrenByBands(bands []Band, childrenByParent map[string][]string, parents map[string]Point, opts BandOptions) BandResult {
	baseGapX := opts.BaseGapX
	if baseGapX <= 0 {
		baseGapX = DefaultBaseGapX
	}
	stackGapY := opts.StackGapY
	if stackGapY <= 0 {
		stackGapY = DefaultStackGapY
	}

	res := BandResult{
		Positions:       map[string]Point{},
		ParentShiftByID: map[string]float64{},
		BandShiftByID:   map[string]float64{},
	}

	cumulativeShift := 0.0

	for bi, band := range bands {
		if cumulativeShift > 0 {
			res.BandShiftByID[band.ID] = cumulativeShift
		}

		// Shared reservation: the widest child stack any parent in this
		// band needs, so all parents at the same rank get the same extra
		// spacing on their right.
		reserved := 0.0
		for _, pid := range band.ParentIDs {
			kids := childrenByParent[pid]
			if len(kids) == 0 {
				continue
			}
			w, _ := stackExtent(kids, stackGapY, opts.HeightFn, opts.WidthFn)
			reserved = max(reserved, w)
		}

		// laneCursor tracks, per horizontal lane (keyed by the parent's x),
		// the first y still free for a child stack in that lane.
		laneCursor := map[float64]float64{}
		// Rightmost extent of this band, children included. Starts at
		// negative infinity so bands living entirely at negative x are
		// measured by their real edge, not by x=0.
		bandRight := math.Inf(-1)

		for _, pid := range band.ParentIDs {
			parent, ok := parents[pid]
			kids := childrenByParent[pid]

			if !ok {
				res.UnplacedChildIDs = append(res.UnplacedChildIDs, kids...)
				continue
			}

			parentW := sizeOf(opts.WidthFn, pid, DefaultNodeWidth)
			parentRight := parent.X + parentW
			bandRight = max(bandRight, parentRight)
			if len(kids) == 0 {
				continue
			}

			stackWidth, stackHeight := stackExtent(kids, stackGapY, opts.HeightFn, opts.WidthFn)

			startY := parent.Y + (sizeOf(opts.HeightFn, pid, DefaultNodeHeight)-stackHeight)/2
			if opts.GetChildStackStartY != nil {
				startY = opts.GetChildStackStartY(pid, parent)
			}
			// Clamp below any earlier stack sharing this lane.
			if cursor, seen := laneCursor[parent.X]; seen && startY < cursor {
				startY = cursor
			}
			laneCursor[parent.X] = startY + stackHeight + stackGapY

			x := parentRight + baseGapX
			y := startY
			for _, id := range kids {
				res.Positions[id] = Point{X: x, Y: y}
				y += sizeOf(opts.HeightFn, id, DefaultNodeHeight) + stackGapY
			}

			stackRight := x + stackWidth
			bandRight = max(bandRight, parentRight+baseGapX+reserved, stackRight)
		}

		// Siblings overlapped by a child stack must move out of the way;
		// shifts are recorded rather than mutating positions the caller
		// owns, and they cascade so a pushed parent cannot land on a lane
		// further right.
		resolveBandShifts(band, childrenByParent, parents, res.Positions, res.ParentShiftByID, baseGapX, opts)

		// Account for parents this band pushed right when measuring how far
		// the band now reaches.
		for _, pid := range band.ParentIDs {
			shift, ok := res.ParentShiftByID[pid]
			if !ok {
				continue
			}
			if parent, pok := parents[pid]; pok {
				parentRight := parent.X + shift + sizeOf(opts.WidthFn, pid, DefaultNodeWidth)
				if kids := childrenByParent[pid]; len(kids) > 0 {
					w, _ := stackExtent(kids, stackGapY, opts.HeightFn, opts.WidthFn)
					parentRight += baseGapX + w
				}
				bandRight = max(bandRight, parentRight)
			}
		}

		// Forward-only reflow: if this band's children reach into the next
		// band's parents, the next band (and every band after it) shifts
		// right by the overflow.
		if bi+1 < len(bands) {
			nextLeft, known := bandMinX(bands[bi+1], parents)
			if known && bandRight > nextLeft {
				cumulativeShift += bandRight - nextLeft
			}
		}
	}

	res.Bounds = BoundsOf(res.Positions, opts.HeightFn, opts.WidthFn)
	return res
}

// resolveBandShifts clears parent-vs-parent overlaps within one band after
// its child stacks are placed. Parents are visited left to right by
// effective x; whenever a parent's extent (its box plus its placed child
// stack) intersects the extent of a parent in a lane further right, the
// right parent is pushed clear. A pushed parent's own extent moves with it,
// so the pass repeats until nothing moves and a shift can never create a
// new overlap downstream. Vertically distant extents never trigger a shift.
func resolveBandShifts(band Band, childrenByParent map[string][]string, parents, positions map[string]Point, shifts map[string]float64, baseGapX float64, opts BandOptions) {
	ids := make([]string, 0, len(band.ParentIDs))
	for _, pid := range band.ParentIDs {
		if _, ok := parents[pid]; ok {
			ids = append(ids, pid)
		}
	}
	if len(ids) < 2 {
		return
	}

	// Shifts only ever grow rightward, so each pass settles at least the
	// leftmost remaining overlap and len(ids) passes always suffice.
	for pass := 0; pass < len(ids); pass++ {
		slices.SortFunc(ids, func(a, b string) int {
			return cmp.Compare(parents[a].X+shifts[a], parents[b].X+shifts[b])
		})

		moved := false
		for i, pid := range ids {
			ext := bandParentExtent(pid, childrenByParent[pid], parents, positions, shifts[pid], opts)
			for _, qid := range ids[i+1:] {
				qext := bandParentExtent(qid, childrenByParent[qid], parents, positions, shifts[qid], opts)
				if qext.Left <= ext.Left || !ext.Intersects(qext) {
					continue
				}
				shifts[qid] += ext.Right + baseGapX - qext.Left
				moved = true
			}
		}
		if !moved {
			return
		}
	}
}

// bandParentExtent is the rectangle covered by a parent and its placed
// child stack, both translated by the parent's pending shift. The caller
// later applies the same shift to parent and children together, so the
// translated extent is exactly what will end up on the canvas.
func bandParentExtent(pid string, kids []string, parents, positions map[string]Point, shift float64, opts BandOptions) Rect {
	p := parents[pid]
	ext := rectAt(Point{X: p.X + shift, Y: p.Y},
		sizeOf(opts.WidthFn, pid, DefaultNodeWidth),
		sizeOf(opts.HeightFn, pid, DefaultNodeHeight))
	for _, id := range kids {
		cp, ok := positions[id]
		if !ok {
			continue
		}
		c := rectAt(Point{X: cp.X + shift, Y: cp.Y},
			sizeOf(opts.WidthFn, id, DefaultNodeWidth),
			sizeOf(opts.HeightFn, id, DefaultNodeHeight))
		ext.Top = min(ext.Top, c.Top)
		ext.Right = max(ext.Right, c.Right)
		ext.Bottom = max(ext.Bottom, c.Bottom)
	}
	return ext
}

// stackExtent measures a child stack: width is the widest child, height the
// sum of child heights plus inner gaps.
func stackExtent(childIDs []string, stackGapY float64, heightFn, widthFn SizeFunc) (width, height float64) {
	for i, id := range childIDs {
		width = max(width, sizeOf(widthFn, id, DefaultNodeWidth))
		if i > 0 {
			height += stackGapY
		}
		height += sizeOf(heightFn, id, DefaultNodeHeight)
	}
	return width, height
}

// bandMinX returns the smallest parent x in the band, skipping parents with
// no known position.
func bandMinX(b Band, parents map[string]Point) (float64, bool) {
	minX, known := 0.0, false
	for _, pid := range b.ParentIDs {
		p, ok := parents[pid]
		if !ok {
			continue
		}
		if !known || p.X < minX {
			minX, known = p.X, true
		}
	}
	return minX, known
}

// intersectsAny reports whether r overlaps any rectangle in rects.
func intersectsAny(r Rect, rects []Rect) bool {
	for _, o := range rects {
		if r.Intersects(o) {
			return true
		}
	}
	return false
}
