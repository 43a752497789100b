package diagram

import (
	"slices"

	"github.com/mwolf/schemascope/pkg/layout"
	"github.com/mwolf/schemascope/pkg/schema"
)

// Focus builds a localized view of one table or view: the node sits at the
// origin, everything it references fans out in bands to its left, and
// everything referencing it fans out to its right. The node's own triggers
// stay anchored beside it, dodging the right-hand bands.
//
// An id with no relationships yields a diagram containing just the node
// itself (and its triggers, if any).
func Focus(g schema.Graph, nodeID string, opts Options) Diagram {
	s := newSizer(&g)
	known := make(map[string]struct{})
	for _, id := range g.NodeIDs() {
		known[id] = struct{}{}
	}
	if _, ok := known[nodeID]; !ok {
		return Diagram{}
	}

	// referenced → left, referencing → right.
	var left, right []string
	for _, r := range g.Relationships {
		if r.From == nodeID && r.To != nodeID {
			if _, ok := known[r.To]; ok {
				left = append(left, r.To)
			}
		}
		if r.To == nodeID && r.From != nodeID {
			if _, ok := known[r.From]; ok {
				right = append(right, r.From)
			}
		}
	}
	slices.Sort(left)
	slices.Sort(right)
	left = slices.Compact(left)
	right = slices.Compact(right)

	positions := map[string]layout.Point{nodeID: {X: 0, Y: 0}}

	lanes := opts.MaxLanes
	if lanes <= 0 {
		lanes = layout.DefaultMaxLanes
	}

	leftBands := layout.SideBands(left, layout.SideBandOptions{
		AnchorX:   0,
		Direction: layout.DirectionLeft,
		LaneCount: lanes,
		HeightFn:  s.Height,
		WidthFn:   s.Width,
	})
	rightBands := layout.SideBands(right, layout.SideBandOptions{
		AnchorX:   s.Width(nodeID),
		Direction: layout.DirectionRight,
		LaneCount: lanes,
		HeightFn:  s.Height,
		WidthFn:   s.Width,
	})
	for id, p := range leftBands.Positions {
		positions[id] = p
	}
	for id, p := range rightBands.Positions {
		positions[id] = p
	}

	// The focused node's triggers anchor on its right edge and step past
	// the neighbor bands if they collide.
	if triggers := g.TriggersByTable()[nodeID]; len(triggers) > 0 {
		anchored := layout.AnchoredChildren(nodeID, triggers, positions, layout.AnchoredOptions{
			OccupiedRects: occupiedRects(rightBands.Positions, s),
			HeightFn:      s.Height,
			WidthFn:       s.Width,
		})
		for id, p := range anchored.Positions {
			positions[id] = p
		}
	}

	// Only relationships touching the focused node appear in the view.
	var edges []layout.Edge
	for _, r := range g.Relationships {
		if r.From == nodeID || r.To == nodeID {
			edges = append(edges, layout.Edge{From: r.To, To: r.From})
		}
	}

	return assemble(&g, s, positions, layout.Ranks{}, edges, nil)
}

// occupiedRects converts a position map into the rectangle list consumed by
// the anchored-placement collision search.
func occupiedRects(positions map[string]layout.Point, s *sizer) []layout.Rect {
	ids := make([]string, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	rects := make([]layout.Rect, 0, len(ids))
	for _, id := range ids {
		p := positions[id]
		rects = append(rects, layout.Rect{
			Left:   p.X,
			Top:    p.Y,
			Right:  p.X + s.Width(id),
			Bottom: p.Y + s.Height(id),
		})
	}
	return rects
}
