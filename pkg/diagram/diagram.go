// Package diagram composes the layout engine's primitives into complete
// schema diagrams: tables and views in a layered left-to-right cluster,
// triggers anchored beside their owning tables, routines in a grid below,
// and any satellites without a placeable parent in a fallback grid at the
// very bottom.
//
// Composition works by explicit bounds-chaining: every layout call returns
// a fresh position map and bounding box, and the next section starts below
// the previous one. No global layout state is mutated.
package diagram

import (
	"fmt"
	"slices"

	"github.com/mwolf/schemascope/pkg/layout"
	"github.com/mwolf/schemascope/pkg/schema"
)

// Node kinds in a built diagram.
const (
	KindTable   = "table"
	KindView    = "view"
	KindTrigger = "trigger"
	KindRoutine = "routine"
)

// Default composition parameters.
const (
	DefaultGridColumns = 3
	DefaultSectionGapY = 200.0
)

// Options configures [Build] and [Focus].
type Options struct {
	// MaxLanes caps lanes per rank in the layered cluster. Defaults to
	// layout.DefaultMaxLanes.
	MaxLanes int

	// TargetAspectRatio widens large ranks to keep the diagram from growing
	// much taller than wide; zero disables widening.
	TargetAspectRatio float64

	// GridColumns is the routine grid's column count. Defaults to
	// DefaultGridColumns.
	GridColumns int

	// SectionGapY separates the layered cluster, the routine grid and the
	// fallback grid. Defaults to DefaultSectionGapY.
	SectionGapY float64
}

func (o Options) sectionGapY() float64 {
	if o.SectionGapY > 0 {
		return o.SectionGapY
	}
	return DefaultSectionGapY
}

// Node is one positioned box in a built diagram.
type Node struct {
	ID      string  `json:"id" bson:"id"`
	Kind    string  `json:"kind" bson:"kind"`
	X       float64 `json:"x" bson:"x"`
	Y       float64 `json:"y" bson:"y"`
	Width   float64 `json:"width" bson:"width"`
	Height  float64 `json:"height" bson:"height"`
	Rank    int     `json:"rank,omitempty" bson:"rank,omitempty"`
	TableID string  `json:"tableId,omitempty" bson:"tableId,omitempty"` // owning table for triggers
}

// Diagram is a complete positioned schema diagram, ready for rendering or
// storage.
type Diagram struct {
	Nodes  []Node        `json:"nodes" bson:"nodes"`
	Edges  []layout.Edge `json:"edges,omitempty" bson:"edges,omitempty"`
	Bounds layout.Bounds `json:"bounds" bson:"bounds"`

	// Unplaced lists satellite ids that fell back to the bottom grid
	// because their parent had no position. They still appear in Nodes.
	Unplaced []string `json:"unplaced,omitempty" bson:"unplaced,omitempty"`
}

// Node returns the positioned node with the given id and true, or a zero
// Node and false.
func (d *Diagram) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Positions returns the diagram as an id → top-left point map.
func (d *Diagram) Positions() map[string]layout.Point {
	m := make(map[string]layout.Point, len(d.Nodes))
	for _, n := range d.Nodes {
		m[n.ID] = layout.Point{X: n.X, Y: n.Y}
	}
	return m
}

// Build lays out a complete schema graph. The result is deterministic:
// identical graphs and options produce identical diagrams.
func Build(g schema.Graph, opts Options) Diagram {
	s := newSizer(&g)
	edges := g.DependencyEdges()

	// Tables and views form the layered cluster.
	layered := layout.Layered(g.NodeIDs(), edges, layout.LayeredOptions{
		MaxLanes:          opts.MaxLanes,
		TargetAspectRatio: opts.TargetAspectRatio,
		HeightFn:          s.Height,
		WidthFn:           s.Width,
	})

	// Triggers anchor beside their owning tables, one band per rank.
	bands := rankBands(layered)
	triggersByTable := g.TriggersByTable()
	reflow := layout.AnchoredChildrenByBands(bands, triggersByTable, layered.Positions, layout.BandOptions{
		GetChildStackStartY: func(_ string, parent layout.Point) float64 {
			return parent.Y + HeaderHeight
		},
		HeightFn: s.Height,
		WidthFn:  s.Width,
	})

	positions := finalizePositions(layered, bands, triggersByTable, reflow)

	// Routines chain below the cluster's bounds as a flat grid.
	clusterBounds := layout.BoundsOf(positions, s.Height, s.Width)
	routines := layout.Grid(g.RoutineIDs(), layout.GridOptions{
		StartY:    clusterBounds.MaxBottom + opts.sectionGapY(),
		Columns:   opts.GridColumns,
		NodeWidth: NodeWidth,
		GapX:      layout.DefaultLaneGapX,
		GapY:      layout.DefaultGapY,
		HeightFn:  s.Height,
	})
	for id, p := range routines.Positions {
		positions[id] = p
	}

	// Satellites whose parent never got a position degrade to one more grid
	// at the very bottom; never an error.
	unplaced := slices.Clone(reflow.UnplacedChildIDs)
	slices.Sort(unplaced)
	if len(unplaced) > 0 {
		fallback := layout.Grid(unplaced, layout.GridOptions{
			StartY:    routines.NextY + opts.sectionGapY(),
			Columns:   opts.GridColumns,
			NodeWidth: TriggerWidth,
			GapX:      layout.DefaultLaneGapX,
			GapY:      layout.DefaultGapY,
			HeightFn:  s.Height,
		})
		for id, p := range fallback.Positions {
			positions[id] = p
		}
	}

	return assemble(&g, s, positions, layered.Ranks, edges, unplaced)
}

// rankBands converts the layered result into ordered reflow bands, one per
// rank. Parents within a band are ordered by lane (x) and then by vertical
// position, so stacks sharing a lane are processed top to bottom.
func rankBands(l layout.LayeredResult) []layout.Band {
	bands := make([]layout.Band, len(l.Ranks.Layers))
	for rank, layer := range l.Ranks.Layers {
		members := slices.Clone(layer)
		slices.SortFunc(members, func(a, b string) int {
			pa, pb := l.Positions[a], l.Positions[b]
			switch {
			case pa.X != pb.X:
				if pa.X < pb.X {
					return -1
				}
				return 1
			case pa.Y != pb.Y:
				if pa.Y < pb.Y {
					return -1
				}
				return 1
			}
			return compareID(a, b)
		})
		bands[rank] = layout.Band{ID: fmt.Sprintf("rank-%d", rank), ParentIDs: members}
	}
	return bands
}

// finalizePositions merges parent and child positions, applying the
// reflow's parent and band shifts. A shift moves a parent and its children
// together; band shifts move every parent of the band and their children.
func finalizePositions(l layout.LayeredResult, bands []layout.Band, childrenByParent map[string][]string, r layout.BandResult) map[string]layout.Point {
	shiftByParent := make(map[string]float64, len(l.Positions))
	for _, band := range bands {
		bandShift := r.BandShiftByID[band.ID]
		for _, pid := range band.ParentIDs {
			shiftByParent[pid] = bandShift + r.ParentShiftByID[pid]
		}
	}

	positions := make(map[string]layout.Point, len(l.Positions)+len(r.Positions))
	for id, p := range l.Positions {
		positions[id] = layout.Point{X: p.X + shiftByParent[id], Y: p.Y}
	}
	for pid, children := range childrenByParent {
		shift := shiftByParent[pid]
		for _, cid := range children {
			if p, ok := r.Positions[cid]; ok {
				positions[cid] = layout.Point{X: p.X + shift, Y: p.Y}
			}
		}
	}
	return positions
}

// assemble turns a position map into a serializable Diagram, attaching
// kind, size and rank metadata per node. Nodes are emitted tables first,
// then views, triggers and routines, each group sorted by id.
func assemble(g *schema.Graph, s *sizer, positions map[string]layout.Point, ranks layout.Ranks, edges []layout.Edge, unplaced []string) Diagram {
	var nodes []Node

	add := func(id, kind, tableID string) {
		p, ok := positions[id]
		if !ok {
			return
		}
		nodes = append(nodes, Node{
			ID:      id,
			Kind:    kind,
			X:       p.X,
			Y:       p.Y,
			Width:   s.Width(id),
			Height:  s.Height(id),
			Rank:    ranks.ByNode[id],
			TableID: tableID,
		})
	}

	for _, id := range sortedIDs(g.Tables, func(t schema.Table) string { return t.ID }) {
		add(id, KindTable, "")
	}
	for _, id := range sortedIDs(g.Views, func(v schema.View) string { return v.ID }) {
		add(id, KindView, "")
	}
	tableByTrigger := make(map[string]string, len(g.Triggers))
	for _, t := range g.Triggers {
		tableByTrigger[t.ID] = t.TableID
	}
	for _, id := range sortedIDs(g.Triggers, func(t schema.Trigger) string { return t.ID }) {
		add(id, KindTrigger, tableByTrigger[id])
	}
	for _, id := range sortedIDs(g.Routines, func(r schema.Routine) string { return r.ID }) {
		add(id, KindRoutine, "")
	}

	return Diagram{
		Nodes:    nodes,
		Edges:    edges,
		Bounds:   layout.BoundsOf(positions, s.Height, s.Width),
		Unplaced: unplaced,
	}
}

func sortedIDs[T any](items []T, id func(T) string) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = id(it)
	}
	slices.Sort(ids)
	return ids
}

func compareID(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
