package layout

import (
	"math"
	"slices"
)

// Default gaps for the layered layout, in user units.
const (
	DefaultLayerGapX = 160.0
	DefaultLaneGapX  = 48.0
	DefaultGapY      = 48.0
	DefaultMaxLanes  = 4
)

// LayeredOptions configures [Layered].
type LayeredOptions struct {
	StartX float64
	StartY float64

	LayerGapX float64 // horizontal gap between ranks; defaults to DefaultLayerGapX
	LaneGapX  float64 // gap between lanes within a rank; defaults to DefaultLaneGapX
	GapY      float64 // vertical gap between stacked nodes in a lane; defaults to DefaultGapY

	// MaxLanes caps the number of vertical lanes per rank. Defaults to
	// DefaultMaxLanes.
	MaxLanes int

	// TargetAspectRatio, when positive, allows the lane count of a large
	// rank to grow beyond the plain sqrt heuristic (up to MaxLanes) whenever
	// the rank's projected height exceeds its projected width times this
	// ratio. This trades width for height without changing rank order.
	// Interpreted as desired height:width; 1.0 aims for a roughly square
	// rank. Zero disables widening.
	TargetAspectRatio float64

	HeightFn SizeFunc
	WidthFn  SizeFunc
}

// LayeredResult is the output of [Layered].
type LayeredResult struct {
	Positions map[string]Point
	Ranks     Ranks
	Bounds    Bounds
}

// Layered places a directed graph left to right: nodes are ranked via
// [ComputeRanks], each rank becomes a vertical band of up to MaxLanes
// lanes, and nodes are balanced across lanes by a greedy shortest-lane
// heuristic (taller nodes first). For any edge between nodes in different
// ranks the source rank's x never exceeds the target rank's x, so edges
// flow left to right; within-rank (cyclic) edges carry no ordering
// guarantee.
func Layered(ids []string, edges []Edge, opts LayeredOptions) LayeredResult {
	layerGapX := opts.LayerGapX
	if layerGapX <= 0 {
		layerGapX = DefaultLayerGapX
	}
	laneGapX := opts.LaneGapX
	if laneGapX <= 0 {
		laneGapX = DefaultLaneGapX
	}
	gapY := opts.GapY
	if gapY <= 0 {
		gapY = DefaultGapY
	}
	maxLanes := opts.MaxLanes
	if maxLanes <= 0 {
		maxLanes = DefaultMaxLanes
	}

	ranks := ComputeRanks(ids, edges)
	positions := make(map[string]Point, len(ids))

	rankX := opts.StartX
	for _, layer := range ranks.Layers {
		if len(layer) == 0 {
			continue
		}

		lanes := laneCount(layer, maxLanes, opts)
		assigned, _ := balanceLanes(layer, lanes, gapY, opts.HeightFn)

		// Lane x offsets from the max width within each prior lane.
		laneWidths := make([]float64, lanes)
		for lane, members := range assigned {
			for _, id := range members {
				laneWidths[lane] = max(laneWidths[lane], sizeOf(opts.WidthFn, id, DefaultNodeWidth))
			}
		}

		x := rankX
		for lane, members := range assigned {
			y := opts.StartY
			for _, id := range members {
				positions[id] = Point{X: x, Y: y}
				y += sizeOf(opts.HeightFn, id, DefaultNodeHeight) + gapY
			}
			x += laneWidths[lane] + laneGapX
		}

		// Rank extent is the sum of lane widths plus inner gaps; the next
		// rank starts beyond it so ranks never overlap horizontally.
		extent := -laneGapX
		for _, w := range laneWidths {
			extent += w + laneGapX
		}
		rankX += extent + layerGapX
	}

	return LayeredResult{
		Positions: positions,
		Ranks:     ranks,
		Bounds:    BoundsOf(positions, opts.HeightFn, opts.WidthFn),
	}
}

// laneCount picks the number of lanes for one rank: ceil(sqrt(n)) clamped
// to [1, maxLanes], then widened toward maxLanes while the rank's projected
// height still exceeds TargetAspectRatio times its projected width.
func laneCount(layer []string, maxLanes int, opts LayeredOptions) int {
	n := len(layer)
	lanes := int(math.Ceil(math.Sqrt(float64(n))))
	lanes = min(max(lanes, 1), min(maxLanes, n))

	if opts.TargetAspectRatio <= 0 {
		return lanes
	}

	var totalHeight, maxWidth float64
	for _, id := range layer {
		totalHeight += sizeOf(opts.HeightFn, id, DefaultNodeHeight)
		maxWidth = max(maxWidth, sizeOf(opts.WidthFn, id, DefaultNodeWidth))
	}

	for lanes < min(maxLanes, n) {
		projHeight := totalHeight / float64(lanes)
		projWidth := float64(lanes) * maxWidth
		if projHeight <= opts.TargetAspectRatio*projWidth {
			break
		}
		lanes++
	}
	return lanes
}

// balanceLanes distributes a layer's nodes across lanes, assigning each
// node (tallest first, ties by id) to the lane with the smallest
// accumulated height. Within a lane the original descending-height order is
// kept, which bounds the rank's vertical extent close to the greedy
// optimum.
func balanceLanes(layer []string, lanes int, gapY float64, heightFn SizeFunc) ([][]string, []float64) {
	byHeight := slices.Clone(layer)
	slices.SortFunc(byHeight, func(a, b string) int {
		ha, hb := sizeOf(heightFn, a, DefaultNodeHeight), sizeOf(heightFn, b, DefaultNodeHeight)
		switch {
		case ha > hb:
			return -1
		case ha < hb:
			return 1
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	})

	assigned := make([][]string, lanes)
	heights := make([]float64, lanes)
	for _, id := range byHeight {
		shortest := 0
		for lane := 1; lane < lanes; lane++ {
			if heights[lane] < heights[shortest] {
				shortest = lane
			}
		}
		assigned[shortest] = append(assigned[shortest], id)
		heights[shortest] += sizeOf(heightFn, id, DefaultNodeHeight) + gapY
	}
	return assigned, heights
}
