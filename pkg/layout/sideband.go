package layout

// Direction selects which side of the anchor a side-band layout grows
// toward.
type Direction string

const (
	DirectionRight Direction = "right"
	DirectionLeft  Direction = "left"
)

// DefaultMaxRowsPerLane caps how many nodes a side-band lane stacks before
// the layout spills into the next band.
const DefaultMaxRowsPerLane = 4

// SideBandOptions configures [SideBands].
type SideBandOptions struct {
	// AnchorX is the vertical edge the bands grow away from: the right edge
	// of the focused node for DirectionRight, its left edge for
	// DirectionLeft.
	AnchorX float64
	StartY  float64

	Direction      Direction // defaults to DirectionRight
	LaneCount      int       // lanes per band; defaults to DefaultMaxLanes
	MaxRowsPerLane int       // rows per lane before spilling; defaults to DefaultMaxRowsPerLane

	BandGapX float64 // gap between the anchor and the first band, and between bands; defaults to DefaultLayerGapX
	LaneGapX float64 // gap between lanes within a band; defaults to DefaultLaneGapX
	GapY     float64 // vertical gap within a lane; defaults to DefaultGapY

	HeightFn SizeFunc
	WidthFn  SizeFunc
}

// SideBandResult is the output of [SideBands].
type SideBandResult struct {
	Positions map[string]Point
	Bounds    Bounds
}

// SideBands places an edge-less node set in lane-balanced bands radiating
// away from an anchor, used for localized focus views (the neighbors of one
// selected node). Each band holds up to LaneCount*MaxRowsPerLane nodes in
// input order; later bands lie strictly beyond earlier ones along the
// growth axis, so bands never overlap each other or the anchor side.
func SideBands(ids []string, opts SideBandOptions) SideBandResult {
	lanes := opts.LaneCount
	if lanes <= 0 {
		lanes = DefaultMaxLanes
	}
	rowsPerLane := opts.MaxRowsPerLane
	if rowsPerLane <= 0 {
		rowsPerLane = DefaultMaxRowsPerLane
	}
	bandGapX := opts.BandGapX
	if bandGapX <= 0 {
		bandGapX = DefaultLayerGapX
	}
	laneGapX := opts.LaneGapX
	if laneGapX <= 0 {
		laneGapX = DefaultLaneGapX
	}
	gapY := opts.GapY
	if gapY <= 0 {
		gapY = DefaultGapY
	}
	dir := opts.Direction
	if dir == "" {
		dir = DirectionRight
	}

	positions := make(map[string]Point, len(ids))
	capacity := lanes * rowsPerLane
	edgeX := opts.AnchorX // moving frontier: right edge of placed bands (or left edge for DirectionLeft)

	for start := 0; start < len(ids); start += capacity {
		band := ids[start:min(start+capacity, len(ids))]

		bandLanes := min(lanes, len(band))
		assigned, _ := balanceLanes(band, bandLanes, gapY, opts.HeightFn)

		laneWidths := make([]float64, bandLanes)
		extent := -laneGapX
		for lane, members := range assigned {
			for _, id := range members {
				laneWidths[lane] = max(laneWidths[lane], sizeOf(opts.WidthFn, id, DefaultNodeWidth))
			}
			extent += laneWidths[lane] + laneGapX
		}

		// For right growth the band starts just beyond the frontier; for
		// left growth its rightmost edge touches the frontier instead.
		var bandLeft float64
		switch dir {
		case DirectionLeft:
			bandLeft = edgeX - bandGapX - extent
			edgeX = bandLeft
		default:
			bandLeft = edgeX + bandGapX
			edgeX = bandLeft + extent
		}

		x := bandLeft
		for lane, members := range assigned {
			y := opts.StartY
			for _, id := range members {
				positions[id] = Point{X: x, Y: y}
				y += sizeOf(opts.HeightFn, id, DefaultNodeHeight) + gapY
			}
			x += laneWidths[lane] + laneGapX
		}
	}

	return SideBandResult{
		Positions: positions,
		Bounds:    BoundsOf(positions, opts.HeightFn, opts.WidthFn),
	}
}
