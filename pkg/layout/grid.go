package layout

// GridOptions configures [Grid].
type GridOptions struct {
	StartX float64 // x of the first column
	StartY float64 // y of the first row

	Columns   int     // items per row; defaults to 3
	NodeWidth float64 // width fallback when WidthFn is nil or silent; defaults to DefaultNodeWidth

	GapX float64 // horizontal gap between columns
	GapY float64 // vertical gap between rows

	HeightFn SizeFunc // per-node height; nil means DefaultNodeHeight
	WidthFn  SizeFunc // per-node width; nil means NodeWidth for every item
}

// GridResult is the output of [Grid].
type GridResult struct {
	Positions map[string]Point
	NextY     float64 // first usable y below the grid, for chaining
	Bounds    Bounds
}

// Grid places items in row-wrapped order: ids are chunked into rows of
// Columns length in input order (never reordered), each row is as tall as
// its tallest member, and x accumulates left to right using each item's own
// width plus GapX. The cursor advances by row height plus GapY after each
// row.
//
// An empty id list is a no-op: empty positions, NextY == StartY, zero
// bounds. Grid never fails.
func Grid(ids []string, opts GridOptions) GridResult {
	cols := opts.Columns
	if cols <= 0 {
		cols = 3
	}
	nodeWidth := opts.NodeWidth
	if nodeWidth <= 0 {
		nodeWidth = DefaultNodeWidth
	}

	positions := make(map[string]Point, len(ids))
	y := opts.StartY

	for row := 0; row*cols < len(ids); row++ {
		chunk := ids[row*cols : min((row+1)*cols, len(ids))]

		x := opts.StartX
		rowHeight := 0.0
		for _, id := range chunk {
			positions[id] = Point{X: x, Y: y}
			x += sizeOf(opts.WidthFn, id, nodeWidth) + opts.GapX
			rowHeight = max(rowHeight, sizeOf(opts.HeightFn, id, DefaultNodeHeight))
		}
		y += rowHeight + opts.GapY
	}

	widthFn := opts.WidthFn
	if widthFn == nil {
		widthFn = func(string) float64 { return nodeWidth }
	}

	return GridResult{
		Positions: positions,
		NextY:     y,
		Bounds:    BoundsOf(positions, opts.HeightFn, widthFn),
	}
}
