// Package render turns computed diagrams into visual outputs.
//
// # Overview
//
// The renderer consumes positions computed by [diagram] and emits
// Graphviz DOT with every node pinned at its computed coordinates, so
// Graphviz only draws boxes and routes edges. It provides:
//
//   - DOT export with pinned node positions ([ToDOT])
//   - SVG rendering via Graphviz ([RenderSVG])
//   - Format conversion to PDF and PNG ([ToPDF], [ToPNG])
//
// # Usage
//
//	d := diagram.Build(g, diagram.Options{})
//	dot := render.ToDOT(&d, &g, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(dot)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
// [diagram]: github.com/mwolf/schemascope/pkg/diagram
package render
