package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mwolf/schemascope/pkg/diagram"
	"github.com/mwolf/schemascope/pkg/schema"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed includes column names and data types in table labels.
	// When false, only the object ID is shown.
	Detailed bool
}

// dotScale converts pixel coordinates to Graphviz points (72 per inch).
const dotScale = 72.0

// ToDOT converts a computed diagram to Graphviz DOT format. Every node is
// pinned at its computed position, so Graphviz only draws shapes and routes
// edges. The resulting DOT string can be rendered with [RenderSVG].
//
// Views are drawn with rounded corners, triggers with dashed grey outlines,
// and routines with grey fill to distinguish object kinds.
func ToDOT(d *diagram.Diagram, g *schema.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph schema {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  splines=ortho;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=filled, fillcolor=white, fontsize=12, pin=true];\n")
	buf.WriteString("\n")

	for _, n := range d.Nodes {
		label := fmtLabel(n, g, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}
	for _, n := range d.Nodes {
		if n.Kind == diagram.KindTrigger && n.TableID != "" {
			fmt.Fprintf(&buf, "  %q -> %q [style=dotted, arrowhead=none];\n", n.TableID, n.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n diagram.Node, g *schema.Graph, detailed bool) string {
	if !detailed || g == nil {
		return n.ID
	}

	t, ok := g.Table(n.ID)
	if !ok {
		return n.ID
	}
	parts := make([]string, 0, len(t.Columns)+1)
	parts = append(parts, n.ID)
	for _, c := range t.Columns {
		col := fmt.Sprintf("%s: %s", c.Name, c.DataType)
		if c.IsPrimaryKey {
			col += " PK"
		}
		parts = append(parts, col)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n diagram.Node, label string) []string {
	// Graphviz positions node centers with y growing upward.
	cx := (n.X + n.Width/2) / dotScale
	cy := -(n.Y + n.Height/2) / dotScale

	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=\"%.2f,%.2f!\"", cx, cy),
		fmt.Sprintf("width=%.2f", n.Width/dotScale),
		fmt.Sprintf("height=%.2f", n.Height/dotScale),
		"fixedsize=true",
	}

	switch n.Kind {
	case diagram.KindView:
		attrs = append(attrs, "style=\"rounded,filled\"")
	case diagram.KindTrigger:
		attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=lightgrey")
	case diagram.KindRoutine:
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}
