package diagram

import (
	"github.com/mwolf/schemascope/pkg/schema"
)

// Rendered node metrics in user units. Heights are derived from content:
// a header band plus one row per column or parameter.
const (
	NodeWidth    = 300.0
	HeaderHeight = 48.0
	RowHeight    = 28.0

	TriggerWidth  = 220.0
	TriggerHeight = 64.0
)

// sizer derives node dimensions from a schema graph. It implements the
// accessor contract of pkg/layout: deterministic for the duration of one
// layout call, falling back to defaults for unknown ids.
type sizer struct {
	g        *schema.Graph
	triggers map[string]struct{}
}

func newSizer(g *schema.Graph) *sizer {
	triggers := make(map[string]struct{}, len(g.Triggers))
	for _, t := range g.Triggers {
		triggers[t.ID] = struct{}{}
	}
	return &sizer{g: g, triggers: triggers}
}

// Height returns the rendered height for a node id.
func (s *sizer) Height(id string) float64 {
	if _, ok := s.triggers[id]; ok {
		return TriggerHeight
	}
	if n := s.g.ColumnCount(id); n > 0 {
		return HeaderHeight + float64(n)*RowHeight
	}
	return HeaderHeight + RowHeight
}

// Width returns the rendered width for a node id.
func (s *sizer) Width(id string) float64 {
	if _, ok := s.triggers[id]; ok {
		return TriggerWidth
	}
	return NodeWidth
}
