package layout

import (
	"reflect"
	"testing"
)

func TestComputeRanks(t *testing.T) {
	tests := []struct {
		name   string
		ids    []string
		edges  []Edge
		want   map[string]int
		layers [][]string
	}{
		{
			name:   "empty",
			want:   map[string]int{},
			layers: nil,
		},
		{
			name:   "chain",
			ids:    []string{"a", "b", "c"},
			edges:  []Edge{{From: "a", To: "b"}, {From: "b", To: "c"}},
			want:   map[string]int{"a": 0, "b": 1, "c": 2},
			layers: [][]string{{"a"}, {"b"}, {"c"}},
		},
		{
			name:   "no edges all rank zero",
			ids:    []string{"c", "a", "b"},
			want:   map[string]int{"a": 0, "b": 0, "c": 0},
			layers: [][]string{{"a", "b", "c"}},
		},
		{
			name: "diamond longest path",
			ids:  []string{"a", "b", "c", "d"},
			edges: []Edge{
				{From: "a", To: "b"},
				{From: "a", To: "c"},
				{From: "b", To: "d"},
				{From: "c", To: "d"},
				{From: "a", To: "d"}, // direct edge must not pull d above the long path
			},
			want:   map[string]int{"a": 0, "b": 1, "c": 1, "d": 2},
			layers: [][]string{{"a"}, {"b", "c"}, {"d"}},
		},
		{
			name:   "two node cycle collapses",
			ids:    []string{"a", "b"},
			edges:  []Edge{{From: "a", To: "b"}, {From: "b", To: "a"}},
			want:   map[string]int{"a": 0, "b": 0},
			layers: [][]string{{"a", "b"}},
		},
		{
			name: "cycle feeding a sink",
			ids:  []string{"a", "b", "c"},
			edges: []Edge{
				{From: "a", To: "b"},
				{From: "b", To: "a"},
				{From: "b", To: "c"},
			},
			want:   map[string]int{"a": 0, "b": 0, "c": 1},
			layers: [][]string{{"a", "b"}, {"c"}},
		},
		{
			name:   "self loops ignored",
			ids:    []string{"a", "b"},
			edges:  []Edge{{From: "a", To: "a"}, {From: "a", To: "b"}},
			want:   map[string]int{"a": 0, "b": 1},
			layers: [][]string{{"a"}, {"b"}},
		},
		{
			name: "dangling edges ignored",
			ids:  []string{"a", "b"},
			edges: []Edge{
				{From: "a", To: "b"},
				{From: "a", To: "ghost"},
				{From: "ghost", To: "b"},
			},
			want:   map[string]int{"a": 0, "b": 1},
			layers: [][]string{{"a"}, {"b"}},
		},
		{
			name:   "duplicate edges tolerated",
			ids:    []string{"a", "b"},
			edges:  []Edge{{From: "a", To: "b"}, {From: "a", To: "b"}},
			want:   map[string]int{"a": 0, "b": 1},
			layers: [][]string{{"a"}, {"b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRanks(tt.ids, tt.edges)

			if !reflect.DeepEqual(got.ByNode, tt.want) {
				t.Errorf("ByNode = %v, want %v", got.ByNode, tt.want)
			}
			if !reflect.DeepEqual(got.Layers, tt.layers) {
				t.Errorf("Layers = %v, want %v", got.Layers, tt.layers)
			}
		})
	}
}

func TestComputeRanksMonotonicity(t *testing.T) {
	ids := []string{"users", "orders", "items", "audit", "log", "views"}
	edges := []Edge{
		{From: "users", To: "orders"},
		{From: "orders", To: "items"},
		{From: "users", To: "audit"},
		{From: "audit", To: "log"},
		{From: "log", To: "audit"}, // cycle
		{From: "items", To: "views"},
		{From: "audit", To: "views"},
	}

	r := ComputeRanks(ids, edges)

	compOf := map[string]int{}
	for ci, comp := range r.Components {
		for _, id := range comp {
			compOf[id] = ci
		}
	}

	for _, e := range edges {
		if e.From == e.To {
			continue
		}
		if compOf[e.From] == compOf[e.To] {
			continue // same component, no ordering guarantee
		}
		if r.ByNode[e.From] >= r.ByNode[e.To] {
			t.Errorf("edge %s→%s: rank %d >= %d", e.From, e.To, r.ByNode[e.From], r.ByNode[e.To])
		}
	}
}

func TestComputeRanksFullyCyclic(t *testing.T) {
	ids := []string{"a", "b", "c"}
	edges := []Edge{
		{From: "a", To: "b"},
		{From: "b", To: "c"},
		{From: "c", To: "a"},
	}

	r := ComputeRanks(ids, edges)

	if len(r.Layers) != 1 {
		t.Fatalf("layers = %d, want 1 (fully cyclic graph collapses)", len(r.Layers))
	}
	if len(r.Components) != 1 || len(r.Components[0]) != 3 {
		t.Errorf("components = %v, want one component of 3", r.Components)
	}
}

func TestComputeRanksDeterminism(t *testing.T) {
	ids := []string{"m", "z", "a", "k", "b"}
	edges := []Edge{
		{From: "z", To: "a"},
		{From: "m", To: "a"},
		{From: "a", To: "k"},
		{From: "k", To: "b"},
		{From: "b", To: "k"},
	}

	first := ComputeRanks(ids, edges)
	for i := 0; i < 20; i++ {
		if got := ComputeRanks(ids, edges); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs:\n%+v\n%+v", i, got, first)
		}
	}
}
