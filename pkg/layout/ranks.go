package layout

import "slices"

// Edge is a directed connection between two node ids. Self-loops and edges
// referencing ids outside the supplied node set are tolerated and ignored.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// Ranks is the result of [ComputeRanks]: a rank per node, the members of
// each rank sorted lexicographically, and the strongly connected components
// the ranking was derived from.
type Ranks struct {
	// ByNode maps every supplied node id to its rank. All members of one
	// strongly connected component share the same rank.
	ByNode map[string]int

	// Layers lists node ids per rank in ascending rank order. Each layer is
	// sorted lexicographically so that identical inputs produce identical
	// layer orderings.
	Layers [][]string

	// Components holds the strongly connected components, each sorted
	// lexicographically, ordered by their position in the topological order
	// of the condensation graph.
	Components [][]string
}

// ComputeRanks assigns a non-negative rank to every node such that for any
// edge (a, b) with a and b in different strongly connected components,
// rank(a) < rank(b). Ranks induce the left-to-right ordering of the layered
// layout.
//
// The graph may contain arbitrary cycles: components are collapsed with
// Tarjan's algorithm into a condensation DAG first, then ranked by longest
// path over a Kahn topological order. When several components are ready
// simultaneously, the one whose lexicographically smallest member id is
// least goes first, making the result independent of map iteration order.
//
// A node with no edges is its own singleton component at rank 0. A fully
// cyclic graph collapses to a single component at rank 0.
func ComputeRanks(ids []string, edges []Edge) Ranks {
	universe := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		universe[id] = struct{}{}
	}

	// Adjacency restricted to the id universe, self-loops dropped.
	adj := make(map[string][]string, len(ids))
	for _, e := range edges {
		if e.From == e.To {
			continue
		}
		if _, ok := universe[e.From]; !ok {
			continue
		}
		if _, ok := universe[e.To]; !ok {
			continue
		}
		adj[e.From] = append(adj[e.From], e.To)
	}

	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	comps, compOf := tarjanSCC(sorted, adj)

	// Condensation graph: deduplicated component-to-component edges.
	type compEdge struct{ from, to int }
	seen := make(map[compEdge]struct{})
	compAdj := make([][]int, len(comps))
	inDegree := make([]int, len(comps))
	for from, targets := range adj {
		cf := compOf[from]
		for _, to := range targets {
			ct := compOf[to]
			if cf == ct {
				continue
			}
			if _, dup := seen[compEdge{cf, ct}]; dup {
				continue
			}
			seen[compEdge{cf, ct}] = struct{}{}
			compAdj[cf] = append(compAdj[cf], ct)
			inDegree[ct]++
		}
	}

	// Kahn's algorithm with a deterministic tie-break: among ready
	// components, the one with the smallest member id goes first. Component
	// member lists are sorted, so minID is simply the first member.
	minID := make([]string, len(comps))
	for i, c := range comps {
		minID[i] = c[0]
	}

	var ready []int
	for i := range comps {
		if inDegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, len(comps))
	for len(ready) > 0 {
		best := 0
		for i, c := range ready {
			if minID[c] < minID[ready[best]] {
				best = i
			}
		}
		curr := ready[best]
		ready = append(ready[:best], ready[best+1:]...)
		order = append(order, curr)

		for _, next := range compAdj[curr] {
			inDegree[next]--
			if inDegree[next] == 0 {
				ready = append(ready, next)
			}
		}
	}

	// Longest-path rank assignment over the topological order.
	compRank := make([]int, len(comps))
	maxRank := 0
	for _, curr := range order {
		for _, next := range compAdj[curr] {
			if r := compRank[curr] + 1; r > compRank[next] {
				compRank[next] = r
			}
		}
		maxRank = max(maxRank, compRank[curr])
	}

	byNode := make(map[string]int, len(sorted))
	layers := make([][]string, maxRank+1)
	components := make([][]string, 0, len(comps))
	for _, ci := range order {
		rank := compRank[ci]
		for _, id := range comps[ci] {
			byNode[id] = rank
			layers[rank] = append(layers[rank], id)
		}
		components = append(components, comps[ci])
	}
	for _, layer := range layers {
		slices.Sort(layer)
	}
	if len(sorted) == 0 {
		layers = nil
	}

	return Ranks{ByNode: byNode, Layers: layers, Components: components}
}

// tarjanSCC computes strongly connected components over the given adjacency
// in a single DFS pass. Roots are visited in the order of ids; each returned
// component is sorted lexicographically. compOf maps every id to its index
// in the returned slice.
func tarjanSCC(ids []string, adj map[string][]string) (comps [][]string, compOf map[string]int) {
	index := make(map[string]int, len(ids))
	lowlink := make(map[string]int, len(ids))
	onStack := make(map[string]bool, len(ids))
	var stack []string
	next := 0
	compOf = make(map[string]int, len(ids))

	var strongconnect func(v string)
	strongconnect = func(v string) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			if _, visited := index[w]; !visited {
				strongconnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], index[w])
			}
		}

		if lowlink[v] == index[v] {
			var comp []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			slices.Sort(comp)
			for _, w := range comp {
				compOf[w] = len(comps)
			}
			comps = append(comps, comp)
		}
	}

	for _, id := range ids {
		if _, visited := index[id]; !visited {
			strongconnect(id)
		}
	}
	return comps, compOf
}
