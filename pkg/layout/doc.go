// Package layout implements the geometry core of schemascope: pure
// algorithms that turn an abstract node-and-edge graph into non-overlapping
// 2D positions for a left-to-right flow diagram.
//
// The package handles three placement problems:
//
//   - Grid placement for flat, edge-less collections ([Grid])
//   - Rank-based layered placement for directed graphs, including cyclic
//     ones ([ComputeRanks], [Layered], [SideBands])
//   - Satellite placement, anchoring child nodes next to an owning parent
//     with collision avoidance ([AnchoredChildren],
//     [AnchoredChildrenByBands])
//
// # Purity
//
// Every entry point is a pure function of its arguments: no I/O, no
// package-level mutable state, no caching. Given identical inputs (ids,
// edges, sizes, options) the output positions are bit-identical; ties are
// always broken by lexicographic node id. Concurrent calls on independent
// inputs are safe without synchronization, provided the caller's size
// accessors are themselves safe.
//
// # Cycles
//
// The source domain graph is not a DAG (mutually referencing tables are
// common), so rank assignment first collapses strongly connected components
// via Tarjan's algorithm into a condensation DAG. A fully cyclic graph
// collapses to a single rank; the layered placement then degrades to
// lane-balanced placement within that one layer.
//
// # Degradation instead of errors
//
// There is no error taxonomy. Empty inputs yield empty results, self-loops
// and edges referencing unknown ids are ignored, and children whose parent
// has no known position are reported through UnplacedChildIDs for the
// caller's own fallback placement. A layout call never fails; worst case is
// a suboptimal but still non-overlapping diagram.
//
// # Composition
//
// Results carry a [Bounds] and (for grids) a NextY cursor so that layouts
// can be chained: feed one call's bounds as the next call's start offset to
// compose tables, views and auxiliary routines into one diagram. See
// package diagram for the canonical composition.
package layout
