// Package schema models a relational database's object graph: tables,
// views, triggers, stored routines and the relationships between them.
//
// A [Graph] is the canonical serialization format consumed by the rest of
// schemascope. It is produced by an external introspection collaborator and
// arrives as JSON; this package never talks to a database itself. Node ids
// follow the "schema.name" convention (e.g. "dbo.Users"), and the format is
// designed for round-trip fidelity: read → lay out → write → re-read yields
// identical structure.
package schema

import (
	"slices"

	"github.com/mwolf/schemascope/pkg/layout"
)

// Column describes one table or view column.
type Column struct {
	Name         string `json:"name" bson:"name"`
	DataType     string `json:"dataType" bson:"dataType"`
	IsNullable   bool   `json:"isNullable" bson:"isNullable"`
	IsPrimaryKey bool   `json:"isPrimaryKey" bson:"isPrimaryKey"`
}

// Table is a base table node.
type Table struct {
	ID      string   `json:"id" bson:"id"` // "schema.name"
	Name    string   `json:"name" bson:"name"`
	Schema  string   `json:"schema" bson:"schema"`
	Columns []Column `json:"columns" bson:"columns"`
}

// View is a view node. Views carry columns like tables but never primary
// keys.
type View struct {
	ID      string   `json:"id" bson:"id"`
	Name    string   `json:"name" bson:"name"`
	Schema  string   `json:"schema" bson:"schema"`
	Columns []Column `json:"columns" bson:"columns"`
}

// Relationship is a foreign-key edge: From is the referencing table, To the
// referenced one.
type Relationship struct {
	ID         string `json:"id" bson:"id"`
	From       string `json:"from" bson:"from"`
	To         string `json:"to" bson:"to"`
	FromColumn string `json:"fromColumn" bson:"fromColumn"`
	ToColumn   string `json:"toColumn" bson:"toColumn"`
}

// Trigger is a satellite node owned by a table. In diagrams triggers are
// anchored next to their owning table rather than ranked independently.
type Trigger struct {
	ID            string `json:"id" bson:"id"`
	Name          string `json:"name" bson:"name"`
	Schema        string `json:"schema" bson:"schema"`
	TableID       string `json:"tableId" bson:"tableId"`
	TriggerType   string `json:"triggerType" bson:"triggerType"`
	IsDisabled    bool   `json:"isDisabled" bson:"isDisabled"`
	FiresOnInsert bool   `json:"firesOnInsert" bson:"firesOnInsert"`
	FiresOnUpdate bool   `json:"firesOnUpdate" bson:"firesOnUpdate"`
	FiresOnDelete bool   `json:"firesOnDelete" bson:"firesOnDelete"`
	Definition    string `json:"definition,omitempty" bson:"definition,omitempty"`
}

// RoutineParameter describes one stored-routine parameter.
type RoutineParameter struct {
	Name     string `json:"name" bson:"name"`
	DataType string `json:"dataType" bson:"dataType"`
	IsOutput bool   `json:"isOutput" bson:"isOutput"`
}

// Routine is a stored procedure or function. Routines have no dependency
// edges of their own and are laid out as a flat grid below the main
// diagram.
type Routine struct {
	ID          string             `json:"id" bson:"id"`
	Name        string             `json:"name" bson:"name"`
	Schema      string             `json:"schema" bson:"schema"`
	RoutineType string             `json:"routineType" bson:"routineType"`
	Parameters  []RoutineParameter `json:"parameters" bson:"parameters"`
	Definition  string             `json:"definition,omitempty" bson:"definition,omitempty"`
}

// Graph is a complete database object graph.
type Graph struct {
	Tables        []Table        `json:"tables" bson:"tables"`
	Views         []View         `json:"views,omitempty" bson:"views,omitempty"`
	Relationships []Relationship `json:"relationships" bson:"relationships"`
	Triggers      []Trigger      `json:"triggers,omitempty" bson:"triggers,omitempty"`
	Routines      []Routine      `json:"storedProcedures,omitempty" bson:"storedProcedures,omitempty"`
}

// NodeIDs returns the ids of all ranked nodes (tables and views) sorted
// lexicographically. Triggers and routines are excluded: they are placed as
// satellites and grids, not ranked.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.Tables)+len(g.Views))
	for _, t := range g.Tables {
		ids = append(ids, t.ID)
	}
	for _, v := range g.Views {
		ids = append(ids, v.ID)
	}
	slices.Sort(ids)
	return ids
}

// RoutineIDs returns all routine ids sorted lexicographically.
func (g *Graph) RoutineIDs() []string {
	ids := make([]string, 0, len(g.Routines))
	for _, r := range g.Routines {
		ids = append(ids, r.ID)
	}
	slices.Sort(ids)
	return ids
}

// DependencyEdges converts the graph's relationships into layout edges
// oriented referenced → referencing, so that a table appears left of the
// tables that point at it and data flows left to right. Self references and
// relationships touching unknown ids are passed through unchanged; the
// layout engine tolerates and ignores them.
func (g *Graph) DependencyEdges() []layout.Edge {
	edges := make([]layout.Edge, 0, len(g.Relationships))
	for _, r := range g.Relationships {
		edges = append(edges, layout.Edge{From: r.To, To: r.From})
	}
	return edges
}

// TriggersByTable groups trigger ids by their owning table, each group
// sorted by trigger id for deterministic stacking order.
func (g *Graph) TriggersByTable() map[string][]string {
	byTable := make(map[string][]string)
	for _, t := range g.Triggers {
		byTable[t.TableID] = append(byTable[t.TableID], t.ID)
	}
	for _, ids := range byTable {
		slices.Sort(ids)
	}
	return byTable
}

// Table returns the table with the given id and true, or a zero Table and
// false.
func (g *Graph) Table(id string) (Table, bool) {
	for _, t := range g.Tables {
		if t.ID == id {
			return t, true
		}
	}
	return Table{}, false
}

// ColumnCount returns the number of columns (or parameters) the node with
// the given id carries, or 0 for unknown ids. Diagram sizing derives node
// heights from this.
func (g *Graph) ColumnCount(id string) int {
	for _, t := range g.Tables {
		if t.ID == id {
			return len(t.Columns)
		}
	}
	for _, v := range g.Views {
		if v.ID == id {
			return len(v.Columns)
		}
	}
	for _, r := range g.Routines {
		if r.ID == id {
			return len(r.Parameters)
		}
	}
	return 0
}

// Normalize sorts every collection by id so that two graphs with the same
// content serialize identically regardless of introspection order.
func (g *Graph) Normalize() {
	slices.SortFunc(g.Tables, func(a, b Table) int { return compareID(a.ID, b.ID) })
	slices.SortFunc(g.Views, func(a, b View) int { return compareID(a.ID, b.ID) })
	slices.SortFunc(g.Relationships, func(a, b Relationship) int { return compareID(a.ID, b.ID) })
	slices.SortFunc(g.Triggers, func(a, b Trigger) int { return compareID(a.ID, b.ID) })
	slices.SortFunc(g.Routines, func(a, b Routine) int { return compareID(a.ID, b.ID) })
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
