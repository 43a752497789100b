package schema

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"slices"
	"testing"
)

func testGraph() Graph {
	return Graph{
		Tables: []Table{
			{ID: "dbo.Users", Name: "Users", Schema: "dbo", Columns: []Column{
				{Name: "Id", DataType: "int", IsPrimaryKey: true},
				{Name: "Email", DataType: "nvarchar(255)", IsNullable: true},
			}},
			{ID: "dbo.Orders", Name: "Orders", Schema: "dbo", Columns: []Column{
				{Name: "Id", DataType: "int", IsPrimaryKey: true},
				{Name: "UserId", DataType: "int"},
			}},
		},
		Views: []View{
			{ID: "dbo.ActiveUsers", Name: "ActiveUsers", Schema: "dbo", Columns: []Column{
				{Name: "Id", DataType: "int"},
			}},
		},
		Relationships: []Relationship{
			{ID: "FK_Orders_Users", From: "dbo.Orders", To: "dbo.Users", FromColumn: "UserId", ToColumn: "Id"},
		},
		Triggers: []Trigger{
			{ID: "dbo.trg_UserAudit", Name: "trg_UserAudit", Schema: "dbo", TableID: "dbo.Users",
				TriggerType: "AFTER", FiresOnUpdate: true},
			{ID: "dbo.trg_UserInsert", Name: "trg_UserInsert", Schema: "dbo", TableID: "dbo.Users",
				TriggerType: "AFTER", FiresOnInsert: true},
		},
		Routines: []Routine{
			{ID: "dbo.usp_GetUser", Name: "usp_GetUser", Schema: "dbo", RoutineType: "PROCEDURE",
				Parameters: []RoutineParameter{{Name: "@UserId", DataType: "int"}}},
		},
	}
}

func TestGraphRoundTrip(t *testing.T) {
	g := testGraph()

	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}

	got, err := UnmarshalGraph(data)
	if err != nil {
		t.Fatalf("UnmarshalGraph: %v", err)
	}
	if !reflect.DeepEqual(got, g) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, g)
	}
}

func TestGraphJSONUsesCamelCase(t *testing.T) {
	data, err := MarshalGraph(testGraph())
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"tables", "views", "relationships", "triggers", "storedProcedures"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing top level key %q", key)
		}
	}

	table := raw["tables"].([]any)[0].(map[string]any)
	col := table["columns"].([]any)[0].(map[string]any)
	for _, key := range []string{"dataType", "isNullable", "isPrimaryKey"} {
		if _, ok := col[key]; !ok {
			t.Errorf("column missing camelCase key %q", key)
		}
	}
}

func TestReadWriteGraphFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	g := testGraph()

	if err := WriteGraphFile(g, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	got, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if !reflect.DeepEqual(got, g) {
		t.Error("file round trip mismatch")
	}
}

func TestNodeIDs(t *testing.T) {
	g := testGraph()
	want := []string{"dbo.ActiveUsers", "dbo.Orders", "dbo.Users"}
	if got := g.NodeIDs(); !slices.Equal(got, want) {
		t.Errorf("NodeIDs() = %v, want %v", got, want)
	}
}

func TestDependencyEdges(t *testing.T) {
	g := testGraph()
	edges := g.DependencyEdges()

	if len(edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(edges))
	}
	// Referenced table flows into the referencing one.
	if edges[0].From != "dbo.Users" || edges[0].To != "dbo.Orders" {
		t.Errorf("edge = %+v, want dbo.Users → dbo.Orders", edges[0])
	}
}

func TestTriggersByTable(t *testing.T) {
	g := testGraph()
	byTable := g.TriggersByTable()

	want := []string{"dbo.trg_UserAudit", "dbo.trg_UserInsert"}
	if got := byTable["dbo.Users"]; !slices.Equal(got, want) {
		t.Errorf("triggers for dbo.Users = %v, want %v", got, want)
	}
	if got := byTable["dbo.Orders"]; got != nil {
		t.Errorf("triggers for dbo.Orders = %v, want none", got)
	}
}

func TestColumnCount(t *testing.T) {
	g := testGraph()
	tests := []struct {
		id   string
		want int
	}{
		{"dbo.Users", 2},
		{"dbo.ActiveUsers", 1},
		{"dbo.usp_GetUser", 1},
		{"dbo.Missing", 0},
	}
	for _, tt := range tests {
		if got := g.ColumnCount(tt.id); got != tt.want {
			t.Errorf("ColumnCount(%s) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	g := Graph{Tables: []Table{{ID: "dbo.Z"}, {ID: "dbo.A"}}}
	g.Normalize()
	if g.Tables[0].ID != "dbo.A" {
		t.Errorf("tables not sorted: %v", g.Tables)
	}
}
