package store

import (
	"context"
	"errors"
	"testing"

	"github.com/mwolf/schemascope/pkg/diagram"
	"github.com/mwolf/schemascope/pkg/schema"
)

func testRecord(name string) *Record {
	g := &schema.Graph{
		Tables: []schema.Table{
			{ID: "dbo.Users", Schema: "dbo", Name: "Users", Columns: []schema.Column{
				{Name: "Id", DataType: "int", IsPrimaryKey: true},
			}},
		},
	}
	d := diagram.Build(*g, diagram.Options{})
	return &Record{Name: name, Graph: g, Diagram: &d}
}

func TestMemoryStoreSaveAssignsID(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	saved, err := st.Save(ctx, testRecord("prod"))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if saved.ID == "" {
		t.Error("Save should assign an ID")
	}
	if saved.CreatedAt.IsZero() || saved.UpdatedAt.IsZero() {
		t.Error("Save should set timestamps")
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	saved, err := st.Save(ctx, testRecord("prod"))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := st.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Name != "prod" {
		t.Errorf("unexpected name: %s", got.Name)
	}
	if got.Graph == nil || len(got.Graph.Tables) != 1 {
		t.Error("Get should return the stored graph")
	}
	if got.Diagram == nil || len(got.Diagram.Nodes) == 0 {
		t.Error("Get should return the stored diagram")
	}
}

func TestMemoryStoreSaveOverwrite(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	first, err := st.Save(ctx, testRecord("prod"))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}

	update := testRecord("prod-v2")
	update.ID = first.ID
	second, err := st.Save(ctx, update)
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if second.ID != first.ID {
		t.Error("overwrite should keep the ID")
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("overwrite should keep CreatedAt")
	}

	got, err := st.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Name != "prod-v2" {
		t.Errorf("overwrite should update fields: %s", got.Name)
	}
}

func TestMemoryStoreEmptyName(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	if _, err := st.Save(ctx, testRecord("  ")); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	if _, err := st.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	for _, name := range []string{"staging", "prod", "dev"} {
		if _, err := st.Save(ctx, testRecord(name)); err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}

	recs, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}

	// Sorted by name
	want := []string{"dev", "prod", "staging"}
	for i, rec := range recs {
		if rec.Name != want[i] {
			t.Errorf("record %d: expected %s, got %s", i, want[i], rec.Name)
		}
		// Listing omits the heavy payloads
		if rec.Graph != nil || rec.Diagram != nil {
			t.Error("List should not include graph or diagram payloads")
		}
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	saved, err := st.Save(ctx, testRecord("prod"))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}

	if err := st.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := st.Get(ctx, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := st.Delete(ctx, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting twice should return ErrNotFound, got %v", err)
	}
}
