package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sanonone/grafodb/pkg/core"
)

func TestOpenWithSchemaConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "schema.yaml")
	cfg := `graph: procurement
vertex_labels: [pr, po, inv, msa, amd]
edge_labels: [fulfills, party, parent]
indexes:
  - kind: vertex
    label: pr
    property: id
  - kind: vertex
    label: po
    property: vendor
  - kind: edge
    label: party
    property: role
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	opts := DefaultOptions()
	opts.ConfigPath = cfgPath
	eng, err := Open(opts)
	if err != nil {
		t.Fatalf("Open with config failed: %v", err)
	}
	defer eng.Close()

	if !eng.DB.Catalog().Exists(core.VertexLabel, "msa") {
		t.Error("configured vertex label missing")
	}
	if !eng.DB.Catalog().Exists(core.EdgeLabel, "parent") {
		t.Error("configured edge label missing")
	}

	// Re-applying the same schema must succeed (additive model).
	loaded, err := LoadConfig(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := eng.ApplySchema(loaded); err != nil {
		t.Errorf("schema re-application failed: %v", err)
	}
}

func TestLoadConfigStrict(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "schema.yaml")
	// "vertexlabels" is a typo; strict decoding must reject it.
	if err := os.WriteFile(cfgPath, []byte("graph: g\nvertexlabels: [pr]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(cfgPath); err == nil {
		t.Fatal("typo in config accepted")
	}

	// Bad index kind.
	if err := os.WriteFile(cfgPath, []byte("graph: g\nindexes:\n  - kind: table\n    label: pr\n    property: id\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(cfgPath); err == nil {
		t.Fatal("invalid index kind accepted")
	}
}

func TestAddAndQuery(t *testing.T) {
	eng, err := Open(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()

	for _, l := range []string{"pr", "po"} {
		if err := eng.DeclareVertexLabel(l); err != nil {
			t.Fatal(err)
		}
	}
	if err := eng.DeclareEdgeLabel("fulfills"); err != nil {
		t.Fatal(err)
	}
	if err := eng.EnsureVertexIndex("pr", "id"); err != nil {
		t.Fatal(err)
	}

	pr, err := eng.AddVertex("pr", map[string]any{"id": "PR001", "amount": 5000})
	if err != nil {
		t.Fatal(err)
	}
	po, err := eng.AddVertex("po", map[string]any{"id": "PO001", "vendor": "TechCorp"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := eng.AddEdge("fulfills", pr, po, nil); err != nil {
		t.Fatal(err)
	}

	rows, err := eng.Query(core.Pattern{
		Source: core.Step{Label: "pr", Filter: core.Filter{"id": core.StringValue("PR001")}},
		Hops:   []core.Hop{{Edge: core.Step{Label: "fulfills"}, Target: core.Step{Label: "po"}}},
		Columns: []core.Column{
			{VertexStep: 0, Key: "id"},
			{VertexStep: 1, Key: "id"},
			{VertexStep: 1, Key: "vendor"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("query returned %d rows, want 1", len(rows))
	}
	if rows[0][0].Str() != "PR001" || rows[0][1].Str() != "PO001" || rows[0][2].Str() != "TechCorp" {
		t.Errorf("projected row = %v", rows[0])
	}
}

func TestApplyBatchStopsAtFirstFailure(t *testing.T) {
	eng, err := Open(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()

	b := NewBatch().
		DeclareVertexLabel("pr").
		DeclareVertexLabel("po").
		DeclareEdgeLabel("fulfills").
		AddVertex("pr1", "pr", map[string]any{"id": "PR001"}).
		// Undeclared label: statement 4 fails, nothing after it applies.
		AddVertex("inv1", "inv", map[string]any{"id": "INV001"}).
		AddEdge("fulfills", "pr1", "inv1", nil)

	res, err := eng.ApplyBatch(b)
	if err == nil {
		t.Fatal("batch with bad statement succeeded")
	}
	if !errors.Is(err, core.ErrUnknownLabel) {
		t.Fatalf("expected ErrUnknownLabel, got %v", err)
	}
	if res.Applied != 4 {
		t.Errorf("Applied = %d, want 4", res.Applied)
	}

	// Statements before the failure stay applied (no rollback).
	if _, ok := res.Vertices["pr1"]; !ok {
		t.Error("vertex applied before the failure missing from result")
	}
	got, err := eng.MatchVertices(core.Step{Label: "pr", Filter: core.Filter{"id": core.StringValue("PR001")}})
	if err != nil || len(got) != 1 {
		t.Errorf("pre-failure vertex not queryable: %v (%d rows)", err, len(got))
	}
}

func TestApplyBatchEdgeRefs(t *testing.T) {
	eng, _ := Open(DefaultOptions())
	defer eng.Close()

	b := NewBatch().
		DeclareVertexLabel("po").
		DeclareVertexLabel("msa").
		DeclareEdgeLabel("party").
		AddVertex("po1", "po", map[string]any{"id": "PO001"}).
		AddVertex("msa1", "msa", map[string]any{"id": "MSA001"}).
		AddEdge("party", "po1", "msa1", map[string]any{"role": "buyer"})

	res, err := eng.ApplyBatch(b)
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if res.Applied != 6 {
		t.Errorf("Applied = %d, want 6", res.Applied)
	}

	// Unknown ref surfaces as a dangling endpoint.
	bad := NewBatch().AddEdge("party", "po1", "nope", nil)
	if _, err := eng.ApplyBatch(bad); !errors.Is(err, core.ErrDanglingEndpoint) {
		t.Fatalf("expected ErrDanglingEndpoint for unknown ref, got %v", err)
	}
}

func TestEngineDeleteLifecycle(t *testing.T) {
	eng, _ := Open(DefaultOptions())
	defer eng.Close()

	eng.DeclareVertexLabel("po")
	eng.DeclareVertexLabel("msa")
	eng.DeclareEdgeLabel("party")

	po, _ := eng.AddVertex("po", map[string]any{"id": "PO001"})
	msa, _ := eng.AddVertex("msa", map[string]any{"id": "MSA001"})
	edge, _ := eng.AddEdge("party", po, msa, nil)

	if err := eng.DeleteVertex(msa); !errors.Is(err, core.ErrVertexInUse) {
		t.Fatalf("expected ErrVertexInUse, got %v", err)
	}
	if err := eng.DeleteEdge(edge); err != nil {
		t.Fatal(err)
	}
	if err := eng.DeleteVertex(msa); err != nil {
		t.Fatal(err)
	}
}
