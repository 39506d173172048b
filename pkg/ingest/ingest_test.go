package ingest

import (
	"errors"
	"testing"

	"github.com/sanonone/grafodb/pkg/core"
	"github.com/sanonone/grafodb/pkg/engine"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng, err := engine.Open(engine.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range []string{"pr", "po", "inv"} {
		if err := eng.DeclareVertexLabel(l); err != nil {
			t.Fatal(err)
		}
	}
	if err := eng.DeclareEdgeLabel("fulfills"); err != nil {
		t.Fatal(err)
	}
	return eng
}

func TestLoadVerticesThenEdges(t *testing.T) {
	eng := newTestEngine(t)
	loader := NewLoader(eng, nil)

	vres := loader.LoadVertices([]VertexRecord{
		{Label: "pr", Properties: map[string]any{"id": "PR001", "amount": 5000}},
		{Label: "po", Properties: map[string]any{"id": "PO001", "vendor": "TechCorp"}},
		{Label: "inv", Properties: map[string]any{"id": "INV001"}},
	})
	if vres.Failed != 0 || vres.Loaded != 3 {
		t.Fatalf("vertex load: loaded=%d failed=%d errors=%v", vres.Loaded, vres.Failed, vres.Errors)
	}
	if vres.JobID == "" {
		t.Error("vertex load got no job id")
	}

	eres := loader.LoadEdges([]EdgeRecord{
		{Label: "fulfills", Src: "PR001", Dst: "PO001"},
		{Label: "fulfills", Src: "PO001", Dst: "INV001"},
	})
	if eres.Failed != 0 || eres.Loaded != 2 {
		t.Fatalf("edge load: loaded=%d failed=%d errors=%v", eres.Loaded, eres.Failed, eres.Errors)
	}

	// The loaded data answers the two-hop question.
	rows, err := eng.Query(core.Pattern{
		Source: core.Step{Label: "pr", Filter: core.Filter{"id": core.StringValue("PR001")}},
		Hops: []core.Hop{
			{Edge: core.Step{Label: "fulfills"}, Target: core.Step{Label: "po"}},
			{Edge: core.Step{Label: "fulfills"}, Target: core.Step{Label: "inv"}},
		},
		Columns: []core.Column{{VertexStep: 2, Key: "id"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0][0].Str() != "INV001" {
		t.Errorf("two-hop over loaded data = %v", rows)
	}
}

func TestLoadSkipsBadRecords(t *testing.T) {
	eng := newTestEngine(t)
	loader := NewLoader(eng, nil)

	vres := loader.LoadVertices([]VertexRecord{
		{Label: "pr", Properties: map[string]any{"id": "PR001"}},
		{Label: "ghost", Properties: map[string]any{"id": "G001"}}, // undeclared label
		{Label: "pr", Properties: map[string]any{"id": "PR001"}},  // duplicate external id
		{Label: "po", Properties: map[string]any{"id": "PO001"}},
	})
	if vres.Loaded != 2 || vres.Failed != 2 {
		t.Fatalf("loaded=%d failed=%d errors=%v", vres.Loaded, vres.Failed, vres.Errors)
	}
	if len(vres.Errors) != 2 {
		t.Fatalf("want 2 errors, got %v", vres.Errors)
	}
	if !errors.Is(vres.Errors[0], core.ErrUnknownLabel) {
		t.Errorf("undeclared label error = %v", vres.Errors[0])
	}

	eres := loader.LoadEdges([]EdgeRecord{
		{Label: "fulfills", Src: "PR001", Dst: "PO001"},
		{Label: "fulfills", Src: "PR001", Dst: "MISSING"},
	})
	if eres.Loaded != 1 || eres.Failed != 1 {
		t.Fatalf("edge loaded=%d failed=%d errors=%v", eres.Loaded, eres.Failed, eres.Errors)
	}
	if !errors.Is(eres.Errors[0], core.ErrDanglingEndpoint) {
		t.Errorf("unresolved endpoint error = %v", eres.Errors[0])
	}
}

func TestResolveSurvivesAcrossBatches(t *testing.T) {
	eng := newTestEngine(t)
	loader := NewLoader(eng, nil)

	loader.LoadVertices([]VertexRecord{
		{Label: "pr", Properties: map[string]any{"id": "PR001"}},
	})
	loader.LoadVertices([]VertexRecord{
		{Label: "po", Properties: map[string]any{"id": "PO001"}},
	})

	id, ok := loader.Resolve("PR001")
	if !ok {
		t.Fatal("PR001 not resolvable after load")
	}
	v, err := eng.GetVertex(id)
	if err != nil || v.Label != "pr" {
		t.Errorf("resolved vertex = %v, %v", v, err)
	}

	// Edges in a later batch still see vertices from earlier batches.
	eres := loader.LoadEdges([]EdgeRecord{
		{Label: "fulfills", Src: "PR001", Dst: "PO001"},
	})
	if eres.Failed != 0 {
		t.Errorf("cross-batch edge failed: %v", eres.Errors)
	}
}
