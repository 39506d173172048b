package core

import (
	"errors"
	"testing"
)

// buildProcurementGraph assembles the sample procurement graph:
// PR001 -[fulfills]-> PO001 -[fulfills]-> INV001, PO001 -[party]-> MSA001,
// AMD001 -[parent]-> MSA001.
func buildProcurementGraph(t *testing.T) *DB {
	t.Helper()
	db := NewDB()

	for _, l := range []string{"pr", "po", "inv", "msa", "amd"} {
		if err := db.DeclareVertexLabel(l); err != nil {
			t.Fatal(err)
		}
	}
	for _, l := range []string{"fulfills", "party", "parent"} {
		if err := db.DeclareEdgeLabel(l); err != nil {
			t.Fatal(err)
		}
	}
	for _, l := range []string{"pr", "po", "inv", "msa", "amd"} {
		if err := db.EnsureVertexIndex(l, "id"); err != nil {
			t.Fatal(err)
		}
	}

	pr, err := db.InsertVertex("pr", mustProps(t, map[string]any{
		"id": "PR001", "amount": 5000, "department": "IT",
		"status": "approved", "created_date": "2024-01-15",
	}))
	if err != nil {
		t.Fatal(err)
	}
	po, err := db.InsertVertex("po", mustProps(t, map[string]any{
		"id": "PO001", "vendor": "TechCorp", "amount": 5000,
	}))
	if err != nil {
		t.Fatal(err)
	}
	inv, err := db.InsertVertex("inv", mustProps(t, map[string]any{
		"id": "INV001", "vendor": "TechCorp", "amount": 5000,
	}))
	if err != nil {
		t.Fatal(err)
	}
	msa, err := db.InsertVertex("msa", mustProps(t, map[string]any{
		"id": "MSA001", "vendor": "TechCorp",
	}))
	if err != nil {
		t.Fatal(err)
	}
	amd, err := db.InsertVertex("amd", mustProps(t, map[string]any{
		"id": "AMD001", "change": "extend term",
	}))
	if err != nil {
		t.Fatal(err)
	}

	edges := []struct {
		label    string
		src, dst VertexID
	}{
		{"fulfills", pr, po},
		{"fulfills", po, inv},
		{"party", po, msa},
		{"parent", amd, msa},
	}
	for _, e := range edges {
		if _, err := db.InsertEdge(e.label, e.src, e.dst, NewProperties()); err != nil {
			t.Fatalf("edge %s: %v", e.label, err)
		}
	}
	return db
}

func vertexID(t *testing.T, row Row, step int) string {
	t.Helper()
	v, ok := row.Vertices[step].Props.Get("id")
	if !ok {
		t.Fatalf("vertex at step %d has no id property", step)
	}
	return v.Str()
}

func TestPointLookup(t *testing.T) {
	db := buildProcurementGraph(t)

	got, err := db.MatchVertices(Step{Label: "pr", Filter: Filter{"id": StringValue("PR001")}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("matched %d vertices, want 1", len(got))
	}

	// Multi-key filter mixing indexed (id) and unindexed (status) keys.
	got, err = db.MatchVertices(Step{Label: "pr", Filter: Filter{
		"id":     StringValue("PR001"),
		"status": StringValue("approved"),
	}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("mixed filter matched %d, want 1", len(got))
	}

	// Absent property never matches.
	got, err = db.MatchVertices(Step{Label: "pr", Filter: Filter{"vendor": StringValue("TechCorp")}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("filter on absent property matched %d vertices", len(got))
	}
}

func TestEmptyResultVsUnknownLabel(t *testing.T) {
	db := buildProcurementGraph(t)

	// Nonexistent record: empty sequence, not an error.
	got, err := db.MatchVertices(Step{Label: "pr", Filter: Filter{"id": StringValue("PR999")}})
	if err != nil {
		t.Fatalf("empty match must not error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("matched %d vertices, want 0", len(got))
	}

	// Undeclared label: ErrUnknownLabel, never an empty result.
	_, err = db.MatchVertices(Step{Label: "xyz"})
	if !errors.Is(err, ErrUnknownLabel) {
		t.Fatalf("expected ErrUnknownLabel, got %v", err)
	}
	_, err = db.MatchPath(Pattern{
		Source: Step{Label: "pr"},
		Hops:   []Hop{{Edge: Step{Label: "ships"}, Target: Step{Label: "po"}}},
	})
	if !errors.Is(err, ErrUnknownLabel) {
		t.Fatalf("expected ErrUnknownLabel for edge label, got %v", err)
	}
}

func TestSingleHopFulfills(t *testing.T) {
	db := buildProcurementGraph(t)

	rows, err := db.MatchPath(Pattern{
		Source: Step{Label: "pr", Filter: Filter{"id": StringValue("PR001")}},
		Hops:   []Hop{{Edge: Step{Label: "fulfills"}, Target: Step{Label: "po"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("PR->PO matched %d rows, want 1", len(rows))
	}
	if vertexID(t, rows[0], 0) != "PR001" || vertexID(t, rows[0], 1) != "PO001" {
		t.Errorf("PR->PO row = (%s, %s)", vertexID(t, rows[0], 0), vertexID(t, rows[0], 1))
	}
	if len(rows[0].Edges) != 1 || rows[0].Edges[0].Label != "fulfills" {
		t.Errorf("unexpected edge in row: %+v", rows[0].Edges)
	}
}

func TestTwoHopChainProjection(t *testing.T) {
	db := buildProcurementGraph(t)

	rows, err := db.MatchPath(Pattern{
		Source: Step{Label: "pr", Filter: Filter{"id": StringValue("PR001")}},
		Hops: []Hop{
			{Edge: Step{Label: "fulfills"}, Target: Step{Label: "po"}},
			{Edge: Step{Label: "fulfills"}, Target: Step{Label: "inv"}},
		},
		Columns: []Column{
			{VertexStep: 0, Key: "id"},
			{VertexStep: 1, Key: "id"},
			{VertexStep: 2, Key: "id"},
			{VertexStep: 0, Key: "amount"},
			{VertexStep: 2, Key: "amount"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("PR->PO->INV matched %d rows, want exactly 1", len(rows))
	}

	cols := rows[0].Project([]Column{
		{VertexStep: 0, Key: "id"},
		{VertexStep: 1, Key: "id"},
		{VertexStep: 2, Key: "id"},
		{VertexStep: 0, Key: "amount"},
		{VertexStep: 2, Key: "amount"},
	})
	want := []Value{
		StringValue("PR001"), StringValue("PO001"), StringValue("INV001"),
		IntValue(5000), IntValue(5000),
	}
	for i := range want {
		if !cols[i].Equal(want[i]) {
			t.Errorf("column %d = %v, want %v", i, cols[i], want[i])
		}
	}
}

func TestPartyAndParentHops(t *testing.T) {
	db := buildProcurementGraph(t)

	rows, err := db.MatchPath(Pattern{
		Source: Step{Label: "po"},
		Hops:   []Hop{{Edge: Step{Label: "party"}, Target: Step{Label: "msa"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || vertexID(t, rows[0], 0) != "PO001" || vertexID(t, rows[0], 1) != "MSA001" {
		t.Fatalf("po-[party]->msa rows = %d", len(rows))
	}

	rows, err = db.MatchPath(Pattern{
		Source: Step{Label: "amd"},
		Hops:   []Hop{{Edge: Step{Label: "parent"}, Target: Step{Label: "msa"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || vertexID(t, rows[0], 0) != "AMD001" || vertexID(t, rows[0], 1) != "MSA001" {
		t.Fatalf("amd-[parent]->msa rows = %d", len(rows))
	}

	// Swapped label expectations must yield empty results, never a false match.
	rows, err = db.MatchPath(Pattern{
		Source: Step{Label: "msa"},
		Hops:   []Hop{{Edge: Step{Label: "party"}, Target: Step{Label: "po"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("reversed party hop matched %d rows, want 0", len(rows))
	}
	rows, err = db.MatchPath(Pattern{
		Source: Step{Label: "po"},
		Hops:   []Hop{{Edge: Step{Label: "parent"}, Target: Step{Label: "msa"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("po-[parent]->msa matched %d rows, want 0", len(rows))
	}
}

func TestFanOutEnumeratesAllEdges(t *testing.T) {
	db := buildProcurementGraph(t)

	// A second PO fulfilled by the same PR: both must be enumerated, in
	// adjacency insertion order.
	pr, err := db.MatchVertices(Step{Label: "pr", Filter: Filter{"id": StringValue("PR001")}})
	if err != nil || len(pr) != 1 {
		t.Fatalf("seed lookup failed: %v", err)
	}
	po2, err := db.InsertVertex("po", mustProps(t, map[string]any{"id": "PO002", "vendor": "OfficeMax"}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.InsertEdge("fulfills", pr[0].ID, po2, NewProperties()); err != nil {
		t.Fatal(err)
	}

	rows, err := db.MatchPath(Pattern{
		Source: Step{Label: "pr", Filter: Filter{"id": StringValue("PR001")}},
		Hops:   []Hop{{Edge: Step{Label: "fulfills"}, Target: Step{Label: "po"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("fan-out matched %d rows, want 2", len(rows))
	}
	if vertexID(t, rows[0], 1) != "PO001" || vertexID(t, rows[1], 1) != "PO002" {
		t.Errorf("fan-out order = (%s, %s)", vertexID(t, rows[0], 1), vertexID(t, rows[1], 1))
	}
}

func TestEdgeFilter(t *testing.T) {
	db := NewDB()
	db.DeclareVertexLabel("po")
	db.DeclareVertexLabel("msa")
	db.DeclareEdgeLabel("party")

	po, _ := db.InsertVertex("po", mustProps(t, map[string]any{"id": "PO001"}))
	msa1, _ := db.InsertVertex("msa", mustProps(t, map[string]any{"id": "MSA001"}))
	msa2, _ := db.InsertVertex("msa", mustProps(t, map[string]any{"id": "MSA002"}))
	db.InsertEdge("party", po, msa1, mustProps(t, map[string]any{"role": "buyer"}))
	db.InsertEdge("party", po, msa2, mustProps(t, map[string]any{"role": "supplier"}))

	rows, err := db.MatchPath(Pattern{
		Source: Step{Label: "po"},
		Hops: []Hop{{
			Edge:   Step{Label: "party", Filter: Filter{"role": StringValue("supplier")}},
			Target: Step{Label: "msa"},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || vertexID(t, rows[0], 1) != "MSA002" {
		t.Fatalf("edge filter matched %d rows", len(rows))
	}
}

func TestMatchPathFuncEarlyStop(t *testing.T) {
	db := buildProcurementGraph(t)

	n := 0
	err := db.MatchPathFunc(Pattern{Source: Step{Label: "pr"}}, func(Row) bool {
		n++
		return false
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("early-stop enumeration yielded %d rows, want 1", n)
	}
}
