// This file implements the operational methods of the Engine, wrapping core
// graph actions (declare, insert, index, match) with logging and metrics.
package engine

import (
	"time"

	"github.com/sanonone/grafodb/pkg/core"
	"github.com/sanonone/grafodb/pkg/metrics"
)

// --- Schema operations ---

// DeclareVertexLabel registers a vertex label. Idempotent.
func (e *Engine) DeclareVertexLabel(name string) error {
	if err := e.DB.DeclareVertexLabel(name); err != nil {
		return err
	}
	e.log.Debug("vertex label declared", "label", name)
	return nil
}

// DeclareEdgeLabel registers an edge label. Idempotent.
func (e *Engine) DeclareEdgeLabel(name string) error {
	if err := e.DB.DeclareEdgeLabel(name); err != nil {
		return err
	}
	e.log.Debug("edge label declared", "label", name)
	return nil
}

// EnsureVertexIndex declares an index on (label, key); existing records are
// backfilled, so declaration order relative to data load does not matter.
func (e *Engine) EnsureVertexIndex(label, key string) error {
	return e.DB.EnsureVertexIndex(label, key)
}

// EnsureEdgeIndex declares an index on an edge (label, key).
func (e *Engine) EnsureEdgeIndex(label, key string) error {
	return e.DB.EnsureEdgeIndex(label, key)
}

// --- Data operations ---

// AddVertex coerces props into a typed property bag and inserts a vertex.
func (e *Engine) AddVertex(label string, props map[string]any) (core.VertexID, error) {
	bag, err := core.PropertiesFromMap(props)
	if err != nil {
		return 0, err
	}
	id, err := e.DB.InsertVertex(label, bag)
	if err != nil {
		return 0, err
	}
	metrics.TotalVertices.WithLabelValues(label).Inc()
	return id, nil
}

// AddEdge inserts a directed edge between two existing vertices.
func (e *Engine) AddEdge(label string, src, dst core.VertexID, props map[string]any) (core.EdgeID, error) {
	bag, err := core.PropertiesFromMap(props)
	if err != nil {
		return 0, err
	}
	id, err := e.DB.InsertEdge(label, src, dst, bag)
	if err != nil {
		return 0, err
	}
	metrics.TotalEdges.WithLabelValues(label).Inc()
	return id, nil
}

// GetVertex resolves a vertex by internal id.
func (e *Engine) GetVertex(id core.VertexID) (*core.Vertex, error) {
	return e.DB.GetVertex(id)
}

// GetEdge resolves an edge by internal id.
func (e *Engine) GetEdge(id core.EdgeID) (*core.Edge, error) {
	return e.DB.GetEdge(id)
}

// DeleteEdge removes an edge.
func (e *Engine) DeleteEdge(id core.EdgeID) error {
	edge, err := e.DB.GetEdge(id)
	if err != nil {
		return err
	}
	if err := e.DB.DeleteEdge(id); err != nil {
		return err
	}
	metrics.TotalEdges.WithLabelValues(edge.Label).Dec()
	return nil
}

// DeleteVertex removes a vertex. Fails with core.ErrVertexInUse while edges
// still reference it.
func (e *Engine) DeleteVertex(id core.VertexID) error {
	v, err := e.DB.GetVertex(id)
	if err != nil {
		return err
	}
	if err := e.DB.DeleteVertex(id); err != nil {
		return err
	}
	metrics.TotalVertices.WithLabelValues(v.Label).Dec()
	return nil
}

// --- Query operations ---

// MatchVertices executes a point lookup.
func (e *Engine) MatchVertices(step core.Step) ([]*core.Vertex, error) {
	return e.DB.MatchVertices(step)
}

// MatchPath executes a pattern and returns the matched paths.
func (e *Engine) MatchPath(p core.Pattern) ([]core.Row, error) {
	start := time.Now()
	rows, err := e.DB.MatchPath(p)
	e.observeQuery(start, err)
	return rows, err
}

// Query executes a pattern and projects each row through p.Columns.
func (e *Engine) Query(p core.Pattern) ([][]core.Value, error) {
	start := time.Now()
	out := [][]core.Value{}
	err := e.DB.MatchPathFunc(p, func(r core.Row) bool {
		out = append(out, r.Project(p.Columns))
		return true
	})
	e.observeQuery(start, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) observeQuery(start time.Time, err error) {
	elapsed := time.Since(start)
	metrics.QueryDuration.Observe(elapsed.Seconds())
	status := "ok"
	if err != nil {
		status = "error"
		e.log.Warn("query failed", "error", err)
	}
	metrics.QueriesTotal.WithLabelValues(status).Inc()
	e.log.Debug("query executed", "status", status, "elapsed", elapsed)
}

// Stats reports per-label record counts and index declarations.
func (e *Engine) Stats() (vertices, edges []core.LabelStats) {
	return e.DB.Stats()
}
