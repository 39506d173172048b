// This file implements the batch application helper. The configuration
// scripts this engine serves are multi-statement "declare label, insert data,
// create relationship" sequences with no cross-statement atomicity: the batch
// applies statements in order and stops at the first failure, reporting which
// statement broke. Nothing is rolled back; re-running a fixed batch is safe
// because declarations are idempotent and the caller controls the data.
package engine

import (
	"fmt"

	"github.com/sanonone/grafodb/pkg/core"
)

type stmtKind uint8

const (
	stmtDeclareVertexLabel stmtKind = iota
	stmtDeclareEdgeLabel
	stmtAddVertex
	stmtAddEdge
	stmtVertexIndex
	stmtEdgeIndex
)

type statement struct {
	kind     stmtKind
	label    string
	ref      string // vertex handle, usable as src/dst in later edge statements
	src, dst string
	key      string
	props    map[string]any
}

// Batch is an ordered list of graph statements collected up front and applied
// in one call.
type Batch struct {
	stmts []statement
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

func (b *Batch) DeclareVertexLabel(name string) *Batch {
	b.stmts = append(b.stmts, statement{kind: stmtDeclareVertexLabel, label: name})
	return b
}

func (b *Batch) DeclareEdgeLabel(name string) *Batch {
	b.stmts = append(b.stmts, statement{kind: stmtDeclareEdgeLabel, label: name})
	return b
}

// AddVertex queues a vertex insert. ref names the vertex within the batch so
// later AddEdge statements can reference it before its id exists.
func (b *Batch) AddVertex(ref, label string, props map[string]any) *Batch {
	b.stmts = append(b.stmts, statement{kind: stmtAddVertex, ref: ref, label: label, props: props})
	return b
}

// AddEdge queues an edge insert between two refs declared earlier in the batch.
func (b *Batch) AddEdge(label, srcRef, dstRef string, props map[string]any) *Batch {
	b.stmts = append(b.stmts, statement{kind: stmtAddEdge, label: label, src: srcRef, dst: dstRef, props: props})
	return b
}

func (b *Batch) EnsureVertexIndex(label, key string) *Batch {
	b.stmts = append(b.stmts, statement{kind: stmtVertexIndex, label: label, key: key})
	return b
}

func (b *Batch) EnsureEdgeIndex(label, key string) *Batch {
	b.stmts = append(b.stmts, statement{kind: stmtEdgeIndex, label: label, key: key})
	return b
}

// BatchResult reports what a batch application achieved.
type BatchResult struct {
	// Applied counts statements that completed before the batch stopped.
	Applied int
	// Vertices maps batch refs to the assigned internal ids.
	Vertices map[string]core.VertexID
}

// ApplyBatch executes the batch in statement order. On failure the returned
// error wraps the failing statement's error and names its position; already
// applied statements stay applied (the at-least-once batch model — callers
// fix the batch and re-run).
func (e *Engine) ApplyBatch(b *Batch) (*BatchResult, error) {
	res := &BatchResult{Vertices: make(map[string]core.VertexID)}

	for i, s := range b.stmts {
		var err error
		switch s.kind {
		case stmtDeclareVertexLabel:
			err = e.DeclareVertexLabel(s.label)
		case stmtDeclareEdgeLabel:
			err = e.DeclareEdgeLabel(s.label)
		case stmtAddVertex:
			var id core.VertexID
			id, err = e.AddVertex(s.label, s.props)
			if err == nil && s.ref != "" {
				res.Vertices[s.ref] = id
			}
		case stmtAddEdge:
			src, okSrc := res.Vertices[s.src]
			dst, okDst := res.Vertices[s.dst]
			if !okSrc {
				err = fmt.Errorf("edge %q: unknown batch ref %q: %w", s.label, s.src, core.ErrDanglingEndpoint)
			} else if !okDst {
				err = fmt.Errorf("edge %q: unknown batch ref %q: %w", s.label, s.dst, core.ErrDanglingEndpoint)
			} else {
				_, err = e.AddEdge(s.label, src, dst, s.props)
			}
		case stmtVertexIndex:
			err = e.EnsureVertexIndex(s.label, s.key)
		case stmtEdgeIndex:
			err = e.EnsureEdgeIndex(s.label, s.key)
		}
		if err != nil {
			e.log.Error("batch stopped", "statement", i, "applied", res.Applied, "error", err)
			return res, fmt.Errorf("batch statement %d: %w", i, err)
		}
		res.Applied++
	}
	return res, nil
}
