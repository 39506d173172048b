package core

// This file defines the DB struct: one labeled-property-graph instance. It
// orchestrates the label catalog, the per-label partitions, and the secondary
// property indexes, and implements the write path (insert/delete) with index
// maintenance.
//
// Concurrency: a single RWMutex guards the whole instance. Writes are
// exclusive; reads share the lock and observe a consistent snapshot for the
// duration of the call. The expected workload is a handful of concurrent
// callers, not high-throughput OLTP, so lock granularity stays coarse.

import (
	"fmt"
	"sort"
	"sync"
)

// DB is a single graph instance. There is no hidden global: callers construct
// a DB with NewDB and pass it (or an engine wrapping it) explicitly.
type DB struct {
	mu      sync.RWMutex
	catalog *Catalog

	vertices map[string]*vertexPartition
	edges    map[string]*edgePartition

	vertexIndexes map[string]*propertyIndex
	edgeIndexes   map[string]*propertyIndex

	// Global id resolution. Endpoint checks and point gets go through these
	// instead of probing every partition.
	vertexByID map[VertexID]*Vertex
	edgeByID   map[EdgeID]*Edge

	// degree counts in+out references per vertex; a vertex with a nonzero
	// degree refuses deletion.
	degree map[VertexID]int

	nextID uint64
}

// NewDB creates and returns a new, empty graph instance.
func NewDB() *DB {
	return &DB{
		catalog:       NewCatalog(),
		vertices:      make(map[string]*vertexPartition),
		edges:         make(map[string]*edgePartition),
		vertexIndexes: make(map[string]*propertyIndex),
		edgeIndexes:   make(map[string]*propertyIndex),
		vertexByID:    make(map[VertexID]*Vertex),
		edgeByID:      make(map[EdgeID]*Edge),
		degree:        make(map[VertexID]int),
	}
}

// Catalog exposes the label registry for introspection. The returned handle
// only reads: declarations go through the DB, so a catalog entry always has
// its partition and index structures allocated with it.
func (db *DB) Catalog() *Catalog { return db.catalog }

// DeclareVertexLabel registers a vertex label and allocates its partition.
// Idempotent for an existing vertex label.
func (db *DB) DeclareVertexLabel(name string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.catalog.declareVertex(name); err != nil {
		return err
	}
	if _, ok := db.vertices[name]; !ok {
		db.vertices[name] = newVertexPartition()
		db.vertexIndexes[name] = newPropertyIndex()
	}
	return nil
}

// DeclareEdgeLabel registers an edge label and allocates its partition.
func (db *DB) DeclareEdgeLabel(name string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.catalog.declareEdge(name); err != nil {
		return err
	}
	if _, ok := db.edges[name]; !ok {
		db.edges[name] = newEdgePartition()
		db.edgeIndexes[name] = newPropertyIndex()
	}
	return nil
}

// InsertVertex creates a vertex under label and returns its fresh id.
// Every declared index on (label, key) with key present in props is updated
// before the call returns. Validation happens before any mutation, so a
// failed insert leaves no trace. The label check is partition presence under
// the write lock: a label is usable exactly when its declaration completed.
func (db *DB) InsertVertex(label string, props Properties) (VertexID, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	part, ok := db.vertices[label]
	if !ok {
		return 0, fmt.Errorf("insert vertex: label %q: %w", label, ErrUnknownLabel)
	}
	db.nextID++
	v := &Vertex{ID: VertexID(db.nextID), Label: label, Props: props.Clone()}

	part.insert(v)
	db.vertexByID[v.ID] = v
	db.vertexIndexes[label].onInsert(uint64(v.ID), v.Props)
	return v.ID, nil
}

// InsertEdge creates a directed edge from src to dst under label. Both
// endpoints must already exist; their labels were checked at their own
// insertion time, so only existence is validated here.
func (db *DB) InsertEdge(label string, src, dst VertexID, props Properties) (EdgeID, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	part, ok := db.edges[label]
	if !ok {
		return 0, fmt.Errorf("insert edge: label %q: %w", label, ErrUnknownLabel)
	}
	if _, ok := db.vertexByID[src]; !ok {
		return 0, fmt.Errorf("insert edge %q: source %d: %w", label, src, ErrDanglingEndpoint)
	}
	if _, ok := db.vertexByID[dst]; !ok {
		return 0, fmt.Errorf("insert edge %q: target %d: %w", label, dst, ErrDanglingEndpoint)
	}

	db.nextID++
	e := &Edge{ID: EdgeID(db.nextID), Label: label, Src: src, Dst: dst, Props: props.Clone()}

	part.insert(e)
	db.edgeByID[e.ID] = e
	db.degree[src]++
	db.degree[dst]++
	db.edgeIndexes[label].onInsert(uint64(e.ID), e.Props)
	return e.ID, nil
}

// GetVertex resolves a vertex by id.
func (db *DB) GetVertex(id VertexID) (*Vertex, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	v, ok := db.vertexByID[id]
	if !ok {
		return nil, fmt.Errorf("vertex %d: %w", id, ErrNotFound)
	}
	return v, nil
}

// GetEdge resolves an edge by id.
func (db *DB) GetEdge(id EdgeID) (*Edge, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	e, ok := db.edgeByID[id]
	if !ok {
		return nil, fmt.Errorf("edge %d: %w", id, ErrNotFound)
	}
	return e, nil
}

// DeleteEdge removes an edge and its index entries.
func (db *DB) DeleteEdge(id EdgeID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	e, ok := db.edgeByID[id]
	if !ok {
		return fmt.Errorf("delete edge %d: %w", id, ErrNotFound)
	}
	db.edgeIndexes[e.Label].onDelete(uint64(e.ID), e.Props)
	db.edges[e.Label].remove(id)
	delete(db.edgeByID, id)
	db.degree[e.Src]--
	db.degree[e.Dst]--
	return nil
}

// DeleteVertex removes a vertex. Deletion is refused while any edge still
// references the vertex; delete the referencing edges first. (The source
// material defines no cascade, and refusing keeps the no-dangling-edge
// invariant checkable with a counter.)
func (db *DB) DeleteVertex(id VertexID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	v, ok := db.vertexByID[id]
	if !ok {
		return fmt.Errorf("delete vertex %d: %w", id, ErrNotFound)
	}
	if db.degree[id] > 0 {
		return fmt.Errorf("delete vertex %d: %w", id, ErrVertexInUse)
	}
	db.vertexIndexes[v.Label].onDelete(uint64(v.ID), v.Props)
	db.vertices[v.Label].remove(id)
	delete(db.vertexByID, id)
	delete(db.degree, id)
	return nil
}

// ScanVertices iterates the partition of label in insertion order, calling fn
// for each vertex until it returns false. Re-invoking starts a fresh scan.
func (db *DB) ScanVertices(label string, fn func(*Vertex) bool) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	part, ok := db.vertices[label]
	if !ok {
		return fmt.Errorf("scan vertices: label %q: %w", label, ErrUnknownLabel)
	}
	part.each(fn)
	return nil
}

// ScanEdges iterates the partition of label in insertion order.
func (db *DB) ScanEdges(label string, fn func(*Edge) bool) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	part, ok := db.edges[label]
	if !ok {
		return fmt.Errorf("scan edges: label %q: %w", label, ErrUnknownLabel)
	}
	part.each(fn)
	return nil
}

// EnsureVertexIndex declares an index on (label, key). Pre-existing records
// are backfilled by a full partition scan, so the resulting index state does
// not depend on whether it was declared before or after data load. Idempotent.
func (db *DB) EnsureVertexIndex(label, key string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	part, ok := db.vertices[label]
	if !ok {
		return fmt.Errorf("ensure index: label %q: %w", label, ErrUnknownLabel)
	}
	ki, created := db.vertexIndexes[label].ensure(key)
	if !created {
		return nil
	}
	part.each(func(v *Vertex) bool {
		if val, ok := v.Props.Get(key); ok {
			ki.add(uint64(v.ID), val)
		}
		return true
	})
	return nil
}

// EnsureEdgeIndex declares an index on an edge (label, key), with the same
// backfill behavior as EnsureVertexIndex.
func (db *DB) EnsureEdgeIndex(label, key string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	part, ok := db.edges[label]
	if !ok {
		return fmt.Errorf("ensure index: label %q: %w", label, ErrUnknownLabel)
	}
	ki, created := db.edgeIndexes[label].ensure(key)
	if !created {
		return nil
	}
	part.each(func(e *Edge) bool {
		if val, ok := e.Props.Get(key); ok {
			ki.add(uint64(e.ID), val)
		}
		return true
	})
	return nil
}

// LookupVertices returns the ids of label's vertices whose indexed key equals
// value. The empty set is returned both for no match and for an unindexed
// key; the traversal layer falls back to a scan in the latter case.
func (db *DB) LookupVertices(label, key string, value Value) (map[VertexID]struct{}, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	idx, ok := db.vertexIndexes[label]
	if !ok {
		return nil, fmt.Errorf("lookup: label %q: %w", label, ErrUnknownLabel)
	}
	out := make(map[VertexID]struct{})
	ki, ok := idx.keys[key]
	if !ok {
		return out, nil
	}
	for id := range ki.lookup(value) {
		out[VertexID(id)] = struct{}{}
	}
	return out, nil
}

// LookupVertexRange returns the ids of label's vertices whose indexed key
// holds an ordered value (int, float, date) inside [min, max]. Nil bounds are
// unbounded.
func (db *DB) LookupVertexRange(label, key string, min, max *Value) (map[VertexID]struct{}, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	idx, ok := db.vertexIndexes[label]
	if !ok {
		return nil, fmt.Errorf("lookup range: label %q: %w", label, ErrUnknownLabel)
	}
	out := make(map[VertexID]struct{})
	ki, ok := idx.keys[key]
	if !ok {
		return out, nil
	}
	for id := range ki.lookupRange(min, max) {
		out[VertexID(id)] = struct{}{}
	}
	return out, nil
}

// LookupEdges is the edge-label counterpart of LookupVertices.
func (db *DB) LookupEdges(label, key string, value Value) (map[EdgeID]struct{}, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	idx, ok := db.edgeIndexes[label]
	if !ok {
		return nil, fmt.Errorf("lookup: label %q: %w", label, ErrUnknownLabel)
	}
	out := make(map[EdgeID]struct{})
	ki, ok := idx.keys[key]
	if !ok {
		return out, nil
	}
	for id := range ki.lookup(value) {
		out[EdgeID(id)] = struct{}{}
	}
	return out, nil
}

// RebuildVertexIndexes drops and re-derives every index of label from a full
// partition scan. The indexes are caches over the partitions, so the rebuilt
// state is set-equal to the incrementally maintained one; this is the
// recovery path when an index is suspected inconsistent.
func (db *DB) RebuildVertexIndexes(label string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	part, ok := db.vertices[label]
	if !ok {
		return fmt.Errorf("rebuild indexes: label %q: %w", label, ErrUnknownLabel)
	}
	old := db.vertexIndexes[label]
	fresh := newPropertyIndex()
	for key := range old.keys {
		fresh.ensure(key)
	}
	part.each(func(v *Vertex) bool {
		fresh.onInsert(uint64(v.ID), v.Props)
		return true
	})
	db.vertexIndexes[label] = fresh
	return nil
}

// RebuildEdgeIndexes is the edge-label counterpart of RebuildVertexIndexes.
func (db *DB) RebuildEdgeIndexes(label string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	part, ok := db.edges[label]
	if !ok {
		return fmt.Errorf("rebuild indexes: label %q: %w", label, ErrUnknownLabel)
	}
	old := db.edgeIndexes[label]
	fresh := newPropertyIndex()
	for key := range old.keys {
		fresh.ensure(key)
	}
	part.each(func(e *Edge) bool {
		fresh.onInsert(uint64(e.ID), e.Props)
		return true
	})
	db.edgeIndexes[label] = fresh
	return nil
}

// LabelStats describes one partition for introspection.
type LabelStats struct {
	Label       string   `json:"label"`
	Records     int      `json:"records"`
	IndexedKeys []string `json:"indexed_keys"`
}

// Stats returns per-label record counts and declared index keys, sorted by
// label name.
func (db *DB) Stats() (vertices, edges []LabelStats) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, label := range db.catalog.Labels(VertexLabel) {
		keys := db.vertexIndexes[label].indexedKeys()
		sort.Strings(keys)
		vertices = append(vertices, LabelStats{
			Label:       label,
			Records:     len(db.vertices[label].order),
			IndexedKeys: keys,
		})
	}
	for _, label := range db.catalog.Labels(EdgeLabel) {
		keys := db.edgeIndexes[label].indexedKeys()
		sort.Strings(keys)
		edges = append(edges, LabelStats{
			Label:       label,
			Records:     len(db.edges[label].order),
			IndexedKeys: keys,
		})
	}
	return vertices, edges
}
