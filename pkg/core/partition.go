package core

// This file implements the per-label record partitions. Each declared label
// exclusively owns the records carrying it, exactly like the per-label tables
// the AGE schema creates. Edge partitions additionally keep adjacency lists
// keyed by source and by target vertex id (the start_id/end_id indexes), so
// traversals expand without scanning the whole partition.

// VertexID is the opaque internal id of a vertex. Ids are assigned at
// creation, immutable, and unique across the whole graph instance.
type VertexID uint64

// EdgeID is the opaque internal id of an edge, drawn from the same sequence
// as vertex ids.
type EdgeID uint64

// Vertex is a labeled record with a property bag.
type Vertex struct {
	ID    VertexID   `json:"id"`
	Label string     `json:"label"`
	Props Properties `json:"properties"`
}

// Edge is a directed, labeled connection between two vertices.
type Edge struct {
	ID    EdgeID     `json:"id"`
	Label string     `json:"label"`
	Src   VertexID   `json:"src"`
	Dst   VertexID   `json:"dst"`
	Props Properties `json:"properties"`
}

// vertexPartition stores the vertices of a single label in insertion order.
// Not safe for concurrent use on its own; the owning DB serializes access.
type vertexPartition struct {
	order []*Vertex
	byID  map[VertexID]*Vertex
}

func newVertexPartition() *vertexPartition {
	return &vertexPartition{byID: make(map[VertexID]*Vertex)}
}

func (p *vertexPartition) insert(v *Vertex) {
	p.order = append(p.order, v)
	p.byID[v.ID] = v
}

func (p *vertexPartition) remove(id VertexID) {
	if _, ok := p.byID[id]; !ok {
		return
	}
	delete(p.byID, id)
	for i, v := range p.order {
		if v.ID == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// each iterates in insertion order until fn returns false.
func (p *vertexPartition) each(fn func(*Vertex) bool) {
	for _, v := range p.order {
		if !fn(v) {
			return
		}
	}
}

// edgePartition stores the edges of a single label in insertion order plus
// both adjacency directions.
type edgePartition struct {
	order []*Edge
	byID  map[EdgeID]*Edge
	bySrc map[VertexID][]*Edge
	byDst map[VertexID][]*Edge
}

func newEdgePartition() *edgePartition {
	return &edgePartition{
		byID:  make(map[EdgeID]*Edge),
		bySrc: make(map[VertexID][]*Edge),
		byDst: make(map[VertexID][]*Edge),
	}
}

func (p *edgePartition) insert(e *Edge) {
	p.order = append(p.order, e)
	p.byID[e.ID] = e
	p.bySrc[e.Src] = append(p.bySrc[e.Src], e)
	p.byDst[e.Dst] = append(p.byDst[e.Dst], e)
}

func (p *edgePartition) remove(id EdgeID) {
	e, ok := p.byID[id]
	if !ok {
		return
	}
	delete(p.byID, id)
	for i, x := range p.order {
		if x.ID == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	p.bySrc[e.Src] = dropEdge(p.bySrc[e.Src], id)
	if len(p.bySrc[e.Src]) == 0 {
		delete(p.bySrc, e.Src)
	}
	p.byDst[e.Dst] = dropEdge(p.byDst[e.Dst], id)
	if len(p.byDst[e.Dst]) == 0 {
		delete(p.byDst, e.Dst)
	}
}

func dropEdge(list []*Edge, id EdgeID) []*Edge {
	for i, e := range list {
		if e.ID == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// outgoing returns the edges leaving src, in insertion order. The returned
// slice is shared; callers must not mutate it.
func (p *edgePartition) outgoing(src VertexID) []*Edge {
	return p.bySrc[src]
}

// each iterates in insertion order until fn returns false.
func (p *edgePartition) each(fn func(*Edge) bool) {
	for _, e := range p.order {
		if !fn(e) {
			return
		}
	}
}
