package core

// This file implements the traversal engine: fixed-shape pattern matching
// over the partitions and property indexes. Supported shapes are point
// lookups (zero hops), single hops, and chained multi-hop traversals; the
// hop loop generalizes to any depth.
//
// Matching is index-seeded: the candidate set for the source step starts from
// the smallest index bucket among the indexed filter keys, is intersected
// with the remaining indexed keys, and every survivor is re-checked against
// its full property bag. The re-check defends against bucket collisions and
// also evaluates filters on keys that carry no index.

import (
	"fmt"
	"sort"
)

// Filter is a set of equality constraints over a property bag. A record
// matches when every stated key is present and equal; an absent property
// never matches (no null-equals-null semantics).
type Filter map[string]Value

// matches re-checks a full property bag against the filter.
func (f Filter) matches(props Properties) bool {
	for key, want := range f {
		got, ok := props.Get(key)
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}

// Step names a label and an equality filter over its records.
type Step struct {
	Label  string
	Filter Filter
}

// Hop is one traversal expansion: follow edges of Edge.Label out of the
// current vertex, keep those whose target satisfies Target.
type Hop struct {
	Edge   Step
	Target Step
}

// Column selects one projected output field: the property Key of the vertex
// at position VertexStep along the path (0 = source, 1 = first target, ...).
type Column struct {
	VertexStep int
	Key        string
}

// Pattern is a fixed-shape traversal: a source step plus zero or more hops,
// with an optional projection list.
type Pattern struct {
	Source  Step
	Hops    []Hop
	Columns []Column
}

// Row is one matched path. Vertices has len(Hops)+1 entries, Edges len(Hops).
type Row struct {
	Vertices []*Vertex
	Edges    []*Edge
}

// Project extracts the pattern's columns from the row. A column whose key is
// absent on the row's vertex yields a null Value.
func (r Row) Project(cols []Column) []Value {
	out := make([]Value, len(cols))
	for i, c := range cols {
		if c.VertexStep < 0 || c.VertexStep >= len(r.Vertices) {
			continue
		}
		if v, ok := r.Vertices[c.VertexStep].Props.Get(c.Key); ok {
			out[i] = v
		}
	}
	return out
}

// MatchVertices executes a point lookup: all vertices of step.Label whose
// bags satisfy step.Filter, in partition insertion order. An undeclared label
// is an error; no matches is an empty (non-nil) slice.
func (db *DB) MatchVertices(step Step) ([]*Vertex, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, ok := db.vertices[step.Label]; !ok {
		return nil, fmt.Errorf("match: label %q: %w", step.Label, ErrUnknownLabel)
	}
	return db.matchVerticesLocked(step), nil
}

func (db *DB) matchVerticesLocked(step Step) []*Vertex {
	part := db.vertices[step.Label]
	idx := db.vertexIndexes[step.Label]

	// Candidate seeding: gather the bucket of every indexed filter key.
	var seeds []map[uint64]struct{}
	for key, want := range step.Filter {
		ki, ok := idx.keys[key]
		if !ok {
			continue
		}
		seeds = append(seeds, ki.lookup(want))
	}

	out := []*Vertex{}
	if len(seeds) == 0 {
		// Nothing indexed: full partition scan.
		part.each(func(v *Vertex) bool {
			if step.Filter.matches(v.Props) {
				out = append(out, v)
			}
			return true
		})
		return out
	}

	// Intersect starting from the smallest bucket.
	sort.Slice(seeds, func(i, j int) bool { return len(seeds[i]) < len(seeds[j]) })
	candidates := make([]uint64, 0, len(seeds[0]))
	for id := range seeds[0] {
		keep := true
		for _, s := range seeds[1:] {
			if _, ok := s[id]; !ok {
				keep = false
				break
			}
		}
		if keep {
			candidates = append(candidates, id)
		}
	}
	// Ids are assigned monotonically, so sorting by id restores partition
	// insertion order for deterministic output.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	for _, id := range candidates {
		v, ok := part.byID[VertexID(id)]
		if !ok {
			continue
		}
		// Full-bag re-check: collision defense plus non-indexed filter keys.
		if step.Filter.matches(v.Props) {
			out = append(out, v)
		}
	}
	return out
}

// MatchPath executes a pattern and returns every matched path. Output order
// follows the source partition scan order, with each hop's edges enumerated
// in adjacency insertion order. Every label in the pattern must be declared
// (ErrUnknownLabel otherwise); a pattern that matches nothing returns an
// empty slice, which is not an error.
func (db *DB) MatchPath(p Pattern) ([]Row, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if err := db.validatePatternLocked(p); err != nil {
		return nil, err
	}
	rows := []Row{}
	db.matchPathLocked(p, func(r Row) bool {
		rows = append(rows, r)
		return true
	})
	return rows, nil
}

// MatchPathFunc is the streaming form of MatchPath: yield is called per row
// until it returns false. The graph read lock is held for the whole
// enumeration, so yield must not call back into this DB.
func (db *DB) MatchPathFunc(p Pattern, yield func(Row) bool) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if err := db.validatePatternLocked(p); err != nil {
		return err
	}
	db.matchPathLocked(p, yield)
	return nil
}

// validatePatternLocked checks every label against the allocated partitions,
// so a pattern only runs against labels whose declaration fully completed.
func (db *DB) validatePatternLocked(p Pattern) error {
	if _, ok := db.vertices[p.Source.Label]; !ok {
		return fmt.Errorf("match: label %q: %w", p.Source.Label, ErrUnknownLabel)
	}
	for _, hop := range p.Hops {
		if _, ok := db.edges[hop.Edge.Label]; !ok {
			return fmt.Errorf("match: edge label %q: %w", hop.Edge.Label, ErrUnknownLabel)
		}
		if _, ok := db.vertices[hop.Target.Label]; !ok {
			return fmt.Errorf("match: label %q: %w", hop.Target.Label, ErrUnknownLabel)
		}
	}
	return nil
}

func (db *DB) matchPathLocked(p Pattern, yield func(Row) bool) {
	for _, src := range db.matchVerticesLocked(p.Source) {
		row := Row{Vertices: []*Vertex{src}}
		if !db.expand(p.Hops, row, yield) {
			return
		}
	}
}

// expand walks the remaining hops depth-first, emitting one row per complete
// path. Returns false when the consumer stops the enumeration.
func (db *DB) expand(hops []Hop, row Row, yield func(Row) bool) bool {
	if len(hops) == 0 {
		return yield(row)
	}
	hop := hops[0]
	current := row.Vertices[len(row.Vertices)-1]

	for _, e := range db.edges[hop.Edge.Label].outgoing(current.ID) {
		if !hop.Edge.Filter.matches(e.Props) {
			continue
		}
		dst := db.vertexByID[e.Dst]
		if dst.Label != hop.Target.Label || !hop.Target.Filter.matches(dst.Props) {
			continue
		}
		next := Row{
			Vertices: append(append([]*Vertex{}, row.Vertices...), dst),
			Edges:    append(append([]*Edge{}, row.Edges...), e),
		}
		if !db.expand(hops[1:], next, yield) {
			return false
		}
	}
	return true
}
