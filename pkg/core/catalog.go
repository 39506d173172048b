package core

import (
	"fmt"
	"sort"
	"sync"
)

// LabelKind distinguishes vertex labels from edge labels. The two namespaces
// are checked against each other: one name cannot serve both kinds.
type LabelKind uint8

const (
	VertexLabel LabelKind = iota
	EdgeLabel
)

func (k LabelKind) String() string {
	if k == VertexLabel {
		return "vertex"
	}
	return "edge"
}

// Catalog is the registry of declared labels. Declarations are additive and
// idempotent: once a name is registered under a kind it stays there, and
// re-declaring it is a no-op (the configuration scripts that drive this
// engine are re-runnable).
//
// Declaration goes through the owning DB, which allocates the partition and
// index structures together with the catalog entry; the handle callers get
// from DB.Catalog only reads.
type Catalog struct {
	mu     sync.RWMutex
	labels map[string]LabelKind
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{labels: make(map[string]LabelKind)}
}

// declareVertex registers name as a vertex label.
func (c *Catalog) declareVertex(name string) error {
	return c.declare(name, VertexLabel)
}

// declareEdge registers name as an edge label.
func (c *Catalog) declareEdge(name string) error {
	return c.declare(name, EdgeLabel)
}

func (c *Catalog) declare(name string, kind LabelKind) error {
	if name == "" {
		return fmt.Errorf("declare %s label: empty name", kind)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.labels[name]; ok {
		if existing != kind {
			return fmt.Errorf("declare %s label %q: %w (declared as %s)", kind, name, ErrLabelKindConflict, existing)
		}
		return nil
	}
	c.labels[name] = kind
	return nil
}

// Exists reports whether name is declared under kind.
func (c *Catalog) Exists(kind LabelKind, name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	k, ok := c.labels[name]
	return ok && k == kind
}

// Labels returns the declared names of the given kind, sorted.
func (c *Catalog) Labels(kind LabelKind) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.labels))
	for name, k := range c.labels {
		if k == kind {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
