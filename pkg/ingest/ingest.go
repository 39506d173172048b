// Package ingest implements bulk loading of vertices and edges into a graph
// engine. Source records carry external business identifiers (purchase request
// numbers, invoice numbers) rather than internal graph ids; the loader keeps a
// resolution map from external id to assigned internal id so edge records can
// name their endpoints the way the source system does.
//
// Loading is best-effort per record: a bad record is counted, logged and
// skipped, and the load continues. This matches how batch feeds behave in
// practice, where one malformed row must not abort a nightly import.
package ingest

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sanonone/grafodb/pkg/core"
	"github.com/sanonone/grafodb/pkg/engine"
)

// ExternalIDKey is the property key the loader treats as the record's business
// identifier. Vertices carrying it become resolvable endpoints for edge loads.
const ExternalIDKey = "id"

// VertexRecord is one vertex row from a source feed.
type VertexRecord struct {
	Label string
	// Properties are the raw source values; the engine coerces them into
	// typed graph values. The ExternalIDKey entry, when present and a string,
	// registers the vertex in the loader's resolution map.
	Properties map[string]any
}

// EdgeRecord is one edge row from a source feed. Endpoints are named by the
// external id of the vertex they point at.
type EdgeRecord struct {
	Label      string
	Src, Dst   string
	Properties map[string]any
}

// Result summarizes one load call.
type Result struct {
	JobID  string
	Loaded int
	Failed int
	// Errors holds one entry per failed record, in input order.
	Errors []error
}

// Loader feeds records into an engine while maintaining the external-id
// resolution map across calls, so vertices and edges can arrive in separate
// batches (or separate files) as long as vertices come first.
type Loader struct {
	eng *engine.Engine
	log *slog.Logger

	// byExternalID maps a source identifier to the internal id assigned when
	// the vertex was loaded through this loader.
	byExternalID map[string]core.VertexID
}

// NewLoader builds a loader around eng. A nil logger falls back to
// slog.Default().
func NewLoader(eng *engine.Engine, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		eng:          eng,
		log:          logger,
		byExternalID: make(map[string]core.VertexID),
	}
}

// LoadVertices inserts the given vertex records. Records whose ExternalIDKey
// property is a string are registered for later edge resolution; a duplicate
// external id fails the record rather than silently remapping earlier edges.
func (l *Loader) LoadVertices(records []VertexRecord) *Result {
	res := &Result{JobID: uuid.NewString()}
	log := l.log.With("job_id", res.JobID)
	log.Info("vertex load started", "records", len(records))

	for i, rec := range records {
		extID, hasExt := rec.Properties[ExternalIDKey].(string)
		if hasExt {
			if _, dup := l.byExternalID[extID]; dup {
				l.fail(res, log, i, fmt.Errorf("vertex %q: duplicate external id", extID))
				continue
			}
		}
		id, err := l.eng.AddVertex(rec.Label, rec.Properties)
		if err != nil {
			l.fail(res, log, i, fmt.Errorf("vertex label %q: %w", rec.Label, err))
			continue
		}
		if hasExt {
			l.byExternalID[extID] = id
		}
		res.Loaded++
	}

	log.Info("vertex load finished", "loaded", res.Loaded, "failed", res.Failed)
	return res
}

// LoadEdges inserts the given edge records, resolving endpoints through the
// external ids registered by earlier LoadVertices calls.
func (l *Loader) LoadEdges(records []EdgeRecord) *Result {
	res := &Result{JobID: uuid.NewString()}
	log := l.log.With("job_id", res.JobID)
	log.Info("edge load started", "records", len(records))

	for i, rec := range records {
		src, err := l.resolve(rec.Src)
		if err != nil {
			l.fail(res, log, i, fmt.Errorf("edge %q src: %w", rec.Label, err))
			continue
		}
		dst, err := l.resolve(rec.Dst)
		if err != nil {
			l.fail(res, log, i, fmt.Errorf("edge %q dst: %w", rec.Label, err))
			continue
		}
		if _, err := l.eng.AddEdge(rec.Label, src, dst, rec.Properties); err != nil {
			l.fail(res, log, i, fmt.Errorf("edge label %q: %w", rec.Label, err))
			continue
		}
		res.Loaded++
	}

	log.Info("edge load finished", "loaded", res.Loaded, "failed", res.Failed)
	return res
}

// Resolve returns the internal id registered for an external id.
func (l *Loader) Resolve(externalID string) (core.VertexID, bool) {
	id, ok := l.byExternalID[externalID]
	return id, ok
}

func (l *Loader) resolve(externalID string) (core.VertexID, error) {
	if id, ok := l.byExternalID[externalID]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("external id %q: %w", externalID, core.ErrDanglingEndpoint)
}

func (l *Loader) fail(res *Result, log *slog.Logger, idx int, err error) {
	res.Failed++
	res.Errors = append(res.Errors, fmt.Errorf("record %d: %w", idx, err))
	log.Warn("record skipped", "record", idx, "error", err)
}
