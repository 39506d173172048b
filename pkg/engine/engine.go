// Package engine provides the high-level, embedded interface for GrafoDB.
//
// It wraps the in-memory graph core with structured logging, metrics, schema
// bootstrap from a YAML configuration, and a batch application helper,
// providing a thread-safe graph instance that can be used directly within Go
// applications without network overhead.
//
// Basic usage:
//
//	eng, err := engine.Open(engine.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	id, err := eng.AddVertex("pr", map[string]any{"id": "PR001", "amount": 5000})
package engine

import (
	"log/slog"

	"github.com/sanonone/grafodb/pkg/core"
)

// Options configures the behavior of the Engine.
type Options struct {
	// ConfigPath optionally points at a YAML schema file (labels and index
	// declarations) applied at Open time. Empty means no bootstrap.
	ConfigPath string

	// Logger receives structured engine logs. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns a standard configuration suitable for most use cases.
func DefaultOptions() Options {
	return Options{}
}

// Engine is the main entry point for GrafoDB.
//
// The graph lives entirely in memory: there is no persistence layer and no
// background task, so an Engine is ready as soon as Open returns and Close
// has nothing to flush.
type Engine struct {
	// DB is the underlying graph instance. While exported, it is recommended
	// to use Engine methods so operations are logged and counted.
	DB *core.DB

	log *slog.Logger
}

// Open initializes a new Engine instance using the provided options. When
// opts.ConfigPath is set, the schema file is loaded and applied before Open
// returns.
func Open(opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		DB:  core.NewDB(),
		log: logger,
	}

	if opts.ConfigPath != "" {
		cfg, err := LoadConfig(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		if err := e.ApplySchema(cfg); err != nil {
			return nil, err
		}
		e.log.Info("schema bootstrap applied",
			"graph", cfg.Graph,
			"vertex_labels", len(cfg.VertexLabels),
			"edge_labels", len(cfg.EdgeLabels),
			"indexes", len(cfg.Indexes),
		)
	}

	return e, nil
}

// Close shuts the Engine down. Present for lifecycle symmetry with callers
// that manage the engine like any other store handle.
func (e *Engine) Close() error {
	return nil
}
