// This file defines the Go structs that correspond to the YAML graph schema
// configuration: the declared labels and the property indexes to maintain.
// Schema application is additive and idempotent, so a config file can be
// re-applied to a running graph without error.
package engine

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level structure of the graph schema file.
type Config struct {
	// Graph is a display name for the instance (logs only).
	Graph string `yaml:"graph"`

	VertexLabels []string      `yaml:"vertex_labels"`
	EdgeLabels   []string      `yaml:"edge_labels"`
	Indexes      []IndexConfig `yaml:"indexes"`
}

// IndexConfig declares one secondary index on a (label, property) pair.
type IndexConfig struct {
	Kind     string `yaml:"kind"` // "vertex" or "edge"
	Label    string `yaml:"label"`
	Property string `yaml:"property"`
}

// LoadConfig reads and parses the YAML schema file from the given path.
// It uses Strict Mode (KnownFields) to prevent silent errors due to typos.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse schema config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("schema config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	for _, idx := range c.Indexes {
		switch strings.ToLower(idx.Kind) {
		case "vertex", "edge":
		default:
			return fmt.Errorf("index on %s.%s: kind must be \"vertex\" or \"edge\", got %q", idx.Label, idx.Property, idx.Kind)
		}
		if idx.Label == "" || idx.Property == "" {
			return fmt.Errorf("index declarations need both label and property")
		}
	}
	return nil
}

// ApplySchema declares every label and index in cfg against the engine.
// Safe to call repeatedly: declarations are idempotent.
func (e *Engine) ApplySchema(cfg *Config) error {
	for _, name := range cfg.VertexLabels {
		if err := e.DeclareVertexLabel(name); err != nil {
			return err
		}
	}
	for _, name := range cfg.EdgeLabels {
		if err := e.DeclareEdgeLabel(name); err != nil {
			return err
		}
	}
	for _, idx := range cfg.Indexes {
		var err error
		if strings.ToLower(idx.Kind) == "edge" {
			err = e.EnsureEdgeIndex(idx.Label, idx.Property)
		} else {
			err = e.EnsureVertexIndex(idx.Label, idx.Property)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
