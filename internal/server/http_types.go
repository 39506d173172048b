package server

import (
	"fmt"

	"github.com/sanonone/grafodb/pkg/core"
)

// Request/response payloads for the REST API. Property values travel as plain
// JSON and are coerced into typed graph values server-side; clients never see
// internal value tags.

type declareLabelRequest struct {
	Kind string `json:"kind"` // "vertex" or "edge"
	Name string `json:"name"`
}

type addVertexRequest struct {
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties"`
}

type addVertexResponse struct {
	ID core.VertexID `json:"id"`
}

type addEdgeRequest struct {
	Label      string         `json:"label"`
	Src        core.VertexID  `json:"src"`
	Dst        core.VertexID  `json:"dst"`
	Properties map[string]any `json:"properties"`
}

type addEdgeResponse struct {
	ID core.EdgeID `json:"id"`
}

type ensureIndexRequest struct {
	Kind     string `json:"kind"` // "vertex" or "edge"
	Label    string `json:"label"`
	Property string `json:"property"`
}

type labelsResponse struct {
	VertexLabels []string `json:"vertex_labels"`
	EdgeLabels   []string `json:"edge_labels"`
}

type statsResponse struct {
	Vertices []core.LabelStats `json:"vertices"`
	Edges    []core.LabelStats `json:"edges"`
}

// stepPayload is the wire form of one pattern step: a label plus equality
// filters on property values.
type stepPayload struct {
	Label  string         `json:"label"`
	Filter map[string]any `json:"filter,omitempty"`
}

type hopPayload struct {
	Edge   stepPayload `json:"edge"`
	Target stepPayload `json:"target"`
}

type columnPayload struct {
	// Step indexes the vertex along the path: 0 is the source, 1 the first
	// hop's target, and so on.
	Step int    `json:"step"`
	Key  string `json:"key"`
}

type queryRequest struct {
	Source  stepPayload     `json:"source"`
	Hops    []hopPayload    `json:"hops,omitempty"`
	Columns []columnPayload `json:"columns,omitempty"`
}

type queryResponse struct {
	Rows  [][]core.Value `json:"rows"`
	Count int            `json:"count"`
}

func (p stepPayload) toStep() (core.Step, error) {
	step := core.Step{Label: p.Label}
	if len(p.Filter) > 0 {
		step.Filter = make(core.Filter, len(p.Filter))
		for k, raw := range p.Filter {
			v, err := core.FromAny(raw)
			if err != nil {
				return core.Step{}, fmt.Errorf("filter key %q: %w", k, err)
			}
			step.Filter[k] = v
		}
	}
	return step, nil
}

func (q queryRequest) toPattern() (core.Pattern, error) {
	src, err := q.Source.toStep()
	if err != nil {
		return core.Pattern{}, fmt.Errorf("source: %w", err)
	}
	p := core.Pattern{Source: src}
	for i, h := range q.Hops {
		edge, err := h.Edge.toStep()
		if err != nil {
			return core.Pattern{}, fmt.Errorf("hop %d edge: %w", i, err)
		}
		target, err := h.Target.toStep()
		if err != nil {
			return core.Pattern{}, fmt.Errorf("hop %d target: %w", i, err)
		}
		p.Hops = append(p.Hops, core.Hop{Edge: edge, Target: target})
	}
	for _, c := range q.Columns {
		p.Columns = append(p.Columns, core.Column{VertexStep: c.Step, Key: c.Key})
	}
	return p, nil
}
