// REST API handlers.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/pprof"
	"strconv"
	"strings"

	"github.com/sanonone/grafodb/pkg/core"
)

// registerHTTPHandlers sets up the routes for the REST API.
func (s *Server) registerHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/", s.router)
}

// router is our main manual router. It parses the URL and delegates to the
// proper handler.
func (s *Server) router(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	// --- Debug endpoints (pprof) ---
	if strings.HasPrefix(path, "/debug/pprof") {
		switch {
		case path == "/debug/pprof/":
			pprof.Index(w, r)
		case path == "/debug/pprof/cmdline":
			pprof.Cmdline(w, r)
		case path == "/debug/pprof/profile":
			pprof.Profile(w, r)
		case path == "/debug/pprof/symbol":
			pprof.Symbol(w, r)
		case path == "/debug/pprof/trace":
			pprof.Trace(w, r)
		default:
			s.writeHTTPError(w, http.StatusNotFound, "pprof endpoint not found")
		}
		return
	}

	// --- Graph endpoints ---
	switch path {
	case "/graph/labels":
		s.handleLabelsRequest(w, r)
		return
	case "/graph/vertices":
		s.handleAddVertex(w, r)
		return
	case "/graph/edges":
		s.handleAddEdge(w, r)
		return
	case "/graph/indexes":
		s.handleIndexesRequest(w, r)
		return
	case "/graph/query":
		s.handleQuery(w, r)
		return
	case "/graph/stats":
		s.handleStats(w, r)
		return
	}

	// URLs with parameters, like /graph/vertices/{id}
	if rest, ok := strings.CutPrefix(path, "/graph/vertices/"); ok {
		s.handleSingleVertex(w, r, rest)
		return
	}
	if rest, ok := strings.CutPrefix(path, "/graph/edges/"); ok {
		s.handleSingleEdge(w, r, rest)
		return
	}

	s.writeHTTPError(w, http.StatusNotFound, "endpoint not found")
}

// --- Label handlers ---

// handleLabelsRequest serves both the catalog listing and new declarations.
func (s *Server) handleLabelsRequest(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cat := s.Engine.DB.Catalog()
		s.writeHTTPResponse(w, http.StatusOK, labelsResponse{
			VertexLabels: cat.Labels(core.VertexLabel),
			EdgeLabels:   cat.Labels(core.EdgeLabel),
		})
	case http.MethodPost:
		var req declareLabelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON, expected an object with 'kind' and 'name'")
			return
		}
		var err error
		switch req.Kind {
		case "vertex":
			err = s.Engine.DeclareVertexLabel(req.Name)
		case "edge":
			err = s.Engine.DeclareEdgeLabel(req.Name)
		default:
			s.writeHTTPError(w, http.StatusBadRequest, "kind must be 'vertex' or 'edge'")
			return
		}
		if err != nil {
			s.writeGraphError(w, err)
			return
		}
		s.writeHTTPResponse(w, http.StatusCreated, map[string]string{"status": "declared"})
	default:
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "only GET and POST allowed on /graph/labels")
	}
}

// --- Vertex handlers ---

func (s *Server) handleAddVertex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "only POST allowed on /graph/vertices")
		return
	}
	var req addVertexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON, expected 'label' and 'properties'")
		return
	}
	id, err := s.Engine.AddVertex(req.Label, req.Properties)
	if err != nil {
		s.writeGraphError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusCreated, addVertexResponse{ID: id})
}

func (s *Server) handleSingleVertex(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "vertex id must be numeric")
		return
	}
	switch r.Method {
	case http.MethodGet:
		v, err := s.Engine.GetVertex(core.VertexID(id))
		if err != nil {
			s.writeGraphError(w, err)
			return
		}
		s.writeHTTPResponse(w, http.StatusOK, v)
	case http.MethodDelete:
		if err := s.Engine.DeleteVertex(core.VertexID(id)); err != nil {
			s.writeGraphError(w, err)
			return
		}
		s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "only GET and DELETE allowed on /graph/vertices/{id}")
	}
}

// --- Edge handlers ---

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "only POST allowed on /graph/edges")
		return
	}
	var req addEdgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON, expected 'label', 'src', 'dst' and 'properties'")
		return
	}
	id, err := s.Engine.AddEdge(req.Label, req.Src, req.Dst, req.Properties)
	if err != nil {
		s.writeGraphError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusCreated, addEdgeResponse{ID: id})
}

func (s *Server) handleSingleEdge(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "edge id must be numeric")
		return
	}
	switch r.Method {
	case http.MethodGet:
		e, err := s.Engine.GetEdge(core.EdgeID(id))
		if err != nil {
			s.writeGraphError(w, err)
			return
		}
		s.writeHTTPResponse(w, http.StatusOK, e)
	case http.MethodDelete:
		if err := s.Engine.DeleteEdge(core.EdgeID(id)); err != nil {
			s.writeGraphError(w, err)
			return
		}
		s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "only GET and DELETE allowed on /graph/edges/{id}")
	}
}

// --- Index handlers ---

func (s *Server) handleIndexesRequest(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		// The stats view already carries the per-label index declarations.
		vstats, estats := s.Engine.Stats()
		s.writeHTTPResponse(w, http.StatusOK, statsResponse{Vertices: vstats, Edges: estats})
	case http.MethodPost:
		var req ensureIndexRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON, expected 'kind', 'label' and 'property'")
			return
		}
		var err error
		switch req.Kind {
		case "vertex":
			err = s.Engine.EnsureVertexIndex(req.Label, req.Property)
		case "edge":
			err = s.Engine.EnsureEdgeIndex(req.Label, req.Property)
		default:
			s.writeHTTPError(w, http.StatusBadRequest, "kind must be 'vertex' or 'edge'")
			return
		}
		if err != nil {
			s.writeGraphError(w, err)
			return
		}
		s.writeHTTPResponse(w, http.StatusCreated, map[string]string{"status": "indexed"})
	default:
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "only GET and POST allowed on /graph/indexes")
	}
}

// --- Query handler ---

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "only POST allowed on /graph/query")
		return
	}
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON query payload")
		return
	}
	pattern, err := req.toPattern()
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := s.Engine.Query(pattern)
	if err != nil {
		s.writeGraphError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, queryResponse{Rows: rows, Count: len(rows)})
}

// --- Stats handler ---

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "only GET allowed on /graph/stats")
		return
	}
	vstats, estats := s.Engine.Stats()
	s.writeHTTPResponse(w, http.StatusOK, statsResponse{Vertices: vstats, Edges: estats})
}

// --- Response helpers ---

func (s *Server) writeHTTPResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeHTTPError(w http.ResponseWriter, statusCode int, message string) {
	s.writeHTTPResponse(w, statusCode, map[string]string{"error": message})
}

// writeGraphError maps a graph error to the matching HTTP status.
func (s *Server) writeGraphError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrLabelKindConflict), errors.Is(err, core.ErrVertexInUse):
		status = http.StatusConflict
	case errors.Is(err, core.ErrUnknownLabel), errors.Is(err, core.ErrDanglingEndpoint):
		status = http.StatusBadRequest
	}
	s.writeHTTPError(w, status, err.Error())
}
