package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tranvictor/ensgraph/config"
	"github.com/tranvictor/ensgraph/ens"
	"github.com/tranvictor/ensgraph/graph"
	"github.com/tranvictor/ensgraph/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

type pairsRequest struct {
	Text string `json:"text"`
}

type pairsResponse struct {
	Pairs  []graph.Edge `json:"pairs"`
	Errors []string     `json:"errors"`
}

type graphRequest struct {
	Text string `json:"text"`
	// SkipCustom leaves stored custom edges out of the graph.
	SkipCustom bool `json:"skipCustom"`
}

type graphResponse struct {
	graph.Data
	Errors  []string `json:"errors"`
	Summary string   `json:"summary"`
}

type edgeRequest struct {
	A string `json:"a" validate:"required"`
	B string `json:"b" validate:"required"`
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, errorResponse{Error: msg})
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return config.ValidateStruct(v)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p := s.resolver.Resolve(r.Context(), name)
	code := http.StatusOK
	switch p.Outcome() {
	case ens.OutcomeNotFound:
		code = http.StatusNotFound
	case ens.OutcomeFatal:
		code = http.StatusBadGateway
	}
	s.writeJSON(w, code, p)
}

func (s *Server) validatePairs(w http.ResponseWriter, r *http.Request) {
	var req pairsRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pairs, diags := graph.ParsePairs(req.Text)
	s.writeJSON(w, http.StatusOK, pairsResponse{Pairs: pairs, Errors: diags})
}

func (s *Server) buildGraph(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pairs, diags := graph.ParsePairs(req.Text)
	var custom []graph.Edge
	if !req.SkipCustom {
		custom = s.edges.List()
	}
	data := graph.Build(pairs, custom)
	s.writeJSON(w, http.StatusOK, graphResponse{Data: data, Errors: diags, Summary: data.Summary()})
}

func (s *Server) listEdges(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.edges.List())
}

func (s *Server) addEdge(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e := graph.NewEdge(req.A, req.B)
	switch err := s.edges.Add(e); {
	case errors.Is(err, store.ErrDuplicateEdge):
		s.writeError(w, http.StatusConflict, "Connection already exists between "+e.A+" and "+e.B)
	case errors.Is(err, store.ErrSelfLoop):
		s.writeError(w, http.StatusBadRequest, `Cannot connect "`+e.A+`" to itself`)
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	default:
		s.writeJSON(w, http.StatusCreated, e)
	}
}

func (s *Server) removeEdge(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.edges.Remove(graph.NewEdge(req.A, req.B)) {
		s.writeError(w, http.StatusNotFound, graph.ErrNotCustom.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearEdges(w http.ResponseWriter, r *http.Request) {
	s.edges.Clear()
	w.WriteHeader(http.StatusNoContent)
}
