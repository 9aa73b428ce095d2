package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gofhir/sqlonfhir"
	"github.com/gofhir/sqlonfhir/issue"
	"github.com/gofhir/sqlonfhir/logging"
	"github.com/gofhir/sqlonfhir/rowfmt"
	"github.com/gofhir/sqlonfhir/viewdef"
)

// Server holds the shared engine and view registry backing every
// route. It has no per-request mutable state, so one Server safely
// serves concurrent requests (spec §5).
type Server struct {
	engine  *sqlonfhir.Engine
	store   *ViewStore
	log     *logging.Logger
	maxBody int64
}

// NewServer creates a Server around a configured engine.
func NewServer(engine *sqlonfhir.Engine, maxBody int64) *Server {
	return &Server{
		engine:  engine,
		store:   NewViewStore(),
		log:     logging.Default(),
		maxBody: maxBody,
	}
}

// Routes builds the chi router exposing this server's endpoints.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
	r.Post("/views", s.handleCreateView)
	r.Get("/views/{id}/schema", s.handleViewSchema)
	r.Delete("/views/{id}", s.handleDeleteView)
	r.Post("/views/{id}/apply", s.handleApplyView)
	r.Post("/apply", s.handleApplyInline)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m := s.engine.Metrics()
	writeJSON(w, http.StatusOK, map[string]any{
		"projectionsTotal":     m.ProjectionsTotal(),
		"projectionsEmpty":     m.ProjectionsEmpty(),
		"projectionErrors":     m.ProjectionErrors(),
		"rowsEmittedTotal":     m.RowsEmittedTotal(),
		"averageProjectionsNs": m.AverageProjectionTime().Nanoseconds(),
		"minProjectionsNs":     m.MinProjectionTime().Nanoseconds(),
		"maxProjectionsNs":     m.MaxProjectionTime().Nanoseconds(),
	})
}

func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(r)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	view, err := s.engine.ParseView(body)
	if err != nil {
		s.log.Warn("view registration rejected: %v", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id := s.store.Put(view)
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":     id,
		"name":   view.Name,
		"schema": view.Schema(),
	})
}

func (s *Server) handleViewSchema(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, errUnknownView)
		return
	}
	writeJSON(w, http.StatusOK, view.Schema())
}

func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	s.store.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleApplyView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, errUnknownView)
		return
	}

	body, err := s.readBody(r)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	s.applyAndRespond(w, view, body)
}

type inlineApplyRequest struct {
	View     json.RawMessage `json:"view"`
	Resource json.RawMessage `json:"resource"`
}

func (s *Server) handleApplyInline(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(r)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	var req inlineApplyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.View) == 0 || len(req.Resource) == 0 {
		writeError(w, http.StatusBadRequest, errMissingFields)
		return
	}

	view, err := s.engine.ParseView(req.View)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.applyAndRespond(w, view, req.Resource)
}

func (s *Server) applyAndRespond(w http.ResponseWriter, view *viewdef.ViewDefinition, resource []byte) {
	rows, err := s.engine.Apply(view, resource)
	if err != nil {
		var ie *issue.Error
		if errors.As(err, &ie) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		s.log.Error(err, "projection failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rowfmt.ToMaps(rows))
}

func (s *Server) readBody(r *http.Request) ([]byte, error) {
	limited := io.LimitReader(r.Body, s.maxBody+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.maxBody {
		return nil, errBodyTooLarge
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

var (
	errUnknownView   = errors.New("unknown view id")
	errMissingFields = errors.New(`request must set both "view" and "resource"`)
	errBodyTooLarge  = errors.New("request body exceeds maximum allowed size")
)
