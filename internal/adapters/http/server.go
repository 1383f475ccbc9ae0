package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/vessel/internal/logging"
	"github.com/aretw0/vessel/pkg/config"
	"github.com/aretw0/vessel/pkg/domain"
	"github.com/aretw0/vessel/pkg/ports"
	"github.com/aretw0/vessel/pkg/schema"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxConfigBytes bounds request bodies carrying a configuration document.
const maxConfigBytes = 1 << 20

// Engine defines the build operations the service exposes.
type Engine interface {
	Validate(cfg *config.Config) ([]error, error)
	Artifact(ctx context.Context, store ports.ArtifactStore, cfg *config.Config) (*domain.Artifact, bool, error)
}

// Server serves builds over HTTP and keeps their output in an artifact store.
type Server struct {
	Engine  Engine
	Store   ports.ArtifactStore
	Logger  *slog.Logger
	Metrics http.Handler
}

// ModelResponse describes a stored model.
type ModelResponse struct {
	Key       string   `json:"key"`
	Filename  string   `json:"filename"`
	Triangles int      `json:"triangles"`
	Bytes     int      `json:"bytes"`
	Warnings  []string `json:"warnings"`
	Cached    bool     `json:"cached"`
}

// ValidateResponse is returned by the validate endpoint.
type ValidateResponse struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// NewHandler creates the HTTP handler for the build service.
// /metrics is mounted only when s.Metrics is set.
func NewHandler(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/schema", s.GetSchema)
		r.Post("/validate", s.Validate)
		r.Get("/models", s.ListModels)
		r.Post("/models", s.CreateModel)
		r.Get("/models/{key}", s.GetModel)
		r.Delete("/models/{key}", s.DeleteModel)
	})
	return r
}

// CreateModel handles POST /v1/models. The body is a YAML or JSON configuration.
func (s *Server) CreateModel(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.readConfig(w, r)
	if !ok {
		return
	}

	art, cached, err := s.Engine.Artifact(r.Context(), s.Store, cfg)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	status := http.StatusCreated
	if cached {
		status = http.StatusOK
	}
	w.Header().Set("Location", "/v1/models/"+art.Key)
	writeJSON(w, status, describe(art, cached))
}

// GetModel handles GET /v1/models/{key} and streams the STL file.
func (s *Server) GetModel(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	art, err := s.Store.Load(r.Context(), key)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "model/stl")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.Header().Set("X-Vessel-Triangles", strconv.Itoa(art.Triangles))
	w.Header().Set("X-Vessel-Warnings", strconv.Itoa(len(art.Warnings)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(art.Data); err != nil {
		s.Logger.Warn("write model failed", "key", key, "error", err)
	}
}

// DeleteModel handles DELETE /v1/models/{key}.
func (s *Server) DeleteModel(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListModels handles GET /v1/models.
func (s *Server) ListModels(w http.ResponseWriter, r *http.Request) {
	keys, err := s.Store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"keys": keys})
}

// Validate handles POST /v1/validate. Invalid documents still get a 200 with Valid false.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}

	resp := ValidateResponse{Valid: true}
	cfg, err := config.Parse(data)
	if err == nil {
		var warnings []error
		warnings, err = s.Engine.Validate(cfg)
		resp.Warnings = messages(warnings)
	}
	if err != nil {
		resp.Valid = false
		resp.Errors = details(err)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetSchema handles GET /v1/schema.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, config.Schema())
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxConfigBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return nil, false
	}
	return data, true
}

func (s *Server) readConfig(w http.ResponseWriter, r *http.Request) (*config.Config, bool) {
	data, ok := s.readBody(w, r)
	if !ok {
		return nil, false
	}
	cfg, err := config.Parse(data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid configuration", Details: details(err)})
		return nil, false
	}
	return cfg, true
}

// fail maps domain errors onto status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		shape      *domain.ConfigurationShapeError
		degenerate *domain.DegenerateGeometryError
		boolean    *domain.BooleanOperationError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrArtifactNotFound):
		status = http.StatusNotFound
	case errors.As(err, &shape), errors.As(err, &degenerate):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	case errors.As(err, &boolean):
		s.Logger.Error("kernel failure", "op", boolean.Op, "left", boolean.Left, "right", boolean.Right, "error", boolean.Err)
	}
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func describe(a *domain.Artifact, cached bool) ModelResponse {
	warnings := a.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return ModelResponse{
		Key:       a.Key,
		Filename:  a.Filename,
		Triangles: a.Triangles,
		Bytes:     len(a.Data),
		Warnings:  warnings,
		Cached:    cached,
	}
}

func details(err error) []string {
	if errs := schema.ValidationErrors(err); len(errs) > 0 {
		return messages(errs)
	}
	return []string{err.Error()}
}

func messages(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
