// Package diag exposes the resilience core's diagnostics over HTTP:
// status, error history, scenario testing and disk-space checks.
package diag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blushlabs/resilience/internal/infra/fsops"
	"github.com/blushlabs/resilience/internal/infra/storage"
	"github.com/blushlabs/resilience/internal/resilience/classify"
	"github.com/blushlabs/resilience/internal/resilience/history"
	"github.com/blushlabs/resilience/internal/resilience/recovery"
)

// Server provides the diagnostics HTTP endpoints.
type Server struct {
	handler *recovery.Handler
	store   *fsops.Store
	archive storage.ErrorArchive
	server  *http.Server
}

// NewServer creates a diagnostics server. archive may be nil when no
// long-term archive is configured.
func NewServer(h *recovery.Handler, store *fsops.Store, archive storage.ErrorArchive, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		handler: h,
		store:   store,
		archive: archive,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/errors", s.handleErrors)
	mux.HandleFunc("/errors/test", s.handleTest)
	mux.HandleFunc("/errors/archive", s.handleArchive)
	mux.HandleFunc("/errors/summary", s.handleSummary)
	mux.HandleFunc("/disk", s.handleDisk)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.handler.Status())
}

func (s *Server) handleErrors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter, err := parseFilter(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, s.handler.History(filter))
	case http.MethodDelete:
		s.handler.ClearHistory()
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func parseFilter(r *http.Request) (history.Filter, error) {
	var f history.Filter

	if name := r.URL.Query().Get("kind"); name != "" {
		kind, ok := classify.ParseKind(name)
		if !ok {
			return f, fmt.Errorf("unknown kind %q", name)
		}
		f.Kinds = []classify.Kind{kind}
	}
	f.Operation = r.URL.Query().Get("operation")
	if since := r.URL.Query().Get("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return f, fmt.Errorf("invalid since timestamp: %w", err)
		}
		f.Since = t
	}
	return f, nil
}

// testRequest describes a simulated failure scenario.
type testRequest struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Operation string `json:"operation"`
	Path      string `json:"path"`
}

// handleTest runs a fabricated failure through the full classification
// pipeline. No replay is supplied, so remediation strategies are selected
// but not executed.
func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req testRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Message == "" {
		req.Message = "simulated failure"
	}

	simulated := &classify.PlatformError{
		Code: req.Code,
		Op:   req.Operation,
		Path: req.Path,
		Err:  errors.New(req.Message),
	}
	result := s.handler.HandleError(r.Context(), simulated,
		recovery.Operation(req.Operation), req.Path, recovery.Request{})

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusNotFound, errors.New("no archive configured"))
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, errors.New("invalid limit"))
			return
		}
		limit = n
	}

	entries, err := s.archive.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusNotFound, errors.New("no archive configured"))
		return
	}

	since := time.Now().Add(-24 * time.Hour)
	if v := r.URL.Query().Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid since timestamp: %w", err))
			return
		}
		since = t
	}

	counts, err := s.archive.CountByKind(r.Context(), since)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleDisk(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = s.store.Root()
	}
	writeJSON(w, http.StatusOK, fsops.CheckDiskSpace(path, 0))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
