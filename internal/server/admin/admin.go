// Package admin serves the operator HTTP endpoints: a health check and
// job board management.
package admin

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/campushire/internal/common"
	"github.com/dmitrijs2005/campushire/internal/logging"
	"github.com/dmitrijs2005/campushire/internal/server/models"
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

// TokenHeader carries the static admin token.
const TokenHeader = "X-Admin-Token"

const maxBodyBytes = 4 << 20

type JobStore interface {
	ListJobs(ctx context.Context) ([]models.Document, error)
	ImportJobs(ctx context.Context, postings []map[string]any) ([]string, error)
	DeleteJob(ctx context.Context, id string) error
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	address string
	token   string
	jobs    JobStore
	db      Pinger
	logger  logging.Logger
}

func NewServer(address, token string, jobs JobStore, db Pinger, logger logging.Logger) *Server {
	return &Server{address: address, token: token, jobs: jobs, db: db, logger: logger.With("module", "admin")}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)

	jobs := r.PathPrefix("/jobs").Subrouter()
	jobs.Use(s.requireToken)
	jobs.HandleFunc("", s.listJobs).Methods(http.MethodGet)
	jobs.HandleFunc("", s.importJobs).Methods(http.MethodPost)
	jobs.HandleFunc("/{id}", s.deleteJob).Methods(http.MethodDelete)
	return r
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping admin server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting admin server", "address", s.address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(TokenHeader)
		if s.token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type jobView struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	docs, err := s.jobs.ListJobs(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "list jobs", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	out := make([]jobView, 0, len(docs))
	for _, d := range docs {
		out = append(out, jobView{ID: d.ID, Data: d.Data})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) importJobs(w http.ResponseWriter, r *http.Request) {
	var postings []map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&postings); err != nil {
		writeError(w, http.StatusBadRequest, "body must be a JSON array of postings")
		return
	}

	ids, err := s.jobs.ImportJobs(r.Context(), postings)
	if err != nil {
		if errors.Is(err, common.ErrInvalidPosting) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error(r.Context(), "import jobs", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.logger.Info(r.Context(), "jobs imported", "count", len(ids))
	writeJSON(w, http.StatusCreated, map[string][]string{"ids": ids})
}

func (s *Server) deleteJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.jobs.DeleteJob(r.Context(), id); err != nil {
		if errors.Is(err, common.ErrInvalidPath) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error(r.Context(), "delete job", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
