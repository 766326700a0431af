// Package server exposes the backlog over HTTP for the browser extension
// and other clients. Handlers run the extraction pipeline in the request
// goroutine via its non-blocking call shape; the storage lock is only taken
// inside store operations, so a slow extraction never stalls the rest of
// the API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gobacklog/internal/backlog"
	"github.com/hyperifyio/gobacklog/internal/pipeline"
	"github.com/hyperifyio/gobacklog/internal/store"
)

// Server wires the pipeline and store into an http.Handler.
type Server struct {
	Store *store.Store
	Pipe  *pipeline.Pipeline
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(corsMiddleware)
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/articles", func(r chi.Router) {
			r.Post("/", s.handleCreate)
			r.Get("/", s.handleList)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Patch("/", s.handlePatch)
				r.Delete("/", s.handleDelete)
				r.Post("/read", s.handleSetStatus(backlog.StatusRead))
				r.Post("/unread", s.handleSetStatus(backlog.StatusUnread))
			})
		})
		r.Get("/export", s.handleExport)
	})

	return r
}

type createRequest struct {
	URL      string   `json:"url"`
	Tags     []string `json:"tags"`
	Priority string   `json:"priority"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, &backlog.ValidationError{Field: "url", Reason: "must not be empty"})
		return
	}
	priority, err := backlog.ParsePriority(req.Priority)
	if err != nil {
		writeError(w, err)
		return
	}

	res := <-s.Pipe.Go(r.Context(), pipeline.Request{
		URL:      req.URL,
		Tags:     req.Tags,
		Priority: priority,
	})
	if res.Err != nil {
		writeError(w, res.Err)
		return
	}
	article, err := s.Store.Add(res.Draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, article)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	var f store.Filter
	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		status, err := backlog.ParseStatus(v)
		if err != nil {
			writeError(w, err)
			return
		}
		f.Status = status
	}
	if v := q.Get("priority"); v != "" {
		priority, err := backlog.ParsePriority(v)
		if err != nil {
			writeError(w, err)
			return
		}
		f.Priority = priority
	}
	f.Tag = q.Get("tag")
	f.Source = q.Get("source")

	articles, err := s.Store.List(f)
	if err != nil {
		writeError(w, err)
		return
	}
	if articles == nil {
		articles = []backlog.Article{}
	}
	writeJSON(w, http.StatusOK, articles)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	article, err := s.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

func (s *Server) handlePatch(w http.ResponseWriter, r *http.Request) {
	var patch backlog.Patch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}
	article, err := s.Store.Update(chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Store.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

func (s *Server) handleSetStatus(status backlog.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		article, err := s.Store.SetStatus(chi.URLParam(r, "id"), status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, article)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	out, err := s.Store.Export()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

// handleHealth reports process-up only, no dependency checks.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &backlog.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy to HTTP statuses. Extraction
// and enhancement degradations never reach this point.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var (
		fe  *backlog.FetchError
		nf  *backlog.NotFoundError
		amb *backlog.AmbiguousIDError
		ve  *backlog.ValidationError
	)
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.As(err, &nf):
		status = http.StatusNotFound
	case errors.As(err, &amb):
		status = http.StatusConflict
	case errors.As(err, &fe):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// corsMiddleware allows the browser extension, which has a unique origin,
// to call the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().Str("method", r.Method).Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).Msg("request")
	})
}
