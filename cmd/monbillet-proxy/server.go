package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Sternrassler/monbillet-client/pkg/client"
	"github.com/Sternrassler/monbillet-client/pkg/jsonvalue"
	"github.com/Sternrassler/monbillet-client/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// listFunc and itemFunc match the client's list and single-resource reads.
type (
	listFunc func(ctx context.Context, opts client.ListOptions) (jsonvalue.Value, error)
	itemFunc func(ctx context.Context, id string) (jsonvalue.Value, error)
)

type server struct {
	router *chi.Mux
	client *client.Client
	logger zerolog.Logger
}

func newServer(mb *client.Client, logger zerolog.Logger) *server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	s := &server{router: r, client: mb, logger: logger}
	r.Use(s.requestLogger)

	r.Get("/health", healthHandler)
	r.Handle("/metrics", metrics.Handler())

	r.Get("/events", s.handleList(mb.Events))
	r.Get("/events/{id}", s.handleItem(mb.Event))
	r.Get("/event-groups", s.handleList(mb.EventGroups))
	r.Get("/event-groups/{id}", s.handleItem(mb.EventGroup))
	r.Delete("/cache", s.handleClearCache)

	return s
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *server) handleList(fetch listFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := client.ParseListOptions(r.URL.Query())
		if err != nil {
			s.writeError(w, err)
			return
		}

		v, err := fetch(r.Context(), opts)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, v)
	}
}

func (s *server) handleItem(fetch itemFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := fetch(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, v)
	}
}

func (s *server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if err := s.client.ClearCache(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write response")
	}
}

// writeError answers with the status matching the error kind. Errors that
// are not client errors are internal failures (500).
func (s *server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus()
	}

	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		event := s.logger.Info()
		if ww.Status() >= http.StatusInternalServerError {
			event = s.logger.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("Request served")
	})
}
