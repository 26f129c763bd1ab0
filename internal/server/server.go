// Package server is the thin HTTP shell around the scheduling engine. Every
// read-modify-write of the schedule state runs under one mutex so concurrent
// requests cannot interleave and corrupt the state.
package server

import (
	"errors"
	"math/rand"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/awalker/judgeslot/internal/config"
	"github.com/awalker/judgeslot/internal/matchfeed"
	"github.com/awalker/judgeslot/internal/schedule"
	"github.com/awalker/judgeslot/internal/state"
)

// Server wires the engine, the state store, and the router together.
type Server struct {
	cfg    *config.Config
	store  *state.Store
	logger zerolog.Logger
	rng    *rand.Rand

	mu     sync.Mutex
	router chi.Router
}

// New constructs the server. The random source backs balanced assignment and
// quota selection; production passes an entropy-seeded one, tests a fixed seed.
func New(cfg *config.Config, store *state.Store, logger zerolog.Logger, rng *rand.Rand) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		logger: logger,
		rng:    rng,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/api/state", s.handleState)
	r.Get("/api/export", s.handleExport)
	r.Post("/api/generate", s.handleGenerate)
	r.Post("/api/checkoff", s.handleCheckoff)
	r.Post("/api/noshow", s.handleNoShow)
	r.Post("/api/generate-noshow", s.handleGenerateNoShow)
	r.Post("/api/active-schedule", s.handleActiveSchedule)
	r.Post("/api/snapshot-print", s.handleSnapshotPrint)
	r.Post("/api/reset", s.handleReset)

	s.router = r
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving the configured address.
func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("listen", s.cfg.Server.Listen).Msg("judging scheduler listening")
	return http.ListenAndServe(s.cfg.Server.Listen, s.router)
}

// writeError maps the engine's error taxonomy onto transport status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var cfgErr *schedule.ConfigError
	var parseErr *matchfeed.ParseError
	var notFound *schedule.NotFoundError
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &parseErr), errors.Is(err, schedule.ErrNoFeasibleSlot):
		status = http.StatusBadRequest
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
