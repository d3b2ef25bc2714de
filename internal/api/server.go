// Package api implements the FocusFlow HTTP API: authentication, activity
// logging with gamification, the loot chest, and the item collection.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/focusflow/focusflow/internal/auth"
	"github.com/focusflow/focusflow/internal/config"
	"github.com/focusflow/focusflow/internal/loot"
	"github.com/focusflow/focusflow/internal/parser"
	"github.com/focusflow/focusflow/internal/store"
	"github.com/focusflow/focusflow/internal/telemetry"
)

// Server holds the API dependencies and builds the router.
type Server struct {
	store  store.Store
	parser parser.Parser
	cfg    *config.Config
	logger zerolog.Logger

	// rng feeds chest draws. Tests swap in a fixed source.
	rng loot.RNG
}

// NewServer creates an API server over the given store and parser.
func NewServer(st store.Store, p parser.Parser, cfg *config.Config, logger zerolog.Logger) *Server {
	return &Server{
		store:  st,
		parser: p,
		cfg:    cfg,
		logger: logger,
		rng:    loot.GlobalRNG{},
	}
}

// Router builds the chi router with the full middleware stack and all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(telemetry.Middleware)
	// The LLM parser can take a few seconds, so this is looser than a
	// plain CRUD timeout.
	r.Use(middleware.Timeout(15 * time.Second))
	if s.cfg.RateLimitPerIP > 0 {
		r.Use(httprate.LimitByIP(s.cfg.RateLimitPerIP, time.Minute))
	}

	// health
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// public
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Get("/items", s.handleListItems)

		// authenticated
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(s.cfg.JWTSecret))

			r.Get("/auth/me", s.handleMe)

			r.Post("/log_activity", s.handleLogActivity)
			r.Get("/activities", s.handleListActivities)
			r.Get("/activities/heatmap", s.handleHeatmap)
			r.Put("/activities/{id}", s.handleUpdateActivity)
			r.Delete("/activities/{id}", s.handleDeleteActivity)
			r.Get("/dashboard", s.handleDashboard)
			r.Get("/weekly-recap", s.handleWeeklyRecap)

			r.Get("/user/chest_status", s.handleChestStatus)
			r.Get("/user/collection", s.handleCollection)
			r.Post("/items/repair/{id}", s.handleRepairItem)

			r.Group(func(r chi.Router) {
				if s.cfg.RateLimitChest > 0 {
					r.Use(httprate.Limit(
						s.cfg.RateLimitChest,
						time.Minute,
						httprate.WithKeyFuncs(keyByUser),
						httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
							RateLimitedError(w, r, "Too many chest opens, slow down")
						}),
					))
				}
				r.Post("/user/open_chest", s.handleOpenChest)
			})
		})
	})

	return r
}

// handleHealth reports service health in the shape clients poll for.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "FocusFlow API",
		"version": "3.0",
	})
}

// keyByUser rate-limits per authenticated user, falling back to the client
// IP when the middleware runs before authentication.
func keyByUser(r *http.Request) (string, error) {
	if userID, ok := auth.UserIDFromContext(r.Context()); ok {
		return strconv.Itoa(userID), nil
	}
	return httprate.KeyByIP(r)
}

// requestLogger logs one structured line per request.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
