package main

import (
	"context"
	"errors"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/focusflow/focusflow/internal/api"
	"github.com/focusflow/focusflow/internal/config"
	"github.com/focusflow/focusflow/internal/parser"
	"github.com/focusflow/focusflow/internal/store"
	"github.com/focusflow/focusflow/internal/telemetry"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.AppEnv == "dev" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()

	st, err := store.NewStore(ctx, cfg.StoreType, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create store")
	}
	defer func() { _ = st.Close() }()

	p := parser.Select(ctx, cfg.GeminiAPIKey, logger)

	if cfg.SeedDemoUser {
		user, err := api.EnsureDemoUser(ctx, st)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to seed demo user")
		}
		logger.Info().Str("email", user.Email).Msg("demo user ready")
	}

	telemetry.Init()

	// metrics and pprof on a separate listener, off the public port
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server listening")
		if err := http.ListenAndServe(cfg.MetricsAddr, nil); !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server failed")
		}
	}()

	srvAPI := api.NewServer(st, p, cfg, logger)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      srvAPI.Router(),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreType).Msg("listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShut)
	logger.Info().Msg("stopped")
}
