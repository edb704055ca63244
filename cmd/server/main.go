// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

// Package main is the Holocron gateway: a JSON API in front of the public
// Star Wars API that returns characters with their homeworld, films, species,
// vehicles and starships already resolved.
//
// # Startup
//
//  1. Configuration: defaults, optional config.yaml, then environment (Koanf v2).
//     A .env file in the working directory is loaded first.
//  2. Logging: zerolog, configured from the logging section.
//  3. Upstream client: HTTP client, wrapped in a circuit breaker unless
//     CIRCUIT_BREAKER_ENABLED=false.
//  4. HTTP server under a suture supervisor tree.
//
// # Routes
//
//	GET /                       plain-text banner
//	GET /healthz                liveness and circuit state
//	GET /metrics                Prometheus metrics
//	GET /api/characters         ?name=&page=&limit=
//	GET /api/characters/{id}    one character with resolved homeworld
//	GET /api/resource           ?url= raw upstream passthrough
//
// SIGINT and SIGTERM stop the server gracefully within
// HTTP_SHUTDOWN_TIMEOUT.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/tomtom215/holocron/internal/api"
	"github.com/tomtom215/holocron/internal/config"
	"github.com/tomtom215/holocron/internal/enrich"
	"github.com/tomtom215/holocron/internal/logging"
	"github.com/tomtom215/holocron/internal/supervisor"
	"github.com/tomtom215/holocron/internal/supervisor/services"
	"github.com/tomtom215/holocron/internal/swapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("upstream", cfg.Upstream.BaseURL).
		Dur("upstream_timeout", cfg.Upstream.Timeout).
		Int("max_concurrency", cfg.Upstream.MaxConcurrency).
		Bool("circuit_breaker", cfg.Upstream.CircuitBreaker).
		Strs("cors_origins", cfg.Security.CORSOrigins).
		Msg("Configuration loaded")
	logging.Debug().
		Dur("read_timeout", cfg.Server.ReadTimeout).
		Dur("write_timeout", cfg.Server.WriteTimeout).
		Dur("idle_timeout", cfg.Server.IdleTimeout).
		Dur("shutdown_timeout", cfg.Server.ShutdownTimeout).
		Msg("HTTP server timeouts")
	if !cfg.Upstream.CircuitBreaker {
		logging.Warn().Msg("Circuit breaker disabled; upstream outages reach every request")
	}

	client := swapi.New(&cfg.Upstream)
	handler := api.NewHandler(client, enrich.New(client, cfg.Upstream.MaxConcurrency))
	router := api.NewRouter(handler, api.NewChiMiddleware(api.DefaultChiMiddlewareConfig(cfg.Security.CORSOrigins)))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	tree := supervisor.NewSupervisorTree("holocron-gateway", logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddHTTPService(services.NewHTTPServerService("gateway", server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Gateway listening")
	if err := tree.Run(ctx); err != nil {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}
	logging.Info().Msg("Gateway stopped")
}
