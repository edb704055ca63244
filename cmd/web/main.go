// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

// Package main is the Holocron web frontend: server-rendered pages that call
// the gateway at API_URL (default http://localhost:5000).
//
//	GET /           character grid with search and pagination
//	GET /search     search form target, redirects to the first result page
//	GET /skeleton   loading placeholder
//	GET /static/*   stylesheet
//	GET /metrics    Prometheus metrics
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/tomtom215/holocron/internal/client"
	"github.com/tomtom215/holocron/internal/config"
	"github.com/tomtom215/holocron/internal/logging"
	"github.com/tomtom215/holocron/internal/supervisor"
	"github.com/tomtom215/holocron/internal/supervisor/services"
	"github.com/tomtom215/holocron/internal/web"
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

	gateway := client.New(cfg.Web.APIURL,
		client.WithCacheTTL(cfg.Web.CacheTTL),
		client.WithTimeout(cfg.Web.RequestTimeout),
	)
	defer gateway.Close()

	srv, err := web.NewServer(gateway)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load templates")
	}

	server := &http.Server{
		Addr:              cfg.Web.Addr(),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	tree := supervisor.NewSupervisorTree("holocron-web", logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddHTTPService(services.NewHTTPServerService("web", server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().
		Str("addr", server.Addr).
		Str("api_url", gateway.BaseURL()).
		Dur("cache_ttl", cfg.Web.CacheTTL).
		Msg("Web frontend listening")
	if err := tree.Run(ctx); err != nil {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}
	stats, hitRate := gateway.CacheStats()
	logging.Info().
		Int64("cache_hits", stats.Hits).
		Int64("cache_misses", stats.Misses).
		Float64("cache_hit_rate", hitRate).
		Msg("Web frontend stopped")
}
