// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

// Package main is the entry point for the Clientus server.
//
// Clientus maintains a denormalized customer-order analytics table over an
// embedded DuckDB database and serves multi-dimensional reports on it. The
// server starts in this order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, config.yaml, env)
//  2. Logging: zerolog with configured level and format
//  3. Database: embedded DuckDB with the source and analytics schema
//  4. Rebuild pipeline and facet query engine
//  5. HTTP server: chi router with CORS, rate limiting, and metrics
//
// # Configuration
//
// Environment variables use the CLIENTUS_ prefix (CLIENTUS_SERVER_PORT,
// CLIENTUS_DATABASE_PATH, ...); the rebuild credential additionally accepts
// the bare ANALYTICS_JOB_TOKEN variable used by the scheduling jobs.
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the listener stops accepting
// connections, in-flight requests get 10 seconds to finish, then the database
// is closed.
//
// # Example Usage
//
//	export ANALYTICS_JOB_TOKEN=$(openssl rand -hex 24)
//	export CLIENTUS_DATABASE_PATH=/data/clientus.duckdb
//	./clientus
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/clientus/internal/analytics"
	"github.com/tomtom215/clientus/internal/api"
	"github.com/tomtom215/clientus/internal/config"
	"github.com/tomtom215/clientus/internal/database"
	"github.com/tomtom215/clientus/internal/logging"
	"github.com/tomtom215/clientus/internal/products"
	"github.com/tomtom215/clientus/internal/rebuild"
)

// version is set at build time via -ldflags.
var version = "dev"

const shutdownTimeout = 10 * time.Second

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
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Int("port", cfg.Server.Port).
		Bool("rebuild_enabled", cfg.Rebuild.JobToken != "").
		Msg("Starting Clientus")

	if cfg.Rebuild.JobToken == "" {
		logging.Warn().Msg("No rebuild job token configured; rebuild endpoint is disabled")
	}

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run(cfg *config.Config) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	resolver := products.NewResolver(cfg.Analytics.ProductAliases)
	pipeline := rebuild.New(db, db, cfg.Rebuild.JobToken, cfg.Rebuild.Pipeline)
	engine := analytics.New(db, resolver)

	handler := api.NewHandler(engine, pipeline, db, version)
	router := api.NewRouter(handler, &cfg.Server)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	logging.Info().Msg("Shutdown complete")
	return nil
}
