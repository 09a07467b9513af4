// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/clientus/internal/config"
	"github.com/tomtom215/clientus/internal/middleware"
)

// Router wires handlers and middleware into the chi route tree.
type Router struct {
	handler *Handler
	chimw   *ChiMiddleware
}

// NewRouter creates a router for the given handlers and server config.
func NewRouter(handler *Handler, cfg *config.ServerConfig) *Router {
	return &Router{
		handler: handler,
		chimw:   NewChiMiddleware(cfg),
	}
}

// Setup builds the full route tree with the global middleware stack.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chimw.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chimw.RateLimit())

		r.Get("/health", router.handler.Health)
		r.Get("/customers/analytics", router.handler.CustomerAnalytics)
		r.Get("/analytics/rebuild", router.handler.Rebuild)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(router.handler.NotFound)
	return r
}
