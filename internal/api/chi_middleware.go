// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/clientus/internal/config"
)

// ChiMiddleware builds the chi-compatible middleware stack from server
// configuration: CORS and IP-based rate limiting.
type ChiMiddleware struct {
	cfg  *config.ServerConfig
	cors func(http.Handler) http.Handler
}

// NewChiMiddleware creates the middleware factories for the given server
// configuration.
func NewChiMiddleware(cfg *config.ServerConfig) *ChiMiddleware {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", rebuildTokenHeader},
		MaxAge:         86400,
	})

	return &ChiMiddleware{cfg: cfg, cors: corsHandler}
}

// CORS returns the go-chi/cors handler; must be global so OPTIONS preflights
// reach it before routing.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns an IP-keyed limiter, or a pass-through when disabled.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	if m.cfg.RateLimitDisabled || m.cfg.RateLimitRequests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	window := m.cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	return httprate.LimitByIP(m.cfg.RateLimitRequests, window)
}
