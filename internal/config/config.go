// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

// Package config loads and validates the Clientus configuration via Koanf v2
// with layered sources (highest priority wins):
//
//  1. Environment variables (CLIENTUS_SERVER_PORT, ANALYTICS_JOB_TOKEN, ...)
//  2. Config file (config.yaml, or CONFIG_PATH override)
//  3. Built-in defaults
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Logging   LoggingConfig   `koanf:"logging"`
	Rebuild   RebuildConfig   `koanf:"rebuild"`
	Analytics AnalyticsConfig `koanf:"analytics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host" validate:"required"`
	Port    int           `koanf:"port" validate:"required,min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout" validate:"required"`

	// CORSOrigins lists allowed origins; "*" allows any origin.
	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file. Empty string opens an in-memory
	// database (used by tests).
	Path string `koanf:"path"`

	MaxMemory string `koanf:"max_memory" validate:"required"`

	// Threads controls DuckDB parallelism. 0 = use runtime.NumCPU().
	Threads int `koanf:"threads" validate:"min=0"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// RebuildConfig holds rebuild pipeline settings.
type RebuildConfig struct {
	// JobToken is the shared credential required by the rebuild endpoint.
	// An empty token disables rebuilds entirely (never "open access").
	JobToken string `koanf:"job_token"`

	// Pipeline names the watermark row used for incremental runs.
	Pipeline string `koanf:"pipeline" validate:"required"`
}

// AnalyticsConfig holds facet query engine settings.
type AnalyticsConfig struct {
	// ProductAliases maps report-facing product group labels to the sets of
	// product identifiers sold under them. Loaded once, read-only afterwards.
	ProductAliases map[string][]string `koanf:"product_aliases"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              4001,
			Timeout:           30 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Database: DatabaseConfig{
			Path:      "/data/clientus.duckdb",
			MaxMemory: "2GB",
			Threads:   0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Rebuild: RebuildConfig{
			JobToken: "",
			Pipeline: "analytics_orders",
		},
		Analytics: AnalyticsConfig{
			// Product groups of the initial deployment. Override via config
			// file when the catalog changes.
			ProductAliases: map[string][]string{
				"navio": {
					"ckqz9ndug001t0zpauvnkcth4",
					"clwj6d50700b70jm51eopxdhk",
				},
				"boulevard": {
					"ckqz9q5xt003g0spai5a9suan",
					"ckrz0dkhe00b60zpj47esb8rv",
					"cl2mbkykw0bh110jx9zgl5h33",
				},
				"porto": {
					"ckq2trvr800250zlral88xgrz",
					"ckqz96nk1001f0zpaiwtw9jzx",
					"ckrxsidzv01nu0zqf4p4virrm",
					"clvxr6ygi02re0qqygbx51bzs",
					"cm1gtmpsw045r0qpslrn2fxuz",
				},
			},
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
