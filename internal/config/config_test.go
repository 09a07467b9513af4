// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 4001 {
		t.Errorf("Expected default port 4001, got %d", cfg.Server.Port)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", cfg.Server.Timeout)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Rebuild.Pipeline != "analytics_orders" {
		t.Errorf("Expected default pipeline analytics_orders, got %q", cfg.Rebuild.Pipeline)
	}
	if cfg.Rebuild.JobToken != "" {
		t.Errorf("Expected empty default job token, got %q", cfg.Rebuild.JobToken)
	}
	if len(cfg.Analytics.ProductAliases) != 3 {
		t.Errorf("Expected 3 default product aliases, got %d", len(cfg.Analytics.ProductAliases))
	}
	if got := len(cfg.Analytics.ProductAliases["porto"]); got != 5 {
		t.Errorf("Expected 5 porto product ids, got %d", got)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CLIENTUS_SERVER_PORT", "9090")
	t.Setenv("CLIENTUS_LOGGING_LEVEL", "debug")
	t.Setenv("CLIENTUS_DATABASE_MAX_MEMORY", "512MB")
	t.Setenv("ANALYTICS_JOB_TOKEN", "sekrit")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected env port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected env level debug, got %q", cfg.Logging.Level)
	}
	if cfg.Database.MaxMemory != "512MB" {
		t.Errorf("Expected env max memory 512MB, got %q", cfg.Database.MaxMemory)
	}
	if cfg.Rebuild.JobToken != "sekrit" {
		t.Errorf("Expected job token from ANALYTICS_JOB_TOKEN, got %q", cfg.Rebuild.JobToken)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 8123\nrebuild:\n  job_token: filetoken\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8123 {
		t.Errorf("Expected file port 8123, got %d", cfg.Server.Port)
	}
	if cfg.Rebuild.JobToken != "filetoken" {
		t.Errorf("Expected file job token, got %q", cfg.Rebuild.JobToken)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8123\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("CLIENTUS_SERVER_PORT", "9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Expected env to win over file, got port %d", cfg.Server.Port)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := defaultConfig()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for invalid logging level")
	}

	cfg = defaultConfig()
	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for out-of-range port")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"CLIENTUS_SERVER_PORT", "server.port"},
		{"CLIENTUS_DATABASE_MAX_MEMORY", "database.max_memory"},
		{"CLIENTUS_SERVER_RATE_LIMIT_REQUESTS", "server.rate_limit_requests"},
		{"CLIENTUS_LOGGING_LEVEL", "logging.level"},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.expected {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}
