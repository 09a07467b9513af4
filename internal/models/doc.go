// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

// Package models defines the data structures shared across the Clientus
// application: source-of-truth transactional records (orders, user profiles),
// the derived analytics records materialized by the rebuild pipeline, the
// grouped customer rows consumed by the facet engine, and the report payloads
// returned by the HTTP API.
//
// Types here are plain structs with no framework dependencies so the rebuild
// pipeline and facet engine can be exercised against fakes in unit tests.
package models
