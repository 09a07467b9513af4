// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

package models

import "time"

// APIResponse is the standardized response wrapper used by all HTTP
// endpoints. Status is "success" or "error"; Error is populated only for
// error responses.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"overview": {"customers": 12, ...}, ...},
//	  "metadata": {"timestamp": "2026-08-30T12:00:00Z", "query_time_ms": 45}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "INVALID_ARGUMENT", "message": "dates must be YYYY-MM-DD"},
//	  "metadata": {"timestamp": "2026-08-30T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms"`
}

// APIError carries a machine-readable code and a human-readable message.
// Codes: UNAUTHORIZED, INVALID_ARGUMENT, REBUILD_FAILED, QUERY_FAILED,
// METHOD_NOT_ALLOWED, NOT_FOUND.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RebuildResult is the payload returned by the rebuild endpoint.
type RebuildResult struct {
	OK    bool       `json:"ok"`
	Mode  string     `json:"mode"`
	Since *time.Time `json:"since"`
	Rows  int        `json:"rows"`
}
