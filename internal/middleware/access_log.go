// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/holocron/internal/logging"
)

// DefaultSlowRequestThreshold is the latency above which requests log at warn.
const DefaultSlowRequestThreshold = 5 * time.Second

// AccessLog writes one structured line per request through the context
// logger, so request_id and correlation_id are included when the request-ID
// middleware runs first. 5xx responses and slow requests log at warn.
func AccessLog(slow time.Duration) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = DefaultSlowRequestThreshold
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			logger := logging.Ctx(r.Context())
			event := logger.Debug()
			switch {
			case rec.statusCode >= http.StatusInternalServerError, elapsed >= slow:
				event = logger.Warn()
			case rec.statusCode >= http.StatusBadRequest:
				event = logger.Info()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", rec.statusCode).
				Dur("duration", elapsed).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP request")
		})
	}
}
