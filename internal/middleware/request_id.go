// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/holocron/internal/logging"
)

// RequestIDWithLogging puts the request ID (taken from X-Request-ID or
// generated) and a fresh correlation ID into the request context, echoes the
// request ID in the response, then hands off to chi's RequestID middleware
// so chimiddleware.GetReqID agrees with the logger.
func RequestIDWithLogging(next http.Handler) http.Handler {
	chiRequestID := chimiddleware.RequestID(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(chimiddleware.RequestIDHeader)
		if requestID == "" {
			requestID = logging.GenerateRequestID()
			r.Header.Set(chimiddleware.RequestIDHeader, requestID)
		}
		w.Header().Set(chimiddleware.RequestIDHeader, requestID)

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		ctx = logging.ContextWithNewCorrelationID(ctx)

		chiRequestID.ServeHTTP(w, r.WithContext(ctx))
	})
}
