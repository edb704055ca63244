// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/holocron/internal/swapi"
)

// Query parameter errors. Each one is reported as 400.
var (
	ErrInvalidName  = errors.New("name must be a single string value")
	ErrInvalidPage  = errors.New("page must be a positive integer")
	ErrInvalidLimit = errors.New("limit must be a positive integer")
	ErrMissingURL   = errors.New("url query parameter is required")
	ErrInvalidURL   = errors.New("url must be a single absolute http(s) URL")
)

// Error codes written into ErrorResponse.Code.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeUpstreamError      = "UPSTREAM_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeRequestCanceled    = "REQUEST_CANCELED"
)

// statusClientClosedRequest is the de facto status for a request the client
// abandoned before the response was ready.
const statusClientClosedRequest = 499

// upstreamFailure maps an upstream error to the HTTP status and code the
// gateway answers with. notFoundIsError reports 404 as 500 for routes that
// have no not-found semantics of their own.
func upstreamFailure(err error, notFoundIsError bool) (int, string) {
	switch {
	case errors.Is(err, swapi.ErrCircuitOpen):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, ErrCodeRequestCanceled
	case errors.Is(err, swapi.ErrNotFound) && !notFoundIsError:
		return http.StatusNotFound, ErrCodeNotFound
	default:
		return http.StatusInternalServerError, ErrCodeUpstreamError
	}
}
