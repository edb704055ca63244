// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

// Package api is the HTTP surface of the gateway: chi routing, middleware
// and the handlers that turn upstream responses into the character envelope.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/holocron/internal/enrich"
	"github.com/tomtom215/holocron/internal/models"
	"github.com/tomtom215/holocron/internal/swapi"
	"github.com/tomtom215/holocron/internal/validation"
)

// HealthMessage is the body of GET /.
const HealthMessage = "Star Wars Character Explorer API"

// Handler holds the dependencies of every route.
type Handler struct {
	client   swapi.Client
	enricher *enrich.Enricher
	now      func() time.Time
}

// NewHandler wires the upstream client and the enricher built on it.
func NewHandler(client swapi.Client, enricher *enrich.Enricher) *Handler {
	return &Handler{client: client, enricher: enricher, now: time.Now}
}

// badRequest answers 400 for a query parsing or validation failure.
func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		apiErr := verr.ToAPIError()
		respondJSON(w, r, http.StatusBadRequest, models.ErrorResponse{
			Error:     apiErr.Message,
			Code:      apiErr.Code,
			Details:   apiErr.Details,
			RequestID: requestID(r),
		})
		return
	}
	respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
}

// upstreamError answers with the status upstreamFailure picks for err.
func (h *Handler) upstreamError(w http.ResponseWriter, r *http.Request, message string, err error, notFoundIsError bool) {
	status, code := upstreamFailure(err, notFoundIsError)
	switch status {
	case http.StatusServiceUnavailable:
		message = "Upstream service temporarily unavailable"
	case statusClientClosedRequest:
		message = "Request canceled"
	}
	respondError(w, r, status, code, message, err)
}
