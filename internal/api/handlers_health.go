// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

package api

import (
	"net/http"

	"github.com/tomtom215/holocron/internal/logging"
)

// HealthStatus is the body of GET /healthz.
type HealthStatus struct {
	Status          string `json:"status"`
	UpstreamCircuit string `json:"upstream_circuit"`
}

// Root serves GET / with a plain-text banner.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(HealthMessage)); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write health response")
	}
}

// Healthz reports liveness. The process is always "ok" unless the upstream
// breaker is open, which is reported as "degraded" with status 200: the
// gateway itself is still serving.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	circuit := h.client.CircuitState()
	status := "ok"
	if circuit == "open" {
		status = "degraded"
	}
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, r, http.StatusOK, HealthStatus{Status: status, UpstreamCircuit: circuit})
}
