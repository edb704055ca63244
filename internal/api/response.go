// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/holocron/internal/logging"
	"github.com/tomtom215/holocron/internal/models"
)

// sanitizeLogValue escapes control characters so user input cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// generateETag is an FNV-1a hash of the body.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

func requestID(r *http.Request) string {
	return logging.RequestIDFromContext(r.Context())
}

// respondJSON encodes v with goccy/go-json and writes it with an ETag.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSONBytes(w, r, status, data)
}

// writeJSONBytes writes an already encoded JSON body.
func writeJSONBytes(w http.ResponseWriter, r *http.Request, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Vary", "Accept-Encoding")
	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError writes an ErrorResponse. Server-side failures are logged with
// the underlying error; client errors are not.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	body := models.ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestID(r),
	}
	if err != nil {
		body.Details = err.Error()
	}

	if status >= http.StatusInternalServerError {
		ev := logging.Ctx(r.Context()).Error().Str("code", code).Int("status", status)
		if err != nil {
			ev = ev.Str("error", sanitizeLogValue(err.Error()))
		}
		ev.Msg("API error")
	}

	respondJSON(w, r, status, body)
}
