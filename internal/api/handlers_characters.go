// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/holocron/internal/logging"
	"github.com/tomtom215/holocron/internal/models"
	wire "github.com/tomtom215/holocron/internal/models/swapi"
	"github.com/tomtom215/holocron/internal/swapi"
	"github.com/tomtom215/holocron/internal/validation"
)

// ListCharacters serves GET /api/characters?name=&page=&limit=.
//
// Without a name the upstream people list is paged upstream. With a name the
// upstream search returns every match at once, so the requested page is cut
// out locally and totalRecords is the match count.
func (h *Handler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	req, err := parseListCharacters(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	ctx := r.Context()

	var (
		stubs []wire.Stub
		total int
	)
	if req.Name == "" {
		page, err := h.client.ListPeople(ctx, req.Page, req.Limit)
		if err != nil {
			h.upstreamError(w, r, "Failed to fetch characters", err, true)
			return
		}
		stubs, total = page.Results, page.TotalRecords
		if len(stubs) > req.Limit {
			stubs = stubs[:req.Limit]
		}
	} else {
		found, err := h.client.SearchPeople(ctx, req.Name, req.Page, req.Limit)
		if err != nil {
			h.upstreamError(w, r, "Failed to fetch characters", err, true)
			return
		}
		stubs, total = window(found.Result, req.Page, req.Limit), len(found.Result)
	}

	results := h.enricher.EnrichPage(ctx, stubs)
	if err := ctx.Err(); err != nil {
		h.upstreamError(w, r, "Failed to fetch characters", err, true)
		return
	}

	logging.Ctx(ctx).Debug().
		Str("name", sanitizeLogValue(req.Name)).
		Int("page", req.Page).
		Int("limit", req.Limit).
		Int("returned", len(results)).
		Int("total", total).
		Msg("Characters listed")

	respondJSON(w, r, http.StatusOK, models.CharactersResponse{
		Data: results,
		Pagination: models.Pagination{
			TotalRecords: total,
			CurrentPage:  req.Page,
			PerPage:      req.Limit,
		},
		Metadata: &models.Metadata{
			APIVersion: models.APIVersion,
			Timestamp:  h.now().UTC().Format(time.RFC3339),
		},
	})
}

// window returns the page-th slice of at most limit stubs. Pages past the
// end are empty; the bound is checked before multiplying so a huge page
// cannot overflow into a valid offset.
func window(stubs []wire.Stub, page, limit int) []wire.Stub {
	if page-1 >= (len(stubs)+limit-1)/limit {
		return []wire.Stub{}
	}
	start := (page - 1) * limit
	end := start + limit
	if end > len(stubs) {
		end = len(stubs)
	}
	return stubs[start:end]
}

// GetCharacter serves GET /api/characters/{id}: the upstream record with an
// enhancedProperties block whose homeworld is resolved.
func (h *Handler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	req := CharacterRequest{ID: chi.URLParam(r, "id")}
	if verr := validation.ValidateStruct(&req); verr != nil {
		h.badRequest(w, r, verr)
		return
	}
	ctx := r.Context()

	person, err := h.client.GetPerson(ctx, req.ID)
	if err != nil {
		message := "Failed to fetch character"
		if errors.Is(err, swapi.ErrNotFound) {
			message = "Character not found"
		}
		h.upstreamError(w, r, message, err, false)
		return
	}

	props := person.Result.Properties
	props.Normalize()

	homeworld, err := h.enricher.Homeworld(ctx, props.Homeworld)
	if err != nil {
		h.upstreamError(w, r, "Failed to fetch character", err, true)
		return
	}

	uid := person.Result.UID
	if uid == "" {
		uid = req.ID
	}
	respondJSON(w, r, http.StatusOK, models.CharacterDetailResponse{
		UID:                uid,
		Properties:         props,
		EnhancedProperties: models.Enhance(&props, homeworld),
		Description:        person.Result.Description,
		ID:                 person.Result.ID,
		V:                  person.Result.V,
	})
}

// ProxyResource serves GET /api/resource?url=: the upstream body, unparsed.
func (h *Handler) ProxyResource(w http.ResponseWriter, r *http.Request) {
	req, err := parseResource(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	body, err := h.client.FetchRaw(r.Context(), req.URL)
	if err != nil {
		h.upstreamError(w, r, "Failed to fetch resource", err, true)
		return
	}
	writeJSONBytes(w, r, http.StatusOK, body)
}
