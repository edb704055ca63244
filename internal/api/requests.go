// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/holocron/internal/validation"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ListCharactersRequest is the validated query of GET /api/characters.
type ListCharactersRequest struct {
	Name  string `query:"name"`
	Page  int    `query:"page" validate:"min=1"`
	Limit int    `query:"limit" validate:"min=1,max=100"`
}

// CharacterRequest is the validated path of GET /api/characters/{id}.
type CharacterRequest struct {
	ID string `json:"id" validate:"required,alphanum"`
}

// ResourceRequest is the validated query of GET /api/resource.
type ResourceRequest struct {
	URL string `query:"url" validate:"required,httpurl"`
}

// parseListCharacters reads name, page and limit. A name that is not a
// single string (repeated, or sent in bracket form such as name[]=x) is
// rejected before anything else is looked at.
func parseListCharacters(r *http.Request) (ListCharactersRequest, error) {
	q := r.URL.Query()

	if hasBracketForm(q, "name") || len(q["name"]) > 1 {
		return ListCharactersRequest{}, ErrInvalidName
	}

	req := ListCharactersRequest{
		Name:  strings.TrimSpace(q.Get("name")),
		Page:  defaultPage,
		Limit: defaultLimit,
	}

	var err error
	if req.Page, err = intParam(q, "page", defaultPage); err != nil {
		return req, ErrInvalidPage
	}
	if req.Limit, err = intParam(q, "limit", defaultLimit); err != nil {
		return req, ErrInvalidLimit
	}
	if req.Limit > maxLimit {
		req.Limit = maxLimit
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		return req, verr
	}
	return req, nil
}

func parseResource(r *http.Request) (ResourceRequest, error) {
	q := r.URL.Query()
	if hasBracketForm(q, "url") || len(q["url"]) > 1 {
		return ResourceRequest{}, ErrInvalidURL
	}

	req := ResourceRequest{URL: strings.TrimSpace(q.Get("url"))}
	if req.URL == "" {
		return req, ErrMissingURL
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return req, ErrInvalidURL
	}
	return req, nil
}

// intParam returns def when key is absent. Repeated or non-integer values
// are errors; range checks are left to the validator.
func intParam(q url.Values, key string, def int) (int, error) {
	if hasBracketForm(q, key) {
		return 0, strconv.ErrSyntax
	}
	values, ok := q[key]
	if !ok {
		return def, nil
	}
	if len(values) != 1 {
		return 0, strconv.ErrSyntax
	}
	raw := strings.TrimSpace(values[0])
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// hasBracketForm reports keys like name[] or name[0], which query-string
// parsers in other stacks turn into arrays or objects.
func hasBracketForm(q url.Values, key string) bool {
	prefix := key + "["
	for k := range q {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}
