// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

package models

import (
	"github.com/tomtom215/holocron/internal/models/swapi"
)

// APIVersion is reported in every list envelope.
const APIVersion = "1.0"

// CharactersResponse is the list/search envelope:
//
//	{
//	  "data": [...],
//	  "pagination": {"totalRecords": 82, "currentPage": 1, "perPage": 10},
//	  "metadata": {"apiVersion": "1.0", "timestamp": "2026-01-01T00:00:00Z"}
//	}
type CharactersResponse struct {
	Data       []CharacterResult `json:"data"`
	Pagination Pagination        `json:"pagination"`
	Metadata   *Metadata         `json:"metadata,omitempty"`
}

type Pagination struct {
	TotalRecords int `json:"totalRecords"`
	CurrentPage  int `json:"currentPage"`
	PerPage      int `json:"perPage"`
}

type Metadata struct {
	APIVersion string `json:"apiVersion,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
}

// CharacterDetailResponse is served by GET /api/characters/{id}.
type CharacterDetailResponse struct {
	UID                string                 `json:"uid" validate:"required"`
	Properties         swapi.PersonProperties `json:"properties"`
	EnhancedProperties EnhancedProperties     `json:"enhancedProperties"`
	Description        string                 `json:"description,omitempty"`
	ID                 string                 `json:"_id,omitempty"`
	V                  *int                   `json:"__v,omitempty"`
}

// EnhancedProperties are the character properties with the homeworld URL
// replaced by the resolved planet (null when absent).
type EnhancedProperties struct {
	Name      string     `json:"name" validate:"required"`
	Gender    string     `json:"gender"`
	SkinColor string     `json:"skin_color"`
	HairColor string     `json:"hair_color"`
	Height    string     `json:"height"`
	EyeColor  string     `json:"eye_color"`
	Mass      string     `json:"mass"`
	BirthYear string     `json:"birth_year"`
	URL       string     `json:"url" validate:"required"`
	Created   string     `json:"created"`
	Edited    string     `json:"edited"`
	Homeworld *Homeworld `json:"homeworld"`
	Films     []string   `json:"films"`
	Species   []string   `json:"species"`
	Vehicles  []string   `json:"vehicles"`
	Starships []string   `json:"starships"`
}

// Enhance copies p and attaches the resolved homeworld.
func Enhance(p *swapi.PersonProperties, homeworld *Homeworld) EnhancedProperties {
	return EnhancedProperties{
		Name:      p.Name,
		Gender:    p.Gender,
		SkinColor: p.SkinColor,
		HairColor: p.HairColor,
		Height:    p.Height,
		EyeColor:  p.EyeColor,
		Mass:      p.Mass,
		BirthYear: p.BirthYear,
		URL:       p.URL,
		Created:   p.Created,
		Edited:    p.Edited,
		Homeworld: homeworld,
		Films:     nonNil(p.Films),
		Species:   nonNil(p.Species),
		Vehicles:  nonNil(p.Vehicles),
		Starships: nonNil(p.Starships),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ErrorResponse is the body of every gateway error:
//
//	{"error": "Failed to fetch characters", "code": "UPSTREAM_ERROR",
//	 "details": "upstream returned 502", "request_id": "..."}
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
