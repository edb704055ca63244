// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

// Package swapi holds the wire shapes of the upstream people-and-related-
// resources API (swapi.tech). Only the fields the gateway reads or forwards
// are modeled.
package swapi

// ListResponse is returned by GET /people?page=&limit=.
type ListResponse struct {
	Message      string  `json:"message"`
	TotalRecords int     `json:"total_records"`
	TotalPages   int     `json:"total_pages"`
	Previous     *string `json:"previous"`
	Next         *string `json:"next"`
	Results      []Stub  `json:"results"`
}

// SearchResponse is returned by GET /people/?name=. Matches come back with
// their properties embedded, under "result" rather than "results".
type SearchResponse struct {
	Message string `json:"message"`
	Result  []Stub `json:"result"`
}

// Stub is one entry of a list or search page. List entries carry only
// uid, name and url; search entries also carry Properties.
type Stub struct {
	UID         string            `json:"uid"`
	Name        string            `json:"name,omitempty"`
	URL         string            `json:"url,omitempty"`
	Properties  *PersonProperties `json:"properties,omitempty"`
	Description string            `json:"description,omitempty"`
	ID          string            `json:"_id,omitempty"`
}

// Resource is the single-record envelope used by every detail endpoint.
type Resource[P any] struct {
	Message string            `json:"message"`
	Result  ResourceResult[P] `json:"result"`
}

// ResourceResult is the "result" member of a single-record response.
type ResourceResult[P any] struct {
	Properties  P      `json:"properties"`
	Description string `json:"description,omitempty"`
	ID          string `json:"_id,omitempty"`
	UID         string `json:"uid"`
	V           *int   `json:"__v,omitempty"`
}

// PersonProperties describes one character. Relation members are upstream URLs.
type PersonProperties struct {
	Name      string   `json:"name" validate:"required"`
	Gender    string   `json:"gender"`
	SkinColor string   `json:"skin_color"`
	HairColor string   `json:"hair_color"`
	Height    string   `json:"height"`
	EyeColor  string   `json:"eye_color"`
	Mass      string   `json:"mass"`
	BirthYear string   `json:"birth_year"`
	URL       string   `json:"url" validate:"required"`
	Created   string   `json:"created"`
	Edited    string   `json:"edited"`
	Homeworld string   `json:"homeworld,omitempty"`
	Films     []string `json:"films"`
	Species   []string `json:"species"`
	Vehicles  []string `json:"vehicles"`
	Starships []string `json:"starships"`
}

// Normalize replaces nil relation slices with empty ones so they encode as [].
func (p *PersonProperties) Normalize() {
	if p.Films == nil {
		p.Films = []string{}
	}
	if p.Species == nil {
		p.Species = []string{}
	}
	if p.Vehicles == nil {
		p.Vehicles = []string{}
	}
	if p.Starships == nil {
		p.Starships = []string{}
	}
}

type PlanetProperties struct {
	Name           string `json:"name"`
	Climate        string `json:"climate"`
	Terrain        string `json:"terrain"`
	Population     string `json:"population"`
	Diameter       string `json:"diameter"`
	Gravity        string `json:"gravity"`
	OrbitalPeriod  string `json:"orbital_period"`
	RotationPeriod string `json:"rotation_period"`
	SurfaceWater   string `json:"surface_water"`
	URL            string `json:"url"`
	Created        string `json:"created"`
	Edited         string `json:"edited"`
}

type FilmProperties struct {
	Title        string `json:"title"`
	EpisodeID    int    `json:"episode_id"`
	OpeningCrawl string `json:"opening_crawl"`
	Director     string `json:"director"`
	Producer     string `json:"producer"`
	ReleaseDate  string `json:"release_date"`
	URL          string `json:"url"`
	Created      string `json:"created"`
	Edited       string `json:"edited"`
}

// SpeciesProperties.Homeworld is null for species without a home planet.
type SpeciesProperties struct {
	Name            string  `json:"name"`
	Classification  string  `json:"classification"`
	Designation     string  `json:"designation"`
	AverageHeight   string  `json:"average_height"`
	SkinColors      string  `json:"skin_colors"`
	HairColors      string  `json:"hair_colors"`
	EyeColors       string  `json:"eye_colors"`
	AverageLifespan string  `json:"average_lifespan"`
	Homeworld       *string `json:"homeworld"`
	Language        string  `json:"language"`
	URL             string  `json:"url"`
	Created         string  `json:"created"`
	Edited          string  `json:"edited"`
}

type VehicleProperties struct {
	Name                 string `json:"name"`
	Model                string `json:"model"`
	Manufacturer         string `json:"manufacturer"`
	CostInCredits        string `json:"cost_in_credits"`
	Length               string `json:"length"`
	MaxAtmospheringSpeed string `json:"max_atmosphering_speed"`
	Crew                 string `json:"crew"`
	Passengers           string `json:"passengers"`
	CargoCapacity        string `json:"cargo_capacity"`
	Consumables          string `json:"consumables"`
	VehicleClass         string `json:"vehicle_class"`
	URL                  string `json:"url"`
	Created              string `json:"created"`
	Edited               string `json:"edited"`
}

type StarshipProperties struct {
	Name                 string `json:"name"`
	Model                string `json:"model"`
	Manufacturer         string `json:"manufacturer"`
	CostInCredits        string `json:"cost_in_credits"`
	Length               string `json:"length"`
	MaxAtmospheringSpeed string `json:"max_atmosphering_speed"`
	Crew                 string `json:"crew"`
	Passengers           string `json:"passengers"`
	CargoCapacity        string `json:"cargo_capacity"`
	Consumables          string `json:"consumables"`
	HyperdriveRating     string `json:"hyperdrive_rating"`
	MGLT                 string `json:"MGLT"`
	StarshipClass        string `json:"starship_class"`
	URL                  string `json:"url"`
	Created              string `json:"created"`
	Edited               string `json:"edited"`
}
