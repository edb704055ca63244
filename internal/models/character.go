// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

// Package models defines the JSON shapes the gateway serves and the web
// frontend consumes.
package models

import (
	"bytes"
	"errors"

	"github.com/goccy/go-json"

	"github.com/tomtom215/holocron/internal/models/swapi"
)

// Character is a fully enriched character record.
type Character struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	BasicInfo   BasicInfo `json:"basicInfo"`
	Relations   Relations `json:"relations"`
	Meta        Meta      `json:"meta"`
}

// BasicInfo holds the flat physical attributes of a character.
type BasicInfo struct {
	Gender    string `json:"gender"`
	BirthYear string `json:"birthYear"`
	Height    string `json:"height"`
	Mass      string `json:"mass"`
	HairColor string `json:"hairColor"`
	SkinColor string `json:"skinColor"`
	EyeColor  string `json:"eyeColor"`
}

// BasicInfoFrom maps upstream person properties to BasicInfo.
func BasicInfoFrom(p *swapi.PersonProperties) BasicInfo {
	return BasicInfo{
		Gender:    p.Gender,
		BirthYear: p.BirthYear,
		Height:    p.Height,
		Mass:      p.Mass,
		HairColor: p.HairColor,
		SkinColor: p.SkinColor,
		EyeColor:  p.EyeColor,
	}
}

// Relations holds the resolved related resources. Slice order follows the
// upstream order and duplicates are kept.
type Relations struct {
	Homeworld *Homeworld `json:"homeworld"`
	Films     []Film     `json:"films"`
	Species   []Species  `json:"species"`
	Vehicles  []Vehicle  `json:"vehicles"`
	Starships []Starship `json:"starships"`
}

// Meta carries upstream bookkeeping fields.
type Meta struct {
	Created string `json:"created"`
	Edited  string `json:"edited"`
	URL     string `json:"url"`
}

// Homeworld is a resolved planet. ID is the upstream uid.
type Homeworld struct {
	ID string `json:"id"`
	swapi.PlanetProperties
}

type Film struct {
	ID string `json:"id"`
	swapi.FilmProperties
}

type Species struct {
	ID string `json:"id"`
	swapi.SpeciesProperties
}

type Vehicle struct {
	ID string `json:"id"`
	swapi.VehicleProperties
}

type Starship struct {
	ID string `json:"id"`
	swapi.StarshipProperties
}

// DegradedCharacter replaces a Character whose enrichment failed. BasicInfo
// is nil when not even the character's own properties could be loaded.
type DegradedCharacter struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Error     string     `json:"error"`
	BasicInfo *BasicInfo `json:"basicInfo"`
}

// CharacterResult is either an enriched Character or a DegradedCharacter.
// Callers must branch on Degraded before reading the character.
type CharacterResult struct {
	character *Character
	degraded  *DegradedCharacter
}

// OK wraps a successfully enriched character.
func OK(c Character) CharacterResult {
	return CharacterResult{character: &c}
}

// Degraded wraps a failed enrichment.
func Degraded(d DegradedCharacter) CharacterResult {
	return CharacterResult{degraded: &d}
}

// Character returns the enriched character, or false for a degraded result.
func (r CharacterResult) Character() (*Character, bool) {
	return r.character, r.character != nil
}

// Degraded returns the degraded record, or false for an enriched result.
func (r CharacterResult) Degraded() (*DegradedCharacter, bool) {
	return r.degraded, r.degraded != nil
}

// ID returns the character id for either variant.
func (r CharacterResult) ID() string {
	if r.degraded != nil {
		return r.degraded.ID
	}
	if r.character != nil {
		return r.character.ID
	}
	return ""
}

// Name returns the character name for either variant.
func (r CharacterResult) Name() string {
	if r.degraded != nil {
		return r.degraded.Name
	}
	if r.character != nil {
		return r.character.Name
	}
	return ""
}

var errEmptyResult = errors.New("models: empty character result")

// MarshalJSON encodes whichever variant is set.
func (r CharacterResult) MarshalJSON() ([]byte, error) {
	switch {
	case r.degraded != nil:
		return json.Marshal(r.degraded)
	case r.character != nil:
		return json.Marshal(r.character)
	default:
		return nil, errEmptyResult
	}
}

// UnmarshalJSON picks the variant by the presence of an "error" member.
func (r *CharacterResult) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errEmptyResult
	}
	var probe struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Error != nil {
		var d DegradedCharacter
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		*r = Degraded(d)
		return nil
	}
	var c Character
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	*r = OK(c)
	return nil
}
