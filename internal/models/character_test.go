// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/holocron/internal/models/swapi"
)

func luke() Character {
	return Character{
		ID:          "1",
		Name:        "Luke Skywalker",
		Description: "A person within the Star Wars universe",
		BasicInfo: BasicInfo{
			Gender: "male", BirthYear: "19BBY", Height: "172", Mass: "77",
			HairColor: "blond", SkinColor: "fair", EyeColor: "blue",
		},
		Relations: Relations{
			Homeworld: &Homeworld{ID: "1", PlanetProperties: swapi.PlanetProperties{Name: "Tatooine"}},
			Films:     []Film{},
			Species:   []Species{},
			Vehicles:  []Vehicle{},
			Starships: []Starship{{ID: "12", StarshipProperties: swapi.StarshipProperties{Name: "X-wing", MGLT: "100"}}},
		},
		Meta: Meta{URL: "https://www.swapi.tech/api/people/1"},
	}
}

func TestCharacterResult_Variants(t *testing.T) {
	t.Parallel()

	ok := OK(luke())
	if c, isChar := ok.Character(); !isChar || c.Name != "Luke Skywalker" {
		t.Errorf("OK().Character() = %v, %v", c, isChar)
	}
	if _, isDegraded := ok.Degraded(); isDegraded {
		t.Error("OK result must not report degraded")
	}

	bad := Degraded(DegradedCharacter{ID: "2", Name: "C-3PO", Error: "upstream timeout"})
	if d, isDegraded := bad.Degraded(); !isDegraded || d.Error != "upstream timeout" {
		t.Errorf("Degraded().Degraded() = %v, %v", d, isDegraded)
	}
	if _, isChar := bad.Character(); isChar {
		t.Error("degraded result must not expose a character")
	}
	if bad.ID() != "2" || bad.Name() != "C-3PO" {
		t.Errorf("ID/Name = %s/%s, want 2/C-3PO", bad.ID(), bad.Name())
	}
}

func TestCharacterResult_MarshalShapes(t *testing.T) {
	t.Parallel()

	okJSON, err := json.Marshal(OK(luke()))
	if err != nil {
		t.Fatalf("marshal ok: %v", err)
	}
	for _, want := range []string{`"id":"1"`, `"basicInfo":{"gender":"male"`, `"homeworld":{"id":"1","name":"Tatooine"`, `"MGLT":"100"`, `"films":[]`} {
		if !strings.Contains(string(okJSON), want) {
			t.Errorf("ok JSON %s missing %s", okJSON, want)
		}
	}
	if strings.Contains(string(okJSON), `"error"`) {
		t.Errorf("ok JSON must not contain an error member: %s", okJSON)
	}

	degradedJSON, err := json.Marshal(Degraded(DegradedCharacter{ID: "2", Name: "C-3PO", Error: "boom"}))
	if err != nil {
		t.Fatalf("marshal degraded: %v", err)
	}
	want := `{"id":"2","name":"C-3PO","error":"boom","basicInfo":null}`
	if string(degradedJSON) != want {
		t.Errorf("degraded JSON = %s, want %s", degradedJSON, want)
	}

	if _, err := json.Marshal(CharacterResult{}); err == nil {
		t.Error("marshalling an empty result should fail")
	}
}

func TestCharacterResult_UnmarshalPicksVariant(t *testing.T) {
	t.Parallel()

	body := `[
		{"id":"1","name":"Luke Skywalker","basicInfo":{"gender":"male"},"relations":{"homeworld":null,"films":[],"species":[],"vehicles":[],"starships":[]},"meta":{"created":"","edited":"","url":""}},
		{"id":"2","name":"C-3PO","error":"Failed to enrich character","basicInfo":{"gender":"n/a"}}
	]`
	var results []CharacterResult
	if err := json.Unmarshal([]byte(body), &results); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}
	if c, ok := results[0].Character(); !ok || c.Relations.Homeworld != nil {
		t.Errorf("first result should be an enriched character with null homeworld, got %+v", results[0])
	}
	d, ok := results[1].Degraded()
	if !ok {
		t.Fatal("second result should be degraded")
	}
	if d.BasicInfo == nil || d.BasicInfo.Gender != "n/a" {
		t.Errorf("degraded basicInfo = %+v", d.BasicInfo)
	}
}

func TestEnhance(t *testing.T) {
	t.Parallel()

	props := &swapi.PersonProperties{
		Name:      "Leia Organa",
		URL:       "https://www.swapi.tech/api/people/5",
		Homeworld: "https://www.swapi.tech/api/planets/2",
		Films:     []string{"https://www.swapi.tech/api/films/1"},
	}
	hw := &Homeworld{ID: "2", PlanetProperties: swapi.PlanetProperties{Name: "Alderaan"}}

	got := Enhance(props, hw)
	if got.Homeworld == nil || got.Homeworld.Name != "Alderaan" {
		t.Errorf("Homeworld = %+v, want Alderaan", got.Homeworld)
	}
	if len(got.Films) != 1 {
		t.Errorf("Films = %v, want one URL", got.Films)
	}
	if got.Species == nil || got.Vehicles == nil || got.Starships == nil {
		t.Error("absent relation lists must become empty slices")
	}
}
