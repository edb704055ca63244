// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/holocron/internal/models"
	wire "github.com/tomtom215/holocron/internal/models/swapi"
)

const lukeEnvelope = `{
  "data": [{
    "id": "1",
    "name": "Luke Skywalker",
    "description": "A person within the Star Wars universe",
    "basicInfo": {"gender": "male", "birthYear": "19BBY", "height": "172", "mass": "77",
                  "hairColor": "blond", "skinColor": "fair", "eyeColor": "blue"},
    "relations": {
      "homeworld": {"id": "1", "name": "Tatooine", "climate": "arid"},
      "films": [], "species": [], "vehicles": [], "starships": []
    },
    "meta": {"created": "2025-07-20T20:08:24.106Z", "edited": "2025-07-20T20:08:24.106Z",
             "url": "https://www.swapi.tech/api/people/1"}
  }],
  "pagination": {"totalRecords": 1, "currentPage": 1, "perPage": 12},
  "metadata": {"apiVersion": "1.0", "timestamp": "2025-07-20T20:08:24.106Z"}
}`

const lukeDetail = `{
  "uid": "1",
  "properties": {"name": "Luke Skywalker", "gender": "male", "url": "https://www.swapi.tech/api/people/1",
                 "homeworld": "https://www.swapi.tech/api/planets/1"},
  "enhancedProperties": {"name": "Luke Skywalker", "gender": "male",
                         "url": "https://www.swapi.tech/api/people/1",
                         "homeworld": {"id": "1", "name": "Tatooine"}}
}`

// gateway is a scripted stand-in for the gateway that records what it saw.
type gateway struct {
	*httptest.Server

	mu       sync.Mutex
	uris     []string
	cacheHdr []string
	status   int
	body     string
}

func newGateway(t *testing.T, status int, body string) *gateway {
	t.Helper()
	g := &gateway{status: status, body: body}
	g.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		g.uris = append(g.uris, r.URL.RequestURI())
		g.cacheHdr = append(g.cacheHdr, r.Header.Get("Cache-Control"))
		status, body := g.status, g.body
		g.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(g.Close)
	return g
}

func (g *gateway) hits() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.uris)
}

func newClient(t *testing.T, base string, opts ...Option) *Client {
	t.Helper()
	c := New(base, opts...)
	t.Cleanup(c.Close)
	return c
}

func requireAPIError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v (%T), want *APIError", err, err)
	}
	if apiErr.Status != status || apiErr.Message != message {
		t.Errorf("APIError = {%d %q}, want {%d %q}", apiErr.Status, apiErr.Message, status, message)
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()
	c := newClient(t, "")
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.BaseURL(), DefaultBaseURL)
	}
	if got := newClient(t, "http://api.test/").CharactersURL("", 1); got != "http://api.test/api/characters?page=1&limit=12" {
		t.Errorf("trailing slash not trimmed: %s", got)
	}
}

func TestFetchCharacters_RequestShape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		search string
		page   int
		want   string
	}{
		{"", 1, "/api/characters?page=1&limit=12"},
		{"Luke", 2, "/api/characters?page=2&limit=12&name=Luke"},
		{"Obi-Wan Kenobi", 1, "/api/characters?page=1&limit=12&name=Obi-Wan+Kenobi"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			g := newGateway(t, http.StatusOK, `{"data":[],"pagination":{"totalRecords":0,"currentPage":1,"perPage":12}}`)
			c := newClient(t, g.URL)

			if _, err := c.FetchCharacters(context.Background(), tt.search, tt.page); err != nil {
				t.Fatalf("FetchCharacters: %v", err)
			}
			if g.uris[0] != tt.want {
				t.Errorf("request = %s, want %s", g.uris[0], tt.want)
			}
			if g.cacheHdr[0] != CacheControl {
				t.Errorf("Cache-Control = %q, want %q", g.cacheHdr[0], CacheControl)
			}
		})
	}
}

func TestFetchCharacters_Success(t *testing.T) {
	t.Parallel()
	g := newGateway(t, http.StatusOK, lukeEnvelope)
	got, err := newClient(t, g.URL).FetchCharacters(context.Background(), "", 1)
	if err != nil {
		t.Fatalf("FetchCharacters: %v", err)
	}
	if got.Pagination.TotalRecords != 1 || got.Pagination.PerPage != 12 || len(got.Data) != 1 {
		t.Fatalf("envelope = %+v", got)
	}
	luke, ok := got.Data[0].Character()
	if !ok || luke.Name != "Luke Skywalker" || luke.Relations.Homeworld.Name != "Tatooine" {
		t.Errorf("data[0] = %+v", got.Data[0])
	}
	if got.Metadata == nil || got.Metadata.APIVersion != "1.0" {
		t.Errorf("metadata = %+v", got.Metadata)
	}
}

func TestFetchCharacters_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantStatus  int
		wantMessage string
	}{
		{"http error", 500, `{}`, 500, "Failed to fetch characters: Internal Server Error"},
		{"service unavailable", 503, `{}`, 503, "Failed to fetch characters: Service Unavailable"},
		{"error in body", 200, `{"error":"Failed to fetch characters","details":"Network timeout"}`, 500, "Failed to fetch characters"},
		{"empty error in body", 200, `{"error":""}`, 500, "Failed to fetch characters"},
		{"not json", 200, `<html>`, 500, "Network error occurred while fetching characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := newGateway(t, tt.status, tt.body)
			_, err := newClient(t, g.URL).FetchCharacters(context.Background(), "", 1)
			requireAPIError(t, err, tt.wantStatus, tt.wantMessage)
		})
	}
}

func TestFetchCharacters_TransportFailure(t *testing.T) {
	t.Parallel()
	g := newGateway(t, 200, `{}`)
	base := g.URL
	g.Close()

	_, err := newClient(t, base).FetchCharacters(context.Background(), "", 1)
	requireAPIError(t, err, 500, "Network error occurred while fetching characters")
}

func TestFetchCharacterByID(t *testing.T) {
	t.Parallel()
	g := newGateway(t, http.StatusOK, lukeDetail)
	got, err := newClient(t, g.URL).FetchCharacterByID(context.Background(), "1")
	if err != nil {
		t.Fatalf("FetchCharacterByID: %v", err)
	}
	if g.uris[0] != "/api/characters/1" {
		t.Errorf("request = %s", g.uris[0])
	}
	if got.UID != "1" || got.EnhancedProperties.Homeworld == nil || got.EnhancedProperties.Homeworld.Name != "Tatooine" {
		t.Errorf("detail = %+v", got)
	}
	if got.Properties.Films == nil || got.EnhancedProperties.Starships == nil {
		t.Error("absent arrays should default to empty")
	}
}

func TestFetchCharacterByID_DecodesFullRecord(t *testing.T) {
	t.Parallel()

	films := []string{
		"https://www.swapi.tech/api/films/1",
		"https://www.swapi.tech/api/films/1",
		"https://www.swapi.tech/api/films/2",
	}
	props := wire.PersonProperties{
		Name:      "Luke Skywalker",
		Gender:    "male",
		SkinColor: "fair",
		HairColor: "blond",
		Height:    "172",
		EyeColor:  "blue",
		Mass:      "77",
		BirthYear: "19BBY",
		URL:       "https://www.swapi.tech/api/people/1",
		Created:   "2025-01-01T00:00:00.000Z",
		Edited:    "2025-01-02T00:00:00.000Z",
		Homeworld: "https://www.swapi.tech/api/planets/1",
		Films:     films,
		Species:   []string{},
		Vehicles:  []string{"https://www.swapi.tech/api/vehicles/14"},
		Starships: []string{"https://www.swapi.tech/api/starships/12", "https://www.swapi.tech/api/starships/22"},
	}
	homeworld := &models.Homeworld{ID: "1", PlanetProperties: wire.PlanetProperties{
		Name:           "Tatooine",
		Climate:        "arid",
		Terrain:        "desert",
		Population:     "200000",
		Diameter:       "10465",
		Gravity:        "1 standard",
		OrbitalPeriod:  "304",
		RotationPeriod: "23",
		SurfaceWater:   "1",
		URL:            "https://www.swapi.tech/api/planets/1",
		Created:        "2025-01-01T00:00:00.000Z",
		Edited:         "2025-01-02T00:00:00.000Z",
	}}
	version := 2
	want := models.CharacterDetailResponse{
		UID:                "1",
		Properties:         props,
		EnhancedProperties: models.Enhance(&props, homeworld),
		Description:        "A person within the Star Wars universe",
		ID:                 "5f63a36eee9fd7000499be42",
		V:                  &version,
	}
	body, err := json.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}

	g := newGateway(t, http.StatusOK, string(body))
	got, err := newClient(t, g.URL).FetchCharacterByID(context.Background(), "1")
	if err != nil {
		t.Fatalf("FetchCharacterByID: %v", err)
	}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("decoded detail differs from the served record\n got: %+v\nwant: %+v", *got, want)
	}
}

func TestFetchCharacterByID_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantStatus  int
		wantMessage string
	}{
		{"not found", 404, `{"error":"Character not found"}`, 404, "Character not found"},
		{"server error", 500, `{}`, 500, "Failed to fetch character: Internal Server Error"},
		{"bad gateway", 502, `{}`, 502, "Failed to fetch character: Bad Gateway"},
		{"missing uid", 200, `{"properties":{"name":"Luke","url":"u"},"enhancedProperties":{"name":"Luke","url":"u"}}`, 500, msgNetworkCharacter},
		{"missing name", 200, `{"uid":"1","properties":{"url":"u"},"enhancedProperties":{"name":"Luke","url":"u"}}`, 500, msgNetworkCharacter},
		{"not json", 200, `nope`, 500, msgNetworkCharacter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := newGateway(t, tt.status, tt.body)
			_, err := newClient(t, g.URL).FetchCharacterByID(context.Background(), "999")
			requireAPIError(t, err, tt.wantStatus, tt.wantMessage)
		})
	}
}

func TestClient_CachesSuccessfulResponses(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	g := newGateway(t, http.StatusOK, lukeEnvelope)
	c := newClient(t, g.URL)
	for i := 0; i < 3; i++ {
		if _, err := c.FetchCharacters(ctx, "luke", 1); err != nil {
			t.Fatal(err)
		}
	}
	if g.hits() != 1 {
		t.Errorf("gateway hits = %d, want 1", g.hits())
	}
	if _, err := c.FetchCharacters(ctx, "luke", 2); err != nil {
		t.Fatal(err)
	}
	if g.hits() != 2 {
		t.Errorf("a different page must not be served from cache: hits = %d", g.hits())
	}
	if stats, rate := c.CacheStats(); stats.Hits != 2 || stats.Misses != 2 || rate != 50 {
		t.Errorf("cache stats = %+v (rate %v), want 2 hits 2 misses", stats, rate)
	}

	uncached := newGateway(t, http.StatusOK, lukeEnvelope)
	nc := newClient(t, uncached.URL, WithCacheTTL(0))
	for i := 0; i < 2; i++ {
		if _, err := nc.FetchCharacters(ctx, "", 1); err != nil {
			t.Fatal(err)
		}
	}
	if uncached.hits() != 2 {
		t.Errorf("with caching disabled hits = %d, want 2", uncached.hits())
	}
	if stats, rate := nc.CacheStats(); stats.Hits != 0 || rate != 0 {
		t.Errorf("disabled cache stats = %+v (rate %v)", stats, rate)
	}
}

func TestClient_DoesNotCacheFailures(t *testing.T) {
	t.Parallel()
	g := newGateway(t, http.StatusInternalServerError, `{}`)
	c := newClient(t, g.URL)
	for i := 0; i < 2; i++ {
		_, _ = c.FetchCharacters(context.Background(), "", 1)
	}
	if g.hits() != 2 {
		t.Errorf("gateway hits = %d, want 2", g.hits())
	}
}
