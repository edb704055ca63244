// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

package swapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/holocron/internal/config"
)

// recordingServer serves canned bodies by request URI and records every URI.
type recordingServer struct {
	*httptest.Server
	mu     sync.Mutex
	uris   []string
	bodies map[string]string
	status map[string]int
}

func newRecordingServer(t *testing.T) *recordingServer {
	t.Helper()
	rs := &recordingServer{bodies: map[string]string{}, status: map[string]int{}}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		rs.uris = append(rs.uris, r.URL.RequestURI())
		body, ok := rs.bodies[r.URL.RequestURI()]
		code := rs.status[r.URL.RequestURI()]
		rs.mu.Unlock()

		if !ok {
			http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
			return
		}
		if code == 0 {
			code = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) handle(uri string, code int, body string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.bodies[uri] = body
	rs.status[uri] = code
}

func (rs *recordingServer) requested() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]string(nil), rs.uris...)
}

func testClient(rs *recordingServer) *HTTPClient {
	return NewHTTPClient(&config.UpstreamConfig{BaseURL: rs.URL + "/api/", Timeout: 5 * time.Second})
}

func TestHTTPClient_ListPeople(t *testing.T) {
	t.Parallel()
	rs := newRecordingServer(t)
	rs.handle("/api/people?page=2&limit=3", 200, `{
		"message":"ok","total_records":82,"total_pages":28,"previous":null,"next":null,
		"results":[{"uid":"4","name":"Darth Vader","url":"https://www.swapi.tech/api/people/4"}]}`)

	got, err := testClient(rs).ListPeople(context.Background(), 2, 3)
	if err != nil {
		t.Fatalf("ListPeople() error = %v", err)
	}
	if got.TotalRecords != 82 || len(got.Results) != 1 || got.Results[0].Name != "Darth Vader" {
		t.Errorf("ListPeople() = %+v", got)
	}
}

func TestHTTPClient_SearchPeopleEscapesName(t *testing.T) {
	t.Parallel()
	rs := newRecordingServer(t)
	rs.handle("/api/people/?name=obi+wan&page=1&limit=10", 200, `{
		"message":"ok","result":[{"uid":"10","_id":"x","description":"A person","__v":0,
		"properties":{"name":"Obi-Wan Kenobi","url":"https://www.swapi.tech/api/people/10","films":[]}}]}`)

	got, err := testClient(rs).SearchPeople(context.Background(), "obi wan", 1, 10)
	if err != nil {
		t.Fatalf("SearchPeople() error = %v", err)
	}
	if len(got.Result) != 1 || got.Result[0].Properties == nil || got.Result[0].Properties.Name != "Obi-Wan Kenobi" {
		t.Errorf("SearchPeople() = %+v", got)
	}
}

func TestHTTPClient_StatusErrors(t *testing.T) {
	t.Parallel()
	rs := newRecordingServer(t)
	rs.handle("/api/people/500", 502, `bad gateway`)
	c := testClient(rs)

	_, err := c.GetPerson(context.Background(), "999")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPerson(999) error = %v, want ErrNotFound", err)
	}

	_, err = c.GetPerson(context.Background(), "500")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("GetPerson(500) error = %v, want *StatusError", err)
	}
	if se.StatusCode != 502 || se.Body != "bad gateway" {
		t.Errorf("StatusError = %+v", se)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("502 must not match ErrNotFound")
	}
}

func TestHTTPClient_FetchRaw(t *testing.T) {
	t.Parallel()
	rs := newRecordingServer(t)
	rs.handle("/api/planets/1", 200, `{"message":"ok","result":{"uid":"1","properties":{"name":"Tatooine"}}}`)
	rs.handle("/api/planets/2", 200, `<html>`)
	c := testClient(rs)

	raw, err := c.FetchRaw(context.Background(), rs.URL+"/api/planets/1")
	if err != nil {
		t.Fatalf("FetchRaw() error = %v", err)
	}
	if !strings.Contains(string(raw), `"Tatooine"`) {
		t.Errorf("FetchRaw() = %s", raw)
	}

	if _, err := c.FetchRaw(context.Background(), rs.URL+"/api/planets/2"); err == nil {
		t.Error("FetchRaw() should reject a non-JSON body")
	}
}

func TestHTTPClient_ContextCancellation(t *testing.T) {
	t.Parallel()
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(block) })

	c := NewHTTPClient(&config.UpstreamConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.FetchPlanet(ctx, srv.URL+"/planets/1")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("FetchPlanet() error = %v, want context.Canceled", err)
	}
}

func TestResourceKind(t *testing.T) {
	t.Parallel()
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.swapi.tech/api/people/1", "people"},
		{"https://www.swapi.tech/api/people?page=1&limit=10", "people"},
		{"https://www.swapi.tech/api/people/?name=luke", "people"},
		{"https://www.swapi.tech/api/starships/12/", "starships"},
		{"https://www.swapi.tech/api/species/3", "species"},
		{"https://example.com/whatever/7", "resource"},
		{"::", "resource"},
	}
	for _, tt := range tests {
		if got := resourceKind(tt.url); got != tt.want {
			t.Errorf("resourceKind(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestNew_CircuitBreakerToggle(t *testing.T) {
	t.Parallel()
	if _, ok := New(&config.UpstreamConfig{BaseURL: "http://x", CircuitBreaker: true}).(*CircuitBreakerClient); !ok {
		t.Error("New() with breaker enabled should return *CircuitBreakerClient")
	}
	c := New(&config.UpstreamConfig{BaseURL: "http://x"})
	if _, ok := c.(*HTTPClient); !ok {
		t.Error("New() with breaker disabled should return *HTTPClient")
	}
	if c.CircuitState() != "disabled" {
		t.Errorf("CircuitState() = %q, want disabled", c.CircuitState())
	}
}
