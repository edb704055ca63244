// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

/*
Package swapi is the gateway's client for the upstream people-and-related-
resources API.

HTTPClient performs the requests; CircuitBreakerClient wraps any Client in a
sony/gobreaker circuit breaker. New picks one or the other from
configuration. Every request is bound to the caller's context so an aborted
inbound request cancels its outbound calls.

Errors:
  - ErrNotFound matches any 404 from upstream (via StatusError.Is)
  - ErrCircuitOpen is returned while the breaker rejects calls
  - *StatusError carries the status code and a bounded slice of the body
*/
package swapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/holocron/internal/config"
	"github.com/tomtom215/holocron/internal/metrics"
	wire "github.com/tomtom215/holocron/internal/models/swapi"
)

var (
	// ErrNotFound is matched by a StatusError carrying 404.
	ErrNotFound = errors.New("upstream resource not found")

	// ErrCircuitOpen is returned while the circuit breaker rejects calls.
	ErrCircuitOpen = errors.New("upstream circuit breaker is open")
)

// StatusError is a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream request %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Is reports 404 responses as ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client is the set of upstream calls the gateway makes. Fetch* methods
// dereference a URL taken from an upstream record.
type Client interface {
	ListPeople(ctx context.Context, page, limit int) (*wire.ListResponse, error)
	SearchPeople(ctx context.Context, name string, page, limit int) (*wire.SearchResponse, error)
	GetPerson(ctx context.Context, id string) (*wire.Resource[wire.PersonProperties], error)

	FetchPerson(ctx context.Context, rawURL string) (*wire.Resource[wire.PersonProperties], error)
	FetchPlanet(ctx context.Context, rawURL string) (*wire.Resource[wire.PlanetProperties], error)
	FetchFilm(ctx context.Context, rawURL string) (*wire.Resource[wire.FilmProperties], error)
	FetchSpecies(ctx context.Context, rawURL string) (*wire.Resource[wire.SpeciesProperties], error)
	FetchVehicle(ctx context.Context, rawURL string) (*wire.Resource[wire.VehicleProperties], error)
	FetchStarship(ctx context.Context, rawURL string) (*wire.Resource[wire.StarshipProperties], error)

	// FetchRaw returns the upstream body unparsed.
	FetchRaw(ctx context.Context, rawURL string) (json.RawMessage, error)

	// CircuitState reports "closed", "half-open", "open" or "disabled".
	CircuitState() string
}

// New returns an HTTPClient, wrapped in a circuit breaker when enabled.
func New(cfg *config.UpstreamConfig) Client {
	c := NewHTTPClient(cfg)
	if !cfg.CircuitBreaker {
		return c
	}
	return NewCircuitBreakerClient(c)
}

const maxErrorBodySize = 64 * 1024

// readBodyForError reads at most maxErrorBodySize bytes for an error message.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// HTTPClient talks to the upstream API over net/http.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient builds a client for cfg.BaseURL with cfg.Timeout per request.
func NewHTTPClient(cfg *config.UpstreamConfig) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// BaseURL returns the API root the client was built with.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) ListPeople(ctx context.Context, page, limit int) (*wire.ListResponse, error) {
	reqURL := fmt.Sprintf("%s/people?page=%d&limit=%d", c.baseURL, page, limit)
	var out wire.ListResponse
	if err := c.getJSON(ctx, reqURL, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SearchPeople(ctx context.Context, name string, page, limit int) (*wire.SearchResponse, error) {
	reqURL := fmt.Sprintf("%s/people/?name=%s&page=%d&limit=%d", c.baseURL, url.QueryEscape(name), page, limit)
	var out wire.SearchResponse
	if err := c.getJSON(ctx, reqURL, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetPerson(ctx context.Context, id string) (*wire.Resource[wire.PersonProperties], error) {
	return fetchResource[wire.PersonProperties](ctx, c, c.baseURL+"/people/"+url.PathEscape(id))
}

func (c *HTTPClient) FetchPerson(ctx context.Context, rawURL string) (*wire.Resource[wire.PersonProperties], error) {
	return fetchResource[wire.PersonProperties](ctx, c, rawURL)
}

func (c *HTTPClient) FetchPlanet(ctx context.Context, rawURL string) (*wire.Resource[wire.PlanetProperties], error) {
	return fetchResource[wire.PlanetProperties](ctx, c, rawURL)
}

func (c *HTTPClient) FetchFilm(ctx context.Context, rawURL string) (*wire.Resource[wire.FilmProperties], error) {
	return fetchResource[wire.FilmProperties](ctx, c, rawURL)
}

func (c *HTTPClient) FetchSpecies(ctx context.Context, rawURL string) (*wire.Resource[wire.SpeciesProperties], error) {
	return fetchResource[wire.SpeciesProperties](ctx, c, rawURL)
}

func (c *HTTPClient) FetchVehicle(ctx context.Context, rawURL string) (*wire.Resource[wire.VehicleProperties], error) {
	return fetchResource[wire.VehicleProperties](ctx, c, rawURL)
}

func (c *HTTPClient) FetchStarship(ctx context.Context, rawURL string) (*wire.Resource[wire.StarshipProperties], error) {
	return fetchResource[wire.StarshipProperties](ctx, c, rawURL)
}

func (c *HTTPClient) FetchRaw(ctx context.Context, rawURL string) (json.RawMessage, error) {
	resp, err := c.do(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("upstream response from %s is not valid JSON", rawURL)
	}
	return json.RawMessage(body), nil
}

// CircuitState is always "disabled" for the bare client.
func (c *HTTPClient) CircuitState() string {
	return "disabled"
}

func fetchResource[P any](ctx context.Context, c *HTTPClient, rawURL string) (*wire.Resource[P], error) {
	var out wire.Resource[P]
	if err := c.getJSON(ctx, rawURL, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, reqURL string, result interface{}) error {
	resp, err := c.do(ctx, reqURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode upstream response from %s: %w", reqURL, err)
	}
	return nil
}

// do issues a GET and returns the response only for 2xx statuses. Metrics are
// recorded here so both the bare and breaker-wrapped clients report them.
func (c *HTTPClient) do(ctx context.Context, reqURL string) (*http.Response, error) {
	resource := resourceKind(reqURL)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		metrics.RecordUpstreamRequest(resource, "error", time.Since(start))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		outcome := "error"
		if ctx.Err() != nil {
			outcome = "canceled"
		}
		metrics.RecordUpstreamRequest(resource, outcome, time.Since(start))
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := readBodyForError(resp.Body)
		_ = resp.Body.Close()
		outcome := "error"
		if resp.StatusCode == http.StatusNotFound {
			outcome = "not_found"
		}
		metrics.RecordUpstreamRequest(resource, outcome, time.Since(start))
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: reqURL, Body: string(body)}
	}

	metrics.RecordUpstreamRequest(resource, "success", time.Since(start))
	return resp, nil
}

var knownResources = map[string]bool{
	"people": true, "planets": true, "films": true,
	"species": true, "vehicles": true, "starships": true,
}

// resourceKind maps a request URL to a bounded metric label.
func resourceKind(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "resource"
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if _, err := strconv.Atoi(seg); err == nil || seg == "" {
			continue
		}
		if knownResources[seg] {
			return seg
		}
		break
	}
	return "resource"
}
