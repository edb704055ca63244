// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

/*
Package client is the typed data-access layer the web frontend uses to call
the gateway.

Two calls are exposed:
  - FetchCharacters: one page of the character envelope, optionally searched
  - FetchCharacterByID: the detail record with its resolved homeworld

Every failure surfaces as an *APIError carrying an HTTP-like status and a
message fit for display. Transport and decode failures are folded into a 500
with a fixed "Network error" message so callers never have to inspect
transport errors.

Requests carry "Cache-Control: max-age=300". The default transport is a
CachingTransport that keeps successful GET responses fresh for that window,
so repeated renders of the same page do not reach the gateway.
*/
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/holocron/internal/cache"
	"github.com/tomtom215/holocron/internal/logging"
	"github.com/tomtom215/holocron/internal/models"
	"github.com/tomtom215/holocron/internal/validation"
)

const (
	// DefaultBaseURL is the gateway address used when none is configured.
	DefaultBaseURL = "http://localhost:5000"

	// PageSize is the number of characters requested per page.
	PageSize = 12

	// CacheControl is sent on every request.
	CacheControl = "max-age=300"

	// DefaultCacheTTL matches the max-age the client asks for.
	DefaultCacheTTL = 5 * time.Minute

	defaultTimeout = 15 * time.Second
)

const (
	msgNetworkCharacters = "Network error occurred while fetching characters"
	msgNetworkCharacter  = "Network error occurred while fetching character details"
	msgNotFound          = "Character not found"
	msgFetchCharacters   = "Failed to fetch characters"
)

// APIError is the only error type returned by Client methods.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client calls the gateway over HTTP. It is safe for concurrent use.
type Client struct {
	baseURL  string
	http     *http.Client
	cache    *cache.Cache[*cachedResponse]
	cacheTTL time.Duration
	timeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client, and with it the caching transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithCacheTTL sets the freshness window of the default transport. Zero
// disables response caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// WithTimeout bounds each request made by the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a client for the gateway at baseURL (DefaultBaseURL when empty).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		cacheTTL: DefaultCacheTTL,
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		var transport http.RoundTripper = http.DefaultTransport
		if c.cacheTTL > 0 {
			c.cache = cache.New[*cachedResponse](c.cacheTTL)
			transport = NewCachingTransport(transport, c.cache)
		}
		c.http = &http.Client{Timeout: c.timeout, Transport: transport}
	}
	return c
}

// BaseURL returns the gateway base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close stops the response cache, if any.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// CacheStats reports the response cache counters and hit rate. Both are
// zero when caching is disabled.
func (c *Client) CacheStats() (cache.Stats, float64) {
	if c.cache == nil {
		return cache.Stats{}, 0
	}
	return c.cache.GetStats(), c.cache.HitRate()
}

// CharactersURL builds the list URL. The query keys are written in the
// order page, limit, name.
func (c *Client) CharactersURL(search string, page int) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString("/api/characters?page=")
	b.WriteString(strconv.Itoa(page))
	b.WriteString("&limit=")
	b.WriteString(strconv.Itoa(PageSize))
	if search != "" {
		b.WriteString("&name=")
		b.WriteString(url.QueryEscape(search))
	}
	return b.String()
}

// FetchCharacters returns one page of characters, filtered by search when it
// is non-empty.
func (c *Client) FetchCharacters(ctx context.Context, search string, page int) (*models.CharactersResponse, error) {
	resp, err := c.get(ctx, c.CharactersURL(search, page))
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Characters request failed")
		return nil, &APIError{Status: http.StatusInternalServerError, Message: msgNetworkCharacters}
	}
	defer closeBody(resp)

	if !isSuccess(resp.StatusCode) {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("%s: %s", msgFetchCharacters, statusText(resp)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Status: http.StatusInternalServerError, Message: msgNetworkCharacters}
	}

	var failure struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(body, &failure); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Characters response is not JSON")
		return nil, &APIError{Status: http.StatusInternalServerError, Message: msgNetworkCharacters}
	}
	if failure.Error != nil {
		message := *failure.Error
		if message == "" {
			message = msgFetchCharacters
		}
		return nil, &APIError{Status: http.StatusInternalServerError, Message: message}
	}

	var envelope models.CharactersResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Characters response did not decode")
		return nil, &APIError{Status: http.StatusInternalServerError, Message: msgNetworkCharacters}
	}
	if envelope.Data == nil {
		envelope.Data = []models.CharacterResult{}
	}
	return &envelope, nil
}

// FetchCharacterByID returns the detail record of one character. The body is
// validated strictly; a record missing required fields is reported like a
// transport failure.
func (c *Client) FetchCharacterByID(ctx context.Context, id string) (*models.CharacterDetailResponse, error) {
	resp, err := c.get(ctx, c.baseURL+"/api/characters/"+url.PathEscape(id))
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("id", id).Msg("Character request failed")
		return nil, &APIError{Status: http.StatusInternalServerError, Message: msgNetworkCharacter}
	}
	defer closeBody(resp)

	if !isSuccess(resp.StatusCode) {
		if resp.StatusCode == http.StatusNotFound {
			return nil, &APIError{Status: http.StatusNotFound, Message: msgNotFound}
		}
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: "Failed to fetch character: " + statusText(resp),
		}
	}

	var detail models.CharacterDetailResponse
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("id", id).Msg("Character response did not decode")
		return nil, &APIError{Status: http.StatusInternalServerError, Message: msgNetworkCharacter}
	}
	if verr := validation.ValidateStruct(&detail); verr != nil {
		logging.Ctx(ctx).Warn().Str("id", id).Str("validation", verr.Error()).Msg("Character response failed validation")
		return nil, &APIError{Status: http.StatusInternalServerError, Message: msgNetworkCharacter}
	}
	detail.Properties.Normalize()
	normalizeEnhanced(&detail.EnhancedProperties)
	return &detail, nil
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", CacheControl)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	return c.http.Do(req)
}

func normalizeEnhanced(p *models.EnhancedProperties) {
	for _, s := range []*[]string{&p.Films, &p.Species, &p.Vehicles, &p.Starships} {
		if *s == nil {
			*s = []string{}
		}
	}
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// statusText returns the reason phrase the server sent, falling back to the
// canonical one.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
	_ = resp.Body.Close()
}
