// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

package client

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/holocron/internal/cache"
	"github.com/tomtom215/holocron/internal/metrics"
)

// cachedResponse is a fully read 200 response.
type cachedResponse struct {
	status     string
	statusCode int
	header     http.Header
	body       []byte
}

func (c *cachedResponse) response(req *http.Request) *http.Response {
	return &http.Response{
		Status:        c.status,
		StatusCode:    c.statusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        c.header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(c.body)),
		ContentLength: int64(len(c.body)),
		Request:       req,
	}
}

// CachingTransport keeps successful GET responses for the freshness window
// the request asks for with Cache-Control max-age, capped at the cache TTL.
// Requests without max-age use the cache TTL; no-cache, no-store and
// max-age=0 bypass the cache and evict the stored copy of that URL.
type CachingTransport struct {
	next  http.RoundTripper
	cache *cache.Cache[*cachedResponse]
}

// NewCachingTransport wraps next (http.DefaultTransport when nil).
func NewCachingTransport(next http.RoundTripper, c *cache.Cache[*cachedResponse]) *CachingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &CachingTransport{next: next, cache: c}
}

// RoundTrip implements http.RoundTripper.
func (t *CachingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	key := cache.GenerateKey(req.Method, req.URL.String())
	ttl, ok := t.freshness(req)
	if !ok {
		if req.Method == http.MethodGet && t.cache != nil {
			t.cache.Delete(key)
		}
		metrics.RecordHTTPCache("bypass")
		return t.next.RoundTrip(req)
	}

	if hit, found := t.cache.Get(key); found {
		metrics.RecordHTTPCache("hit")
		return hit.response(req), nil
	}
	metrics.RecordHTTPCache("miss")

	resp, err := t.next.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusOK || hasDirective(resp.Header, "no-store") {
		return resp, err
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}
	entry := &cachedResponse{
		status:     resp.Status,
		statusCode: resp.StatusCode,
		header:     resp.Header.Clone(),
		body:       body,
	}
	t.cache.SetWithTTL(key, entry, ttl)
	return entry.response(req), nil
}

func (t *CachingTransport) freshness(req *http.Request) (time.Duration, bool) {
	if req.Method != http.MethodGet || t.cache == nil {
		return 0, false
	}
	if hasDirective(req.Header, "no-cache") || hasDirective(req.Header, "no-store") {
		return 0, false
	}
	ttl := t.cache.TTL()
	if maxAge, ok := maxAge(req.Header); ok {
		if maxAge <= 0 {
			return 0, false
		}
		if maxAge < ttl {
			ttl = maxAge
		}
	}
	return ttl, true
}

func hasDirective(h http.Header, directive string) bool {
	for _, d := range directives(h) {
		if strings.EqualFold(d, directive) {
			return true
		}
	}
	return false
}

func maxAge(h http.Header) (time.Duration, bool) {
	for _, d := range directives(h) {
		name, value, found := strings.Cut(d, "=")
		if !found || !strings.EqualFold(strings.TrimSpace(name), "max-age") {
			continue
		}
		seconds, err := strconv.Atoi(strings.Trim(strings.TrimSpace(value), `"`))
		if err != nil {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	return 0, false
}

func directives(h http.Header) []string {
	var out []string
	for _, line := range h.Values("Cache-Control") {
		for _, d := range strings.Split(line, ",") {
			if d = strings.TrimSpace(d); d != "" {
				out = append(out, d)
			}
		}
	}
	return out
}
