// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

// Package web is the server-rendered character explorer. It renders one
// page per request from the gateway's character envelope: a hero, a search
// form, a grid of cards and a pager.
//
// The page is streamed. Everything above the results, including a loading
// skeleton, is flushed before the gateway is called; the stylesheet hides the
// skeleton once the results arrive after it.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/holocron/internal/logging"
	"github.com/tomtom215/holocron/internal/middleware"
	"github.com/tomtom215/holocron/internal/models"
)

//go:embed templates/*.html static/*
var assets embed.FS

// CharacterFetcher is the part of the gateway client the pages need.
type CharacterFetcher interface {
	FetchCharacters(ctx context.Context, search string, page int) (*models.CharactersResponse, error)
}

// Server renders the explorer pages.
type Server struct {
	fetcher   CharacterFetcher
	templates *template.Template
	static    http.Handler
}

// NewServer parses the embedded templates.
func NewServer(fetcher CharacterFetcher) (*Server, error) {
	tmpl, err := template.New("web").ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	staticFS, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	return &Server{
		fetcher:   fetcher,
		templates: tmpl,
		static:    http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))),
	}, nil
}

// Routes builds the chi route tree of the frontend.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestIDWithLogging)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(middleware.DefaultSlowRequestThreshold))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5, "text/html", "text/css"))
	r.Use(securityHeaders)
	r.Use(middleware.PrometheusMetrics)

	r.Get("/", s.Index)
	r.Get("/search", s.Search)
	r.Get("/skeleton", s.Skeleton)
	r.Get("/static/*", s.Static)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// Index serves GET /?search=&page=.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	search := query.Get("search")
	page := parsePage(query.Get("page"))

	view := &Page{
		Search:   search,
		ClearURL: SearchURL(query, ""),
		Skeleton: make([]struct{}, SkeletonCards),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if !s.execute(w, r, "page_open", view) {
		return
	}
	_ = http.NewResponseController(w).Flush()

	resp, err := s.fetcher.FetchCharacters(r.Context(), search, page)
	switch {
	case err != nil:
		logging.Ctx(r.Context()).Warn().Err(err).Int("page", page).Msg("Character page failed")
		view.Error = NewErrorPanel(err, r.URL.RequestURI())
	case len(resp.Data) == 0:
		view.Empty = NewEmptyState(search)
	default:
		view.Cards = make([]Card, len(resp.Data))
		for i, result := range resp.Data {
			view.Cards[i] = NewCard(result)
		}
		// totalRecords feeds the page count, as the gateway envelope has no
		// page total of its own.
		view.Pager = NewPager(resp.Pagination.CurrentPage, resp.Pagination.TotalRecords, query, search)
	}

	if !s.execute(w, r, "results", view) {
		return
	}
	s.execute(w, r, "page_close", view)
}

// Search serves the search form: it redirects to the first page of the
// submitted search, or to the unfiltered list when the field is empty.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	search := strings.TrimSpace(query.Get("search"))
	http.Redirect(w, r, SearchURL(query, search), http.StatusSeeOther)
}

// Skeleton serves the loading placeholder on its own.
func (s *Server) Skeleton(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	s.execute(w, r, "skeleton", &Page{Skeleton: make([]struct{}, SkeletonCards)})
}

// Static serves the embedded stylesheet.
func (s *Server) Static(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	s.static.ServeHTTP(w, r)
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, name string, view *Page) bool {
	if err := s.templates.ExecuteTemplate(w, name, view); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("Failed to render template")
		return false
	}
	return true
}

// parsePage treats a missing, unparsable or non-positive page as 1.
func parsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// securityHeaders sets the browser hardening headers of every page.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; style-src 'self'; img-src 'self' data:; base-uri 'none'; form-action 'self'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}
