// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

// Package enrich turns upstream person stubs into fully resolved characters.
//
// A page is enriched with one goroutine per character. Inside a character
// the homeworld and every film, species, vehicle and starship are fetched
// concurrently and joined with an errgroup: the first failure cancels the
// remaining fetches of that character and the character degrades. Other
// characters of the page are not affected.
//
// Upstream calls of one page share a weighted semaphore when a concurrency
// limit is configured. Only the leaf fetches hold a slot, so nested fan-out
// cannot starve itself.
package enrich

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/tomtom215/holocron/internal/logging"
	"github.com/tomtom215/holocron/internal/metrics"
	"github.com/tomtom215/holocron/internal/models"
	wire "github.com/tomtom215/holocron/internal/models/swapi"
	"github.com/tomtom215/holocron/internal/swapi"
)

// DegradedMessage is the error text carried by a degraded character.
const DegradedMessage = "Failed to load character details"

// Enricher resolves character relations against the upstream API.
type Enricher struct {
	client         swapi.Client
	maxConcurrency int
}

// New returns an Enricher. maxConcurrency <= 0 means unbounded.
func New(client swapi.Client, maxConcurrency int) *Enricher {
	return &Enricher{client: client, maxConcurrency: maxConcurrency}
}

// limiter bounds the upstream calls of one inbound request.
type limiter struct {
	sem *semaphore.Weighted
}

func (e *Enricher) newLimiter() *limiter {
	if e.maxConcurrency <= 0 {
		return &limiter{}
	}
	return &limiter{sem: semaphore.NewWeighted(int64(e.maxConcurrency))}
}

func (l *limiter) acquire(ctx context.Context) error {
	if l.sem == nil {
		return nil
	}
	return l.sem.Acquire(ctx, 1)
}

func (l *limiter) release() {
	if l.sem != nil {
		l.sem.Release(1)
	}
}

// guarded runs fetch while holding one limiter slot.
func guarded[T any](ctx context.Context, l *limiter, fetch func(context.Context) (T, error)) (T, error) {
	if err := l.acquire(ctx); err != nil {
		var zero T
		return zero, err
	}
	defer l.release()
	return fetch(ctx)
}

// EnrichPage enriches every stub concurrently. The result has the same
// length and order as stubs.
func (e *Enricher) EnrichPage(ctx context.Context, stubs []wire.Stub) []models.CharacterResult {
	results := make([]models.CharacterResult, len(stubs))
	if len(stubs) == 0 {
		return results
	}

	l := e.newLimiter()
	var g errgroup.Group
	for i, stub := range stubs {
		g.Go(func() error {
			results[i] = e.enrich(ctx, l, stub)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// EnrichCharacter enriches a single stub.
func (e *Enricher) EnrichCharacter(ctx context.Context, stub wire.Stub) models.CharacterResult {
	return e.enrich(ctx, e.newLimiter(), stub)
}

func (e *Enricher) enrich(ctx context.Context, l *limiter, stub wire.Stub) models.CharacterResult {
	start := time.Now()

	character, props, err := e.resolve(ctx, l, stub)
	if err != nil {
		metrics.RecordEnrichment(true, time.Since(start))
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("character_id", stub.UID).
			Str("character_url", stub.URL).
			Msg("Character enrichment failed, returning degraded record")

		d := models.DegradedCharacter{ID: stub.UID, Name: stub.Name, Error: DegradedMessage}
		if props != nil {
			info := models.BasicInfoFrom(props)
			d.BasicInfo = &info
			if d.Name == "" {
				d.Name = props.Name
			}
		}
		return models.Degraded(d)
	}

	metrics.RecordEnrichment(false, time.Since(start))
	return models.OK(character)
}

// resolve returns the enriched character, or an error together with
// whatever properties were known when it failed.
func (e *Enricher) resolve(ctx context.Context, l *limiter, stub wire.Stub) (models.Character, *wire.PersonProperties, error) {
	props := stub.Properties
	description := stub.Description
	id := stub.UID

	if props == nil {
		if stub.URL == "" {
			return models.Character{}, nil, fmt.Errorf("character %s has neither properties nor url", stub.UID)
		}
		person, err := guarded(ctx, l, func(ctx context.Context) (*wire.Resource[wire.PersonProperties], error) {
			return e.client.FetchPerson(ctx, stub.URL)
		})
		if err != nil {
			return models.Character{}, nil, fmt.Errorf("fetch character: %w", err)
		}
		props = &person.Result.Properties
		if description == "" {
			description = person.Result.Description
		}
		if id == "" {
			id = person.Result.UID
		}
	}
	if id == "" {
		id = idFromURL(props.URL)
	}

	relations, err := e.relations(ctx, l, props)
	if err != nil {
		return models.Character{}, props, err
	}

	return models.Character{
		ID:          id,
		Name:        props.Name,
		Description: description,
		BasicInfo:   models.BasicInfoFrom(props),
		Relations:   relations,
		Meta: models.Meta{
			Created: props.Created,
			Edited:  props.Edited,
			URL:     props.URL,
		},
	}, props, nil
}

// relations fetches the homeworld and every listed relation as one join.
func (e *Enricher) relations(ctx context.Context, l *limiter, p *wire.PersonProperties) (models.Relations, error) {
	g, gctx := errgroup.WithContext(ctx)

	var homeworld *models.Homeworld
	if p.Homeworld != "" {
		g.Go(func() error {
			hw, err := guarded(gctx, l, func(ctx context.Context) (*models.Homeworld, error) {
				return e.homeworld(ctx, p.Homeworld)
			})
			if err != nil {
				return err
			}
			homeworld = hw
			return nil
		})
	}

	films := fetchAll(gctx, g, l, "film", p.Films, e.client.FetchFilm,
		func(id string, f wire.FilmProperties) models.Film { return models.Film{ID: id, FilmProperties: f} })
	species := fetchAll(gctx, g, l, "species", p.Species, e.client.FetchSpecies,
		func(id string, s wire.SpeciesProperties) models.Species { return models.Species{ID: id, SpeciesProperties: s} })
	vehicles := fetchAll(gctx, g, l, "vehicle", p.Vehicles, e.client.FetchVehicle,
		func(id string, v wire.VehicleProperties) models.Vehicle { return models.Vehicle{ID: id, VehicleProperties: v} })
	starships := fetchAll(gctx, g, l, "starship", p.Starships, e.client.FetchStarship,
		func(id string, s wire.StarshipProperties) models.Starship { return models.Starship{ID: id, StarshipProperties: s} })

	if err := g.Wait(); err != nil {
		return models.Relations{}, err
	}
	return models.Relations{
		Homeworld: homeworld,
		Films:     films,
		Species:   species,
		Vehicles:  vehicles,
		Starships: starships,
	}, nil
}

// fetchAll schedules one fetch per URL on g. Results land at their URL's
// index, so order and duplicates follow urls. The returned slice is only
// complete after g.Wait succeeds.
func fetchAll[P, T any](
	ctx context.Context,
	g *errgroup.Group,
	l *limiter,
	kind string,
	urls []string,
	fetch func(context.Context, string) (*wire.Resource[P], error),
	wrap func(id string, props P) T,
) []T {
	out := make([]T, len(urls))
	for i, u := range urls {
		g.Go(func() error {
			res, err := guarded(ctx, l, func(ctx context.Context) (*wire.Resource[P], error) {
				return fetch(ctx, u)
			})
			if err != nil {
				return fmt.Errorf("fetch %s %s: %w", kind, u, err)
			}
			out[i] = wrap(idOr(res.Result.UID, u), res.Result.Properties)
			return nil
		})
	}
	return out
}

func (e *Enricher) homeworld(ctx context.Context, rawURL string) (*models.Homeworld, error) {
	res, err := e.client.FetchPlanet(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch homeworld %s: %w", rawURL, err)
	}
	return &models.Homeworld{ID: idOr(res.Result.UID, rawURL), PlanetProperties: res.Result.Properties}, nil
}

// Homeworld resolves a planet URL. An empty URL resolves to nil.
func (e *Enricher) Homeworld(ctx context.Context, rawURL string) (*models.Homeworld, error) {
	if rawURL == "" {
		return nil, nil
	}
	return e.homeworld(ctx, rawURL)
}

func idOr(uid, rawURL string) string {
	if uid != "" {
		return uid
	}
	return idFromURL(rawURL)
}

// idFromURL returns the last path segment of an upstream resource URL.
func idFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(path.Clean("/" + u.Path))
	if base == "/" || base == "." {
		return ""
	}
	return base
}
