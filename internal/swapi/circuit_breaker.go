// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

package swapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/holocron/internal/logging"
	"github.com/tomtom215/holocron/internal/metrics"
	wire "github.com/tomtom215/holocron/internal/models/swapi"
)

const breakerName = "swapi"

// CircuitBreakerClient wraps a Client with a circuit breaker.
//
// Settings:
//   - 3 trial requests in half-open state
//   - counts reset every minute while closed
//   - 2 minutes open before the first trial
//   - trips at >= 60% failures over at least 10 requests
//
// 404 responses and caller cancellations count as successes: neither says
// anything about upstream health.
type CircuitBreakerClient struct {
	client Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
	logger zerolog.Logger
}

// NewCircuitBreakerClient wraps client.
func NewCircuitBreakerClient(client Client) *CircuitBreakerClient {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)
	logger := logging.WithComponent("circuit_breaker")

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || benign(err)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logger.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{client: client, cb: cb, name: breakerName, logger: logger}
}

// execute runs fn through the breaker. Rejections come back wrapping
// ErrCircuitOpen.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)
	if err != nil && benign(err) {
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
		return nil, err
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			cbc.logger.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		counts := cbc.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)
	return result, nil
}

func benign(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
}

// castResult type-asserts a breaker result.
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// CircuitState reports the breaker state.
func (cbc *CircuitBreakerClient) CircuitState() string {
	return stateToString(cbc.cb.State())
}

func (cbc *CircuitBreakerClient) ListPeople(ctx context.Context, page, limit int) (*wire.ListResponse, error) {
	return castResult[wire.ListResponse](cbc.execute(func() (interface{}, error) {
		return cbc.client.ListPeople(ctx, page, limit)
	}))
}

func (cbc *CircuitBreakerClient) SearchPeople(ctx context.Context, name string, page, limit int) (*wire.SearchResponse, error) {
	return castResult[wire.SearchResponse](cbc.execute(func() (interface{}, error) {
		return cbc.client.SearchPeople(ctx, name, page, limit)
	}))
}

func (cbc *CircuitBreakerClient) GetPerson(ctx context.Context, id string) (*wire.Resource[wire.PersonProperties], error) {
	return castResult[wire.Resource[wire.PersonProperties]](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetPerson(ctx, id)
	}))
}

func (cbc *CircuitBreakerClient) FetchPerson(ctx context.Context, rawURL string) (*wire.Resource[wire.PersonProperties], error) {
	return castResult[wire.Resource[wire.PersonProperties]](cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchPerson(ctx, rawURL)
	}))
}

func (cbc *CircuitBreakerClient) FetchPlanet(ctx context.Context, rawURL string) (*wire.Resource[wire.PlanetProperties], error) {
	return castResult[wire.Resource[wire.PlanetProperties]](cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchPlanet(ctx, rawURL)
	}))
}

func (cbc *CircuitBreakerClient) FetchFilm(ctx context.Context, rawURL string) (*wire.Resource[wire.FilmProperties], error) {
	return castResult[wire.Resource[wire.FilmProperties]](cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchFilm(ctx, rawURL)
	}))
}

func (cbc *CircuitBreakerClient) FetchSpecies(ctx context.Context, rawURL string) (*wire.Resource[wire.SpeciesProperties], error) {
	return castResult[wire.Resource[wire.SpeciesProperties]](cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchSpecies(ctx, rawURL)
	}))
}

func (cbc *CircuitBreakerClient) FetchVehicle(ctx context.Context, rawURL string) (*wire.Resource[wire.VehicleProperties], error) {
	return castResult[wire.Resource[wire.VehicleProperties]](cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchVehicle(ctx, rawURL)
	}))
}

func (cbc *CircuitBreakerClient) FetchStarship(ctx context.Context, rawURL string) (*wire.Resource[wire.StarshipProperties], error) {
	return castResult[wire.Resource[wire.StarshipProperties]](cbc.execute(func() (interface{}, error) {
		return cbc.client.FetchStarship(ctx, rawURL)
	}))
}

func (cbc *CircuitBreakerClient) FetchRaw(ctx context.Context, rawURL string) (json.RawMessage, error) {
	raw, err := castResult[json.RawMessage](cbc.execute(func() (interface{}, error) {
		body, err := cbc.client.FetchRaw(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		return &body, nil
	}))
	if err != nil {
		return nil, err
	}
	return *raw, nil
}
