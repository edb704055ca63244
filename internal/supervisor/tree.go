// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

// Package supervisor runs the long-lived services of a Holocron binary under
// a suture v4 tree:
//
//	root (binary name)
//	└── http-layer
//	    └── HTTPServerService
//
// A service that returns an error is restarted with backoff; a canceled root
// context stops every service within ShutdownTimeout.
package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay, in seconds.
	FailureDecay float64

	// FailureBackoff is how long to wait once the threshold is exceeded.
	FailureBackoff time.Duration

	// ShutdownTimeout bounds how long each service gets to stop.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's own defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// SupervisorTree owns the root supervisor and its HTTP layer.
type SupervisorTree struct {
	root   *suture.Supervisor
	http   *suture.Supervisor
	logger *slog.Logger
	config TreeConfig
}

// NewSupervisorTree builds a tree whose root is called name. Zero config
// fields take the DefaultTreeConfig values.
func NewSupervisorTree(name string, logger *slog.Logger, config TreeConfig) *SupervisorTree {
	defaults := DefaultTreeConfig()
	if config.FailureThreshold == 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.FailureDecay == 0 {
		config.FailureDecay = defaults.FailureDecay
	}
	if config.FailureBackoff == 0 {
		config.FailureBackoff = defaults.FailureBackoff
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = defaults.ShutdownTimeout
	}

	// MustHook has a pointer receiver.
	handler := &sutureslog.Handler{Logger: logger}

	root := suture.New(name, suture.Spec{
		EventHook:        handler.MustHook(),
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	})
	httpLayer := suture.New("http-layer", suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	})
	root.Add(httpLayer)

	return &SupervisorTree{
		root:   root,
		http:   httpLayer,
		logger: logger,
		config: config,
	}
}

// AddHTTPService adds a server to the HTTP layer.
func (t *SupervisorTree) AddHTTPService(svc suture.Service) suture.ServiceToken {
	return t.http.Add(svc)
}

// ServeBackground runs the tree in a goroutine. The channel receives the
// result of Serve.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that outlived ShutdownTimeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}

// Run serves the tree until ctx is canceled, then waits for every service to
// stop and logs the ones that did not stop in time. A context cancellation
// is a clean exit and returns nil.
func (t *SupervisorTree) Run(ctx context.Context) error {
	err := <-t.ServeBackground(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}

	unstopped, _ := t.UnstoppedServiceReport()
	for _, svc := range unstopped {
		t.logger.Warn("Service failed to stop within timeout", "service", svc.Name)
	}
	return err
}
