// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/holocron/internal/logging"
)

// Validate checks that the configuration is usable by both binaries.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateUpstream(); err != nil {
		return err
	}
	if err := c.validateWeb(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP read and write timeouts must be positive")
	}
	return nil
}

func (c *Config) validateUpstream() error {
	if err := validateHTTPURL("SWAPI_BASE_URL", c.Upstream.BaseURL); err != nil {
		return err
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("SWAPI_TIMEOUT must be positive, got %s", c.Upstream.Timeout)
	}
	if c.Upstream.MaxConcurrency < 0 {
		return fmt.Errorf("SWAPI_MAX_CONCURRENCY must be >= 0, got %d", c.Upstream.MaxConcurrency)
	}
	return nil
}

func (c *Config) validateWeb() error {
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("WEB_PORT must be between 1 and 65535, got %d", c.Web.Port)
	}
	if err := validateHTTPURL("API_URL", c.Web.APIURL); err != nil {
		return err
	}
	if c.Web.CacheTTL < 0 {
		return fmt.Errorf("WEB_CACHE_TTL must be >= 0, got %s", c.Web.CacheTTL)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}

func validateHTTPURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", name, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", name)
	}
	return nil
}
