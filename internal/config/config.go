// Holocron - Star Wars Character Explorer Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/holocron

// Package config loads the runtime configuration shared by the gateway
// (cmd/server) and the web frontend (cmd/web).
//
// Values are layered, lowest priority first:
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/holocron/config.yaml)
//  3. Environment variables (see envTransformFunc for the mapping)
//
// Both binaries load the whole structure; each one reads only its sections.
package config

import (
	"fmt"
	"time"
)

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Upstream UpstreamConfig `koanf:"upstream"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
	Web      WebConfig      `koanf:"web"`
}

// ServerConfig holds the gateway HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// UpstreamConfig describes the people-and-related-resources API the gateway
// proxies and enriches.
type UpstreamConfig struct {
	// BaseURL is the API root, without trailing slash.
	BaseURL string `koanf:"base_url"`

	// Timeout bounds every single upstream request.
	Timeout time.Duration `koanf:"timeout"`

	// MaxConcurrency caps in-flight upstream requests per inbound request.
	// 0 means unbounded.
	MaxConcurrency int `koanf:"max_concurrency"`

	// CircuitBreaker wraps upstream calls in a gobreaker circuit breaker.
	CircuitBreaker bool `koanf:"circuit_breaker"`
}

// SecurityConfig holds browser-facing settings.
type SecurityConfig struct {
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// WebConfig holds the server-rendered frontend settings.
type WebConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`

	// APIURL is the gateway base URL the frontend calls.
	APIURL string `koanf:"api_url"`

	// CacheTTL is the freshness window the frontend's HTTP layer grants to
	// gateway responses.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// RequestTimeout bounds one call from the frontend to the gateway.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// Addr returns the host:port listen address of the frontend.
func (w WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

// Load reads configuration from defaults, an optional file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
