// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// TypesenseConfig provides settings for the Typesense search engine.
type TypesenseConfig interface {
	GetTypesenseURL() string
	GetTypesenseAPIKey() string
	GetTypesenseCollection() string
	GetTypesenseTimeout() time.Duration
}

// SearchConfig provides settings for the search gateway.
type SearchConfig interface {
	GetSearchMaxPageSize() int
	GetSearchRateLimit() float64
	GetSearchRateBurst() int
}

// BrowseConfig provides settings for the terminal browse client.
type BrowseConfig interface {
	GetAPIBaseURL() string
	GetBrowsePageSize() int
	GetBrowseDebounce() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	CORSAllowAll        bool
	CORSOrigins         []string
	TypesenseURL        string
	TypesenseAPIKey     string
	TypesenseCollection string
	TypesenseTimeout    time.Duration
	SearchMaxPageSize   int
	SearchRateLimit     float64
	SearchRateBurst     int
	APIBaseURL          string
	BrowsePageSize      int
	BrowseDebounce      time.Duration
}

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// TypesenseConfig implementation
func (c *Config) GetTypesenseURL() string            { return c.TypesenseURL }
func (c *Config) GetTypesenseAPIKey() string         { return c.TypesenseAPIKey }
func (c *Config) GetTypesenseCollection() string     { return c.TypesenseCollection }
func (c *Config) GetTypesenseTimeout() time.Duration { return c.TypesenseTimeout }

// SearchConfig implementation
func (c *Config) GetSearchMaxPageSize() int   { return c.SearchMaxPageSize }
func (c *Config) GetSearchRateLimit() float64 { return c.SearchRateLimit }
func (c *Config) GetSearchRateBurst() int     { return c.SearchRateBurst }

// BrowseConfig implementation
func (c *Config) GetAPIBaseURL() string            { return c.APIBaseURL }
func (c *Config) GetBrowsePageSize() int           { return c.BrowsePageSize }
func (c *Config) GetBrowseDebounce() time.Duration { return c.BrowseDebounce }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		TypesenseURL:        getEnv("TYPESENSE_URL", "http://localhost:8108"),
		TypesenseAPIKey:     getEnv("TYPESENSE_API_KEY", ""),
		TypesenseCollection: getEnv("TYPESENSE_COLLECTION", "equipment"),
		TypesenseTimeout:    mustDuration(getEnv("TYPESENSE_TIMEOUT", "5s")),
		SearchMaxPageSize:   mustInt(getEnv("SEARCH_MAX_PAGE_SIZE", "100")),
		SearchRateLimit:     mustFloat(getEnv("SEARCH_RATE_LIMIT", "10")),
		SearchRateBurst:     mustInt(getEnv("SEARCH_RATE_BURST", "20")),
		APIBaseURL:          getEnv("API_BASE_URL", "http://localhost:8080"),
		BrowsePageSize:      mustInt(getEnv("BROWSE_PAGE_SIZE", "10")),
		BrowseDebounce:      mustDuration(getEnv("BROWSE_DEBOUNCE", "300ms")),
	}

	if cfg.SearchMaxPageSize <= 0 {
		return nil, fmt.Errorf("SEARCH_MAX_PAGE_SIZE must be positive")
	}
	if cfg.BrowsePageSize <= 0 {
		return nil, fmt.Errorf("BROWSE_PAGE_SIZE must be positive")
	}

	return cfg, nil
}

// ValidateEngine checks the settings needed to reach the search engine.
// Only the engine-facing binaries (api, provision) call this; the browse
// client talks to the gateway over HTTP and runs without engine credentials.
func (c *Config) ValidateEngine() error {
	if c.TypesenseAPIKey == "" {
		return fmt.Errorf("TYPESENSE_API_KEY is required")
	}
	if c.TypesenseTimeout <= 0 {
		return fmt.Errorf("TYPESENSE_TIMEOUT must be a positive duration")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
