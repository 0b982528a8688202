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

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitPerMinute() int
}

// GeocoderConfig provides settings for the geocoding client.
type GeocoderConfig interface {
	GetGeocoderBaseURL() string
	GetGeocoderUserAgent() string
	GetGeocoderCountryCodes() string
	GetGeocoderTargetCity() string
	GetGeocoderRegionContext() string
	GetGeocoderResultLimit() int
	GetGeocodeTimeout() time.Duration
	GetGeocoderRatePerSecond() float64
}

// CoverageConfig provides the coverage data sources.
type CoverageConfig interface {
	GetCoverageZonesFile() string
	GetCoverageOverlaysFile() string
	GetCoveragePrewarm() bool
}

// ContactConfig provides the sales contact details shown with a verdict.
type ContactConfig interface {
	GetContactWhatsAppNumber() string
	GetContactPhoneRegion() string
	GetContactEmail() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	JWTAccessSecret       string
	CORSAllowAll          bool
	CORSOrigins           []string
	CORSAllowCreds        bool
	RateLimitPerMinute    int
	GeocoderBaseURL       string
	GeocoderUserAgent     string
	GeocoderCountryCodes  string
	GeocoderTargetCity    string
	GeocoderRegionContext string
	GeocoderResultLimit   int
	GeocodeTimeout        time.Duration
	GeocoderRatePerSecond float64
	CoverageZonesFile     string
	CoverageOverlaysFile  string
	CoveragePrewarm       bool
	ContactWhatsAppNumber string
	ContactPhoneRegion    string
	ContactEmail          string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// IsAdminEnabled reports whether the admin routes can be mounted.
func (c *Config) IsAdminEnabled() bool { return c.JWTAccessSecret != "" }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string        { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool      { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string   { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool    { return c.CORSAllowCreds }
func (c *Config) GetRateLimitPerMinute() int { return c.RateLimitPerMinute }

// GeocoderConfig implementation
func (c *Config) GetGeocoderBaseURL() string        { return c.GeocoderBaseURL }
func (c *Config) GetGeocoderUserAgent() string      { return c.GeocoderUserAgent }
func (c *Config) GetGeocoderCountryCodes() string   { return c.GeocoderCountryCodes }
func (c *Config) GetGeocoderTargetCity() string     { return c.GeocoderTargetCity }
func (c *Config) GetGeocoderRegionContext() string  { return c.GeocoderRegionContext }
func (c *Config) GetGeocoderResultLimit() int       { return c.GeocoderResultLimit }
func (c *Config) GetGeocodeTimeout() time.Duration  { return c.GeocodeTimeout }
func (c *Config) GetGeocoderRatePerSecond() float64 { return c.GeocoderRatePerSecond }

// CoverageConfig implementation
func (c *Config) GetCoverageZonesFile() string    { return c.CoverageZonesFile }
func (c *Config) GetCoverageOverlaysFile() string { return c.CoverageOverlaysFile }
func (c *Config) GetCoveragePrewarm() bool        { return c.CoveragePrewarm }

// ContactConfig implementation
func (c *Config) GetContactWhatsAppNumber() string { return c.ContactWhatsAppNumber }
func (c *Config) GetContactPhoneRegion() string    { return c.ContactPhoneRegion }
func (c *Config) GetContactEmail() string          { return c.ContactEmail }

// Load reads configuration from a .env file (if present) and environment
// variables.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		JWTAccessSecret:       getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		CORSAllowCreds:        strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RateLimitPerMinute:    mustInt(getEnv("RATE_LIMIT_PER_MINUTE", "60")),
		GeocoderBaseURL:       getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent:     getEnv("GEOCODER_USER_AGENT", "UsittelCoverage/1.0"),
		GeocoderCountryCodes:  getEnv("GEOCODER_COUNTRY_CODES", "ar"),
		GeocoderTargetCity:    getEnv("GEOCODER_TARGET_CITY", "Tandil"),
		GeocoderRegionContext: getEnv("GEOCODER_REGION_CONTEXT", "Tandil, Buenos Aires, Argentina"),
		GeocoderResultLimit:   mustInt(getEnv("GEOCODER_RESULT_LIMIT", "5")),
		GeocodeTimeout:        mustDuration(getEnv("GEOCODE_TIMEOUT", "8s")),
		GeocoderRatePerSecond: mustFloat(getEnv("GEOCODER_RATE_PER_SECOND", "1")),
		CoverageZonesFile:     getEnv("COVERAGE_ZONES_FILE", ""),
		CoverageOverlaysFile:  getEnv("COVERAGE_OVERLAYS_FILE", ""),
		CoveragePrewarm:       strings.EqualFold(getEnv("COVERAGE_PREWARM", "true"), "true"),
		ContactWhatsAppNumber: getEnv("CONTACT_WHATSAPP_NUMBER", ""),
		ContactPhoneRegion:    getEnv("CONTACT_PHONE_REGION", "AR"),
		ContactEmail:          getEnv("CONTACT_EMAIL", ""),
	}

	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.GeocoderTargetCity == "" {
		return nil, fmt.Errorf("GEOCODER_TARGET_CITY is required")
	}
	if cfg.GeocodeTimeout <= 0 {
		return nil, fmt.Errorf("GEOCODE_TIMEOUT must be a positive duration")
	}
	if cfg.GeocoderRatePerSecond <= 0 {
		return nil, fmt.Errorf("GEOCODER_RATE_PER_SECOND must be positive")
	}
	if cfg.RateLimitPerMinute <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}

	return cfg, nil
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
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
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

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
