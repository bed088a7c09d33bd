package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AuthMode selects the credential resolution strategy. Exactly one mode is
// active per process run.
type AuthMode string

const (
	AuthModeStatic   AuthMode = "static"
	AuthModeBrokered AuthMode = "brokered"
)

type Config struct {
	// HubSpot
	HubSpotBaseURL string `json:"hubspot_base_url"`

	// Static auth
	StaticAccessToken string `json:"static_access_token"`

	// Brokered auth (Nango token exchange)
	NangoConnectionID  string `json:"nango_connection_id"`
	NangoIntegrationID string `json:"nango_integration_id"`
	NangoBaseURL       string `json:"nango_base_url"`
	NangoSecretKey     string `json:"nango_secret_key"`

	// HTTP debug surface
	HTTPHost string `json:"http_host"`
	HTTPPort int    `json:"http_port"`

	// Auth + rate limiting for the HTTP surface
	APIKeyHeader       string   `json:"api_key_header"`
	APIKeys            []string `json:"api_keys"`
	EnableAuth         bool     `json:"enable_auth"`
	RateLimitPerMinute int      `json:"rate_limit_per_minute"`

	// Behavior
	RequestTimeoutSec  int    `json:"request_timeout_sec"`
	TokenTTLMin        int    `json:"token_ttl_min"`
	LogLevel           string `json:"log_level"`
	EnableAuditLogging bool   `json:"enable_audit_logging"`
}

// ConfigError is fatal at startup: the process halts before accepting any
// invocation.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

func Load() (*Config, error) {
	cfg := &Config{
		HubSpotBaseURL:     DefaultHubSpotBaseURL,
		HTTPHost:           DefaultHTTPHost,
		HTTPPort:           DefaultHTTPPort,
		APIKeyHeader:       "X-API-Key",
		RateLimitPerMinute: DefaultRateLimitPerMinute,
		RequestTimeoutSec:  DefaultRequestTimeoutSec,
		TokenTTLMin:        DefaultTokenTTLMin,
		LogLevel:           DefaultLogLevel,
		EnableAuditLogging: true,
	}

	// Load from JSON config file if specified
	if path := getEnv("HUBLINK_CONFIG", ""); path != "" {
		if err := loadJSON(path, cfg); err != nil {
			return nil, err
		}
	}

	// Environment overrides
	applyEnvOverrides(cfg)

	if _, err := cfg.Mode(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Mode reports the active credential strategy. A static token wins when both
// modes are configured; if neither is fully present the result is a
// ConfigError naming every missing variable of the closer mode.
func (c *Config) Mode() (AuthMode, error) {
	if c.StaticAccessToken != "" {
		return AuthModeStatic, nil
	}

	var missing []string
	if c.NangoConnectionID == "" {
		missing = append(missing, "NANGO_CONNECTION_ID")
	}
	if c.NangoIntegrationID == "" {
		missing = append(missing, "NANGO_INTEGRATION_ID")
	}
	if c.NangoBaseURL == "" {
		missing = append(missing, "NANGO_BASE_URL")
	}
	if c.NangoSecretKey == "" {
		missing = append(missing, "NANGO_SECRET_KEY")
	}
	if len(missing) == 0 {
		return AuthModeBrokered, nil
	}
	if len(missing) == 4 {
		missing = append(missing, "HUBSPOT_ACCESS_TOKEN")
	}
	return "", &ConfigError{Missing: missing}
}

// RequestTimeout bounds each individual outbound HTTP call.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// TokenTTL bounds how long a brokered credential is reused before it is
// re-fetched.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMin) * time.Minute
}

func loadJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("HUBSPOT_BASE_URL", ""); v != "" {
		cfg.HubSpotBaseURL = strings.TrimRight(v, "/")
	}
	if v := getEnv("HUBSPOT_ACCESS_TOKEN", ""); v != "" {
		cfg.StaticAccessToken = v
	}
	if v := getEnv("NANGO_CONNECTION_ID", ""); v != "" {
		cfg.NangoConnectionID = v
	}
	if v := getEnv("NANGO_INTEGRATION_ID", ""); v != "" {
		cfg.NangoIntegrationID = v
	}
	if v := getEnv("NANGO_BASE_URL", ""); v != "" {
		cfg.NangoBaseURL = strings.TrimRight(v, "/")
	}
	if v := getEnv("NANGO_SECRET_KEY", ""); v != "" {
		cfg.NangoSecretKey = v
	}
	if v := getEnv("HUBLINK_HTTP_HOST", ""); v != "" {
		cfg.HTTPHost = v
	}
	if v := getEnv("HUBLINK_HTTP_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.HTTPPort = p
		}
	}
	if v := getEnv("HUBLINK_API_KEYS", ""); v != "" {
		cfg.APIKeys = strings.Split(v, ",")
	}
	if v := getEnv("HUBLINK_ENABLE_AUTH", ""); v != "" {
		cfg.EnableAuth = v == "true" || v == "1"
	}
	if v := getEnv("HUBLINK_RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if r, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = r
		}
	}
	if v := getEnv("HUBLINK_REQUEST_TIMEOUT", ""); v != "" {
		if t, err := strconv.Atoi(v); err == nil && t > 0 {
			cfg.RequestTimeoutSec = t
		}
	}
	if v := getEnv("HUBLINK_TOKEN_TTL", ""); v != "" {
		if t, err := strconv.Atoi(v); err == nil && t > 0 {
			cfg.TokenTTLMin = t
		}
	}
	if v := getEnv("HUBLINK_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("HUBLINK_AUDIT_LOGGING", ""); v != "" {
		cfg.EnableAuditLogging = v == "true" || v == "1"
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
