// Package config loads the server-configured parameters enumerated in spec
// §6 from a YAML file with environment-variable overrides, following the
// teacher's convention of a single typed Config struct hydrated once at
// startup and passed by reference thereafter.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type (
	// ProviderConfig is one provider's default OAuth client configuration.
	ProviderConfig struct {
		ClientID     string   `yaml:"client_id"`
		ClientSecret string   `yaml:"client_secret"`
		Scopes       []string `yaml:"scopes"`
		RedirectURI  string   `yaml:"redirect_uri"`
	}

	// CacheConfig configures the result cache.
	CacheConfig struct {
		RedisURL            string `yaml:"redis_url"`
		MaxEntries          int    `yaml:"max_entries"`
		CleanupIntervalSecs int    `yaml:"cleanup_interval_secs"`
	}

	// TransportConfig enables/disables each transport and configures HTTP.
	TransportConfig struct {
		Stdio    bool `yaml:"stdio"`
		HTTP     bool `yaml:"http"`
		HTTPPort int  `yaml:"http_port"`
		SSE      bool `yaml:"sse"`
	}

	// AuthConfig configures token lifecycle parameters.
	AuthConfig struct {
		JWTExpirySecs int `yaml:"jwt_expiry_secs"`
		RefreshSkewSecs int `yaml:"refresh_skew_secs"`
	}

	// ZoneMathConfig configures the defaults calculate_personalized_zones
	// falls back to when a caller omits resting_hr, max_hr, or ftp.
	ZoneMathConfig struct {
		DefaultRestingHR int `yaml:"default_resting_hr"`
		DefaultMaxHR     int `yaml:"default_max_hr"`
		DefaultFTP       int `yaml:"default_ftp"`
	}

	// Config is the complete set of server-configured parameters.
	Config struct {
		DefaultProvider  string                    `yaml:"default_provider"`
		Providers        map[string]ProviderConfig `yaml:"providers"`
		Cache            CacheConfig               `yaml:"cache"`
		Transports       TransportConfig           `yaml:"transports"`
		Auth             AuthConfig                `yaml:"auth"`
		ZoneMath         ZoneMathConfig            `yaml:"zone_math"`
		MaxActivityLimit int                       `yaml:"max_activity_limit"`
		RouteTimeoutSecs int                       `yaml:"route_timeout_secs"`
		RateLimitPerMin  int                       `yaml:"rate_limit_per_min"`
	}
)

// Default returns a Config with every parameter set to a reasonable
// out-of-the-box value: stdio enabled, in-memory cache, no providers
// configured.
func Default() Config {
	return Config{
		DefaultProvider: "strava",
		Providers:       map[string]ProviderConfig{},
		Cache: CacheConfig{
			MaxEntries:          10_000,
			CleanupIntervalSecs: 300,
		},
		Transports: TransportConfig{
			Stdio:    true,
			HTTP:     false,
			HTTPPort: 8080,
			SSE:      false,
		},
		Auth: AuthConfig{
			JWTExpirySecs:   3600,
			RefreshSkewSecs: 300,
		},
		ZoneMath: ZoneMathConfig{
			DefaultRestingHR: 60,
			DefaultMaxHR:     190,
			DefaultFTP:       200,
		},
		MaxActivityLimit: 200,
		RouteTimeoutSecs: 30,
		RateLimitPerMin:  120,
	}
}

// Load reads path as YAML into a Config starting from Default(), then
// applies FITNESSMCP_-prefixed environment variable overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnvOverrides lets operators override a handful of deployment-specific
// values without editing the YAML file, following the teacher's pattern of
// layering env vars over a file-based config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FITNESSMCP_REDIS_URL"); v != "" {
		cfg.Cache.RedisURL = v
	}
	if v := os.Getenv("FITNESSMCP_HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Transports.HTTPPort = port
		}
	}
	if v := os.Getenv("FITNESSMCP_DEFAULT_PROVIDER"); v != "" {
		cfg.DefaultProvider = v
	}
	if v := os.Getenv("FITNESSMCP_TRANSPORTS"); v != "" {
		enabled := strings.Split(v, ",")
		cfg.Transports = TransportConfig{HTTPPort: cfg.Transports.HTTPPort}
		for _, t := range enabled {
			switch strings.TrimSpace(t) {
			case "stdio":
				cfg.Transports.Stdio = true
			case "http":
				cfg.Transports.HTTP = true
			case "sse":
				cfg.Transports.SSE = true
			}
		}
	}
	for name, provider := range cfg.Providers {
		envPrefix := "FITNESSMCP_" + strings.ToUpper(name) + "_"
		if v := os.Getenv(envPrefix + "CLIENT_ID"); v != "" {
			provider.ClientID = v
		}
		if v := os.Getenv(envPrefix + "CLIENT_SECRET"); v != "" {
			provider.ClientSecret = v
		}
		cfg.Providers[name] = provider
	}
}

// Validate enforces the startup invariants named in spec §4.9 and §6: at
// least one transport must be enabled, and the HTTP port must be in range
// when HTTP is enabled.
func (c Config) Validate() error {
	if !c.Transports.Stdio && !c.Transports.HTTP && !c.Transports.SSE {
		return fmt.Errorf("no transports enabled: enable at least one of stdio, http, sse")
	}
	if c.Transports.HTTP && (c.Transports.HTTPPort <= 0 || c.Transports.HTTPPort > 65535) {
		return fmt.Errorf("invalid http_port: %d", c.Transports.HTTPPort)
	}
	return nil
}
