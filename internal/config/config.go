// Package config loads portal configuration from an optional YAML file with
// environment overrides. A .env file in the working directory is honoured
// for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML can express values like "12h".
type Duration time.Duration

// UnmarshalYAML parses Go duration syntax.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the runtime configuration for the portal server.
type Config struct {
	ListenAddr    string   `yaml:"listen_addr"`
	DatabasePath  string   `yaml:"database_path"`
	SessionSecret string   `yaml:"session_secret"`
	SessionTTL    Duration `yaml:"session_ttl"`
	SecureCookies bool     `yaml:"secure_cookies"`

	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	ThemeVariant string `yaml:"theme_variant"`

	SentryDSN   string `yaml:"sentry_dsn"`
	Environment string `yaml:"environment"`
}

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() Config {
	return Config{
		ListenAddr:     ":8080",
		DatabasePath:   "obsportal.db",
		SessionTTL:     Duration(12 * time.Hour),
		MaxUploadBytes: 2 << 20,
		Environment:    "development",
	}
}

// Load builds the configuration: defaults, then the YAML file at path (when
// non-empty), then environment variables. A missing .env file is fine.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OBSPORTAL_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("OBSPORTAL_DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("OBSPORTAL_SESSION_SECRET"); v != "" {
		c.SessionSecret = v
	}
	if v := os.Getenv("OBSPORTAL_SESSION_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			c.SessionTTL = Duration(ttl)
		}
	}
	if v := os.Getenv("OBSPORTAL_SECURE_COOKIES"); v != "" {
		if secure, err := strconv.ParseBool(v); err == nil {
			c.SecureCookies = secure
		}
	}
	if v := os.Getenv("OBSPORTAL_MAX_UPLOAD_BYTES"); v != "" {
		if limit, err := strconv.ParseInt(v, 10, 64); err == nil && limit > 0 {
			c.MaxUploadBytes = limit
		}
	}
	if v := os.Getenv("OBSPORTAL_THEME_VARIANT"); v != "" {
		c.ThemeVariant = v
	}
	if v := os.Getenv("OBSPORTAL_SENTRY_DSN"); v != "" {
		c.SentryDSN = v
	}
	if v := os.Getenv("OBSPORTAL_ENVIRONMENT"); v != "" {
		c.Environment = v
	}
}

// Validate checks the invariants the server cannot start without.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("config: listen_addr is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("config: database_path is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("config: session_secret is required (set OBSPORTAL_SESSION_SECRET)")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: session_ttl must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: max_upload_bytes must be positive")
	}
	return nil
}
