// Package config resolves the test run's configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBaseURL is where the service under test listens when no override is
// given.
const DefaultBaseURL = "http://127.0.0.1:8081"

const (
	baseURLVar        = "API_BASE_URL"
	requestTimeoutVar = "API_REQUEST_TIMEOUT"
	startupTimeoutVar = "API_STARTUP_TIMEOUT"

	defaultRequestTimeout = 30 * time.Second
	defaultStartupTimeout = 10 * time.Second
)

// Config carries everything the harness needs to know about the service under
// test. It is resolved once at startup and passed around explicitly; nothing
// mutates it afterwards.
type Config struct {
	// BaseURL is the root URL of the service under test, without a trailing
	// slash.
	BaseURL string
	// RequestTimeout bounds each individual HTTP request.
	RequestTimeout time.Duration
	// StartupTimeout bounds how long the harness waits for the service to
	// become reachable before running any tests.
	StartupTimeout time.Duration
}

// Load resolves the configuration from the environment. A .env file in the
// working directory is read first if present; real environment variables take
// precedence over it. Unset values fall back to defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	baseURL := DefaultBaseURL
	if v := os.Getenv(baseURLVar); v != "" {
		baseURL = v
	}

	var cfg Config
	var err error
	if cfg.RequestTimeout, err = getDurationWithDefault(requestTimeoutVar, defaultRequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.StartupTimeout, err = getDurationWithDefault(startupTimeoutVar, defaultStartupTimeout); err != nil {
		return Config{}, err
	}
	if err := cfg.SetBaseURL(baseURL); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SetBaseURL replaces the base URL after validating it, trimming any trailing
// slash. Command-line overrides go through here so they get the same checks
// as environment values.
func (c *Config) SetBaseURL(raw string) error {
	if err := validateBaseURL(raw); err != nil {
		return err
	}
	c.BaseURL = strings.TrimSuffix(raw, "/")
	return nil
}

func validateBaseURL(baseURL string) error {
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base URL %q: missing host", baseURL)
	}
	return nil
}

func getDurationWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q in %s: %w", v, key, err)
	}
	return d, nil
}
