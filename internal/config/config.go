// Package config provides centralized configuration for the onboarding
// harness. It loads settings from CLI flags and environment variables,
// validates required fields, and provides sensible defaults.
//
// ENVIRONMENT picks the target deployment (dev by default) and derives the
// API and app base URLs; API_URL and HOME_URL override the derivation for
// ad-hoc targets such as a local stub server.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

const defaultEnvironment = "dev"

// Config holds all harness configuration.
type Config struct {
	// Target application
	Environment string // dev, staging, prod
	APIBaseURL  string // identity API, e.g. https://api.dev.pemo.io
	HomeURL     string // app surface, e.g. https://app.dev.pemo.io

	// Browser settings
	Headless bool

	// Step bounds
	DefaultStepTimeout time.Duration // applied when a step declares no bound
	PollInterval       time.Duration // readiness polling cadence

	// Credentials for scenarios that start from an existing account
	AdminEmail    string
	AdminPassword string
}

// ValidationError represents a configuration validation error with multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// ParseFlags parses CLI flags and returns them. Call before LoadConfig.
func ParseFlags() (headless bool, scenario string) {
	flag.BoolVar(&headless, "headless", true, "Run the browser headless")
	flag.StringVar(&scenario, "scenario", "register-company", "Scenario to run (register-company, bulk-invite)")
	flag.Parse()
	return headless, scenario
}

// LoadConfig loads configuration from environment variables and CLI flag values.
func LoadConfig(headless bool) (*Config, error) {
	cfg := &Config{}

	cfg.Environment = getEnvOrDefault("ENVIRONMENT", defaultEnvironment)
	cfg.APIBaseURL = strings.TrimSpace(os.Getenv("API_URL"))
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = fmt.Sprintf("https://api.%s.pemo.io", cfg.Environment)
	}
	cfg.HomeURL = strings.TrimSpace(os.Getenv("HOME_URL"))
	if cfg.HomeURL == "" {
		cfg.HomeURL = fmt.Sprintf("https://app.%s.pemo.io", cfg.Environment)
	}

	cfg.Headless = headless
	cfg.DefaultStepTimeout = parseDurationOrDefault("STEP_TIMEOUT", 20*time.Second)
	cfg.PollInterval = parseDurationOrDefault("POLL_INTERVAL", 250*time.Millisecond)

	cfg.AdminEmail = strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []string

	if c.Environment == "" {
		errs = append(errs, "ENVIRONMENT must not be empty")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		errs = append(errs, fmt.Sprintf("API_URL %q must be an http(s) URL", c.APIBaseURL))
	}
	if !strings.HasPrefix(c.HomeURL, "http://") && !strings.HasPrefix(c.HomeURL, "https://") {
		errs = append(errs, fmt.Sprintf("HOME_URL %q must be an http(s) URL", c.HomeURL))
	}
	if c.DefaultStepTimeout <= 0 {
		errs = append(errs, "STEP_TIMEOUT must be positive")
	}
	if c.PollInterval <= 0 {
		errs = append(errs, "POLL_INTERVAL must be positive")
	}
	if c.PollInterval >= c.DefaultStepTimeout && c.DefaultStepTimeout > 0 {
		errs = append(errs, "POLL_INTERVAL must be shorter than STEP_TIMEOUT")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// PrintStartupSummary prints a human-readable summary of the configuration to stderr.
func (c *Config) PrintStartupSummary() {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "onboarding harness starting...")
	fmt.Fprintf(os.Stderr, "  Env:      %s\n", c.Environment)
	fmt.Fprintf(os.Stderr, "  API:      %s\n", c.APIBaseURL)
	fmt.Fprintf(os.Stderr, "  App:      %s\n", c.HomeURL)
	fmt.Fprintf(os.Stderr, "  Headless: %v\n", c.Headless)
	fmt.Fprintf(os.Stderr, "  Timeout:  %s (poll %s)\n", c.DefaultStepTimeout, c.PollInterval)
	fmt.Fprintln(os.Stderr, "")
}

// Helper functions for parsing environment variables

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// MustLoadConfig loads configuration and panics if validation fails.
// Use this in main() when the harness should fail fast on bad config.
func MustLoadConfig(headless bool) *Config {
	cfg, err := LoadConfig(headless)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			panic(fmt.Sprintf("Configuration validation failed:\n  - %s", strings.Join(validationErr.Errors, "\n  - ")))
		}
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}
	return cfg
}
