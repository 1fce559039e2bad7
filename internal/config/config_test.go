package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("API_URL", "")
	t.Setenv("HOME_URL", "")
	t.Setenv("STEP_TIMEOUT", "")
	t.Setenv("POLL_INTERVAL", "")

	cfg, err := LoadConfig(true)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Environment != "dev" {
		t.Errorf("Environment = %q, want dev", cfg.Environment)
	}
	if cfg.APIBaseURL != "https://api.dev.pemo.io" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.HomeURL != "https://app.dev.pemo.io" {
		t.Errorf("HomeURL = %q", cfg.HomeURL)
	}
	if cfg.DefaultStepTimeout != 20*time.Second {
		t.Errorf("DefaultStepTimeout = %s", cfg.DefaultStepTimeout)
	}
}

func TestLoadConfigEnvironmentDerivation(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("API_URL", "")
	t.Setenv("HOME_URL", "")

	cfg, err := LoadConfig(true)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.APIBaseURL != "https://api.staging.pemo.io" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.HomeURL != "https://app.staging.pemo.io" {
		t.Errorf("HomeURL = %q", cfg.HomeURL)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("API_URL", "http://127.0.0.1:9999")
	t.Setenv("HOME_URL", "http://127.0.0.1:8888")
	t.Setenv("STEP_TIMEOUT", "5s")
	t.Setenv("POLL_INTERVAL", "50ms")

	cfg, err := LoadConfig(false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.APIBaseURL != "http://127.0.0.1:9999" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.DefaultStepTimeout != 5*time.Second {
		t.Errorf("DefaultStepTimeout = %s", cfg.DefaultStepTimeout)
	}
	if cfg.PollInterval != 50*time.Millisecond {
		t.Errorf("PollInterval = %s", cfg.PollInterval)
	}
	if cfg.Headless {
		t.Error("Headless should honor the flag value")
	}
}

func TestValidateCollectsAllIssues(t *testing.T) {
	cfg := &Config{
		Environment:        "",
		APIBaseURL:         "not-a-url",
		HomeURL:            "also-bad",
		DefaultStepTimeout: 0,
		PollInterval:       0,
	}
	err := cfg.Validate()
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validationErr.Errors) < 4 {
		t.Errorf("expected at least 4 issues, got %d: %v", len(validationErr.Errors), validationErr.Errors)
	}
	if !strings.Contains(err.Error(), "ENVIRONMENT") {
		t.Errorf("error should mention ENVIRONMENT: %v", err)
	}
}

func TestValidatePollIntervalVsTimeout(t *testing.T) {
	cfg := &Config{
		Environment:        "dev",
		APIBaseURL:         "https://api.dev.pemo.io",
		HomeURL:            "https://app.dev.pemo.io",
		DefaultStepTimeout: 100 * time.Millisecond,
		PollInterval:       time.Second,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure when poll interval exceeds step timeout")
	}
}
