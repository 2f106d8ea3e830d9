package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalid is returned when a config value is out of range.
	ErrInvalid = errors.New("invalid configuration")
	// ErrMissingRequired is returned when endpoint, credential or model is absent.
	ErrMissingRequired = errors.New("missing required configuration")
)

// Validate checks config values for logical correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Provider validation
	switch c.Provider.Backend {
	case BackendOpenAI, BackendGemini:
	default:
		errs = append(errs, fmt.Sprintf("provider.backend must be %q or %q, got %q", BackendOpenAI, BackendGemini, c.Provider.Backend))
	}
	if c.Provider.MaxAttempts < 1 {
		errs = append(errs, "provider.max_attempts must be >= 1")
	}
	if c.Provider.AttemptTimeoutMs < 1 {
		errs = append(errs, "provider.attempt_timeout_ms must be >= 1")
	}
	if c.Provider.BackoffBaseMs < 0 {
		errs = append(errs, "provider.backoff_base_ms must be >= 0")
	}
	if c.Provider.BackoffMaxMs < c.Provider.BackoffBaseMs {
		errs = append(errs, "provider.backoff_max_ms must be >= provider.backoff_base_ms")
	}

	// Orchestrator validation
	if c.Orchestrator.MaxIterations < 1 {
		errs = append(errs, "orchestrator.max_iterations must be >= 1")
	}

	// Tools validation
	if c.Tools.MaxFileSize < 1 {
		errs = append(errs, "tools.max_file_size must be >= 1")
	}
	if c.Tools.MaxListEntries < 1 {
		errs = append(errs, "tools.max_list_entries must be >= 1")
	}
	if c.Tools.MaxParallelCalls < 1 {
		errs = append(errs, "tools.max_parallel_calls must be >= 1")
	}

	// Logging validation
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}

	return nil
}

// ValidateRequired checks that the endpoint, credential and model are set.
// Absence of any of them is fatal at startup.
func (c *Config) ValidateRequired() error {
	var missing []string
	if c.Provider.BaseURL == "" && c.Provider.Backend == BackendOpenAI {
		missing = append(missing, "base URL ("+EnvBaseURL+")")
	}
	if c.Provider.APIKey == "" {
		missing = append(missing, "API key ("+EnvAPIKey+")")
	}
	if c.Provider.Model == "" {
		missing = append(missing, "model ("+EnvModel+")")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(missing, ", "))
	}
	return nil
}
