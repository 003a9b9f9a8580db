package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validate checks the configuration. A missing GUID is reported on its own
// as ErrMissingCredential; other problems are collected and wrapped in
// ErrValidationFailed.
func (c ServerConfig) Validate() error {
	if strings.TrimSpace(c.GUID) == "" {
		return ErrMissingCredential
	}

	var errs ValidationErrors
	add := func(path, message string) {
		errs = append(errs, ValidationError{Path: path, Message: message})
	}

	u, err := url.Parse(c.BaseURL)
	switch {
	case c.BaseURL == "":
		add("base_url", "base_url is required")
	case err != nil:
		add("base_url", err.Error())
	case u.Scheme != "http" && u.Scheme != "https":
		add("base_url", "scheme must be http or https")
	case u.Host == "":
		add("base_url", "host is required")
	}

	if c.HTTPTimeout < 0 {
		add("http_timeout", "must not be negative")
	}

	switch c.Log.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		add("log.level", fmt.Sprintf("unknown level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		add("log.format", fmt.Sprintf("unknown format %q", c.Log.Format))
	}

	switch c.Tracing.Exporter {
	case "", ExporterNone, ExporterStdout:
	case ExporterOTLP:
		if c.Tracing.Endpoint == "" {
			add("tracing.endpoint", "endpoint is required for the otlp exporter")
		}
	default:
		add("tracing.exporter", fmt.Sprintf("unknown exporter %q", c.Tracing.Exporter))
	}

	if c.Resilience.BreakerThreshold < 0 {
		add("resilience.breaker_threshold", "must not be negative")
	}
	if c.Resilience.BreakerThreshold > 0 && c.Resilience.BreakerTimeout <= 0 {
		add("resilience.breaker_timeout", "must be positive when the breaker is enabled")
	}
	if c.Resilience.MaxConcurrent < 0 {
		add("resilience.max_concurrent", "must not be negative")
	}

	if errs.HasErrors() {
		return fmt.Errorf("%w: %v", ErrValidationFailed, errs)
	}
	return nil
}
