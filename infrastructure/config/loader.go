// Package config loads server configuration from defaults, an optional
// YAML file, an optional .env file and the process environment, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/abn-mcp/domain/config"
)

// Loader builds a ServerConfig.
type Loader struct {
	// File is an optional YAML configuration file.
	File string
	// EnvFile is an optional .env file. A missing file is ignored.
	EnvFile string
	// Lookup resolves process environment variables.
	Lookup LookupFunc
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithFile sets the YAML configuration file.
func WithFile(path string) LoaderOption {
	return func(l *Loader) {
		l.File = path
	}
}

// WithEnvFile sets the .env file.
func WithEnvFile(path string) LoaderOption {
	return func(l *Loader) {
		l.EnvFile = path
	}
}

// WithLookup replaces the process environment, mainly for tests.
func WithLookup(fn LookupFunc) LoaderOption {
	return func(l *Loader) {
		l.Lookup = fn
	}
}

// NewLoader creates a loader reading the process environment.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{Lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load builds and validates the configuration.
func (l *Loader) Load() (*config.ServerConfig, error) {
	lookup, err := l.lookupWithEnvFile()
	if err != nil {
		return nil, err
	}

	cfg := config.Default()

	if l.File != "" {
		if err := l.loadFile(&cfg, lookup); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// lookupWithEnvFile layers the .env file under the process environment.
// The process environment is never modified.
func (l *Loader) lookupWithEnvFile() (LookupFunc, error) {
	lookup := l.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if l.EnvFile == "" {
		return lookup, nil
	}

	values, err := godotenv.Read(l.EnvFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return lookup, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", config.ErrInvalidFormat, l.EnvFile, err)
	}

	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

func (l *Loader) loadFile(cfg *config.ServerConfig, lookup LookupFunc) error {
	data, err := os.ReadFile(l.File)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", config.ErrConfigNotFound, l.File)
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	expander := &envExpander{lookup: lookup}
	expanded, err := expander.Expand(string(data))
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidFormat, err)
	}
	return nil
}

// applyEnv overrides configuration fields with set environment variables.
func applyEnv(cfg *config.ServerConfig, lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str(EnvGUID, &cfg.GUID)
	str(EnvBaseURL, &cfg.BaseURL)
	str(EnvLogLevel, &cfg.Log.Level)
	str(EnvLogFormat, &cfg.Log.Format)
	str(EnvTraceExporter, &cfg.Tracing.Exporter)
	str(EnvOTLPEndpoint, &cfg.Tracing.Endpoint)

	var errs []error
	duration := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	duration(EnvHTTPTimeout, &cfg.HTTPTimeout)
	duration(EnvBreakerTimeout, &cfg.Resilience.BreakerTimeout)
	integer(EnvBreakerThreshold, &cfg.Resilience.BreakerThreshold)
	integer(EnvMaxConcurrent, &cfg.Resilience.MaxConcurrent)

	if v, ok := lookup(EnvOTLPInsecure); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvOTLPInsecure, err))
		} else {
			cfg.Tracing.Insecure = b
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", config.ErrInvalidFormat, errors.Join(errs...))
	}
	return nil
}
