// Package config provides the domain model for server configuration.
package config

import "time"

// DefaultBaseURL is the Australian Business Register JSON endpoint.
const DefaultBaseURL = "https://abr.business.gov.au/json"

// Trace exporters.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// ServerConfig is the complete configuration of the lookup server. It is
// built once at process entry and passed to the components that need it.
type ServerConfig struct {
	// GUID is the registry access credential. Required.
	GUID string `json:"guid" yaml:"guid"`

	// BaseURL is the registry endpoint the lookup pages hang off.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// HTTPTimeout bounds a single registry request. Zero means no timeout
	// beyond what the caller's context imposes.
	HTTPTimeout time.Duration `json:"http_timeout,omitempty" yaml:"http_timeout,omitempty"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty"`

	// Tracing contains tracing settings.
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`

	// Resilience contains opt-in protection around registry calls.
	Resilience ResilienceConfig `json:"resilience,omitempty" yaml:"resilience,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is the minimum log level.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// Format is console or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// TracingConfig contains tracing settings.
type TracingConfig struct {
	// Exporter is none, stdout or otlp.
	Exporter string `json:"exporter,omitempty" yaml:"exporter,omitempty"`
	// Endpoint is the OTLP collector address.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	// Insecure disables TLS towards the collector.
	Insecure bool `json:"insecure,omitempty" yaml:"insecure,omitempty"`
}

// ResilienceConfig configures the circuit breaker and bulkhead. Both are
// disabled at their zero values.
type ResilienceConfig struct {
	// BreakerThreshold is the number of consecutive failures that opens
	// the circuit. Zero disables the breaker.
	BreakerThreshold int `json:"breaker_threshold,omitempty" yaml:"breaker_threshold,omitempty"`
	// BreakerTimeout is how long the circuit stays open.
	BreakerTimeout time.Duration `json:"breaker_timeout,omitempty" yaml:"breaker_timeout,omitempty"`
	// MaxConcurrent caps in-flight registry calls. Zero means unlimited.
	MaxConcurrent int `json:"max_concurrent,omitempty" yaml:"max_concurrent,omitempty"`
}

// Default returns a configuration with every optional field set. GUID is
// left empty and must be supplied.
func Default() ServerConfig {
	return ServerConfig{
		BaseURL: DefaultBaseURL,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Tracing: TracingConfig{
			Exporter: ExporterNone,
		},
		Resilience: ResilienceConfig{
			BreakerTimeout: 30 * time.Second,
		},
	}
}
