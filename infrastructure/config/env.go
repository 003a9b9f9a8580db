package config

import (
	"fmt"
	"regexp"
	"strings"

	domainconfig "github.com/felixgeelhaar/abn-mcp/domain/config"
)

// Environment variables read by the server.
const (
	EnvGUID             = "ABN_API_GUID"
	EnvBaseURL          = "ABN_API_BASE"
	EnvHTTPTimeout      = "ABN_HTTP_TIMEOUT"
	EnvLogLevel         = "ABN_LOG_LEVEL"
	EnvLogFormat        = "ABN_LOG_FORMAT"
	EnvTraceExporter    = "ABN_TRACE_EXPORTER"
	EnvOTLPEndpoint     = "ABN_OTLP_ENDPOINT"
	EnvOTLPInsecure     = "ABN_OTLP_INSECURE"
	EnvBreakerThreshold = "ABN_BREAKER_THRESHOLD"
	EnvBreakerTimeout   = "ABN_BREAKER_TIMEOUT"
	EnvMaxConcurrent    = "ABN_MAX_CONCURRENT"
)

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

var bracketPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*|:\?[^}]*)?\}`)

// envExpander expands ${VAR} references in configuration files.
type envExpander struct {
	lookup LookupFunc
	// missing tracks required variables that were not set.
	missing []string
}

// Expand expands environment variables in the input string.
// Supported patterns:
//   - ${VAR} - expands to the value of VAR, empty when unset
//   - ${VAR:-default} - expands to VAR or "default" if unset or empty
//   - ${VAR:?message} - fails if VAR is unset or empty
func (e *envExpander) Expand(input string) (string, error) {
	e.missing = nil

	result := bracketPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := bracketPattern.FindStringSubmatch(match)
		name, modifier := groups[1], groups[2]
		value, ok := e.lookup(name)

		switch {
		case strings.HasPrefix(modifier, ":-"):
			if !ok || value == "" {
				return modifier[2:]
			}
		case strings.HasPrefix(modifier, ":?"):
			if !ok || value == "" {
				e.missing = append(e.missing, fmt.Sprintf("%s: %s", name, modifier[2:]))
				return match
			}
		}
		return value
	})

	if len(e.missing) > 0 {
		return "", fmt.Errorf("%w: %s", domainconfig.ErrMissingEnvVar, strings.Join(e.missing, ", "))
	}
	return result, nil
}
