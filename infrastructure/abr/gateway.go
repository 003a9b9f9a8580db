// Package abr implements the registry gateway: it turns a lookup into one
// GET against the Australian Business Register JSON API and classifies the
// answer. Failures never escape as errors; they become an Unavailable
// outcome and a single error log line.
package abr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/felixgeelhaar/abn-mcp/domain/config"
	"github.com/felixgeelhaar/abn-mcp/domain/registry"
	"github.com/felixgeelhaar/abn-mcp/infrastructure/logging"
	"github.com/felixgeelhaar/abn-mcp/infrastructure/resilience"
)

// MaxBodySize limits how much of a registry response is read. Larger
// responses are rejected rather than truncated.
const MaxBodySize = 10 * 1024 * 1024

// Gateway performs registry lookups. It is immutable after construction
// and safe for concurrent use.
type Gateway struct {
	baseURL string
	guid    string
	client  *http.Client
	guard   *resilience.Guard
	logger  *bolt.Logger
	tracer  trace.Tracer
	maxBody int64
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		g.client = client
	}
}

// WithGuard wraps every request in the given resilience guard.
func WithGuard(guard *resilience.Guard) Option {
	return func(g *Gateway) {
		g.guard = guard
	}
}

// WithLogger sets the logger used for failure diagnostics.
func WithLogger(logger *bolt.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithTracer sets the tracer for lookup spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(g *Gateway) {
		g.tracer = tracer
	}
}

// WithMaxBodySize overrides MaxBodySize.
func WithMaxBodySize(n int64) Option {
	return func(g *Gateway) {
		g.maxBody = n
	}
}

// New creates a gateway for the registry at baseURL using the given GUID.
func New(baseURL, guid string, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		guid:    guid,
		client:  &http.Client{},
		guard:   resilience.Passthrough(),
		maxBody: MaxBodySize,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = logging.Get()
	}
	if g.tracer == nil {
		g.tracer = noop.NewTracerProvider().Tracer("")
	}
	return g
}

// NewFromConfig creates a gateway from server configuration. Options are
// applied after the configured client and guard.
func NewFromConfig(cfg config.ServerConfig, opts ...Option) *Gateway {
	base := []Option{
		WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		WithGuard(resilience.NewGuard(cfg.Resilience)),
	}
	return New(cfg.BaseURL, cfg.GUID, append(base, opts...)...)
}

// LookupABN looks up an Australian Business Number. The caller is
// responsible for the length check.
func (g *Gateway) LookupABN(ctx context.Context, abn string) registry.Outcome {
	return g.lookupIdentifier(ctx, registry.KindABN, abn)
}

// LookupACN looks up an Australian Company Number. The caller is
// responsible for the length check.
func (g *Gateway) LookupACN(ctx context.Context, acn string) registry.Outcome {
	return g.lookupIdentifier(ctx, registry.KindACN, acn)
}

func (g *Gateway) lookupIdentifier(ctx context.Context, kind registry.Kind, id string) registry.Outcome {
	q, err := registry.NewIdentifierQuery(kind, id)
	if err != nil {
		g.logFailure(registry.Query{Kind: kind}, err, 0)
		return registry.Unavailable(err)
	}
	return g.Lookup(ctx, q)
}

// SearchName searches entity names, returning up to MaxNameResults matches.
// An empty name is sent as is.
func (g *Gateway) SearchName(ctx context.Context, name string) registry.Outcome {
	return g.Lookup(ctx, registry.NewNameQuery(name))
}

// Lookup performs one registry request for the query and classifies it.
func (g *Gateway) Lookup(ctx context.Context, q registry.Query) registry.Outcome {
	start := time.Now()

	ctx, span := g.tracer.Start(ctx, "abr.lookup",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("abr.kind", q.Kind.String())),
	)
	defer span.End()

	if !q.Kind.Valid() {
		err := fmt.Errorf("%w: %s", registry.ErrUnknownKind, q.Kind)
		g.logFailure(q, err, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return registry.Unavailable(err)
	}

	target := g.URL(q)
	body, err := g.guard.Do(ctx, func(ctx context.Context) (string, error) {
		return g.fetch(ctx, target)
	})
	if err != nil {
		err = redact(err)
		g.logFailure(q, err, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "registry unavailable")
		return registry.Unavailable(err)
	}

	payload := registry.Unwrap(body)
	if strings.TrimSpace(payload) == "" {
		err := registry.ErrEmptyResponse
		g.logFailure(q, err, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return registry.Unavailable(err)
	}

	outcome := registry.Classify(q.Kind, payload)

	span.SetAttributes(attribute.String("abr.outcome", outcome.Status.String()))
	logging.NewEvent(g.logger.Debug()).
		Add(logging.Component("abr")).
		Add(logging.Kind(q.Kind.String())).
		Add(logging.Outcome(outcome.Status.String())).
		Add(logging.Duration(time.Since(start))).
		Msg("registry lookup completed")

	return outcome
}

// URL builds the request URL for a query. Identifiers and the GUID are
// placed verbatim; names are percent-encoded with spaces as %20.
func (g *Gateway) URL(q registry.Query) string {
	value := q.Value
	if q.Kind == registry.KindName {
		value = escapeComponent(value)
	}

	var b strings.Builder
	b.WriteString(g.baseURL)
	b.WriteByte('/')
	b.WriteString(q.Kind.Endpoint())
	b.WriteByte('?')
	b.WriteString(q.Kind.Param())
	b.WriteByte('=')
	b.WriteString(value)
	if q.Kind == registry.KindName {
		fmt.Fprintf(&b, "&maxResults=%d", q.MaxResults)
	}
	b.WriteString("&guid=")
	b.WriteString(g.guid)
	return b.String()
}

func (g *Gateway) fetch(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", registry.ErrTransport, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", registry.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, g.maxBody+1))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", registry.ErrTransport, err)
	}
	if int64(len(body)) > g.maxBody {
		return "", fmt.Errorf("%w: over %d bytes", registry.ErrResponseTooLarge, g.maxBody)
	}
	return string(body), nil
}

func (g *Gateway) logFailure(q registry.Query, err error, d time.Duration) {
	event := logging.NewEvent(g.logger.Error()).
		Add(logging.Component("abr")).
		Add(logging.Kind(q.Kind.String())).
		Add(logging.ErrorField(err)).
		Add(logging.Duration(d)).
		Add(logging.Str("breaker", g.guard.BreakerState()))

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		event = event.Add(logging.StatusCode(statusErr.Code))
	}
	event.Msg("error making registry request")
}

// StatusError reports a non-2xx registry response.
type StatusError struct {
	Code int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: HTTP %d", registry.ErrHTTPStatus, e.Code)
}

// Unwrap allows errors.Is(err, registry.ErrHTTPStatus).
func (e *StatusError) Unwrap() error {
	return registry.ErrHTTPStatus
}

// redact strips the request URL, which carries the GUID, from client errors.
func redact(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	if errors.Is(err, registry.ErrTransport) {
		return fmt.Errorf("%w: %s: %w", registry.ErrTransport, urlErr.Op, urlErr.Err)
	}
	return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
}

// componentUnescaper restores the characters a URI component keeps
// literal but url.QueryEscape encodes.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent percent-encodes s for use as a query value. Spaces
// become %20 and the marks !'()* stay literal.
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
