package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/bolt/v3"
	mcpgo "github.com/felixgeelhaar/mcp-go"
	mcpserver "github.com/felixgeelhaar/mcp-go/server"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/felixgeelhaar/abn-mcp/domain/middleware"
	"github.com/felixgeelhaar/abn-mcp/domain/tool"
	"github.com/felixgeelhaar/abn-mcp/infrastructure/logging"
	mw "github.com/felixgeelhaar/abn-mcp/infrastructure/middleware"
)

// Server exposes registry tools over MCP.
type Server struct {
	srv      *mcpgo.Server
	registry tool.Registry
	info     mcpgo.ServerInfo
	dispatch middleware.Handler
	bindings map[string]Binding
}

// Binding builds the mcp-go handler for a tool. mcp-go derives the
// advertised input schema from the handler's argument type.
type Binding func(s *Server, t tool.Tool) any

// Bind returns a binding whose handler receives the arguments decoded
// into T. The decoded value is re-encoded and dispatched so the tool's
// own schema still validates it.
func Bind[T any]() Binding {
	return func(s *Server, t tool.Tool) any {
		return func(ctx context.Context, in T) (string, error) {
			input, err := json.Marshal(in)
			if err != nil {
				return "", fmt.Errorf("%w: %v", tool.ErrInvalidInput, err)
			}
			return s.Dispatch(ctx, t, input)
		}
	}
}

// ServerConfig configures an MCP server.
type ServerConfig struct {
	// Name is the server name.
	Name string

	// Version is the server version.
	Version string

	// Registry is the tool registry containing tools to expose.
	Registry tool.Registry

	// Description is an optional server description.
	Description string

	// Instructions provides usage instructions for clients.
	Instructions string

	// Logger receives dispatch diagnostics. Defaults to the global logger.
	Logger *bolt.Logger

	// Tracer starts a span per tool call. Defaults to a no-op tracer.
	Tracer trace.Tracer

	// Middleware runs inside the tracing and logging middleware.
	Middleware []middleware.Middleware

	// Bindings maps tool names to typed handlers. Tools without a
	// binding accept any JSON object.
	Bindings map[string]Binding
}

// NewServer creates an MCP server exposing every tool in the registry.
func NewServer(cfg ServerConfig) *Server {
	info := mcpgo.ServerInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Description: cfg.Description,
		Capabilities: mcpgo.Capabilities{
			Tools: true,
		},
	}

	var opts []mcpgo.Option
	if cfg.Instructions != "" {
		opts = append(opts, mcpgo.WithInstructions(cfg.Instructions))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Get()
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}

	chain := middleware.NewRegistry().
		Use(mw.Tracing(tracer), mw.Logging(logger)).
		Use(cfg.Middleware...)

	s := &Server{
		srv:      mcpgo.NewServer(info, opts...),
		registry: cfg.Registry,
		info:     info,
		dispatch: chain.Then(middleware.Execute),
		bindings: cfg.Bindings,
	}

	if cfg.Registry != nil {
		for _, t := range cfg.Registry.List() {
			s.registerTool(t)
		}
	}

	return s
}

func (s *Server) registerTool(t tool.Tool) {
	bind, ok := s.bindings[t.Name()]
	if !ok {
		bind = Bind[map[string]any]()
	}

	hints := Hints(t.Annotations())
	s.srv.Tool(t.Name()).
		Description(t.Description()).
		Annotations(mcpgo.ToolAnnotations{
			ReadOnlyHint:    mcpserver.Bool(hints.ReadOnlyHint),
			DestructiveHint: mcpserver.Bool(hints.DestructiveHint),
			IdempotentHint:  mcpserver.Bool(hints.IdempotentHint),
			OpenWorldHint:   mcpserver.Bool(hints.OpenWorldHint),
		}).
		ValidateInput().
		Handler(bind(s, t))
}

// Dispatch runs one tool call through the middleware chain. Input that
// fails schema validation is returned as an error so the client sees a
// tool error; every other outcome is text.
func (s *Server) Dispatch(ctx context.Context, t tool.Tool, input json.RawMessage) (string, error) {
	result, err := s.dispatch(ctx, &middleware.Call{
		RequestID: uuid.NewString(),
		Tool:      t,
		Input:     input,
	})
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// Info returns the advertised server metadata.
func (s *Server) Info() mcpgo.ServerInfo {
	return s.info
}

// Server returns the underlying mcp-go server.
func (s *Server) Server() *mcpgo.Server {
	return s.srv
}

// ServeStdio runs the server over stdin/stdout until ctx is done or the
// input stream closes. Middleware from opts runs outside ListSchemas.
func (s *Server) ServeStdio(ctx context.Context, opts ...mcpgo.ServeOption) error {
	opts = append(opts, mcpgo.WithMiddleware(s.ListSchemas()))
	return mcpgo.ServeStdio(ctx, s.srv, opts...)
}
