package cli

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/abn-mcp/domain/config"
	"github.com/felixgeelhaar/abn-mcp/infrastructure/abr"
	infraconfig "github.com/felixgeelhaar/abn-mcp/infrastructure/config"
	"github.com/felixgeelhaar/abn-mcp/infrastructure/logging"
	"github.com/felixgeelhaar/abn-mcp/infrastructure/observability"
	"github.com/felixgeelhaar/abn-mcp/infrastructure/storage/memory"
	abrpack "github.com/felixgeelhaar/abn-mcp/pack/abr"
)

// runtime holds everything a command needs to answer tool calls.
type runtime struct {
	cfg      *config.ServerConfig
	logger   *bolt.Logger
	tracing  *observability.Provider
	registry *memory.ToolRegistry
}

// loadConfig reads configuration from the global flags and environment.
func (a *App) loadConfig() (*config.ServerConfig, error) {
	loader := infraconfig.NewLoader(
		infraconfig.WithFile(a.opts.configPath),
		infraconfig.WithEnvFile(a.opts.envFile),
		infraconfig.WithLookup(a.lookup),
	)
	return loader.Load()
}

// bootstrap loads configuration and wires the gateway and tool registry.
// A missing GUID fails here, before any tool is registered.
func (a *App) bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: a.stderr,
	})

	tracing, err := observability.New(ctx, cfg.Tracing, observability.Options{
		ServiceName:    ServerName,
		ServiceVersion: Version,
		Output:         a.stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	gateway := abr.NewFromConfig(*cfg,
		abr.WithLogger(logger),
		abr.WithTracer(tracing.Tracer()),
	)

	registry := memory.NewToolRegistry()
	if err := abrpack.New(gateway).Install(registry); err != nil {
		_ = tracing.Shutdown(ctx)
		return nil, err
	}

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		tracing:  tracing,
		registry: registry,
	}, nil
}

// close flushes pending spans.
func (r *runtime) close(ctx context.Context) {
	if err := r.tracing.Shutdown(context.WithoutCancel(ctx)); err != nil {
		logging.NewEvent(r.logger.Warn()).
			Add(logging.Component("tracing")).
			Add(logging.ErrorField(err)).
			Msg("failed to flush traces")
	}
}
