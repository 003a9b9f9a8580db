package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/abn-mcp/infrastructure/logging"
	"github.com/felixgeelhaar/abn-mcp/infrastructure/mcp"
	abrpack "github.com/felixgeelhaar/abn-mcp/pack/abr"
)

const instructions = `Look up Australian businesses in the Australian Business Register.
Use business-number-search with an 11 character ABN, company-number-search
with a 9 character ACN, or name-search with an entity name (up to 10 matches).
Results are the registry's JSON payload returned as text.`

// newServeCmd creates the serve command.
func (a *App) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the lookup tools over MCP on stdio (default)",
		Long: `Serve the ABR lookup tools over the Model Context Protocol on stdin/stdout.

This is the default when no command is given. Logs go to stderr.

Examples:
  # Serve with the GUID from the environment
  ABN_API_GUID=... abn-mcp

  # Serve with a configuration file
  abn-mcp serve -c abn-mcp.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

// serve runs the MCP server until the client disconnects or ctx ends.
func (a *App) serve(ctx context.Context) error {
	rt, err := a.bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close(ctx)

	srv := mcp.NewServer(mcp.ServerConfig{
		Name:         ServerName,
		Version:      Version,
		Description:  "Australian Business Register lookups",
		Instructions: instructions,
		Registry:     rt.registry,
		Logger:       rt.logger,
		Tracer:       rt.tracing.Tracer(),
		Bindings:     bindings(),
	})

	info := srv.Info()
	logging.NewEvent(rt.logger.Info()).
		Add(logging.Component("server")).
		Add(logging.Str("name", info.Name)).
		Add(logging.Str("version", info.Version)).
		Add(logging.Str("tools", joinNames(rt.registry.Names()))).
		Msg("ABN MCP Server running on stdio")

	return srv.ServeStdio(ctx, mcp.WithMiddleware(mcp.Recover()))
}

// bindings types the MCP arguments of each lookup tool.
func bindings() map[string]mcp.Binding {
	return map[string]mcp.Binding{
		abrpack.BusinessNumberSearch: mcp.Bind[abrpack.ABNInput](),
		abrpack.CompanyNumberSearch:  mcp.Bind[abrpack.ACNInput](),
		abrpack.NameSearch:           mcp.Bind[abrpack.NameInput](),
	}
}
