package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/abn-mcp/domain/config"
	"github.com/felixgeelhaar/abn-mcp/infrastructure/abr"
	"github.com/felixgeelhaar/abn-mcp/infrastructure/mcp"
	"github.com/felixgeelhaar/abn-mcp/infrastructure/storage/memory"
	abrpack "github.com/felixgeelhaar/abn-mcp/pack/abr"
)

// newToolsCmd creates the tools command.
func (a *App) newToolsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools the server exposes",
		Long: `List the MCP tools with their descriptions and input schemas.

No registry credential is needed; nothing is sent over the network.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listTools(asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print definitions as JSON")

	return cmd
}

func (a *App) listTools(asJSON bool) error {
	registry := memory.NewToolRegistry()
	gateway := abr.New(config.DefaultBaseURL, "")
	if err := abrpack.New(gateway).Install(registry); err != nil {
		return err
	}

	defs := mcp.Definitions(registry)

	if asJSON {
		data, err := json.MarshalIndent(defs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode tools: %w", err)
		}
		_, _ = fmt.Fprintln(a.stdout, string(data))
		return nil
	}

	_, _ = fmt.Fprintf(a.stdout, "Tools (%d):\n", len(defs))
	for _, def := range defs {
		_, _ = fmt.Fprintf(a.stdout, "\n  %s\n", def.Name)
		_, _ = fmt.Fprintf(a.stdout, "    %s\n", def.Description)
		_, _ = fmt.Fprintf(a.stdout, "    input: %s\n", def.InputSchema)
	}
	return nil
}
