package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/abn-mcp/domain/tool"
	abrpack "github.com/felixgeelhaar/abn-mcp/pack/abr"
)

// newLookupCmd creates the lookup command and its subcommands.
func (a *App) newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Run a single registry lookup and print the result",
		Long: `Run one lookup through the same tool the MCP server exposes and print
the text a client would receive.

Examples:
  abn-mcp lookup abn 51824753556
  abn-mcp lookup acn 004085616
  abn-mcp lookup name "acme pty ltd"`,
	}

	cmd.AddCommand(
		a.newLookupSubCmd("abn <number>", "Look up an 11 character ABN", abrpack.BusinessNumberSearch, "abn"),
		a.newLookupSubCmd("acn <number>", "Look up a 9 character ACN", abrpack.CompanyNumberSearch, "acn"),
		a.newLookupSubCmd("name <entity name>", "Search entity names (up to 10 matches)", abrpack.NameSearch, "name"),
	)

	return cmd
}

func (a *App) newLookupSubCmd(use, short, toolName, field string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := json.Marshal(map[string]string{field: args[0]})
			if err != nil {
				return err
			}
			return a.runTool(cmd, toolName, input)
		},
	}
}

// runTool executes one tool from a freshly wired runtime.
func (a *App) runTool(cmd *cobra.Command, name string, input json.RawMessage) error {
	ctx := cmd.Context()

	rt, err := a.bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close(ctx)

	t, ok := rt.registry.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", tool.ErrToolNotFound, name)
	}

	result, err := t.Execute(ctx, input)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(a.stdout, result.Text)
	return nil
}

func joinNames(names []string) string {
	return strings.Join(names, ",")
}
