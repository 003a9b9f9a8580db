// Package cli provides the command-line interface for the ABN MCP server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	abnmcp "github.com/felixgeelhaar/abn-mcp"
	"github.com/felixgeelhaar/abn-mcp/domain/config"
	infraconfig "github.com/felixgeelhaar/abn-mcp/infrastructure/config"
)

// Version information set at build time.
var (
	Version   = abnmcp.Version
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// ServerName is the name advertised to MCP clients.
const ServerName = "abn-mcp-server"

// MissingGUIDMessage is printed when no registry GUID is configured.
const MissingGUIDMessage = "GUID environment not set! See README."

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer
	lookup infraconfig.LookupFunc
	opts   globalOptions
}

// globalOptions are flags shared by every command.
type globalOptions struct {
	configPath string
	envFile    string
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
		lookup: os.LookupEnv,
	}

	app.root = &cobra.Command{
		Use:   "abn-mcp",
		Short: "MCP server for Australian Business Register lookups",
		Long: `abn-mcp exposes Australian Business Register lookups as Model Context
Protocol tools over stdio: search by ABN, by ACN, or by entity name.

The registry GUID is read from ABN_API_GUID (or a .env file).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.serve(cmd.Context())
		},
	}

	flags := app.root.PersistentFlags()
	flags.StringVarP(&app.opts.configPath, "config", "c", "", "Path to a YAML configuration file")
	flags.StringVar(&app.opts.envFile, "env-file", ".env", "Path to a .env file (ignored when missing)")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newServeCmd(),
		app.newLookupCmd(),
		app.newToolsCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// WithEnv replaces the process environment lookup.
func (a *App) WithEnv(lookup infraconfig.LookupFunc) *App {
	a.lookup = lookup
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// Report writes err to stderr and returns the process exit code.
func (a *App) Report(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, config.ErrMissingCredential) {
		_, _ = fmt.Fprintln(a.stderr, MissingGUIDMessage)
		return 1
	}
	_, _ = fmt.Fprintf(a.stderr, "Error: %v\n", err)
	return 1
}

// newVersionCmd creates the version command.
func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(a.stdout, "%s version %s\n", ServerName, Version)
			_, _ = fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
			_, _ = fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
		},
	}
}
