// Package main provides the entry point for the ABN MCP server.
package main

import (
	"context"
	"os"

	"github.com/felixgeelhaar/abn-mcp/interfaces/cli"
)

func main() {
	app := cli.New()

	if err := app.Execute(context.Background()); err != nil {
		os.Exit(app.Report(err))
	}
}
