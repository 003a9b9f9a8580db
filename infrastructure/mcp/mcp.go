// Package mcp serves the tool registry over the Model Context Protocol.
// It wraps github.com/felixgeelhaar/mcp-go; stdout carries protocol frames
// so nothing else may write there while serving.
package mcp

import (
	mcpgo "github.com/felixgeelhaar/mcp-go"
)

// Re-export core types from mcp-go for convenience.
type (
	// ServerInfo contains MCP server metadata.
	ServerInfo = mcpgo.ServerInfo

	// ServeOption configures server behavior.
	ServeOption = mcpgo.ServeOption

	// Middleware is a function that wraps request handling.
	Middleware = mcpgo.Middleware
)

// Re-export serve options and middleware constructors from mcp-go.
var (
	WithMiddleware = mcpgo.WithMiddleware
	Recover        = mcpgo.Recover
)
