// Package middleware provides composable middleware for tool calls.
package middleware

import (
	"context"
	"encoding/json"

	"github.com/felixgeelhaar/abn-mcp/domain/tool"
)

// Call describes one tool invocation.
type Call struct {
	// RequestID correlates the log lines and span of one call.
	RequestID string
	// Tool is the tool being executed.
	Tool tool.Tool
	// Input is the raw JSON arguments.
	Input json.RawMessage
}

// Handler executes a tool call and returns its result.
type Handler func(ctx context.Context, call *Call) (tool.Result, error)

// Middleware wraps a Handler with additional behavior.
type Middleware func(next Handler) Handler

// Execute is the terminal handler: it runs the tool itself.
func Execute(ctx context.Context, call *Call) (tool.Result, error) {
	return call.Tool.Execute(ctx, call.Input)
}

// Chain composes middleware so that Chain(A, B)(h) runs A, then B, then h.
func Chain(middlewares ...Middleware) Middleware {
	return func(final Handler) Handler {
		handler := final
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}

// Noop returns a middleware that passes calls through unchanged.
func Noop() Middleware {
	return func(next Handler) Handler {
		return next
	}
}
