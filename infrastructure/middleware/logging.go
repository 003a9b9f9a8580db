// Package middleware provides tool call middleware for logging and tracing.
package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/abn-mcp/domain/middleware"
	"github.com/felixgeelhaar/abn-mcp/domain/tool"
	"github.com/felixgeelhaar/abn-mcp/infrastructure/logging"
)

// Logging returns middleware that logs the start and end of each call.
// Rejected input is logged at warn level; other failures at error level.
// Tool input is never logged.
func Logging(logger *bolt.Logger) middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, call *middleware.Call) (tool.Result, error) {
			start := time.Now()

			logging.NewEvent(logger.Debug()).
				Add(logging.ToolName(call.Tool.Name())).
				Add(logging.RequestID(call.RequestID)).
				Msg("tool call started")

			result, err := next(ctx, call)
			duration := time.Since(start)

			if err != nil {
				event := logger.Error()
				if errors.Is(err, tool.ErrInvalidInput) {
					event = logger.Warn()
				}
				logging.NewEvent(event).
					Add(logging.ToolName(call.Tool.Name())).
					Add(logging.RequestID(call.RequestID)).
					Add(logging.ErrorField(err)).
					Add(logging.Duration(duration)).
					Msg("tool call rejected")
				return result, err
			}

			logging.NewEvent(logger.Info()).
				Add(logging.ToolName(call.Tool.Name())).
				Add(logging.RequestID(call.RequestID)).
				Add(logging.Duration(duration)).
				Add(logging.LookupDuration(result.Duration)).
				Msg("tool call completed")

			return result, nil
		}
	}
}
