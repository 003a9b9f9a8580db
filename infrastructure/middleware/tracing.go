package middleware

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/abn-mcp/domain/middleware"
	"github.com/felixgeelhaar/abn-mcp/domain/tool"
)

// SpanNamePrefix is prepended to the tool name to form span names.
const SpanNamePrefix = "tool."

// Tracing returns middleware that wraps each call in a span. Gateway spans
// started by the tool become its children.
func Tracing(tracer trace.Tracer) middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, call *middleware.Call) (tool.Result, error) {
			ctx, span := tracer.Start(ctx, SpanNamePrefix+call.Tool.Name(),
				trace.WithSpanKind(trace.SpanKindServer),
			)
			defer span.End()

			annotations := call.Tool.Annotations()
			span.SetAttributes(
				attribute.String("tool.name", call.Tool.Name()),
				attribute.String("tool.request_id", call.RequestID),
				attribute.Bool("tool.read_only", annotations.ReadOnly),
				attribute.Bool("tool.idempotent", annotations.Idempotent),
				attribute.Bool("tool.open_world", annotations.OpenWorld),
			)

			result, err := next(ctx, call)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return result, err
			}

			span.SetAttributes(attribute.Int64("tool.duration_ms", result.Duration.Milliseconds()))
			span.SetStatus(codes.Ok, "")
			return result, nil
		}
	}
}
