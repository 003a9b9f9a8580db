package mcp

import (
	"context"

	mcpmw "github.com/felixgeelhaar/mcp-go/middleware"
	"github.com/felixgeelhaar/mcp-go/protocol"
)

// ListSchemas returns mcp-go middleware that replaces the input schema of
// each tool in a tools/list result with the tool's own compiled schema.
// mcp-go derives schemas from Go types, which cannot express constraints
// such as minLength; the tool schema is the one calls are validated with.
func (s *Server) ListSchemas() Middleware {
	return func(next mcpmw.HandlerFunc) mcpmw.HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			resp, err := next(ctx, req)
			if err != nil || resp == nil || req.Method != protocol.MethodToolsList || s.registry == nil {
				return resp, err
			}

			result, ok := resp.Result.(map[string]any)
			if !ok {
				return resp, nil
			}
			items, ok := result["tools"].([]map[string]any)
			if !ok {
				return resp, nil
			}

			for _, item := range items {
				name, _ := item["name"].(string)
				t, ok := s.registry.Get(name)
				if !ok || t.InputSchema().IsEmpty() {
					continue
				}
				item["inputSchema"] = t.InputSchema().Raw()
			}
			return resp, nil
		}
	}
}
