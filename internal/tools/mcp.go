package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/larshagen/calchat/internal/instrumentation"
)

// RegisterWithMCP exposes every registered tool on an MCP server, so
// external assistants can drive the calendar tools directly over the Model
// Context Protocol instead of the built-in chat loop. Every invocation is
// recorded on metrics; a nil recorder disables recording.
func RegisterWithMCP(s *mcpserver.MCPServer, r *Registry, metrics *instrumentation.Metrics) error {
	for _, def := range r.Definitions() {
		opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}

		for name, prop := range def.Parameters.Properties {
			propOpts := []mcp.PropertyOption{mcp.Description(prop.Description)}
			if isRequired(def.Parameters.Required, name) {
				propOpts = append(propOpts, mcp.Required())
			}
			switch prop.Type {
			case jsonschema.Integer, jsonschema.Number:
				opts = append(opts, mcp.WithNumber(name, propOpts...))
			case jsonschema.Boolean:
				opts = append(opts, mcp.WithBoolean(name, propOpts...))
			default:
				opts = append(opts, mcp.WithString(name, propOpts...))
			}
		}

		name := def.Name
		s.AddTool(mcp.NewTool(name, opts...), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			rawArgs, err := json.Marshal(request.GetArguments())
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
			}
			content, err := dispatchInstrumented(ctx, r, metrics, name, rawArgs)
			if err != nil {
				return mcp.NewToolResultError(AsError(err).Message), nil
			}
			return mcp.NewToolResultText(content), nil
		})
	}
	return nil
}

// dispatchInstrumented runs one dispatch and records its outcome and
// duration.
func dispatchInstrumented(ctx context.Context, r *Registry, metrics *instrumentation.Metrics, name string, rawArgs json.RawMessage) (string, error) {
	start := time.Now()
	content, err := r.Dispatch(ctx, name, rawArgs)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	metrics.RecordToolInvocation(ctx, name, status, time.Since(start))

	return content, err
}

func isRequired(required []string, name string) bool {
	for _, r := range required {
		if r == name {
			return true
		}
	}
	return false
}
