package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rhobs/openapi-mcp/pkg/convert"
	"github.com/rhobs/openapi-mcp/pkg/httpexec"
)

// RegisterTools adds one MCP tool per descriptor, each wired to a handler
// that executes the underlying HTTP operation.
func RegisterTools(mcpServer *server.MCPServer, tools []convert.ToolDescriptor, exec *httpexec.Executor) error {
	for _, descriptor := range tools {
		tool, err := toMCPTool(descriptor)
		if err != nil {
			return err
		}
		mcpServer.AddTool(tool, toolHandler(descriptor, exec))
	}
	return nil
}

// toMCPTool converts a ToolDescriptor to an mcp.Tool. The extracted input
// schema is attached raw so the merged parameter/body surface reaches the
// client byte for byte.
func toMCPTool(descriptor convert.ToolDescriptor) (mcp.Tool, error) {
	schemaJSON, err := json.Marshal(descriptor.InputSchema)
	if err != nil {
		return mcp.Tool{}, fmt.Errorf("failed to serialize input schema for %s: %w", descriptor.Name, err)
	}

	tool := mcp.NewTool(descriptor.Name, mcp.WithDescription(descriptor.Description))
	tool.InputSchema = mcp.ToolInputSchema{}
	tool.RawInputSchema = schemaJSON
	return tool, nil
}

func toolHandler(descriptor convert.ToolDescriptor, exec *httpexec.Executor) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := req.Params.Arguments.(map[string]any)

		timer := startToolTimer(descriptor.Name)
		result, err := exec.Execute(ctx, descriptor, args)
		timer.ObserveDuration()

		if err != nil {
			observeToolCall(descriptor.Name, outcomeError)
			return mcp.NewToolResultError(err.Error()), nil
		}
		observeToolCall(descriptor.Name, outcomeSuccess)
		return result.ToMCPResult()
	}
}
