package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"stacmcp/internal/tools"
	"stacmcp/pkg/logging"
)

// toolProvider is the part of the tools layer the server registers.
type toolProvider interface {
	GetTools() []tools.ToolMetadata
	ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*tools.CallToolResult, error)
}

// createToolHandler wraps the provider's ExecuteTool in an MCP handler.
// Provider-level error results stay tool output; only dispatch failures
// (unknown tool) surface as MCP errors.
func createToolHandler(provider toolProvider, toolName string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := make(map[string]interface{})
		if req.Params.Arguments != nil {
			if argsMap, ok := req.Params.Arguments.(map[string]interface{}); ok {
				args = argsMap
			}
		}

		result, err := provider.ExecuteTool(ctx, toolName, args)
		if err != nil {
			logging.Error("Server", err, "Tool execution failed for %s", toolName)
			return mcp.NewToolResultError(fmt.Sprintf("Tool execution failed: %v", err)), nil
		}
		return convertToMCPResult(result), nil
	}
}

// convertToMCPSchema converts tool argument metadata to the JSON Schema
// format MCP clients expect. A detailed Schema fragment on an argument takes
// precedence over its basic Type.
func convertToMCPSchema(args []tools.ArgMetadata) mcp.ToolInputSchema {
	properties := make(map[string]interface{})
	required := []string{}

	for _, arg := range args {
		var propSchema map[string]interface{}
		if len(arg.Schema) > 0 {
			propSchema = make(map[string]interface{}, len(arg.Schema))
			for key, value := range arg.Schema {
				propSchema[key] = value
			}
			if arg.Description != "" {
				propSchema["description"] = arg.Description
			}
		} else {
			propSchema = map[string]interface{}{
				"type":        arg.Type,
				"description": arg.Description,
			}
		}
		if arg.Default != nil {
			propSchema["default"] = arg.Default
		}
		properties[arg.Name] = propSchema
		if arg.Required {
			required = append(required, arg.Name)
		}
	}

	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// convertToMCPResult converts a tool result to MCP format. Non-string
// content is marshaled to JSON text.
func convertToMCPResult(result *tools.CallToolResult) *mcp.CallToolResult {
	mcpContent := make([]mcp.Content, len(result.Content))
	for i, content := range result.Content {
		if text, ok := content.(string); ok {
			mcpContent[i] = mcp.NewTextContent(text)
		} else {
			jsonBytes, _ := json.Marshal(content)
			mcpContent[i] = mcp.NewTextContent(string(jsonBytes))
		}
	}
	return &mcp.CallToolResult{
		Content: mcpContent,
		IsError: result.IsError,
	}
}
