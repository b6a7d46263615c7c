package server

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stacmcp/internal/tools"
)

type fakeProvider struct {
	tools    []tools.ToolMetadata
	result   *tools.CallToolResult
	err      error
	gotName  string
	gotArgs  map[string]interface{}
	executed bool
}

func (f *fakeProvider) GetTools() []tools.ToolMetadata {
	return f.tools
}

func (f *fakeProvider) ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*tools.CallToolResult, error) {
	f.executed = true
	f.gotName = toolName
	f.gotArgs = args
	return f.result, f.err
}

func TestConvertToMCPSchema(t *testing.T) {
	schema := convertToMCPSchema([]tools.ArgMetadata{
		{
			Name:        "collections",
			Type:        "array",
			Required:    true,
			Description: "Collection IDs",
			Schema: map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
		},
		{
			Name:        "limit",
			Type:        "integer",
			Description: "Max items",
			Default:     10,
		},
	})

	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"collections"}, schema.Required)

	collections, ok := schema.Properties["collections"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "array", collections["type"])
	// Description from the metadata wins over the schema fragment.
	assert.Equal(t, "Collection IDs", collections["description"])

	limit, ok := schema.Properties["limit"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "integer", limit["type"])
	assert.Equal(t, 10, limit["default"])
}

func TestCreateToolHandlerForwardsArgs(t *testing.T) {
	provider := &fakeProvider{result: &tools.CallToolResult{
		Content: []interface{}{"hello"},
	}}
	handler := createToolHandler(provider, "get_root")

	req := mcp.CallToolRequest{}
	req.Params.Name = "get_root"
	req.Params.Arguments = map[string]interface{}{"output_format": "text"}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, provider.executed)
	assert.Equal(t, "get_root", provider.gotName)
	assert.Equal(t, "text", provider.gotArgs["output_format"])
	assert.False(t, result.IsError)
}

func TestCreateToolHandlerDispatchError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("unknown tool: nope")}
	handler := createToolHandler(provider, "nope")

	result, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestConvertToMCPResult(t *testing.T) {
	result := convertToMCPResult(&tools.CallToolResult{
		Content: []interface{}{"plain text", map[string]interface{}{"k": "v"}},
		IsError: false,
	})

	require.Len(t, result.Content, 2)
	first, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	assert.Equal(t, "plain text", first.Text)
	second, ok := mcp.AsTextContent(result.Content[1])
	require.True(t, ok)
	assert.JSONEq(t, `{"k": "v"}`, second.Text)
}
