package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetToolsCoversFullSurface(t *testing.T) {
	p := NewProvider(nil, nil, nil)
	tools := p.GetTools()

	names := make(map[string]ToolMetadata, len(tools))
	for _, tool := range tools {
		names[tool.Name] = tool
	}
	expected := []string{
		"get_root", "get_conformance",
		"search_collections", "get_collection",
		"search_items", "get_item",
		"get_queryables", "get_aggregations",
		"estimate_data_size",
		"create_item", "update_item", "delete_item",
		"create_collection", "update_collection", "delete_collection",
	}
	require.Len(t, tools, len(expected))
	for _, name := range expected {
		assert.Contains(t, names, name)
	}
}

func TestGetToolsDescriptionsAndRequiredArgs(t *testing.T) {
	p := NewProvider(nil, nil, nil)

	for _, tool := range p.GetTools() {
		assert.NotEmpty(t, tool.Description, "tool %s has no description", tool.Name)
		for _, arg := range tool.Args {
			assert.NotEmpty(t, arg.Type, "arg %s of %s has no type", arg.Name, tool.Name)
			assert.NotEmpty(t, arg.Description, "arg %s of %s has no description", arg.Name, tool.Name)
		}
	}
}

func TestEstimateToolRequiresCollections(t *testing.T) {
	p := NewProvider(nil, nil, nil)

	var estimateTool *ToolMetadata
	for _, tool := range p.GetTools() {
		if tool.Name == "estimate_data_size" {
			tt := tool
			estimateTool = &tt
			break
		}
	}
	require.NotNil(t, estimateTool)

	requiredByName := map[string]bool{}
	for _, arg := range estimateTool.Args {
		requiredByName[arg.Name] = arg.Required
	}
	assert.True(t, requiredByName["collections"])
	assert.False(t, requiredByName["bbox"])
	assert.False(t, requiredByName["force_metadata_only"])
}
