package tools

import (
	"context"

	"stacmcp/internal/estimate"
	"stacmcp/internal/stac"
)

// ToolMetadata describes one tool for discovery and schema generation.
type ToolMetadata struct {
	Name        string
	Description string
	Args        []ArgMetadata
}

// ArgMetadata describes a tool argument.
type ArgMetadata struct {
	Name        string
	Type        string // "string", "number", "integer", "boolean", "object", "array"
	Required    bool
	Description string
	Default     interface{}
	// Schema overrides the basic Type with a full JSON Schema fragment.
	Schema map[string]interface{}
}

// CallToolResult is the transport-independent outcome of one tool call.
type CallToolResult struct {
	Content []interface{}
	IsError bool
}

// Catalog is the STAC API surface the handlers depend on.
type Catalog interface {
	CatalogURL() string
	Root(ctx context.Context) (*stac.RootDocument, error)
	Conformance(ctx context.Context) ([]string, error)
	SearchItems(ctx context.Context, params stac.SearchParams) ([]stac.Item, error)
	SearchCollections(ctx context.Context, limit int) ([]stac.Collection, error)
	GetCollection(ctx context.Context, collectionID string) (*stac.Collection, error)
	GetItem(ctx context.Context, collectionID, itemID string) (*stac.Item, error)
	GetQueryables(ctx context.Context, collectionID string) (map[string]interface{}, error)
	GetAggregations(ctx context.Context, params stac.AggregationParams) (*stac.AggregationResult, error)
	CreateItem(ctx context.Context, collectionID string, item map[string]interface{}) (map[string]interface{}, error)
	UpdateItem(ctx context.Context, item map[string]interface{}) (map[string]interface{}, error)
	DeleteItem(ctx context.Context, collectionID, itemID string) error
	CreateCollection(ctx context.Context, collection map[string]interface{}) (map[string]interface{}, error)
	UpdateCollection(ctx context.Context, collection map[string]interface{}) (map[string]interface{}, error)
	DeleteCollection(ctx context.Context, collectionID string) error
}

// SizeEstimator runs one estimation query; see estimate.Estimator.
type SizeEstimator interface {
	Estimate(ctx context.Context, req estimate.Request) (*estimate.Report, error)
}

// textResult creates a successful text result.
func textResult(text string) *CallToolResult {
	return &CallToolResult{
		Content: []interface{}{text},
		IsError: false,
	}
}

// errorResult creates an error result.
func errorResult(message string) *CallToolResult {
	return &CallToolResult{
		Content: []interface{}{message},
		IsError: true,
	}
}
