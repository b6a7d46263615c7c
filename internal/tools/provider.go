package tools

import (
	"stacmcp/internal/stac"
)

// Provider implements tool discovery and execution for all STAC catalog
// tools. It is stateless apart from the search cache and can be used
// concurrently.
type Provider struct {
	catalog   Catalog
	estimator SizeEstimator
	cache     *stac.SearchCache
}

// NewProvider creates a tool provider over the given catalog and estimator.
// The cache may be nil to disable search-result caching.
func NewProvider(catalog Catalog, estimator SizeEstimator, cache *stac.SearchCache) *Provider {
	return &Provider{
		catalog:   catalog,
		estimator: estimator,
		cache:     cache,
	}
}

// outputFormatArg is shared by every read tool.
var outputFormatArg = ArgMetadata{
	Name:        "output_format",
	Type:        "string",
	Required:    false,
	Description: "Response format: 'text' (human readable, default) or 'json'",
	Default:     "text",
}

// GetTools returns metadata for all tools this provider offers.
func (p *Provider) GetTools() []ToolMetadata {
	return []ToolMetadata{
		// Discovery tools
		{
			Name:        "get_root",
			Description: "Get the STAC catalog root document (title, description, conformance)",
			Args:        []ArgMetadata{outputFormatArg},
		},
		{
			Name:        "get_conformance",
			Description: "List the conformance classes the STAC API declares",
			Args: []ArgMetadata{
				{
					Name:        "check",
					Type:        "string",
					Required:    false,
					Description: "Conformance URI (or substring) to check for",
				},
				outputFormatArg,
			},
		},
		{
			Name:        "search_collections",
			Description: "List collections available in the STAC catalog",
			Args: []ArgMetadata{
				{
					Name:        "limit",
					Type:        "integer",
					Required:    false,
					Description: "Maximum number of collections to return (default: 10)",
					Default:     10,
				},
				outputFormatArg,
			},
		},
		{
			Name:        "get_collection",
			Description: "Get detailed information about a specific collection",
			Args: []ArgMetadata{
				{
					Name:        "collection_id",
					Type:        "string",
					Required:    true,
					Description: "ID of the collection",
				},
				outputFormatArg,
			},
		},
		{
			Name:        "search_items",
			Description: "Search for items in the STAC catalog by collection, bbox, datetime and query",
			Args: []ArgMetadata{
				{
					Name:        "collections",
					Type:        "array",
					Required:    false,
					Description: "Collection IDs to search",
					Schema:      stringArraySchema("Collection IDs to search"),
				},
				bboxArg,
				datetimeArg,
				queryArg,
				{
					Name:        "limit",
					Type:        "integer",
					Required:    false,
					Description: "Maximum number of items to return (default: 10)",
					Default:     10,
				},
				outputFormatArg,
			},
		},
		{
			Name:        "get_item",
			Description: "Get one item from a collection by ID",
			Args: []ArgMetadata{
				{
					Name:        "collection_id",
					Type:        "string",
					Required:    true,
					Description: "ID of the collection containing the item",
				},
				{
					Name:        "item_id",
					Type:        "string",
					Required:    true,
					Description: "ID of the item",
				},
				outputFormatArg,
			},
		},
		{
			Name:        "get_queryables",
			Description: "List queryable properties for search filters, catalog-wide or per collection",
			Args: []ArgMetadata{
				{
					Name:        "collection_id",
					Type:        "string",
					Required:    false,
					Description: "Collection to scope the queryables to (omit for catalog-wide)",
				},
				outputFormatArg,
			},
		},
		{
			Name:        "get_aggregations",
			Description: "Run an aggregation search (counts, stats) against the catalog",
			Args: []ArgMetadata{
				{
					Name:        "collections",
					Type:        "array",
					Required:    false,
					Description: "Collection IDs to aggregate over",
					Schema:      stringArraySchema("Collection IDs to aggregate over"),
				},
				bboxArg,
				datetimeArg,
				queryArg,
				{
					Name:        "fields",
					Type:        "array",
					Required:    false,
					Description: "Property fields to aggregate",
					Schema:      stringArraySchema("Property fields to aggregate"),
				},
				{
					Name:        "operations",
					Type:        "array",
					Required:    false,
					Description: "Aggregation operations (default: count)",
					Schema:      stringArraySchema("Aggregation operations (default: count)"),
				},
				outputFormatArg,
			},
		},

		// Estimation tool
		{
			Name:        "estimate_data_size",
			Description: "Estimate the download size of STAC items matching a query, without transferring pixel data",
			Args: []ArgMetadata{
				{
					Name:        "collections",
					Type:        "array",
					Required:    true,
					Description: "Collection IDs to estimate over (at least one)",
					Schema:      stringArraySchema("Collection IDs to estimate over (at least one)"),
				},
				bboxArg,
				datetimeArg,
				queryArg,
				{
					Name:        "aoi_geojson",
					Type:        "object",
					Required:    false,
					Description: "GeoJSON geometry, Feature or FeatureCollection clipping the area of interest",
				},
				{
					Name:        "limit",
					Type:        "integer",
					Required:    false,
					Description: "Maximum number of items to analyze (default: 10)",
					Default:     10,
				},
				{
					Name:        "force_metadata_only",
					Type:        "boolean",
					Required:    false,
					Description: "Skip lazy-array loading and use only asset metadata and HEAD probes",
					Default:     false,
				},
				outputFormatArg,
			},
		},

		// Transaction tools
		{
			Name:        "create_item",
			Description: "Create a new item in a collection (requires the transaction extension)",
			Args: []ArgMetadata{
				{
					Name:        "collection_id",
					Type:        "string",
					Required:    true,
					Description: "Collection to create the item in",
				},
				{
					Name:        "item",
					Type:        "object",
					Required:    true,
					Description: "Complete STAC item JSON",
				},
				outputFormatArg,
			},
		},
		{
			Name:        "update_item",
			Description: "Replace an existing item (requires the transaction extension)",
			Args: []ArgMetadata{
				{
					Name:        "item",
					Type:        "object",
					Required:    true,
					Description: "Complete STAC item JSON with 'collection' and 'id' fields",
				},
				outputFormatArg,
			},
		},
		{
			Name:        "delete_item",
			Description: "Delete an item from a collection (requires the transaction extension)",
			Args: []ArgMetadata{
				{
					Name:        "collection_id",
					Type:        "string",
					Required:    true,
					Description: "Collection containing the item",
				},
				{
					Name:        "item_id",
					Type:        "string",
					Required:    true,
					Description: "ID of the item to delete",
				},
				outputFormatArg,
			},
		},
		{
			Name:        "create_collection",
			Description: "Create a new collection (requires the transaction extension)",
			Args: []ArgMetadata{
				{
					Name:        "collection",
					Type:        "object",
					Required:    true,
					Description: "Complete STAC collection JSON",
				},
				outputFormatArg,
			},
		},
		{
			Name:        "update_collection",
			Description: "Replace an existing collection (requires the transaction extension)",
			Args: []ArgMetadata{
				{
					Name:        "collection",
					Type:        "object",
					Required:    true,
					Description: "Complete STAC collection JSON with an 'id' field",
				},
				outputFormatArg,
			},
		},
		{
			Name:        "delete_collection",
			Description: "Delete a collection (requires the transaction extension)",
			Args: []ArgMetadata{
				{
					Name:        "collection_id",
					Type:        "string",
					Required:    true,
					Description: "ID of the collection to delete",
				},
				outputFormatArg,
			},
		},
	}
}

var bboxArg = ArgMetadata{
	Name:        "bbox",
	Type:        "array",
	Required:    false,
	Description: "Bounding box [west, south, east, north] in WGS84",
	Schema: map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "number"},
		"minItems":    4,
		"maxItems":    4,
		"description": "Bounding box [west, south, east, north] in WGS84",
	},
}

var datetimeArg = ArgMetadata{
	Name:        "datetime",
	Type:        "string",
	Required:    false,
	Description: "Datetime or interval (RFC 3339, 'start/end', or 'latest' for today)",
}

var queryArg = ArgMetadata{
	Name:        "query",
	Type:        "object",
	Required:    false,
	Description: "Property filters using the STAC query extension, e.g. {\"eo:cloud_cover\": {\"lt\": 10}}",
}

func stringArraySchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": description,
	}
}
