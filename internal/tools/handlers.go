package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stacmcp/internal/estimate"
	"stacmcp/internal/stac"
	"stacmcp/pkg/logging"
)

const defaultListLimit = 10

// ExecuteTool executes a tool by name with the provided arguments. Operation
// failures become error results so the MCP client sees them as tool output;
// a Go error is returned only for tools this provider does not offer.
func (p *Provider) ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*CallToolResult, error) {
	execID := uuid.NewString()
	logging.Debug("Tools", "executing %s (exec %s) with args: %v", toolName, execID, args)

	result, err := p.dispatch(ctx, toolName, args)
	if err != nil {
		return nil, err
	}
	if result.IsError {
		logging.Debug("Tools", "%s (exec %s) returned an error result", toolName, execID)
	}
	return result, nil
}

func (p *Provider) dispatch(ctx context.Context, toolName string, args map[string]interface{}) (*CallToolResult, error) {
	switch toolName {
	case "get_root":
		return p.handleGetRoot(ctx, args)
	case "get_conformance":
		return p.handleGetConformance(ctx, args)
	case "search_collections":
		return p.handleSearchCollections(ctx, args)
	case "get_collection":
		return p.handleGetCollection(ctx, args)
	case "search_items":
		return p.handleSearchItems(ctx, args)
	case "get_item":
		return p.handleGetItem(ctx, args)
	case "get_queryables":
		return p.handleGetQueryables(ctx, args)
	case "get_aggregations":
		return p.handleGetAggregations(ctx, args)
	case "estimate_data_size":
		return p.handleEstimateDataSize(ctx, args)
	case "create_item":
		return p.handleCreateItem(ctx, args)
	case "update_item":
		return p.handleUpdateItem(ctx, args)
	case "delete_item":
		return p.handleDeleteItem(ctx, args)
	case "create_collection":
		return p.handleCreateCollection(ctx, args)
	case "update_collection":
		return p.handleUpdateCollection(ctx, args)
	case "delete_collection":
		return p.handleDeleteCollection(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolName)
	}
}

func (p *Provider) handleGetRoot(ctx context.Context, args map[string]interface{}) (*CallToolResult, error) {
	root, err := p.catalog.Root(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to fetch catalog root: %v", err)), nil
	}
	if wantsJSON(args) {
		return jsonResult(map[string]interface{}{
			"catalog_url": p.catalog.CatalogURL(),
			"root":        root,
		})
	}
	return textResult(renderRootText(p.catalog.CatalogURL(), root)), nil
}

func (p *Provider) handleGetConformance(ctx context.Context, args map[string]interface{}) (*CallToolResult, error) {
	conforms, err := p.catalog.Conformance(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to fetch conformance: %v", err)), nil
	}
	check := stringArg(args, "check")
	if wantsJSON(args) {
		payload := map[string]interface{}{"conforms_to": conforms}
		if check != "" {
			payload["check"] = check
			payload["supported"] = conformsContains(conforms, check)
		}
		return jsonResult(payload)
	}
	return textResult(renderConformanceText(conforms, check)), nil
}

func (p *Provider) handleSearchCollections(ctx context.Context, args map[string]interface{}) (*CallToolResult, error) {
	limit, err := intArg(args, "limit")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	collections, err := p.catalog.SearchCollections(ctx, limit)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to list collections: %v", err)), nil
	}
	if wantsJSON(args) {
		return jsonResult(map[string]interface{}{"collections": collections})
	}
	return textResult(renderCollectionsText(collections)), nil
}

func (p *Provider) handleGetCollection(ctx context.Context, args map[string]interface{}) (*CallToolResult, error) {
	collectionID := stringArg(args, "collection_id")
	if collectionID == "" {
		return errorResult("collection_id argument is required"), nil
	}
	collection, err := p.catalog.GetCollection(ctx, collectionID)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to fetch collection %q: %v", collectionID, err)), nil
	}
	if wantsJSON(args) {
		return jsonResult(map[string]interface{}{"collection": collection})
	}
	return textResult(renderCollectionText(collection)), nil
}

func (p *Provider) handleSearchItems(ctx context.Context, args map[string]interface{}) (*CallToolResult, error) {
	params, errResult := searchParamsFromArgs(args)
	if errResult != nil {
		return errResult, nil
	}

	items, hit := p.cache.Get(params)
	if !hit {
		var err error
		items, err = p.catalog.SearchItems(ctx, params)
		if err != nil {
			return errorResult(fmt.Sprintf("Search failed: %v", err)), nil
		}
		p.cache.Put(params, items)
	}

	if wantsJSON(args) {
		return jsonResult(map[string]interface{}{
			"item_count": len(items),
			"items":      items,
		})
	}
	return textResult(renderItemsText(items)), nil
}

func (p *Provider) handleGetItem(ctx context.Context, args map[string]interface{}) (*CallToolResult, error) {
	collectionID := stringArg(args, "collection_id")
	itemID := stringArg(args, "item_id")
	if collectionID == "" || itemID == "" {
		return errorResult("collection_id and item_id arguments are required"), nil
	}
	item, err := p.catalog.GetItem(ctx, collectionID, itemID)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to fetch item %q: %v", itemID, err)), nil
	}
	if wantsJSON(args) {
		return jsonResult(map[string]interface{}{"item": item})
	}
	return textResult(renderItemText(item)), nil
}

func (p *Provider) handleGetQueryables(ctx context.Context, args map[string]interface{}) (*CallToolResult, error) {
	collectionID := stringArg(args, "collection_id")
	queryables, err := p.catalog.GetQueryables(ctx, collectionID)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to fetch queryables: %v", err)), nil
	}
	if wantsJSON(args) {
		return jsonResult(map[string]interface{}{"queryables": queryables})
	}
	return textResult(renderQueryablesText(collectionID, queryables)), nil
}

func (p *Provider) handleGetAggregations(ctx context.Context, args map[string]interface{}) (*CallToolResult, error) {
	collections, err := stringSliceArg(args, "collections")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	bbox, err := floatSliceArg(args, "bbox")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	query, err := mapArg(args, "query")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	fields, err := stringSliceArg(args, "fields")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	operations, err := stringSliceArg(args, "operations")
	if err != nil {
		return errorResult(err.Error()), nil
	}

	result, err := p.catalog.GetAggregations(ctx, stac.AggregationParams{
		Collections: collections,
		BBox:        bbox,
		Datetime:    resolveDatetime(stringArg(args, "datetime"), time.Now()),
		Query:       query,
		Fields:      fields,
		Operations:  operations,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("Aggregation failed: %v", err)), nil
	}
	if wantsJSON(args) {
		return jsonResult(result)
	}
	return textResult(renderAggregationsText(result)), nil
}

func (p *Provider) handleEstimateDataSize(ctx context.Context, args map[string]interface{}) (*CallToolResult, error) {
	collections, err := stringSliceArg(args, "collections")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	if len(collections) == 0 {
		return errorResult("collections argument is required and must name at least one collection"), nil
	}
	bbox, err := floatSliceArg(args, "bbox")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	if len(bbox) != 0 && len(bbox) != 4 {
		return errorResult("bbox must have exactly 4 values: [west, south, east, north]"), nil
	}
	query, err := mapArg(args, "query")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	aoi, err := mapArg(args, "aoi_geojson")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	limit, err := intArg(args, "limit")
	if err != nil {
		return errorResult(err.Error()), nil
	}

	report, err := p.estimator.Estimate(ctx, estimate.Request{
		Collections:       collections,
		BBox:              bbox,
		Datetime:          resolveDatetime(stringArg(args, "datetime"), time.Now()),
		Query:             query,
		AOIGeoJSON:        aoi,
		Limit:             limit,
		ForceMetadataOnly: boolArg(args, "force_metadata_only"),
	})
	if err != nil {
		return errorResult(fmt.Sprintf("Estimation failed: %v", err)), nil
	}
	if wantsJSON(args) {
		return jsonResult(report)
	}
	return textResult(renderReportText(report)), nil
}

func (p *Provider) handleCreateItem(ctx context.Context, args map[string]interface{}) (*CallToolResult, error) {
	collectionID := stringArg(args, "collection_id")
	if collectionID == "" {
		return errorResult("collection_id argument is required"), nil
	}
	item, err := mapArg(args, "item")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	if len(item) == 0 {
		return errorResult("item argument is required"), nil
	}
	created, err := p.catalog.CreateItem(ctx, collectionID, item)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to create item: %v", err)), nil
	}
	if wantsJSON(args) {
		return jsonResult(map[string]interface{}{"created": created})
	}
	return textResult(fmt.Sprintf("Created item %v in collection %s", created["id"], collectionID)), nil
}

func (p *Provider) handleUpdateItem(ctx context.Context, args map[string]interface{}) (*CallToolResult, error) {
	item, err := mapArg(args, "item")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	if len(item) == 0 {
		return errorResult("item argument is required"), nil
	}
	updated, err := p.catalog.UpdateItem(ctx, item)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to update item: %v", err)), nil
	}
	if wantsJSON(args) {
		return jsonResult(map[string]interface{}{"updated": updated})
	}
	return textResult(fmt.Sprintf("Updated item %v", item["id"])), nil
}

func (p *Provider) handleDeleteItem(ctx context.Context, args map[string]interface{}) (*CallToolResult, error) {
	collectionID := stringArg(args, "collection_id")
	itemID := stringArg(args, "item_id")
	if collectionID == "" || itemID == "" {
		return errorResult("collection_id and item_id arguments are required"), nil
	}
	if err := p.catalog.DeleteItem(ctx, collectionID, itemID); err != nil {
		return errorResult(fmt.Sprintf("Failed to delete item: %v", err)), nil
	}
	return textResult(fmt.Sprintf("Deleted item %s from collection %s", itemID, collectionID)), nil
}

func (p *Provider) handleCreateCollection(ctx context.Context, args map[string]interface{}) (*CallToolResult, error) {
	collection, err := mapArg(args, "collection")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	if len(collection) == 0 {
		return errorResult("collection argument is required"), nil
	}
	created, err := p.catalog.CreateCollection(ctx, collection)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to create collection: %v", err)), nil
	}
	if wantsJSON(args) {
		return jsonResult(map[string]interface{}{"created": created})
	}
	return textResult(fmt.Sprintf("Created collection %v", created["id"])), nil
}

func (p *Provider) handleUpdateCollection(ctx context.Context, args map[string]interface{}) (*CallToolResult, error) {
	collection, err := mapArg(args, "collection")
	if err != nil {
		return errorResult(err.Error()), nil
	}
	if len(collection) == 0 {
		return errorResult("collection argument is required"), nil
	}
	if id, _ := collection["id"].(string); id == "" {
		return errorResult("collection must have an 'id' field for update"), nil
	}
	updated, err := p.catalog.UpdateCollection(ctx, collection)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to update collection: %v", err)), nil
	}
	if wantsJSON(args) {
		return jsonResult(map[string]interface{}{"updated": updated})
	}
	return textResult(fmt.Sprintf("Updated collection %v", collection["id"])), nil
}

func (p *Provider) handleDeleteCollection(ctx context.Context, args map[string]interface{}) (*CallToolResult, error) {
	collectionID := stringArg(args, "collection_id")
	if collectionID == "" {
		return errorResult("collection_id argument is required"), nil
	}
	if err := p.catalog.DeleteCollection(ctx, collectionID); err != nil {
		return errorResult(fmt.Sprintf("Failed to delete collection: %v", err)), nil
	}
	return textResult(fmt.Sprintf("Deleted collection %s", collectionID)), nil
}

// searchParamsFromArgs builds search parameters from the common search
// arguments, normalizing JSON-string forms and the "latest" datetime.
func searchParamsFromArgs(args map[string]interface{}) (stac.SearchParams, *CallToolResult) {
	collections, err := stringSliceArg(args, "collections")
	if err != nil {
		return stac.SearchParams{}, errorResult(err.Error())
	}
	bbox, err := floatSliceArg(args, "bbox")
	if err != nil {
		return stac.SearchParams{}, errorResult(err.Error())
	}
	if len(bbox) != 0 && len(bbox) != 4 {
		return stac.SearchParams{}, errorResult("bbox must have exactly 4 values: [west, south, east, north]")
	}
	query, err := mapArg(args, "query")
	if err != nil {
		return stac.SearchParams{}, errorResult(err.Error())
	}
	limit, err := intArg(args, "limit")
	if err != nil {
		return stac.SearchParams{}, errorResult(err.Error())
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return stac.SearchParams{
		Collections: collections,
		BBox:        bbox,
		Datetime:    resolveDatetime(stringArg(args, "datetime"), time.Now()),
		Query:       query,
		Limit:       limit,
	}, nil
}
