package stac

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"stacmcp/pkg/logging"
)

// ClientConfig holds the settings for one catalog connection.
type ClientConfig struct {
	// URL is the STAC API root, e.g. https://.../api/stac/v1.
	URL string
	// Headers are added to every request (e.g. auth tokens).
	Headers map[string]string
	// Timeout bounds every catalog request. Zero means 30s.
	Timeout time.Duration
	// HTTPClient overrides the constructed client, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to one STAC API. It is safe for concurrent use; the only
// mutable state is the lazily fetched conformance list.
type Client struct {
	catalogURL string
	headers    map[string]string
	httpClient *http.Client

	mu          sync.Mutex
	conformance []string
}

// NewClient builds a client for the configured catalog. The catalog URL is
// normalized without a trailing slash.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		catalogURL: strings.TrimRight(cfg.URL, "/"),
		headers:    cfg.Headers,
		httpClient: httpClient,
	}
}

// CatalogURL returns the normalized catalog root URL.
func (c *Client) CatalogURL() string {
	return c.catalogURL
}

// doJSON performs one catalog request and decodes the JSON response into out
// (when out is non-nil). Responses with status 404 map to ErrNotFound, other
// non-2xx statuses to *APIError.
func (c *Client) doJSON(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", url, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, URL: url, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		return nil
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response from %s: %w", url, err)
	}
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}

// Root fetches the catalog landing page.
func (c *Client) Root(ctx context.Context) (*RootDocument, error) {
	var root RootDocument
	if err := c.doJSON(ctx, http.MethodGet, c.catalogURL, nil, &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// Conformance returns the catalog's conformance classes, fetching them on
// first use. Catalogs that omit conformsTo from the landing page are probed
// at /conformance.
func (c *Client) Conformance(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conformance != nil {
		return c.conformance, nil
	}

	root, err := c.Root(ctx)
	if err != nil {
		return nil, err
	}
	conforms := root.ConformsTo
	if len(conforms) == 0 {
		var doc struct {
			ConformsTo []string `json:"conformsTo"`
		}
		if err := c.doJSON(ctx, http.MethodGet, c.catalogURL+"/conformance", nil, &doc); err == nil {
			conforms = doc.ConformsTo
		}
	}
	if conforms == nil {
		conforms = []string{}
	}
	c.conformance = conforms
	return c.conformance, nil
}

// CheckConformance verifies that the catalog declares at least one of the
// given capability URIs, returning a *ConformanceError otherwise.
func (c *Client) CheckConformance(ctx context.Context, capabilityURIs []string) error {
	conforms, err := c.Conformance(ctx)
	if err != nil {
		return err
	}
	for _, uri := range capabilityURIs {
		for _, have := range conforms {
			if uri == have {
				return nil
			}
		}
	}
	// Report the first (preferred) URI for a cleaner error message.
	return &ConformanceError{CatalogURL: c.catalogURL, Capability: capabilityURIs[0]}
}

// SearchItems runs an item search. Searches using the query or sort
// extensions require the catalog to declare the matching capability.
func (c *Client) SearchItems(ctx context.Context, params SearchParams) ([]Item, error) {
	if len(params.Query) > 0 {
		if err := c.CheckConformance(ctx, ConformanceQuery); err != nil {
			return nil, err
		}
	}
	if len(params.SortBy) > 0 {
		if err := c.CheckConformance(ctx, ConformanceSort); err != nil {
			return nil, err
		}
	}

	var fc struct {
		Features []Item `json:"features"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.catalogURL+"/search", params, &fc); err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	items := fc.Features
	if params.Limit > 0 && len(items) > params.Limit {
		items = items[:params.Limit]
	}
	logging.Debug("Client", "search returned %d items", len(items))
	return items, nil
}

// SearchCollections lists catalog collections, up to limit when positive.
func (c *Client) SearchCollections(ctx context.Context, limit int) ([]Collection, error) {
	var doc struct {
		Collections []Collection `json:"collections"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.catalogURL+"/collections", nil, &doc); err != nil {
		return nil, fmt.Errorf("fetching collections: %w", err)
	}
	collections := doc.Collections
	if limit > 0 && len(collections) > limit {
		collections = collections[:limit]
	}
	return collections, nil
}

// GetCollection fetches one collection by ID.
func (c *Client) GetCollection(ctx context.Context, collectionID string) (*Collection, error) {
	var collection Collection
	url := fmt.Sprintf("%s/collections/%s", c.catalogURL, collectionID)
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

// GetItem fetches one item from a collection.
func (c *Client) GetItem(ctx context.Context, collectionID, itemID string) (*Item, error) {
	var item Item
	url := fmt.Sprintf("%s/collections/%s/items/%s", c.catalogURL, collectionID, itemID)
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetQueryables fetches the queryable properties, optionally scoped to one
// collection. Requires the queryables capability.
func (c *Client) GetQueryables(ctx context.Context, collectionID string) (map[string]interface{}, error) {
	if err := c.CheckConformance(ctx, ConformanceQueryables); err != nil {
		return nil, err
	}
	url := c.catalogURL + "/queryables"
	if collectionID != "" {
		url = fmt.Sprintf("%s/collections/%s/queryables", c.catalogURL, collectionID)
	}
	var doc map[string]interface{}
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &doc); err != nil {
		return nil, err
	}
	// Newer versions of the queryables spec nest properties.
	if props, ok := doc["properties"].(map[string]interface{}); ok {
		return props, nil
	}
	if props, ok := doc["queryables"].(map[string]interface{}); ok {
		return props, nil
	}
	return map[string]interface{}{}, nil
}

// AggregationParams describe an aggregation search request.
type AggregationParams struct {
	Collections []string
	BBox        []float64
	Datetime    string
	Query       map[string]interface{}
	Fields      []string
	Operations  []string
	Limit       int
}

// AggregationResult is the outcome of an aggregation request. Catalogs that
// reject the request with 400/404 yield Supported=false rather than an error.
type AggregationResult struct {
	Supported    bool                   `json:"supported"`
	Aggregations map[string]interface{} `json:"aggregations"`
	Message      string                 `json:"message"`
	Parameters   map[string]interface{} `json:"parameters"`
}

// GetAggregations runs an aggregation search. Requires the aggregation
// capability.
func (c *Client) GetAggregations(ctx context.Context, params AggregationParams) (*AggregationResult, error) {
	if err := c.CheckConformance(ctx, ConformanceAggregation); err != nil {
		return nil, err
	}

	body := map[string]interface{}{}
	if len(params.Collections) > 0 {
		body["collections"] = params.Collections
	}
	if len(params.BBox) > 0 {
		body["bbox"] = params.BBox
	}
	if params.Datetime != "" {
		body["datetime"] = params.Datetime
	}
	if len(params.Query) > 0 {
		body["query"] = params.Query
	}
	if params.Limit > 0 {
		body["limit"] = params.Limit
	}

	operations := params.Operations
	if len(operations) == 0 {
		operations = []string{"count"}
	}
	aggs := map[string]interface{}{}
	for _, op := range operations {
		if op == "count" {
			aggs["count"] = map[string]interface{}{"type": "count"}
			continue
		}
		// Field operations (stats, histogram, ...) need target fields.
		for _, f := range params.Fields {
			aggs[fmt.Sprintf("%s_%s", f, op)] = map[string]interface{}{"type": op, "field": f}
		}
	}
	if len(aggs) > 0 {
		body["aggregations"] = aggs
	}

	var res struct {
		Aggregations map[string]interface{} `json:"aggregations"`
	}
	err := c.doJSON(ctx, http.MethodPost, c.catalogURL+"/search", body, &res)
	if err != nil {
		if apiErr, ok := asAPIError(err); ok && apiErr.StatusCode == http.StatusBadRequest {
			return &AggregationResult{
				Supported:    false,
				Aggregations: map[string]interface{}{},
				Message:      fmt.Sprintf("Aggregations unsupported (%d)", apiErr.StatusCode),
				Parameters:   body,
			}, nil
		}
		if isNotFound(err) {
			return &AggregationResult{
				Supported:    false,
				Aggregations: map[string]interface{}{},
				Message:      "Search endpoint unavailable",
				Parameters:   body,
			}, nil
		}
		return nil, err
	}

	result := &AggregationResult{
		Supported:    len(res.Aggregations) > 0,
		Aggregations: res.Aggregations,
		Message:      "OK",
		Parameters:   body,
	}
	if result.Aggregations == nil {
		result.Aggregations = map[string]interface{}{}
	}
	if !result.Supported {
		result.Message = "No aggregations returned"
	}
	return result, nil
}
