package stac

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCatalog spins up a catalog serving a landing page with the given
// conformance classes plus any extra routes.
func newTestCatalog(t *testing.T, conformsTo []string, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":          "test-catalog",
			"title":       "Test Catalog",
			"description": "catalog for tests",
			"conformsTo":  conformsTo,
		})
	})
	for path, handler := range routes {
		mux.HandleFunc(path, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRoot(t *testing.T) {
	srv := newTestCatalog(t, []string{"https://api.stacspec.org/v1.0.0/core"}, nil)
	c := NewClient(ClientConfig{URL: srv.URL + "/"})

	assert.Equal(t, srv.URL, c.CatalogURL())

	root, err := c.Root(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-catalog", root.ID)
	assert.Equal(t, []string{"https://api.stacspec.org/v1.0.0/core"}, root.ConformsTo)
}

func TestConformanceFallbackEndpoint(t *testing.T) {
	srv := newTestCatalog(t, nil, map[string]http.HandlerFunc{
		"/conformance": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"conformsTo": []string{ConformanceQuery[0]},
			})
		},
	})
	c := NewClient(ClientConfig{URL: srv.URL})

	conforms, err := c.Conformance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{ConformanceQuery[0]}, conforms)
}

func TestCheckConformanceMissingCapability(t *testing.T) {
	srv := newTestCatalog(t, []string{"https://api.stacspec.org/v1.0.0/core"}, nil)
	c := NewClient(ClientConfig{URL: srv.URL})

	err := c.CheckConformance(context.Background(), ConformanceTransaction)
	var confErr *ConformanceError
	require.ErrorAs(t, err, &confErr)
	assert.Equal(t, srv.URL, confErr.CatalogURL)
	assert.Equal(t, ConformanceTransaction[0], confErr.Capability)
}

func TestSearchItems(t *testing.T) {
	var gotBody SearchParams
	srv := newTestCatalog(t, nil, map[string]http.HandlerFunc{
		"/search": func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"type": "FeatureCollection",
				"features": []map[string]interface{}{
					{"id": "item-1", "collection": "naip", "properties": map[string]interface{}{}},
					{"id": "item-2", "collection": "naip", "properties": map[string]interface{}{}},
				},
			})
		},
	})
	c := NewClient(ClientConfig{URL: srv.URL})

	items, err := c.SearchItems(context.Background(), SearchParams{
		Collections: []string{"naip"},
		BBox:        []float64{-105, 39, -104, 40},
		Limit:       5,
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "item-1", items[0].ID)
	assert.Equal(t, []string{"naip"}, gotBody.Collections)
	assert.Equal(t, 5, gotBody.Limit)
}

func TestSearchItemsTruncatesToLimit(t *testing.T) {
	srv := newTestCatalog(t, nil, map[string]http.HandlerFunc{
		"/search": func(w http.ResponseWriter, r *http.Request) {
			// Some catalogs ignore limit; the client truncates client-side.
			json.NewEncoder(w).Encode(map[string]interface{}{
				"features": []map[string]interface{}{
					{"id": "a"}, {"id": "b"}, {"id": "c"},
				},
			})
		},
	})
	c := NewClient(ClientConfig{URL: srv.URL})

	items, err := c.SearchItems(context.Background(), SearchParams{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestSearchItemsQueryNeedsCapability(t *testing.T) {
	srv := newTestCatalog(t, []string{"https://api.stacspec.org/v1.0.0/core"}, nil)
	c := NewClient(ClientConfig{URL: srv.URL})

	_, err := c.SearchItems(context.Background(), SearchParams{
		Query: map[string]interface{}{"eo:cloud_cover": map[string]interface{}{"lt": 10}},
	})
	var confErr *ConformanceError
	require.ErrorAs(t, err, &confErr)
}

func TestSearchItemsQueryWithCapability(t *testing.T) {
	srv := newTestCatalog(t, ConformanceQuery[:1], map[string]http.HandlerFunc{
		"/search": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"features": []interface{}{}})
		},
	})
	c := NewClient(ClientConfig{URL: srv.URL})

	items, err := c.SearchItems(context.Background(), SearchParams{
		Query: map[string]interface{}{"eo:cloud_cover": map[string]interface{}{"lt": 10}},
	})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetCollectionAndItem(t *testing.T) {
	srv := newTestCatalog(t, nil, map[string]http.HandlerFunc{
		"/collections/naip": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "naip", "title": "NAIP"})
		},
		"/collections/naip/items/item-1": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "item-1", "collection": "naip"})
		},
	})
	c := NewClient(ClientConfig{URL: srv.URL})

	collection, err := c.GetCollection(context.Background(), "naip")
	require.NoError(t, err)
	assert.Equal(t, "NAIP", collection.Title)

	item, err := c.GetItem(context.Background(), "naip", "item-1")
	require.NoError(t, err)
	assert.Equal(t, "item-1", item.ID)
}

func TestGetCollectionNotFound(t *testing.T) {
	srv := newTestCatalog(t, nil, nil)
	c := NewClient(ClientConfig{URL: srv.URL})

	_, err := c.GetCollection(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAPIErrorCarriesBodySnippet(t *testing.T) {
	srv := newTestCatalog(t, nil, map[string]http.HandlerFunc{
		"/collections/broken": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message": "database down"}`))
		},
	})
	c := NewClient(ClientConfig{URL: srv.URL})

	_, err := c.GetCollection(context.Background(), "broken")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "database down")
}

func TestGetQueryablesNested(t *testing.T) {
	srv := newTestCatalog(t, ConformanceQueryables[:1], map[string]http.HandlerFunc{
		"/queryables": func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"$schema": "https://json-schema.org/draft/2019-09/schema",
				"properties": map[string]interface{}{
					"eo:cloud_cover": map[string]interface{}{"type": "number"},
				},
			})
		},
	})
	c := NewClient(ClientConfig{URL: srv.URL})

	queryables, err := c.GetQueryables(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, queryables, "eo:cloud_cover")
}

func TestGetAggregationsUnsupported(t *testing.T) {
	srv := newTestCatalog(t, ConformanceAggregation, map[string]http.HandlerFunc{
		"/search": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message": "aggregations not supported"}`))
		},
	})
	c := NewClient(ClientConfig{URL: srv.URL})

	result, err := c.GetAggregations(context.Background(), AggregationParams{
		Collections: []string{"naip"},
	})
	require.NoError(t, err)
	assert.False(t, result.Supported)
	assert.NotEmpty(t, result.Message)
}

func TestGetAggregationsCount(t *testing.T) {
	var gotBody map[string]interface{}
	srv := newTestCatalog(t, ConformanceAggregation, map[string]http.HandlerFunc{
		"/search": func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"aggregations": map[string]interface{}{"count": float64(42)},
			})
		},
	})
	c := NewClient(ClientConfig{URL: srv.URL})

	result, err := c.GetAggregations(context.Background(), AggregationParams{
		Collections: []string{"naip"},
	})
	require.NoError(t, err)
	assert.True(t, result.Supported)
	assert.Equal(t, float64(42), result.Aggregations["count"])
	// Count is the default operation when none are given.
	aggs, _ := gotBody["aggregations"].(map[string]interface{})
	assert.Contains(t, aggs, "count")
}

func TestTransactionsRequireCapability(t *testing.T) {
	srv := newTestCatalog(t, nil, nil)
	c := NewClient(ClientConfig{URL: srv.URL})
	ctx := context.Background()

	var confErr *ConformanceError
	_, err := c.CreateItem(ctx, "naip", map[string]interface{}{"id": "x"})
	require.ErrorAs(t, err, &confErr)
	err = c.DeleteCollection(ctx, "naip")
	require.ErrorAs(t, err, &confErr)
}

func TestTransactionRoundTrip(t *testing.T) {
	srv := newTestCatalog(t, ConformanceTransaction[:1], map[string]http.HandlerFunc{
		"/collections/naip/items": func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": "new-item", "collection": "naip"}`))
		},
		"/collections/naip/items/new-item": func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPut:
				w.Write([]byte(`{"id": "new-item", "collection": "naip", "updated": true}`))
			case http.MethodDelete:
				w.WriteHeader(http.StatusNoContent)
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			}
		},
	})
	c := NewClient(ClientConfig{URL: srv.URL})
	ctx := context.Background()

	created, err := c.CreateItem(ctx, "naip", map[string]interface{}{"id": "new-item"})
	require.NoError(t, err)
	assert.Equal(t, "new-item", created["id"])

	updated, err := c.UpdateItem(ctx, map[string]interface{}{"id": "new-item", "collection": "naip"})
	require.NoError(t, err)
	assert.Equal(t, true, updated["updated"])

	require.NoError(t, c.DeleteItem(ctx, "naip", "new-item"))
}

func TestUpdateItemValidatesIdentity(t *testing.T) {
	c := NewClient(ClientConfig{URL: "http://unused.example"})

	_, err := c.UpdateItem(context.Background(), map[string]interface{}{"id": "only-id"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "'collection' and 'id'")
}

func TestCustomHeadersForwarded(t *testing.T) {
	gotAuth := ""
	srv := newTestCatalog(t, nil, map[string]http.HandlerFunc{
		"/collections": func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(map[string]interface{}{"collections": []interface{}{}})
		},
	})
	c := NewClient(ClientConfig{
		URL:     srv.URL,
		Headers: map[string]string{"Authorization": "Bearer token"},
	})

	_, err := c.SearchCollections(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "Bearer token", gotAuth)
}
