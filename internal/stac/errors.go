package stac

import (
	"errors"
	"fmt"
)

// Conformance URIs from the STAC API specifications. Lists include multiple
// versions to support older catalogs.
var (
	ConformanceQuery = []string{
		"https://api.stacspec.org/v1.0.0/item-search#query",
		"https://api.stacspec.org/v1.0.0-beta.2/item-search#query",
	}
	ConformanceSort = []string{
		"https://api.stacspec.org/v1.0.0/item-search#sort",
	}
	ConformanceQueryables = []string{
		"https://api.stacspec.org/v1.0.0/item-search#queryables",
		"https://api.stacspec.org/v1.0.0-rc.1/item-search#queryables",
	}
	ConformanceAggregation = []string{
		"https://api.stacspec.org/v1.0.0/ogc-api-features-p3/conf/aggregation",
	}
	ConformanceTransaction = []string{
		"https://api.stacspec.org/v1.0.0/collections#transaction",
		"http://stacspec.org/spec/v1.0.0/collections#transaction",
	}
)

// ErrNotFound reports that the requested item or collection does not exist.
var ErrNotFound = errors.New("not found")

// ConformanceError reports that a catalog lacks a capability an operation
// depends on. It crosses the tool boundary unmodified; the caller decides how
// to surface it.
type ConformanceError struct {
	CatalogURL string
	Capability string
}

func (e *ConformanceError) Error() string {
	return fmt.Sprintf("API at %s does not support %q (or a compatible version)", e.CatalogURL, e.Capability)
}

// APIError reports a non-success HTTP response from the catalog.
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("STAC API request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("STAC API request to %s failed with status %d", e.URL, e.StatusCode)
}
