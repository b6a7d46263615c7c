// Package stac implements an HTTP client for STAC (SpatioTemporal Asset
// Catalog) APIs.
//
// The client covers the read surface the tool layer exposes (catalog root,
// conformance, collection and item search, queryables, aggregations) plus the
// Transaction extension pass-throughs for item and collection writes.
//
// Capability checks follow the STAC conformance mechanism: operations that
// depend on an optional extension (query, sort, queryables, aggregations,
// transactions) verify the catalog's conformsTo list first and fail with a
// *ConformanceError when the capability is missing. The conformance list is
// fetched lazily and cached for the lifetime of the client.
//
// Item and asset types tolerate the loose shapes real catalogs emit: assets
// keep unknown fields in ExtraFields, and NormalizeAsset converts the
// map-or-struct shapes that cross the tool boundary into one canonical view.
package stac
