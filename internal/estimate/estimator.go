package estimate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"stacmcp/internal/stac"
	"stacmcp/pkg/logging"
)

const defaultSearchLimit = 10

// ItemSearcher is the catalog search collaborator. It must be idempotent and
// side-effect free from the estimator's perspective.
type ItemSearcher interface {
	SearchItems(ctx context.Context, params stac.SearchParams) ([]stac.Item, error)
}

// Prober resolves asset sizes for a batch of hrefs; see HeadProber.
type Prober interface {
	Probe(ctx context.Context, hrefs []string) map[string]*int64
}

// Request is one estimation query.
type Request struct {
	Collections []string
	BBox        []float64
	Datetime    string
	Query       map[string]interface{}
	AOIGeoJSON  map[string]interface{}
	// Limit bounds the number of items considered, not assets; every asset
	// of a considered item is evaluated. Zero means 10.
	Limit int
	// ForceMetadataOnly skips the array path even when a cube loader is
	// available.
	ForceMetadataOnly bool
}

// Estimator orchestrates the estimation strategies into one report per
// query. Construct with NewEstimator; safe for concurrent use.
type Estimator struct {
	searcher   ItemSearcher
	prober     Prober
	registry   *Registry
	loader     CubeLoader
	catalogURL string
}

// NewEstimator wires the estimator's collaborators. The cube loader may be
// nil, which permanently disables the array path (the capability is decided
// here, at construction, not per call).
func NewEstimator(searcher ItemSearcher, prober Prober, registry *Registry, loader CubeLoader, catalogURL string) *Estimator {
	return &Estimator{
		searcher:   searcher,
		prober:     prober,
		registry:   registry,
		loader:     loader,
		catalogURL: catalogURL,
	}
}

// Estimate resolves the query to matching items and produces a size report.
// Only search errors (including capability errors from the catalog) are
// returned; every estimation-level failure degrades into the report itself.
func (e *Estimator) Estimate(ctx context.Context, req Request) (*Report, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	items, err := e.searcher.SearchItems(ctx, stac.SearchParams{
		Collections: req.Collections,
		BBox:        req.BBox,
		Datetime:    req.Datetime,
		Query:       req.Query,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return &Report{
			ItemCount:      0,
			BBoxUsed:       req.BBox,
			TemporalExtent: req.Datetime,
			Collections:    orEmpty(req.Collections),
			Message:        "No items found for the given query parameters",
		}, nil
	}

	effectiveBBox := req.BBox
	clipped := false
	if len(req.AOIGeoJSON) > 0 {
		if aoiBounds, ok := boundsFromGeoJSON(req.AOIGeoJSON); ok {
			effectiveBBox = intersectBBox(req.BBox, aoiBounds)
			clipped = true
		}
	}

	if e.loader != nil && !req.ForceMetadataOnly {
		if report, ok := e.estimateFromCube(ctx, req, items, effectiveBBox, clipped); ok {
			return report, nil
		}
	}
	return e.estimateFromAssets(ctx, req, items, effectiveBBox, clipped), nil
}

// resolveSensor picks the collection whose registry entry governs this
// query: the first requested collection, or the first item's owning
// collection when the search was unfiltered.
func (e *Estimator) resolveSensor(req Request, items []stac.Item) (string, *SensorInfo) {
	collectionID := ""
	if len(req.Collections) > 0 {
		collectionID = req.Collections[0]
	} else if len(items) > 0 {
		collectionID = items[0].Collection
	}
	return e.registry.ResolveForCatalog(collectionID, e.catalogURL)
}

// estimateFromCube attempts the array path. The second return value reports
// whether the path was available; a loader failure is soft and triggers the
// per-asset fallback.
func (e *Estimator) estimateFromCube(ctx context.Context, req Request, items []stac.Item, bbox []float64, clipped bool) (*Report, bool) {
	ds, err := e.loader.Load(ctx, items, bbox)
	if err != nil || ds == nil || len(ds.Vars) == 0 {
		logging.Debug("Estimator", "array path unavailable, falling back to per-asset estimation: %v", err)
		return nil, false
	}

	_, info := e.resolveSensor(req, items)

	var totalBytes, nativeBytes int64
	variables := make([]VariableEstimate, 0, len(ds.Vars))
	for _, v := range ds.Vars {
		reported := v.ElementCount() * v.Dtype.ItemSize()
		entry := VariableEstimate{
			Variable:          v.Name,
			Shape:             v.Shape,
			Dtype:             string(v.Dtype),
			EstimatedBytes:    reported,
			EstimatedMB:       mb(reported),
			SensorNativeBytes: reported,
		}
		if info != nil {
			if native := info.DtypeForAsset(v.Name); native != "" && native != v.Dtype && native.NarrowerThan(v.Dtype) {
				entry.SensorNativeBytes = v.ElementCount() * native.ItemSize()
				entry.SensorNativeDtype = string(native)
				entry.SensorNativeRecommended = true
			}
		}
		totalBytes += entry.EstimatedBytes
		nativeBytes += entry.SensorNativeBytes
		variables = append(variables, entry)
	}

	report := &Report{
		ItemCount:      len(items),
		EstimatedBytes: totalBytes,
		EstimatedMB:    mb(totalBytes),
		EstimatedGB:    gb(totalBytes),
		BBoxUsed:       bbox,
		TemporalExtent: temporalExtent(items, req.Datetime),
		Collections:    collectionsForReport(req, items),
		ClippedToAOI:   clipped,
		Variables:      variables,
		SpatialDims:    spatialDims(ds),
		Message:        fmt.Sprintf("Successfully estimated data size for %d items from lazy array metadata", len(items)),
	}
	nb, nm := nativeBytes, mb(nativeBytes)
	report.SensorNativeBytes = &nb
	report.SensorNativeMB = &nm
	return report, true
}

// estimateFromAssets runs the per-asset fallback: registry ignore check,
// then declared metadata, then one HEAD-probe batch for everything still
// unresolved.
func (e *Estimator) estimateFromAssets(ctx context.Context, req Request, items []stac.Item, bbox []float64, clipped bool) *Report {
	_, info := e.resolveSensor(req, items)

	type pending struct {
		index int
		href  string
	}
	var (
		assets   []AssetEstimate
		queued   []pending
		hrefs    []string
		fromMeta int
	)

	for _, item := range items {
		names := make([]string, 0, len(item.Assets))
		for name := range item.Assets {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			asset := item.Assets[name]
			if info != nil && info.ShouldIgnoreAsset(name, asset.Type) {
				continue
			}

			entry := AssetEstimate{
				Asset:     name,
				MediaType: asset.Type,
				Href:      asset.Href,
			}
			if size, ok := SizeFromMetadata(asset); ok {
				entry.EstimatedBytes = size
				entry.EstimatedMB = mb(size)
				entry.Method = MethodMetadata
				fromMeta++
			} else if asset.Href != "" {
				entry.Method = MethodFailed // provisional until the probe resolves
				queued = append(queued, pending{index: len(assets), href: asset.Href})
				hrefs = append(hrefs, asset.Href)
			} else {
				entry.Method = MethodFailed
			}
			assets = append(assets, entry)
		}
	}

	fromHead := 0
	if len(hrefs) > 0 {
		results := e.prober.Probe(ctx, hrefs)
		for _, p := range queued {
			if size := results[p.href]; size != nil {
				assets[p.index].EstimatedBytes = *size
				assets[p.index].EstimatedMB = mb(*size)
				assets[p.index].Method = MethodHead
				fromHead++
			}
		}
	}

	var totalBytes int64
	failed := 0
	for _, a := range assets {
		totalBytes += a.EstimatedBytes
		if a.Method == MethodFailed {
			failed++
		}
	}

	return &Report{
		ItemCount:      len(items),
		EstimatedBytes: totalBytes,
		EstimatedMB:    mb(totalBytes),
		EstimatedGB:    gb(totalBytes),
		BBoxUsed:       bbox,
		TemporalExtent: req.Datetime,
		Collections:    collectionsForReport(req, items),
		ClippedToAOI:   clipped,
		Assets:         assets,
		Message: fmt.Sprintf(
			"Estimated %d assets across %d items using fallback heuristics (%d via metadata, %d via HEAD probe, %d failed)",
			len(assets), len(items), fromMeta, fromHead, failed,
		),
	}
}

func collectionsForReport(req Request, items []stac.Item) []string {
	if len(req.Collections) > 0 {
		return req.Collections
	}
	seen := map[string]struct{}{}
	var out []string
	for _, item := range items {
		if item.Collection == "" {
			continue
		}
		if _, ok := seen[item.Collection]; ok {
			continue
		}
		seen[item.Collection] = struct{}{}
		out = append(out, item.Collection)
	}
	sort.Strings(out)
	return orEmpty(out)
}

// temporalExtent derives "min to max" from item timestamps, falling back to
// the requested datetime filter.
func temporalExtent(items []stac.Item, requested string) string {
	var min, max *time.Time
	for _, item := range items {
		ts := item.Datetime()
		if ts == nil {
			continue
		}
		if min == nil || ts.Before(*min) {
			min = ts
		}
		if max == nil || ts.After(*max) {
			max = ts
		}
	}
	if min == nil {
		return requested
	}
	return fmt.Sprintf("%s to %s", min.Format(time.RFC3339), max.Format(time.RFC3339))
}

func spatialDims(ds *Dataset) map[string]int64 {
	x, xok := ds.Dims["x"]
	y, yok := ds.Dims["y"]
	if !xok || !yok {
		return nil
	}
	return map[string]int64{"x": x, "y": y}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
