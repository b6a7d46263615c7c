package stac

import (
	"encoding/json"
	"time"
)

// assetKnownKeys are the asset fields with first-class struct fields; anything
// else lands in ExtraFields.
var assetKnownKeys = map[string]struct{}{
	"href":  {},
	"type":  {},
	"title": {},
	"roles": {},
}

// Asset is one downloadable file or object referenced by an item.
type Asset struct {
	Href  string   `json:"href"`
	Type  string   `json:"type,omitempty"`
	Title string   `json:"title,omitempty"`
	Roles []string `json:"roles,omitempty"`
	// ExtraFields holds every asset field without a struct slot, notably
	// the size metadata keys (file:size, file:bytes, ...) used by the
	// estimator.
	ExtraFields map[string]interface{} `json:"-"`
}

// UnmarshalJSON keeps unknown asset fields in ExtraFields.
func (a *Asset) UnmarshalJSON(data []byte) error {
	type alias Asset
	var known alias
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range assetKnownKeys {
		delete(raw, k)
	}
	*a = Asset(known)
	if len(raw) > 0 {
		a.ExtraFields = raw
	}
	return nil
}

// MarshalJSON emits the canonical fields plus ExtraFields at the top level.
func (a Asset) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(a.ExtraFields)+4)
	for k, v := range a.ExtraFields {
		out[k] = v
	}
	out["href"] = a.Href
	if a.Type != "" {
		out["type"] = a.Type
	}
	if a.Title != "" {
		out["title"] = a.Title
	}
	if len(a.Roles) > 0 {
		out["roles"] = a.Roles
	}
	return json.Marshal(out)
}

// mapLookup is the capability hook NormalizeAsset checks before falling back
// to a best-effort scrape: any value that can serialize itself to a mapping.
type mapLookup interface {
	ToMap() map[string]interface{}
}

// NormalizeAsset converts the asset shapes that cross the tool boundary
// (Asset values, pointers, plain maps, or wrapper objects with a ToMap
// method) into one canonical Asset. It never fails; unusable input yields a
// zero Asset.
func NormalizeAsset(v interface{}) Asset {
	switch t := v.(type) {
	case Asset:
		return t
	case *Asset:
		if t != nil {
			return *t
		}
	case map[string]interface{}:
		return assetFromMap(t)
	case mapLookup:
		return assetFromMap(t.ToMap())
	}
	return Asset{}
}

func assetFromMap(m map[string]interface{}) Asset {
	a := Asset{}
	if href, ok := m["href"].(string); ok {
		a.Href = href
	}
	if mt, ok := m["type"].(string); ok {
		a.Type = mt
	} else if mt, ok := m["media_type"].(string); ok {
		a.Type = mt
	}
	if title, ok := m["title"].(string); ok {
		a.Title = title
	}
	extra := map[string]interface{}{}
	if sub, ok := m["extra_fields"].(map[string]interface{}); ok {
		for k, v := range sub {
			extra[k] = v
		}
	}
	for k, v := range m {
		switch k {
		case "href", "type", "media_type", "title", "roles", "extra_fields":
			continue
		}
		if _, exists := extra[k]; !exists {
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		a.ExtraFields = extra
	}
	return a
}

// Item is one matched catalog entry with its assets.
type Item struct {
	ID         string                 `json:"id"`
	Collection string                 `json:"collection"`
	Geometry   json.RawMessage        `json:"geometry,omitempty"`
	BBox       []float64              `json:"bbox,omitempty"`
	Properties map[string]interface{} `json:"properties"`
	Assets     map[string]Asset       `json:"assets"`
}

// Datetime parses the item's properties.datetime timestamp. Items without a
// usable timestamp return nil.
func (it Item) Datetime() *time.Time {
	raw, ok := it.Properties["datetime"].(string)
	if !ok || raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return &ts
		}
	}
	return nil
}

// Collection is a named grouping of items.
type Collection struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description,omitempty"`
	License     string                 `json:"license,omitempty"`
	Extent      map[string]interface{} `json:"extent,omitempty"`
	Providers   []interface{}          `json:"providers,omitempty"`
	Summaries   map[string]interface{} `json:"summaries,omitempty"`
	Assets      map[string]Asset       `json:"assets,omitempty"`
}

// RootDocument is the subset of the catalog landing page the tools expose.
type RootDocument struct {
	ID          string        `json:"id"`
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Links       []interface{} `json:"links,omitempty"`
	ConformsTo  []string      `json:"conformsTo,omitempty"`
}

// SearchParams are the arguments forwarded to POST /search.
type SearchParams struct {
	Collections []string               `json:"collections,omitempty"`
	BBox        []float64              `json:"bbox,omitempty"`
	Datetime    string                 `json:"datetime,omitempty"`
	Query       map[string]interface{} `json:"query,omitempty"`
	SortBy      []SortSpec             `json:"sortby,omitempty"`
	Limit       int                    `json:"limit,omitempty"`
}

// SortSpec is one sort clause for searches against catalogs that support the
// sort extension.
type SortSpec struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// CacheKey returns a stable string identity for the search, used by the
// search-result cache.
func (p SearchParams) CacheKey() string {
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(b)
}
