package estimate

import (
	"sort"
	"strings"
)

// defaultIgnoreNameSubstrings mark preview-style assets that never count
// toward a size estimate.
var defaultIgnoreNameSubstrings = []string{"preview", "thumbnail", "browse", "rgb"}

// ignoreMediaTypeSubstrings mark preview-style media types. Some catalogs
// expose thumbnails only via an image/jpeg or image/png media type.
var ignoreMediaTypeSubstrings = []string{"thumbnail", "preview", "jpeg", "png"}

// SensorInfo describes one collection's native storage characteristics.
type SensorInfo struct {
	// DefaultDtype is the storage type of the main image bands.
	DefaultDtype Dtype
	// BandOverrides maps an asset-name substring to a dtype for special
	// bands (e.g. a scene classification layer stored as int8).
	BandOverrides map[string]Dtype
	// IgnoreNameSubstrings marks assets to skip entirely; empty means the
	// defaults (preview, thumbnail, browse, rgb).
	IgnoreNameSubstrings []string
}

// DtypeForAsset returns the preferred dtype for an asset given its name.
// The lookup is substring-based and case-insensitive; overrides are checked
// in sorted key order so the first match is deterministic. An empty name
// returns the empty dtype.
func (s *SensorInfo) DtypeForAsset(assetName string) Dtype {
	if assetName == "" {
		return ""
	}
	name := strings.ToLower(assetName)
	keys := make([]string, 0, len(s.BandOverrides))
	for k := range s.BandOverrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(name, strings.ToLower(k)) {
			return s.BandOverrides[k]
		}
	}
	return s.DefaultDtype
}

// ShouldIgnoreAsset reports whether the asset is a preview-style artifact
// that must be excluded from estimation, based on its name or media type.
func (s *SensorInfo) ShouldIgnoreAsset(assetName, mediaType string) bool {
	ignores := s.IgnoreNameSubstrings
	if len(ignores) == 0 {
		ignores = defaultIgnoreNameSubstrings
	}
	if assetName != "" {
		name := strings.ToLower(assetName)
		for _, sub := range ignores {
			if strings.Contains(name, strings.ToLower(sub)) {
				return true
			}
		}
	}
	if mediaType != "" {
		mt := strings.ToLower(mediaType)
		for _, sub := range ignoreMediaTypeSubstrings {
			if strings.Contains(mt, sub) {
				return true
			}
		}
	}
	return false
}

// aliasRule maps a catalog-specific collection ID back to a canonical
// registry entry. CatalogSubstr, when set, restricts the rule to catalogs
// whose base URL contains it.
type aliasRule struct {
	Alias         string
	CatalogSubstr string
	Canonical     string
}

// Registry maps collection identifiers to their sensor storage
// characteristics. It is immutable after construction; build one with
// NewRegistry at startup and share it by reference.
type Registry struct {
	sensors map[string]SensorInfo
	aliases []aliasRule
}

func makeInfo(def Dtype, overrides map[string]Dtype) SensorInfo {
	return SensorInfo{DefaultDtype: def, BandOverrides: overrides}
}

// NewRegistry builds the static sensor table. The table is not exhaustive;
// unknown collections simply get no adjustment.
func NewRegistry() *Registry {
	return &Registry{
		sensors: map[string]SensorInfo{
			// Sentinel / Copernicus
			"sentinel-2-l2a":                makeInfo(Uint16, map[string]Dtype{"scl": Int8}),
			"sentinel-2-l1c":                makeInfo(Uint16, nil),
			"sentinel-2-c1-l2a":             makeInfo(Uint16, map[string]Dtype{"scl": Int8}),
			"sentinel-2-pre-c1-l2a":         makeInfo(Uint16, map[string]Dtype{"scl": Int8}),
			"sentinel-1-grd":                makeInfo(Float32, nil),
			"sentinel-1-rtc":                makeInfo(Float32, nil),
			"sentinel-3-olci-lfr-l2-netcdf": makeInfo(Float32, nil),
			"sentinel-5p-l2-netcdf":         makeInfo(Float32, nil),
			// Landsat
			"landsat-c2-l2": makeInfo(Uint16, map[string]Dtype{"qa": Uint16}),
			"landsat-c2-l1": makeInfo(Uint16, map[string]Dtype{"qa": Uint16}),
			// Harmonized Landsat Sentinel
			"hls2-s30": makeInfo(Uint16, map[string]Dtype{"scl": Int8}),
			"hls2-l30": makeInfo(Uint16, map[string]Dtype{"scl": Int8}),
			// MODIS
			"modis-09a1-061": makeInfo(Int16, nil),
			"modis-09q1-061": makeInfo(Int16, nil),
			// NAIP aerial imagery
			"naip": makeInfo(Uint8, nil),
			// Climate / gridded
			"daymet-daily-pr":   makeInfo(Float32, nil),
			"daymet-daily-na":   makeInfo(Float32, nil),
			"daymet-annual-na":  makeInfo(Float32, nil),
			"daymet-monthly-na": makeInfo(Float32, nil),
			"gridmet":           makeInfo(Float32, nil),
			"terraclimate":      makeInfo(Float32, nil),
			"era5-pds":          makeInfo(Float32, nil),
			// Elevation models
			"cop-dem-glo-30":       makeInfo(Float32, nil),
			"cop-dem-glo-90":       makeInfo(Float32, nil),
			"3dep-seamless":        makeInfo(Float32, nil),
			"3dep-lidar-dsm":       makeInfo(Float32, nil),
			"3dep-lidar-dtm":       makeInfo(Float32, nil),
			"3dep-lidar-intensity": makeInfo(Float32, nil),
			"nasadem":              makeInfo(Float32, nil),
			// Misc
			"gpm-imerg-hhr": makeInfo(Float32, nil),
			"hgb":           makeInfo(Float32, nil),
			"ms-buildings":  makeInfo(Uint8, nil),
			"io-lulc":       makeInfo(Uint8, nil),
			"us-census":     makeInfo(Uint8, nil),
		},
		aliases: []aliasRule{
			// AWS Earth Search re-identifies Sentinel-2 L2A collections.
			{Alias: "sentinel-2-c1-l2a", CatalogSubstr: "earth-search.aws.element84.com", Canonical: "sentinel-2-l2a"},
			{Alias: "sentinel-s2-l2a-cogs", CatalogSubstr: "earth-search.aws.element84.com", Canonical: "sentinel-2-l2a"},
			{Alias: "sentinel-s2-l1c", CatalogSubstr: "earth-search.aws.element84.com", Canonical: "sentinel-2-l1c"},
			// USGS exposes Landsat Collection 2 under per-level IDs.
			{Alias: "landsat-c2l2-sr", Canonical: "landsat-c2-l2"},
			{Alias: "landsat-c2l1", Canonical: "landsat-c2-l1"},
		},
	}
}

// Info returns the sensor info for an exact collection ID match
// (case-insensitive). Unknown or empty IDs return nil; this is a normal
// outcome meaning "no registry adjustment available", never an error.
func (r *Registry) Info(collectionID string) *SensorInfo {
	if collectionID == "" {
		return nil
	}
	if info, ok := r.sensors[strings.ToLower(collectionID)]; ok {
		return &info
	}
	return nil
}

// ResolveForCatalog resolves a collection ID to its canonical registry
// entry, consulting the alias table when the exact ID is unknown. Alias
// rules restricted to a catalog URL match on substring, case-insensitively
// and tolerant of a trailing slash. No match returns ("", nil).
func (r *Registry) ResolveForCatalog(collectionID, catalogURL string) (string, *SensorInfo) {
	if collectionID == "" {
		return "", nil
	}
	id := strings.ToLower(collectionID)
	if info := r.Info(id); info != nil {
		return id, info
	}

	url := strings.ToLower(strings.TrimRight(catalogURL, "/"))
	for _, rule := range r.aliases {
		if !strings.EqualFold(rule.Alias, id) {
			continue
		}
		if rule.CatalogSubstr != "" && !strings.Contains(url, strings.ToLower(rule.CatalogSubstr)) {
			continue
		}
		if info := r.Info(rule.Canonical); info != nil {
			return rule.Canonical, info
		}
	}
	return "", nil
}
