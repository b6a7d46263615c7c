package estimate

import "math"

// boundsFromGeoJSON computes the [minx, miny, maxx, maxy] bounds of a
// GeoJSON value (Geometry, Feature or FeatureCollection). Returns false when
// no coordinates can be found.
func boundsFromGeoJSON(geo map[string]interface{}) ([]float64, bool) {
	b := &bounds{
		minX: math.Inf(1), minY: math.Inf(1),
		maxX: math.Inf(-1), maxY: math.Inf(-1),
	}
	collectBounds(geo, b)
	if !b.valid {
		return nil, false
	}
	return []float64{b.minX, b.minY, b.maxX, b.maxY}, true
}

type bounds struct {
	minX, minY, maxX, maxY float64
	valid                  bool
}

func (b *bounds) add(x, y float64) {
	b.minX = math.Min(b.minX, x)
	b.minY = math.Min(b.minY, y)
	b.maxX = math.Max(b.maxX, x)
	b.maxY = math.Max(b.maxY, y)
	b.valid = true
}

func collectBounds(geo map[string]interface{}, b *bounds) {
	switch geo["type"] {
	case "FeatureCollection":
		features, _ := geo["features"].([]interface{})
		for _, f := range features {
			if fm, ok := f.(map[string]interface{}); ok {
				collectBounds(fm, b)
			}
		}
		return
	case "Feature":
		if gm, ok := geo["geometry"].(map[string]interface{}); ok {
			collectBounds(gm, b)
		}
		return
	case "GeometryCollection":
		geoms, _ := geo["geometries"].([]interface{})
		for _, g := range geoms {
			if gm, ok := g.(map[string]interface{}); ok {
				collectBounds(gm, b)
			}
		}
		return
	}
	walkCoordinates(geo["coordinates"], b)
}

// walkCoordinates descends arbitrarily nested coordinate arrays. A leaf is a
// position: an array whose first two elements are numbers.
func walkCoordinates(v interface{}, b *bounds) {
	arr, ok := v.([]interface{})
	if !ok || len(arr) == 0 {
		return
	}
	if x, xok := arr[0].(float64); xok && len(arr) >= 2 {
		if y, yok := arr[1].(float64); yok {
			b.add(x, y)
			return
		}
	}
	for _, elem := range arr {
		walkCoordinates(elem, b)
	}
}

// intersectBBox clips a bounding box to AOI bounds. With no bbox the AOI
// bounds win outright.
func intersectBBox(bbox, aoi []float64) []float64 {
	if len(bbox) != 4 {
		out := make([]float64, 4)
		copy(out, aoi)
		return out
	}
	return []float64{
		math.Max(bbox[0], aoi[0]),
		math.Max(bbox[1], aoi[1]),
		math.Min(bbox[2], aoi[2]),
		math.Min(bbox[3], aoi[3]),
	}
}
