package estimate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geo(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestBoundsFromPolygon(t *testing.T) {
	b, ok := boundsFromGeoJSON(geo(t, `{
		"type": "Polygon",
		"coordinates": [[[1, 2], [5, 2], [5, 6], [1, 6], [1, 2]]]
	}`))
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2, 5, 6}, b)
}

func TestBoundsFromFeatureCollection(t *testing.T) {
	b, ok := boundsFromGeoJSON(geo(t, `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-3, 4]}},
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [7, -1]}}
		]
	}`))
	require.True(t, ok)
	assert.Equal(t, []float64{-3, -1, 7, 4}, b)
}

func TestBoundsFromGeometryCollection(t *testing.T) {
	b, ok := boundsFromGeoJSON(geo(t, `{
		"type": "GeometryCollection",
		"geometries": [
			{"type": "Point", "coordinates": [0, 0]},
			{"type": "LineString", "coordinates": [[2, 2], [4, 8]]}
		]
	}`))
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0, 4, 8}, b)
}

func TestBoundsNoCoordinates(t *testing.T) {
	_, ok := boundsFromGeoJSON(geo(t, `{"type": "FeatureCollection", "features": []}`))
	assert.False(t, ok)

	_, ok = boundsFromGeoJSON(map[string]interface{}{})
	assert.False(t, ok)
}

func TestIntersectBBox(t *testing.T) {
	got := intersectBBox([]float64{0, 0, 10, 10}, []float64{2, -5, 8, 12})
	assert.Equal(t, []float64{2, 0, 8, 10}, got)
}

func TestIntersectBBoxNoBBox(t *testing.T) {
	got := intersectBBox(nil, []float64{1, 2, 3, 4})
	assert.Equal(t, []float64{1, 2, 3, 4}, got)
}
