package stac

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetUnmarshalKeepsExtraFields(t *testing.T) {
	raw := `{
		"href": "https://example.com/B04.tif",
		"type": "image/tiff; application=geotiff",
		"title": "Red band",
		"roles": ["data"],
		"file:size": 123456,
		"proj:epsg": 32633
	}`
	var a Asset
	require.NoError(t, json.Unmarshal([]byte(raw), &a))

	assert.Equal(t, "https://example.com/B04.tif", a.Href)
	assert.Equal(t, "Red band", a.Title)
	assert.Equal(t, []string{"data"}, a.Roles)
	assert.Equal(t, float64(123456), a.ExtraFields["file:size"])
	assert.Equal(t, float64(32633), a.ExtraFields["proj:epsg"])
	// Known fields never leak into the extras bag.
	assert.NotContains(t, a.ExtraFields, "href")
}

func TestAssetMarshalRoundTrip(t *testing.T) {
	a := Asset{
		Href:        "https://example.com/data.tif",
		Type:        "image/tiff",
		ExtraFields: map[string]interface{}{"file:size": float64(42)},
	}
	encoded, err := json.Marshal(a)
	require.NoError(t, err)

	var decoded Asset
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, a.Href, decoded.Href)
	assert.Equal(t, a.Type, decoded.Type)
	assert.Equal(t, float64(42), decoded.ExtraFields["file:size"])
}

type mapWrapper struct{ m map[string]interface{} }

func (w mapWrapper) ToMap() map[string]interface{} { return w.m }

func TestNormalizeAssetShapes(t *testing.T) {
	want := Asset{Href: "https://example.com/x.tif"}

	assert.Equal(t, want, NormalizeAsset(want))
	assert.Equal(t, want, NormalizeAsset(&want))
	assert.Equal(t, Asset{}, NormalizeAsset((*Asset)(nil)))
	assert.Equal(t, Asset{}, NormalizeAsset(42))

	fromMap := NormalizeAsset(map[string]interface{}{
		"href":       "https://example.com/x.tif",
		"media_type": "image/tiff",
		"file:size":  float64(7),
	})
	assert.Equal(t, "https://example.com/x.tif", fromMap.Href)
	assert.Equal(t, "image/tiff", fromMap.Type)
	assert.Equal(t, float64(7), fromMap.ExtraFields["file:size"])

	fromWrapper := NormalizeAsset(mapWrapper{m: map[string]interface{}{
		"href": "https://example.com/y.tif",
	}})
	assert.Equal(t, "https://example.com/y.tif", fromWrapper.Href)
}

func TestNormalizeAssetExtraFieldsBagWins(t *testing.T) {
	a := NormalizeAsset(map[string]interface{}{
		"href": "https://example.com/x.tif",
		"extra_fields": map[string]interface{}{
			"file:size": float64(100),
		},
		"file:size": float64(999),
	})
	assert.Equal(t, float64(100), a.ExtraFields["file:size"])
}

func TestItemDatetime(t *testing.T) {
	item := Item{Properties: map[string]interface{}{"datetime": "2024-06-01T12:30:00Z"}}
	ts := item.Datetime()
	require.NotNil(t, ts)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC), ts.UTC())

	dateOnly := Item{Properties: map[string]interface{}{"datetime": "2024-06-01"}}
	require.NotNil(t, dateOnly.Datetime())

	assert.Nil(t, Item{}.Datetime())
	assert.Nil(t, Item{Properties: map[string]interface{}{"datetime": "garbage"}}.Datetime())
}

func TestSearchParamsCacheKeyStable(t *testing.T) {
	p := SearchParams{Collections: []string{"naip"}, Limit: 5}
	assert.Equal(t, p.CacheKey(), p.CacheKey())
	assert.NotEqual(t, p.CacheKey(), SearchParams{Collections: []string{"naip"}, Limit: 6}.CacheKey())
}
