package estimate

import (
	"encoding/json"
	"strconv"
	"strings"

	"stacmcp/internal/stac"
)

// sizeMetadataKeys is the ordered list of asset metadata keys that may carry
// an explicit byte count. First match wins.
var sizeMetadataKeys = []string{
	"file:size",
	"file:bytes",
	"bytes",
	"size",
	"byte_size",
	"content_length",
}

// SizeFromMetadata returns the declared byte count of an asset, probing the
// known size keys in order. Assets are normalized before the lookup, so the
// keys are found whether they arrived in an extra_fields sub-bag or directly
// on the asset (extra_fields wins on conflict). Non-numeric values are
// skipped, not errors. Pure function over its input.
func SizeFromMetadata(asset stac.Asset) (int64, bool) {
	for _, key := range sizeMetadataKeys {
		v, ok := asset.ExtraFields[key]
		if !ok {
			continue
		}
		if n, ok := coerceInt64(v); ok {
			return n, true
		}
	}
	return 0, false
}

// coerceInt64 converts the value shapes JSON decoding and loose catalogs
// produce (float64, int, json.Number, numeric strings) into an integer byte
// count.
func coerceInt64(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		if f, err := t.Float64(); err == nil {
			return int64(f), true
		}
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), true
		}
	}
	return 0, false
}
