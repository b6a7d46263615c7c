package estimate

import "math"

// Estimation methods recorded per asset. A failed probe is not an error; it
// is a zero-contribution data point callers can distinguish from a confirmed
// zero.
const (
	MethodMetadata = "metadata"
	MethodHead     = "head"
	MethodFailed   = "failed"
)

// AssetEstimate is one line of the per-asset report.
type AssetEstimate struct {
	Asset          string  `json:"asset"`
	MediaType      string  `json:"media_type"`
	Href           string  `json:"href"`
	EstimatedBytes int64   `json:"estimated_size_bytes"`
	EstimatedMB    float64 `json:"estimated_size_mb"`
	Method         string  `json:"method"`
}

// VariableEstimate is one line of the array-path report.
type VariableEstimate struct {
	Variable       string  `json:"variable"`
	Shape          []int64 `json:"shape"`
	Dtype          string  `json:"dtype"`
	EstimatedBytes int64   `json:"estimated_size_bytes"`
	EstimatedMB    float64 `json:"estimated_size_mb"`
	// SensorNativeBytes is the byte count at the registry's native dtype.
	// Equal to EstimatedBytes when no narrower dtype is registered.
	SensorNativeBytes int64 `json:"sensor_native_bytes"`
	// SensorNativeDtype is set when the registry recommends a dtype that
	// differs from the reported one.
	SensorNativeDtype       string `json:"sensor_native_dtype,omitempty"`
	SensorNativeRecommended bool   `json:"sensor_native_recommended"`
}

// Report is the aggregate estimation result. The raw byte integers are
// authoritative; the MB/GB fields are display-rounded derivations.
type Report struct {
	ItemCount      int     `json:"item_count"`
	EstimatedBytes int64   `json:"estimated_size_bytes"`
	EstimatedMB    float64 `json:"estimated_size_mb"`
	EstimatedGB    float64 `json:"estimated_size_gb"`

	// Sensor-native totals are present only when the array path ran.
	SensorNativeBytes *int64   `json:"sensor_native_estimated_size_bytes,omitempty"`
	SensorNativeMB    *float64 `json:"sensor_native_estimated_size_mb,omitempty"`

	BBoxUsed       []float64 `json:"bbox_used,omitempty"`
	TemporalExtent string    `json:"temporal_extent,omitempty"`
	Collections    []string  `json:"collections"`
	ClippedToAOI   bool      `json:"clipped_to_aoi"`

	Assets      []AssetEstimate    `json:"assets_analyzed,omitempty"`
	Variables   []VariableEstimate `json:"data_variables,omitempty"`
	SpatialDims map[string]int64   `json:"spatial_dims,omitempty"`

	Message string `json:"message"`
}

// mb converts bytes to display megabytes, rounded to two decimals.
func mb(bytes int64) float64 {
	return round(float64(bytes)/(1024*1024), 2)
}

// gb converts bytes to display gigabytes, rounded to four decimals.
func gb(bytes int64) float64 {
	return round(float64(bytes)/(1024*1024*1024), 4)
}

func round(v float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}
