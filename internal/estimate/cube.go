package estimate

import (
	"context"

	"stacmcp/internal/stac"
)

// Variable is the shape/dtype metadata of one data variable in a lazily
// loaded dataset. No pixel data is ever attached.
type Variable struct {
	Shape []int64
	Dtype Dtype
}

// ElementCount returns the product of the shape dimensions. An empty shape
// counts as zero elements.
func (v Variable) ElementCount() int64 {
	if len(v.Shape) == 0 {
		return 0
	}
	count := int64(1)
	for _, d := range v.Shape {
		count *= d
	}
	return count
}

// NamedVariable pairs a variable with its dataset name. Variables keep their
// dataset order so reports are deterministic.
type NamedVariable struct {
	Name string
	Variable
}

// Dataset is the shape-and-dtype view of a raster cube resolved for a query.
type Dataset struct {
	Vars []NamedVariable
	// Dims holds named dimension sizes (x, y, time, ...), when the loader
	// exposes them.
	Dims map[string]int64
}

// CubeLoader resolves matched items into a lazy raster cube scoped to the
// requested bounding box. Implementations read only shape and dtype
// metadata. Load may fail for unsupported inputs (non-raster assets, missing
// bands); the estimator treats any error as "array path unavailable" and
// falls back to per-asset strategies.
type CubeLoader interface {
	Load(ctx context.Context, items []stac.Item, bbox []float64) (*Dataset, error)
}
