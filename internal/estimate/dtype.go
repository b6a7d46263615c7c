package estimate

import "strings"

// Dtype identifies the binary storage type of one array element, using the
// conventional numeric type names (uint16, float32, ...).
type Dtype string

const (
	Uint8   Dtype = "uint8"
	Int8    Dtype = "int8"
	Uint16  Dtype = "uint16"
	Int16   Dtype = "int16"
	Uint32  Dtype = "uint32"
	Int32   Dtype = "int32"
	Uint64  Dtype = "uint64"
	Int64   Dtype = "int64"
	Float16 Dtype = "float16"
	Float32 Dtype = "float32"
	Float64 Dtype = "float64"
)

// ParseDtype normalizes a reported dtype string (case and surrounding
// space). Numpy-style byte-order codes like "<u2" are not expanded; only
// named types are recognized. Unknown names pass through so callers can
// still report them verbatim.
func ParseDtype(s string) Dtype {
	return Dtype(strings.ToLower(strings.TrimSpace(s)))
}

// ItemSize returns the storage width of one element in bytes. Unknown dtypes
// report the generic float64 width, the same "no adjustment available"
// behavior as an absent registry entry.
func (d Dtype) ItemSize() int64 {
	switch d {
	case Uint8, Int8:
		return 1
	case Uint16, Int16, Float16:
		return 2
	case Uint32, Int32, Float32:
		return 4
	case Uint64, Int64, Float64:
		return 8
	default:
		return 8
	}
}

// NarrowerThan reports whether d stores elements in fewer bytes than other.
func (d Dtype) NarrowerThan(other Dtype) bool {
	return d.ItemSize() < other.ItemSize()
}
