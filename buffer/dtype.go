package buffer

import (
	"fmt"
	"time"
)

// DType identifies the element type of a primitive buffer.
type DType uint8

const (
	// Invalid is the zero DType.
	Invalid DType = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	// Datetime64 stores nanoseconds since the Unix epoch.
	Datetime64
	// Timedelta64 stores a time.Duration.
	Timedelta64
)

var dtypeNames = [...]string{
	Invalid:     "invalid",
	Bool:        "bool",
	Int8:        "int8",
	Int16:       "int16",
	Int32:       "int32",
	Int64:       "int64",
	Uint8:       "uint8",
	Uint16:      "uint16",
	Uint32:      "uint32",
	Uint64:      "uint64",
	Float32:     "float32",
	Float64:     "float64",
	Datetime64:  "datetime64[ns]",
	Timedelta64: "timedelta64[ns]",
}

var dtypeSizes = [...]int{
	Bool: 1, Int8: 1, Int16: 2, Int32: 4, Int64: 8,
	Uint8: 1, Uint16: 2, Uint32: 4, Uint64: 8,
	Float32: 4, Float64: 8, Datetime64: 8, Timedelta64: 8,
}

// String returns the primitive name used in schema descriptors.
func (d DType) String() string {
	if int(d) < len(dtypeNames) {
		return dtypeNames[d]
	}
	return fmt.Sprintf("dtype(%d)", uint8(d))
}

// Size returns the width of one element in bytes, or 0 for Invalid.
func (d DType) Size() int {
	if int(d) < len(dtypeSizes) {
		return dtypeSizes[d]
	}
	return 0
}

// ParseDType parses a primitive name such as "float64" or "datetime64[ns]".
func ParseDType(name string) (DType, error) {
	for i, n := range dtypeNames {
		if i != int(Invalid) && n == name {
			return DType(i), nil
		}
	}
	switch name {
	case "datetime64":
		return Datetime64, nil
	case "timedelta64":
		return Timedelta64, nil
	}
	return Invalid, fmt.Errorf("buffer: unknown primitive %q", name)
}

// Datetime is a point in time stored as nanoseconds since the Unix epoch (UTC).
type Datetime int64

// DatetimeOf converts t to a Datetime.
func DatetimeOf(t time.Time) Datetime { return Datetime(t.UnixNano()) }

// Time returns d as a UTC time.Time.
func (d Datetime) Time() time.Time { return time.Unix(0, int64(d)).UTC() }

// Scalar is the closed set of element types a Buffer can hold.
type Scalar interface {
	bool | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 |
		float32 | float64 | Datetime | time.Duration
}

// DTypeOf returns the DType of T.
func DTypeOf[T Scalar]() DType {
	var zero T
	switch any(zero).(type) {
	case bool:
		return Bool
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case uint64:
		return Uint64
	case float32:
		return Float32
	case float64:
		return Float64
	case Datetime:
		return Datetime64
	case time.Duration:
		return Timedelta64
	}
	return Invalid
}
