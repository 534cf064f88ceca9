package layout

import (
	"math"
	"reflect"
	"time"

	"github.com/hupe1980/jagged/buffer"
)

var (
	typeDuration = reflect.TypeFor[time.Duration]()
	typeDatetime = reflect.TypeFor[buffer.Datetime]()
)

// numberOf classifies v as a plain number. Datetimes and durations are not
// numbers.
func numberOf(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Type() {
	case typeDuration, typeDatetime:
		return reflect.Value{}, false
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return rv, true
	}
	return reflect.Value{}, false
}

func isIntKind(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUintKind(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// integral returns a number as int64 or uint64 when it has no fractional part.
func integral(rv reflect.Value) (i int64, u uint64, unsigned, ok bool) {
	switch k := rv.Kind(); {
	case isIntKind(k):
		return rv.Int(), 0, false, true
	case isUintKind(k):
		return 0, rv.Uint(), true, true
	default:
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, 0, false, false
		}
		return int64(f), 0, false, true
	}
}

func asFloat(rv reflect.Value) float64 {
	switch k := rv.Kind(); {
	case isIntKind(k):
		return float64(rv.Int())
	case isUintKind(k):
		return float64(rv.Uint())
	default:
		return rv.Float()
	}
}

func timeOf(v any) (buffer.Datetime, bool) {
	switch t := v.(type) {
	case time.Time:
		return buffer.DatetimeOf(t), true
	case buffer.Datetime:
		return t, true
	}
	return 0, false
}

// acceptsScalar reports whether v converts to dtype dt.
func acceptsScalar(dt buffer.DType, v any) bool {
	switch dt {
	case buffer.Bool:
		_, ok := v.(bool)
		return ok
	case buffer.Datetime64:
		_, ok := timeOf(v)
		return ok
	case buffer.Timedelta64:
		_, ok := v.(time.Duration)
		return ok
	case buffer.Float32, buffer.Float64:
		_, ok := numberOf(v)
		return ok
	}
	rv, ok := numberOf(v)
	if !ok {
		return false
	}
	_, _, _, ok = integral(rv)
	return ok
}

// convertScalar converts v to T. Integers that do not fit T fail with ErrBounds.
func convertScalar[T buffer.Scalar](v any) (T, error) {
	var zero T
	dt := buffer.DTypeOf[T]()
	switch dt {
	case buffer.Bool:
		if b, ok := v.(bool); ok {
			return any(b).(T), nil
		}
	case buffer.Datetime64:
		if d, ok := timeOf(v); ok {
			return any(d).(T), nil
		}
	case buffer.Timedelta64:
		if d, ok := v.(time.Duration); ok {
			return any(d).(T), nil
		}
	default:
		rv, ok := numberOf(v)
		if !ok {
			break
		}
		out := reflect.New(reflect.TypeFor[T]()).Elem()
		if isFloatKind(out.Kind()) {
			out.SetFloat(asFloat(rv))
			return out.Interface().(T), nil
		}
		i, u, unsigned, ok := integral(rv)
		if !ok {
			break
		}
		if isUintKind(out.Kind()) {
			if !unsigned {
				if i < 0 {
					return zero, overflowValue(v, dt)
				}
				u = uint64(i)
			}
			if out.OverflowUint(u) {
				return zero, overflowValue(v, dt)
			}
			out.SetUint(u)
			return out.Interface().(T), nil
		}
		if unsigned {
			if u > math.MaxInt64 {
				return zero, overflowValue(v, dt)
			}
			i = int64(u)
		}
		if out.OverflowInt(i) {
			return zero, overflowValue(v, dt)
		}
		out.SetInt(i)
		return out.Interface().(T), nil
	}
	return zero, pushError(v, KindPrimitive)
}
