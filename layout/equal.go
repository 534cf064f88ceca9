package layout

import (
	"bytes"
	"reflect"
	"time"
)

// Equal reports whether a and b hold the same logical values, whatever their
// physical variants. Missing compares equal to missing and unequal to any
// present value. Unreadable elements compare unequal.
func Equal(a, b Node) bool {
	if a == b {
		return true
	}
	if a.Len() != b.Len() {
		return false
	}
	if !sameMissing(a, b) {
		return false
	}
	for i := range a.Len() {
		x, err := a.at(i)
		if err != nil {
			return false
		}
		y, err := b.at(i)
		if err != nil {
			return false
		}
		if !EqualValues(x, y) {
			return false
		}
	}
	return true
}

// sameMissing compares the missing positions of two option nodes.
func sameMissing(a, b Node) bool {
	_, aok := a.(optionNode)
	_, bok := b.(optionNode)
	if !aok || !bok {
		return true
	}
	return MissingBitmap(a).Equals(MissingBitmap(b))
}

// EqualValues compares two element values as returned by Get.
func EqualValues(x, y any) bool {
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	switch xv := x.(type) {
	case Node:
		yv, ok := y.(Node)
		return ok && Equal(xv, yv)
	case RecordView:
		yv, ok := y.(RecordView)
		return ok && equalRecords(xv, yv)
	case TupleView:
		yv, ok := y.(TupleView)
		return ok && equalTuples(xv, yv)
	case string:
		switch yv := y.(type) {
		case string:
			return xv == yv
		case []byte:
			return xv == string(yv)
		}
		return false
	case []byte:
		switch yv := y.(type) {
		case []byte:
			return bytes.Equal(xv, yv)
		case string:
			return string(xv) == yv
		}
		return false
	case bool:
		yv, ok := y.(bool)
		return ok && xv == yv
	case time.Time:
		yv, ok := y.(time.Time)
		return ok && xv.Equal(yv)
	case time.Duration:
		yv, ok := y.(time.Duration)
		return ok && xv == yv
	}
	xn, xok := numberOf(x)
	yn, yok := numberOf(y)
	if xok && yok {
		return equalNumbers(xn, yn)
	}
	return reflect.DeepEqual(x, y)
}

func equalNumbers(x, y reflect.Value) bool {
	xk, yk := x.Kind(), y.Kind()
	if isFloatKind(xk) || isFloatKind(yk) {
		return asFloat(x) == asFloat(y)
	}
	switch {
	case isIntKind(xk) && isIntKind(yk):
		return x.Int() == y.Int()
	case isUintKind(xk) && isUintKind(yk):
		return x.Uint() == y.Uint()
	case isIntKind(xk):
		return x.Int() >= 0 && uint64(x.Int()) == y.Uint()
	default:
		return y.Int() >= 0 && uint64(y.Int()) == x.Uint()
	}
}

func equalRecords(x, y RecordView) bool {
	if len(x.Fields()) != len(y.Fields()) {
		return false
	}
	for _, f := range x.Fields() {
		xv, err := x.Field(f)
		if err != nil {
			return false
		}
		yv, err := y.Field(f)
		if err != nil {
			return false
		}
		if !EqualValues(xv, yv) {
			return false
		}
	}
	return true
}

func equalTuples(x, y TupleView) bool {
	if x.Len() != y.Len() {
		return false
	}
	for k := range x.Len() {
		xv, err := x.At(k)
		if err != nil {
			return false
		}
		yv, err := y.At(k)
		if err != nil {
			return false
		}
		if !EqualValues(xv, yv) {
			return false
		}
	}
	return true
}
