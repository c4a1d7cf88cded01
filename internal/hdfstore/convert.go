package hdfstore

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/pkg/errors"
)

// toInt64 converts a value decoded by go-hdf5 to an integer.
func toInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case int:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case float32:
		return int64(x), true
	case float64:
		return int64(x), true
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// toFloat64 converts a value decoded by go-hdf5 to a float.
func toFloat64(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		n, ok := toInt64(v)
		return float64(n), ok
	}
}

// toString formats a value decoded by go-hdf5.
func toString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(v)
	}
}

// isFloat reports whether a decoded value is a floating-point number.
func isFloat(v interface{}) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

// valueKind classifies a dataset element type.
type valueKind uint8

const (
	intValues valueKind = iota
	floatValues
	stringValues
)

func kindOf(t reflect.Type) (valueKind, error) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return intValues, nil
	case reflect.Float32, reflect.Float64:
		return floatValues, nil
	case reflect.String:
		return stringValues, nil
	default:
		return 0, errors.Wrapf(ErrShape, "element type %v", t)
	}
}

// stringsOf flattens an attribute value into strings.
func stringsOf(v interface{}) []string {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []string{toString(v)}
	}
	out := make([]string, rv.Len())
	for i := range out {
		out[i] = toString(rv.Index(i).Interface())
	}
	return out
}

// shotColumn converts decoded shot numbers, rejecting values that can not
// be shot numbers.
func shotColumn(path, field string, n int, at func(i int) (int64, bool)) ([]uint32, error) {
	out := make([]uint32, n)
	for i := range n {
		v, ok := at(i)
		if !ok || v < 0 || v > math.MaxUint32 {
			return nil, errors.Errorf("%s: field %q row %d is not a shot number", path, field, i)
		}
		out[i] = uint32(v)
	}
	return out, nil
}
