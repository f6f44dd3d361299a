package codeview

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// DecodeValue converts a cell value of any type into its display string.
//
// Text and byte values are returned verbatim, scalars use their canonical
// strconv form, time values use RFC 3339, and structured values (maps,
// slices, structs) are encoded as JSON without HTML escaping. Maps whose
// keys JSON cannot encode, such as YAML's map[any]any, use their fmt form.
// ok is false when v has no faithful string form; DecodeValue never panics.
func DecodeValue(v any) (s string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s, ok = "", false
		}
	}()

	switch x := v.(type) {
	case nil:
		return "", true
	case string:
		return x, true
	case []byte:
		return string(x), true
	case json.RawMessage:
		return string(x), true
	case time.Time:
		return x.Format(time.RFC3339Nano), true
	case error:
		return x.Error(), true
	case fmt.Stringer:
		return x.String(), true
	}

	return decodeReflect(reflect.ValueOf(v))
}

func decodeReflect(rv reflect.Value) (string, bool) {
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), true
	case reflect.Complex64:
		return strconv.FormatComplex(rv.Complex(), 'g', -1, 64), true
	case reflect.Complex128:
		return strconv.FormatComplex(rv.Complex(), 'g', -1, 128), true
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "", true
		}
		return DecodeValue(rv.Elem().Interface())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes()), true
		}
	case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Invalid:
		return "", false
	}

	return encodeJSON(rv.Interface())
}

func encodeJSON(v any) (string, bool) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		var typeErr *json.UnsupportedTypeError
		if errors.As(err, &typeErr) && typeErr.Type.Kind() == reflect.Map {
			return fmt.Sprint(v), true
		}
		return "", false
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), true
}
