package serverfn

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// decodeArg fills arg from the payload according to the encoding.
// Form and query encodings go through a JSON round trip so the same
// struct tags drive every encoding.
func decodeArg(enc Encoding, payload Payload, arg any) error {
	switch enc {
	case EncodingJSON:
		if len(payload.Data) == 0 {
			return nil
		}
		return json.Unmarshal(payload.Data, arg)

	case EncodingCbor:
		if len(payload.Data) == 0 {
			return nil
		}
		return cbor.Unmarshal(payload.Data, arg)

	case EncodingURL, EncodingGetJSON, EncodingGetCbor:
		values, err := url.ParseQuery(string(payload.Data))
		if err != nil {
			return fmt.Errorf("parse form data: %w", err)
		}
		return decodeValues(values, arg)

	default:
		return fmt.Errorf("unsupported encoding %s", enc)
	}
}

// decodeValues converts url.Values into arg via JSON. Each value is
// converted toward the kind of the struct field it targets, so a
// string field keeps numeric-looking text like a zip code while a
// neighboring int field still decodes from its digits. Keys without a
// matching field get a best-guess coercion.
func decodeValues(values url.Values, arg any) error {
	if len(values) == 0 {
		return nil
	}

	kinds := fieldKinds(arg)
	obj := make(map[string]any, len(values))
	for key, vals := range values {
		convert := converterFor(kinds[key])
		if len(vals) == 1 {
			obj[key] = convert(vals[0])
			continue
		}
		converted := make([]any, len(vals))
		for i, v := range vals {
			converted[i] = convert(v)
		}
		obj[key] = converted
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, arg)
}

// fieldKinds maps the json names of arg's struct fields to their
// kinds. Pointer fields are dereferenced and slice fields map to their
// element kind, matching how repeated query values decode.
func fieldKinds(arg any) map[string]reflect.Kind {
	kinds := make(map[string]reflect.Kind)

	t := reflect.TypeOf(arg)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return kinds
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag == "-" {
			continue
		} else if tag != "" {
			name = tag
		}
		ft := f.Type
		for ft.Kind() == reflect.Pointer || ft.Kind() == reflect.Slice {
			ft = ft.Elem()
		}
		kinds[name] = ft.Kind()
	}
	return kinds
}

// converterFor returns the string conversion for a target field kind.
// Values that fail to parse stay strings so json.Unmarshal reports the
// field instead of a silent zero.
func converterFor(kind reflect.Kind) func(string) any {
	switch kind {
	case reflect.String:
		return func(s string) any { return s }

	case reflect.Bool:
		return func(s string) any {
			if b, err := strconv.ParseBool(s); err == nil {
				return b
			}
			return s
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return func(s string) any {
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return n
			}
			return s
		}

	case reflect.Float32, reflect.Float64:
		return func(s string) any {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
			return s
		}

	default:
		return coerceValue
	}
}

// coerceValue guesses the JSON type of a bare string. Used for keys
// that do not correspond to a known struct field.
func coerceValue(s string) any {
	if s == "true" {
		return true
	}
	if s == "false" {
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
