// Package masker renders configuration structs for logging with secrets hidden.
package masker

import (
	"errors"
	"reflect"
	"unicode/utf8"
)

// ErrNotStruct is returned when the value is neither a struct nor a pointer to one.
var ErrNotStruct = errors.New("masker: value must be a struct or pointer to struct")

const mask = "****"

// Fields flattens a struct into dotted keys. Keys come from the mapstructure
// tag when present, otherwise from the field name. String fields tagged
// masked:"true" keep only their first and last rune.
func Fields(cfg any) (map[string]any, error) {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, ErrNotStruct
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, ErrNotStruct
	}

	out := make(map[string]any)
	walk(v, "", out)
	return out, nil
}

// KeyValues returns Fields as an alternating key/value slice for zap's *w methods.
func KeyValues(cfg any) ([]any, error) {
	fields, err := Fields(cfg)
	if err != nil {
		return nil, err
	}
	kv := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return kv, nil
}

func walk(v reflect.Value, prefix string, out map[string]any) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Tag.Get("mapstructure")
		if name == "" || name == "-" {
			name = sf.Name
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}

		field := v.Field(i)
		switch {
		case field.Kind() == reflect.Struct && field.Type().PkgPath() != "time":
			walk(field, key, out)
		case field.Kind() == reflect.String && sf.Tag.Get("masked") == "true":
			out[key] = Mask(field.String())
		default:
			out[key] = field.Interface()
		}
	}
}

// Mask hides all but the first and last rune. Short or empty values become "****".
func Mask(s string) string {
	if utf8.RuneCountInString(s) <= 2 {
		return mask
	}
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	return string(first) + mask + string(last)
}
