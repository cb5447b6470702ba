// Package searchstate keeps a typed list filter in sync with a URL query
// string. The struct's form tags are the wire format, shared with the
// server's query binding.
package searchstate

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
)

const formTag = "form"

var timeType = reflect.TypeOf(time.Time{})

// Decode fills a new F from query. Missing keys take the default= values of
// the form tags.
func Decode[F any](query url.Values) (F, error) {
	var f F
	if query == nil {
		query = url.Values{}
	}
	if err := binding.MapFormWithTag(&f, query, formTag); err != nil {
		return f, fmt.Errorf("searchstate: decoding query: %w", err)
	}
	return f, nil
}

// Encode serializes the form-tagged fields of filter. Empty strings, nil
// pointers, empty slices and zero times are omitted. Slices repeat the key.
func Encode(filter any) (url.Values, error) {
	v := reflect.ValueOf(filter)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("searchstate: cannot encode %T", filter)
	}

	out := url.Values{}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name := fieldKey(sf)
		if name == "" {
			continue
		}
		if err := encodeValue(out, name, sf, v.Field(i)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// fieldKey returns the query key of sf, or "" when it is not serialized.
func fieldKey(sf reflect.StructField) string {
	if !sf.IsExported() {
		return ""
	}
	tag := sf.Tag.Get(formTag)
	if tag == "" || tag == "-" {
		return ""
	}
	return strings.SplitN(tag, ",", 2)[0]
}

func encodeValue(out url.Values, name string, sf reflect.StructField, v reflect.Value) error {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	if v.Type() == timeType {
		ts := v.Interface().(time.Time)
		if ts.IsZero() {
			return nil
		}
		layout := sf.Tag.Get("time_format")
		if layout == "" {
			layout = time.RFC3339
		}
		out.Set(name, ts.Format(layout))
		return nil
	}

	if v.Kind() == reflect.Slice {
		for j := 0; j < v.Len(); j++ {
			s, err := scalar(v.Index(j))
			if err != nil {
				return fmt.Errorf("searchstate: field %s: %w", sf.Name, err)
			}
			out.Add(name, s)
		}
		return nil
	}

	s, err := scalar(v)
	if err != nil {
		return fmt.Errorf("searchstate: field %s: %w", sf.Name, err)
	}
	if v.Kind() == reflect.String && s == "" {
		return nil
	}
	out.Set(name, s)
	return nil
}

func scalar(v reflect.Value) (string, error) {
	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), nil
	}
	return "", fmt.Errorf("unsupported kind %s", v.Kind())
}
