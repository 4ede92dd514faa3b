package cfgx

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// DefaultDecodeHooks returns the hook set applied by every Build unless
// WithoutDefaultHooks is given.
func DefaultDecodeHooks() []mapstructure.DecodeHookFunc {
	return []mapstructure.DecodeHookFunc{
		StringifyHook(),
		StringToSliceHook(),
		TextUnmarshalerHook(),
	}
}

// StringifyHook converts scalars and lists into strings for string targets.
// Lists use the bracketed, comma joined form pflag prints for slice defaults.
func StringifyHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to.Kind() != reflect.String || data == nil {
			return data, nil
		}
		switch from.Kind() {
		case reflect.Slice, reflect.Array:
			return stringifyList(reflect.ValueOf(data)), nil
		case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return stringifyScalar(data), nil
		}
		return data, nil
	}
}

func stringifyList(val reflect.Value) string {
	parts := make([]string, 0, val.Len())
	for i := 0; i < val.Len(); i++ {
		parts = append(parts, stringifyScalar(val.Index(i).Interface()))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func stringifyScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// StringToSliceHook splits comma separated strings for slice targets, so
// env vars such as EXCLUDE_DIRS=tests,cmd decode into a list.
func StringToSliceHook() mapstructure.DecodeHookFunc {
	return mapstructure.StringToSliceHookFunc(",")
}

// TextUnmarshalerHook decodes strings into encoding.TextUnmarshaler targets.
func TextUnmarshalerHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		result := reflect.New(to).Interface()
		unmarshaller, ok := result.(encoding.TextUnmarshaler)
		if !ok {
			return data, nil
		}
		if err := unmarshaller.UnmarshalText([]byte(reflect.ValueOf(data).String())); err != nil {
			return nil, err
		}
		return result, nil
	}
}
