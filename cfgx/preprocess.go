package cfgx

import (
	"fmt"
	"reflect"
	"strings"
)

// Preprocessor transforms raw input before decoding begins.
type Preprocessor func(any) (any, error)

// PreprocessLowerKeys lowercases map keys at every depth. Document authors
// may write "Groups" or "groups"; decoding only sees the latter.
func PreprocessLowerKeys() Preprocessor {
	return func(input any) (any, error) {
		return lowerKeys(input)
	}
}

func lowerKeys(input any) (any, error) {
	if input == nil {
		return nil, nil
	}
	switch v := input.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			lowered, err := lowerKeys(value)
			if err != nil {
				return nil, err
			}
			out[strings.ToLower(key)] = lowered
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, value := range v {
			lowered, err := lowerKeys(value)
			if err != nil {
				return nil, err
			}
			out[i] = lowered
		}
		return out, nil
	}

	val := reflect.ValueOf(input)
	if val.Kind() != reflect.Map {
		return input, nil
	}
	out := make(map[string]any, val.Len())
	iter := val.MapRange()
	for iter.Next() {
		key, ok := iter.Key().Interface().(string)
		if !ok {
			return nil, fmt.Errorf("cfgx: expected string map key, got %T", iter.Key().Interface())
		}
		lowered, err := lowerKeys(iter.Value().Interface())
		if err != nil {
			return nil, err
		}
		out[strings.ToLower(key)] = lowered
	}
	return out, nil
}
