package config

import (
	"os"
	"path/filepath"
	"strings"
)

// StringTransformer rewrites a decoded string value.
type StringTransformer func(string) (string, error)

func TrimSpace(value string) (string, error) {
	return strings.TrimSpace(value), nil
}

// CleanPath expands a leading "~" and cleans the path. Empty values stay
// empty.
func CleanPath(value string) (string, error) {
	if value == "" {
		return value, nil
	}
	if value == "~" || strings.HasPrefix(value, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return value, err
		}
		value = filepath.Join(home, strings.TrimPrefix(value, "~"))
	}
	return filepath.Clean(value), nil
}

// TrimSlashes turns "/db/migration/" into "db/migration".
func TrimSlashes(value string) (string, error) {
	return strings.Trim(filepath.ToSlash(value), "/"), nil
}
