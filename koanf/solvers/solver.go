package solvers

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/knadh/koanf/v2"
)

// ConfigSolver rewrites values of a loaded koanf instance in place.
type ConfigSolver interface {
	Solve(config *koanf.Koanf) *koanf.Koanf
}

func ToString(v any) string {
	return fmt.Sprintf("%v", reflect.ValueOf(v))
}

type delimiters struct {
	Start string
	End   string
}

// stringValues returns the string leaves of config sorted by key, so solvers
// visit keys in a stable order.
func stringValues(config *koanf.Koanf) ([]string, map[string]string) {
	all := config.All()
	keys := make([]string, 0, len(all))
	values := make(map[string]string, len(all))
	for key, val := range all {
		s, ok := val.(string)
		if !ok {
			continue
		}
		keys = append(keys, key)
		values[key] = s
	}
	sort.Strings(keys)
	return keys, values
}
