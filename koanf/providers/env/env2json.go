package env

import (
	"errors"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/goliatone/go-confdoc/logger"
)

// Env is an environment provider that builds a JSON document, so numeric
// path segments become array indexes:
//
//	CONFDOC_INSTALL_ROOTS__0=/usr/local/go
//	CONFDOC_INSTALL_ROOTS__1=/opt/app
//
// yields {"install_roots": ["/usr/local/go", "/opt/app"]} with prefix
// "CONFDOC_", delim "__" and a callback that strips and lowercases the
// prefix. Pair it with koanf's json parser.
type Env struct {
	prefix string
	delim  string
	cb     func(key string, value string) (string, any)
	logger logger.Logger
}

// Provider returns an env provider reading variables that start with prefix
// (case sensitive). cb maps a variable name to a key; an empty key drops the
// variable.
func Provider(prefix, delim string, cb func(s string) string) *Env {
	e := &Env{prefix: prefix, delim: delim, logger: logger.Nop{}}
	if cb != nil {
		e.cb = func(key string, value string) (string, any) {
			return cb(key), value
		}
	}
	return e
}

// ProviderWithValue is Provider with a callback that may also rewrite the
// value.
func ProviderWithValue(prefix, delim string, cb func(key string, value string) (string, any)) *Env {
	return &Env{prefix: prefix, delim: delim, cb: cb, logger: logger.Nop{}}
}

func (e *Env) SetLogger(l logger.Logger) {
	e.logger = logger.OrNop(l)
}

// ReadBytes returns the matching variables as a JSON document. Variables are
// applied in name order so array indexes fill deterministically.
func (e *Env) ReadBytes() ([]byte, error) {
	var vars []string
	for _, kv := range os.Environ() {
		if e.prefix == "" || strings.HasPrefix(kv, e.prefix) {
			vars = append(vars, kv)
		}
	}
	sort.Strings(vars)

	out := "{}"
	for _, kv := range vars {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key, value := parts[0], any(parts[1])
		if e.cb != nil {
			key, value = e.cb(parts[0], parts[1])
			if key == "" {
				continue
			}
		}

		path := strings.ReplaceAll(key, e.delim, ".")
		next, err := sjson.Set(out, path, value)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("env %s -> %s", parts[0], path)
		out = next
	}

	return []byte(out), nil
}

// Read is not supported; use ReadBytes with a json parser.
func (e *Env) Read() (map[string]any, error) {
	return nil, errors.New("env provider does not support Read, use ReadBytes")
}
