package solvers

import (
	"os"
	"strings"

	"github.com/knadh/koanf/v2"
)

const (
	fallbackSeparator = ":-"
	envReference      = "env:"
)

type variables struct {
	delimeters *delimiters
}

// NewVariablesSolver resolves references such as ${repo}/doc inside string
// values. A reference may be another key, an environment variable
// (${env:HOME}), and may carry a fallback used when the target is missing
// (${package:-nova}). Unresolvable references without a fallback are left
// untouched. A value that is a single reference to a non-string key takes
// that key's value and type.
func NewVariablesSolver(s, e string) ConfigSolver {
	return &variables{
		delimeters: &delimiters{
			Start: s,
			End:   e,
		},
	}
}

func (s variables) Solve(config *koanf.Koanf) *koanf.Koanf {
	keys, values := stringValues(config)
	for _, key := range keys {
		s.keypath(key, values[key], config)
	}
	return config
}

func (s variables) keypath(key, val string, config *koanf.Koanf) {
	if ref, ok := s.whole(val); ok {
		if resolved, found := s.lookup(ref, config); found {
			config.Set(key, resolved)
		}
		return
	}

	out, changed := s.expand(val, config)
	if changed {
		config.Set(key, out)
	}
}

// whole reports whether val is exactly one reference.
func (s variables) whole(val string) (string, bool) {
	if !strings.HasPrefix(val, s.delimeters.Start) || !strings.HasSuffix(val, s.delimeters.End) {
		return "", false
	}
	inner := val[len(s.delimeters.Start) : len(val)-len(s.delimeters.End)]
	if inner == "" || strings.Contains(inner, s.delimeters.Start) || strings.Contains(inner, s.delimeters.End) {
		return "", false
	}
	return inner, true
}

func (s variables) expand(val string, config *koanf.Koanf) (string, bool) {
	var b strings.Builder
	changed := false
	rest := val

	for {
		start := strings.Index(rest, s.delimeters.Start)
		if start == -1 {
			break
		}
		end := strings.Index(rest[start+len(s.delimeters.Start):], s.delimeters.End)
		if end == -1 {
			break
		}
		end += start + len(s.delimeters.Start)

		ref := rest[start+len(s.delimeters.Start) : end]
		b.WriteString(rest[:start])
		if resolved, found := s.lookup(ref, config); found {
			b.WriteString(ToString(resolved))
			changed = true
		} else {
			b.WriteString(rest[start : end+len(s.delimeters.End)])
		}
		rest = rest[end+len(s.delimeters.End):]
	}
	b.WriteString(rest)

	return b.String(), changed
}

func (s variables) lookup(ref string, config *koanf.Koanf) (any, bool) {
	name, fallback, hasFallback := strings.Cut(ref, fallbackSeparator)
	name = strings.TrimSpace(name)

	if envName, ok := strings.CutPrefix(name, envReference); ok {
		if v, set := os.LookupEnv(envName); set && v != "" {
			return v, true
		}
	} else if name != "" && config.Exists(name) {
		v := config.Get(name)
		if sv, ok := v.(string); !ok || !s.unresolved(sv) {
			return v, true
		}
	}

	if hasFallback {
		return fallback, true
	}
	return nil, false
}

// unresolved reports whether v still holds a reference, which a later pass
// may resolve.
func (s variables) unresolved(v string) bool {
	start := strings.Index(v, s.delimeters.Start)
	return start != -1 && strings.Contains(v[start:], s.delimeters.End)
}
