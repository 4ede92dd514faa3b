// Package extension resolves named extensions to the option contributions
// they make. Extensions are either registered in process through a Set or
// declared as documents inside a directory.
package extension

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-confdoc/registry"
)

const (
	TextCodeNotFound   = "EXTENSION_NOT_FOUND"
	TextCodeLoadFailed = registry.TextCodeExtensionLoadFailed
)

// Finder resolves an extension identifier to its entry points.
type Finder = registry.ExtensionFinder

// Set is an in-process Finder. Entry points are returned in registration
// order.
type Set struct {
	mu      sync.RWMutex
	entries map[string][]registry.ExtensionFunc
}

func NewSet() *Set {
	return &Set{entries: make(map[string][]registry.ExtensionFunc)}
}

// Register adds fn under id. Several entry points may share an id.
func (s *Set) Register(id string, fn registry.ExtensionFunc) *Set {
	if fn == nil {
		panic(fmt.Sprintf("extension: nil entry point for %q", id))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = append(s.entries[id], fn)
	return s
}

// RegisterStatic registers an entry point that always yields contributions.
func (s *Set) RegisterStatic(id string, contributions ...registry.Contribution) *Set {
	return s.Register(id, func() ([]registry.Contribution, error) {
		return contributions, nil
	})
}

func (s *Set) Find(id string) ([]registry.ExtensionFunc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fns := s.entries[id]
	if len(fns) == 0 {
		return nil, nil
	}
	return append([]registry.ExtensionFunc(nil), fns...), nil
}

// IDs returns the registered identifiers, sorted.
func (s *Set) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Chain queries every finder and concatenates their entry points. The first
// error stops the lookup.
func Chain(finders ...Finder) Finder {
	return chain(finders)
}

type chain []Finder

func (c chain) Find(id string) ([]registry.ExtensionFunc, error) {
	var out []registry.ExtensionFunc
	for _, f := range c {
		if f == nil {
			continue
		}
		fns, err := f.Find(id)
		if err != nil {
			return nil, err
		}
		out = append(out, fns...)
	}
	return out, nil
}
