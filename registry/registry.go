package registry

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-confdoc/logger"
)

const (
	TextCodeOptionNotFound      = "OPTION_NOT_FOUND"
	TextCodeExtensionLoadFailed = "EXTENSION_LOAD_FAILED"
)

type entry struct {
	group  string
	option Option
}

// Registry is the deduplicated set of options discovered in one run. The
// first registration of a qualified name wins; later ones are dropped.
type Registry struct {
	byName    map[string]entry
	order     []string
	logger    logger.Logger
	verbosity int
}

func New() *Registry {
	return &Registry{
		byName: make(map[string]entry),
		logger: logger.Nop{},
	}
}

// WithLogger sets the diagnostics sink.
func (r *Registry) WithLogger(l logger.Logger) *Registry {
	r.logger = logger.OrNop(l)
	return r
}

// WithVerbosity sets the level at which duplicate registrations are reported.
// Duplicates are reported from 2 upwards.
func (r *Registry) WithVerbosity(v int) *Registry {
	r.verbosity = v
	return r
}

// Populate folds src into the registry: the unnamed group first under bare
// names, then each named group under group/name.
func (r *Registry) Populate(src Source) {
	if src == nil {
		return
	}
	for _, opt := range src.DefaultOptions() {
		r.Insert(opt.Name, DefaultGroup, opt)
	}
	for _, group := range src.Groups() {
		for _, opt := range src.GroupOptions(group) {
			r.Insert(QualifiedName(group, opt.Name), group, opt)
		}
	}
}

// Insert adds opt under qualified unless that name is already present. It
// reports whether the option was stored.
func (r *Registry) Insert(qualified, group string, opt Option) bool {
	if group == "" {
		group = DefaultGroup
	}
	if _, exists := r.byName[qualified]; exists {
		if r.verbosity >= 2 {
			r.logger.Debug("Duplicate option name %s", qualified)
		}
		return false
	}
	r.byName[qualified] = entry{group: group, option: opt}
	r.order = append(r.order, qualified)
	return true
}

// LoadExtensions asks finder for the entry points registered under id and
// inserts every contributed option. Extension options never replace options
// that are already present. It returns the number of options added.
func (r *Registry) LoadExtensions(id string, finder ExtensionFinder) (int, error) {
	if finder == nil {
		return 0, nil
	}

	fns, err := finder.Find(id)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryExternal, fmt.Sprintf("failed to resolve extension %q", id)).
			WithTextCode(TextCodeExtensionLoadFailed).
			WithMetadata(map[string]any{"extension": id})
	}
	if len(fns) == 0 {
		r.logger.Warn("No extension entry points found for %s", id)
		return 0, nil
	}

	added := 0
	for i, fn := range fns {
		if fn == nil {
			continue
		}
		contributions, err := fn()
		if err != nil {
			return added, goerrors.Wrap(err, goerrors.CategoryExternal, fmt.Sprintf("extension %q entry point %d failed", id, i)).
				WithTextCode(TextCodeExtensionLoadFailed).
				WithMetadata(map[string]any{"extension": id, "entry_point": i})
		}
		for _, c := range contributions {
			for _, opt := range c.Options {
				if r.Insert(QualifiedName(c.Group, opt.Name), c.Group, opt) {
					added++
				}
			}
		}
	}

	r.logger.Info("Loaded %d options from extension %s", added, id)
	return added, nil
}

// Names returns every qualified name in canonical order. The slice is a copy.
func (r *Registry) Names() []string {
	out := append([]string(nil), r.order...)
	SortNames(out)
	return out
}

// DiscoveryOrder returns qualified names in insertion order.
func (r *Registry) DiscoveryOrder() []string {
	return append([]string(nil), r.order...)
}

// Lookup returns the group and option stored under qualified. Unknown names
// are a caller bug and yield a not-found error.
func (r *Registry) Lookup(qualified string) (string, Option, error) {
	e, ok := r.byName[qualified]
	if !ok {
		return "", Option{}, goerrors.New(fmt.Sprintf("option %q is not registered", qualified), goerrors.CategoryNotFound).
			WithTextCode(TextCodeOptionNotFound).
			WithMetadata(map[string]any{"option": qualified})
	}
	return e.group, e.option, nil
}

// Has reports whether qualified is registered.
func (r *Registry) Has(qualified string) bool {
	_, ok := r.byName[qualified]
	return ok
}

func (r *Registry) Len() int {
	return len(r.order)
}
