package registry

import (
	"github.com/spf13/pflag"
)

// Option is a single configuration option. Only the qualified name derived
// from its group and Name is used for identity and ordering.
type Option struct {
	Name    string `json:"name" yaml:"name" koanf:"name"`
	Default string `json:"default" yaml:"default" koanf:"default"`
	Help    string `json:"help" yaml:"help" koanf:"help"`
	Type    string `json:"type" yaml:"type" koanf:"type"`
}

// Source is an explicit option registration mechanism handed to Populate.
type Source interface {
	// DefaultOptions returns the options of the unnamed group.
	DefaultOptions() []Option
	// Groups returns named groups in registration order.
	Groups() []string
	// GroupOptions returns the options registered under group.
	GroupOptions(group string) []Option
}

// Catalog is a static Source, built programmatically or from discovery output.
type Catalog struct {
	defaults []Option
	order    []string
	groups   map[string][]Option
}

func NewCatalog() *Catalog {
	return &Catalog{groups: make(map[string][]Option)}
}

// Add appends opts to group. An empty group or DefaultGroup targets the
// unnamed group.
func (c *Catalog) Add(group string, opts ...Option) *Catalog {
	if group == "" || group == DefaultGroup {
		c.defaults = append(c.defaults, opts...)
		return c
	}
	if _, ok := c.groups[group]; !ok {
		c.order = append(c.order, group)
	}
	c.groups[group] = append(c.groups[group], opts...)
	return c
}

func (c *Catalog) DefaultOptions() []Option {
	return append([]Option(nil), c.defaults...)
}

func (c *Catalog) Groups() []string {
	return append([]string(nil), c.order...)
}

func (c *Catalog) GroupOptions(group string) []Option {
	return append([]Option(nil), c.groups[group]...)
}

// FlagSource exposes pflag flag sets as a Source. The default set holds the
// unnamed group and each named set becomes a group.
type FlagSource struct {
	defaults *pflag.FlagSet
	order    []string
	groups   map[string]*pflag.FlagSet
}

func NewFlagSource() *FlagSource {
	return &FlagSource{
		defaults: newFlagSet(DefaultGroup),
		groups:   make(map[string]*pflag.FlagSet),
	}
}

// newFlagSet keeps registration order so discovery order matches the order
// flags were declared in.
func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

// Default returns the flag set backing the unnamed group.
func (s *FlagSource) Default() *pflag.FlagSet {
	return s.defaults
}

// Group returns the flag set for name, creating it on first use.
func (s *FlagSource) Group(name string) *pflag.FlagSet {
	if name == "" || name == DefaultGroup {
		return s.defaults
	}
	if fs, ok := s.groups[name]; ok {
		return fs
	}
	fs := newFlagSet(name)
	s.groups[name] = fs
	s.order = append(s.order, name)
	return fs
}

// AddFlagSet copies every flag of fs into group.
func (s *FlagSource) AddFlagSet(group string, fs *pflag.FlagSet) {
	s.Group(group).AddFlagSet(fs)
}

func (s *FlagSource) DefaultOptions() []Option {
	return flagOptions(s.defaults)
}

func (s *FlagSource) Groups() []string {
	return append([]string(nil), s.order...)
}

func (s *FlagSource) GroupOptions(group string) []Option {
	fs, ok := s.groups[group]
	if !ok {
		return nil
	}
	return flagOptions(fs)
}

func flagOptions(fs *pflag.FlagSet) []Option {
	var out []Option
	fs.VisitAll(func(f *pflag.Flag) {
		out = append(out, Option{
			Name:    f.Name,
			Default: f.DefValue,
			Help:    f.Usage,
			Type:    f.Value.Type(),
		})
	})
	return out
}

// Contribution is one (group, options) pair yielded by an extension.
type Contribution struct {
	Group   string   `json:"name" yaml:"name" koanf:"name"`
	Options []Option `json:"options" yaml:"options" koanf:"options"`
}

// ExtensionFunc produces the contributions of a single extension entry point.
type ExtensionFunc func() ([]Contribution, error)

// ExtensionFinder resolves a plugin identifier to its entry points. An unknown
// identifier should yield no entry points and a nil error.
type ExtensionFinder interface {
	Find(id string) ([]ExtensionFunc, error)
}
