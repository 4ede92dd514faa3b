package config

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/v2"
	"github.com/mitchellh/copystructure"

	"github.com/goliatone/go-confdoc/cfgx"
	"github.com/goliatone/go-confdoc/koanf/solvers"
	"github.com/goliatone/go-confdoc/logger"
)

var (
	DefaultDelimiter   = "."
	DefaultLoadTimeout = 10 * time.Second
)

type Validable interface {
	Validate() error
}

// Container layers providers into a koanf instance, runs solvers over the
// merged values and decodes the result into C.
type Container[C Validable] struct {
	K            *koanf.Koanf
	base         C
	providers    []Provider
	loaders      []ProviderBuilder[C]
	solvers      []solvers.ConfigSolver
	solverPasses int
	mustValidate bool
	loadTimeout  time.Duration
	delimiter    string
	logger       logger.Logger

	globalStringTransformers []StringTransformer
	keyedStringTransformers  map[string][]StringTransformer
}

func New[C Validable](c C) *Container[C] {
	mgr := &Container[C]{
		base:         c,
		mustValidate: true,
		delimiter:    DefaultDelimiter,
		loadTimeout:  DefaultLoadTimeout,
		logger:       logger.NewDefaultLogger("config"),
		solverPasses: 2,
		solvers: []solvers.ConfigSolver{
			solvers.NewVariablesSolver("${", "}"),
			solvers.NewURISolver("@", "://"),
			solvers.NewExpressionSolver("{{", "}}"),
		},
	}
	mgr.newConfig()
	return mgr
}

func (c *Container[C]) WithValidation(v bool) *Container[C] {
	c.mustValidate = v
	return c
}

func (c *Container[C]) WithTimeout(timeout time.Duration) *Container[C] {
	c.loadTimeout = timeout
	return c
}

// WithSolvers replaces the solver list.
func (c *Container[C]) WithSolvers(slvrs ...solvers.ConfigSolver) *Container[C] {
	c.solvers = append([]solvers.ConfigSolver{}, slvrs...)
	return c
}

// WithSolverPasses sets the maximum number of solver passes (minimum 1).
// Passes stop early once a pass leaves the values unchanged.
func (c *Container[C]) WithSolverPasses(passes int) *Container[C] {
	if passes < 1 {
		passes = 1
	}
	c.solverPasses = passes
	return c
}

func (c *Container[C]) WithLogger(l logger.Logger) *Container[C] {
	c.logger = logger.OrNop(l)
	return c
}

func (c *Container[C]) WithProvider(factories ...ProviderBuilder[C]) *Container[C] {
	for _, factory := range factories {
		if factory != nil {
			c.loaders = append(c.loaders, factory)
		}
	}
	return c
}

func (c *Container[C]) newConfig() {
	c.K = koanf.NewWithConf(koanf.Conf{
		Delim:       c.delimiter,
		StrictMerge: false,
	})
}

func (c *Container[C]) Validate() error {
	if err := c.base.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "configuration validation failed").
			WithTextCode("INVALID_SETTINGS")
	}
	return nil
}

// Load builds every provider, loads them by ascending priority and decodes
// the merged values over the base value.
func (c *Container[C]) Load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()

	c.newConfig()
	c.providers = nil

	for i, factory := range c.loaders {
		provider, err := factory(c)
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to create provider").
				WithTextCode("PROVIDER_CREATION_FAILED").
				WithMetadata(map[string]any{
					"factory_index":   i,
					"total_factories": len(c.loaders),
				})
		}
		c.providers = append(c.providers, provider)
	}

	for i, src := range c.providers {
		if err := src.Validate(); err != nil {
			return errors.Wrap(err, errors.CategoryValidation, "invalid provider source type").
				WithTextCode("INVALID_PROVIDER_TYPE").
				WithMetadata(map[string]any{
					"source_type":    string(src.Type()),
					"provider_index": i,
				})
		}
	}

	sort.SliceStable(c.providers, func(i, j int) bool {
		return c.providers[i].Priority() < c.providers[j].Priority()
	})

	for i, source := range c.providers {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "configuration load cancelled").
				WithTextCode("CONFIG_LOAD_CANCELLED")
		}
		c.logger.Debug("loading %s settings", source.Type())
		if err := source.Load(ctx, c.K); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from source").
				WithTextCode("CONFIG_LOAD_FAILED").
				WithMetadata(map[string]any{
					"source_type":   string(source.Type()),
					"source_index":  i,
					"total_sources": len(c.providers),
				})
		}
	}

	c.solve()

	decoded, err := cfgx.Build[C](c.K.Raw(),
		cfgx.WithDefaults(c.base),
		cfgx.WithTagName[C]("koanf"),
	)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to decode configuration").
			WithTextCode("CONFIG_UNMARSHAL_FAILED").
			WithMetadata(map[string]any{"delimiter": c.delimiter})
	}
	c.assignBase(decoded)

	if err := c.runStringTransformers(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "failed to transform configuration").
			WithTextCode("TRANSFORM_FAILED")
	}

	if c.mustValidate {
		return c.Validate()
	}
	return nil
}

func (c *Container[C]) solve() {
	if len(c.solvers) == 0 {
		return
	}
	for pass := 0; pass < c.solverPasses; pass++ {
		before, ok := snapshotConfig(c.K)
		for _, solver := range c.solvers {
			solver.Solve(c.K)
		}
		if ok && reflect.DeepEqual(before, c.K.Raw()) {
			return
		}
	}
}

func (c *Container[C]) Raw() C {
	return c.base
}

// String dumps the merged values, used by the CLI at high verbosity.
func (c *Container[C]) String() string {
	return fmt.Sprintf("%v", c.K.All())
}

func (c *Container[C]) assignBase(value C) {
	baseVal := reflect.ValueOf(&c.base).Elem()
	newVal := reflect.ValueOf(value)

	if baseVal.Kind() == reflect.Pointer && newVal.Kind() == reflect.Pointer && baseVal.Type() == newVal.Type() {
		if baseVal.IsNil() || newVal.IsNil() {
			baseVal.Set(newVal)
			return
		}
		baseVal.Elem().Set(newVal.Elem())
		return
	}
	baseVal.Set(newVal)
}

func snapshotConfig(k *koanf.Koanf) (any, bool) {
	if k == nil {
		return nil, false
	}
	raw := k.Raw()
	cloned, err := copystructure.Copy(raw)
	if err != nil {
		return raw, false
	}
	return cloned, true
}
