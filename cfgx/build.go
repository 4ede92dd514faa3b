package cfgx

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/copystructure"
)

const (
	stageDefaults   = "defaults"
	stagePreprocess = "preprocess"
	stageDecode     = "decode"
	stageValidate   = "validate"
)

var (
	// ErrDefaults wraps failures when generating or cloning default values.
	ErrDefaults = errors.New("cfgx: defaults stage failed")
	// ErrPreprocess wraps failures raised by preprocessors.
	ErrPreprocess = errors.New("cfgx: preprocess stage failed")
	// ErrDecode wraps mapstructure decode failures.
	ErrDecode = errors.New("cfgx: decode stage failed")
	// ErrValidate wraps validator errors.
	ErrValidate = errors.New("cfgx: validate stage failed")
	// ErrOption reports a misconfigured build option.
	ErrOption = errors.New("cfgx: option configuration failed")
)

// StageError describes a failure in one build stage.
type StageError struct {
	Stage string
	Base  error
	Err   error
	Meta  map[string]any
}

func (e *StageError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches either the stage sentinel or the wrapped error.
func (e *StageError) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if errors.Is(e.Base, target) {
		return true
	}
	return errors.Is(e.Err, target)
}

func stageError(stage string, base, err error, meta map[string]any) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Base: base, Err: err, Meta: meta}
}

type builder[T any] struct {
	input         any
	defaults      func() (T, error)
	preprocessors []Preprocessor
	decodeHooks   []mapstructure.DecodeHookFunc
	decoderConfig mapstructure.DecoderConfig
	validator     Validator[T]
	defaultHooks  bool
	optionErr     error
}

func newBuilder[T any](input any) *builder[T] {
	return &builder[T]{
		input: input,
		decoderConfig: mapstructure.DecoderConfig{
			TagName:          "mapstructure",
			WeaklyTypedInput: true,
		},
		defaultHooks: true,
	}
}

// Build decodes input into a T.
func Build[T any](input any, opts ...Option[T]) (T, error) {
	b := newBuilder[T](input)
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if b.optionErr != nil {
		var zero T
		return zero, b.optionErr
	}
	return b.build()
}

func (b *builder[T]) setOptionError(format string, args ...any) {
	if b.optionErr != nil {
		return
	}
	b.optionErr = fmt.Errorf("%w: %w", ErrOption, fmt.Errorf(format, args...))
}

func (b *builder[T]) build() (T, error) {
	var zero T

	result, err := b.applyDefaults()
	if err != nil {
		return zero, err
	}

	input, err := b.applyPreprocessors(b.input)
	if err != nil {
		return zero, err
	}

	if err := b.decode(input, &result); err != nil {
		return zero, err
	}

	if b.validator != nil {
		if err := b.validator(&result); err != nil {
			return zero, stageError(stageValidate, ErrValidate, err, nil)
		}
	}

	return result, nil
}

func (b *builder[T]) applyDefaults() (T, error) {
	var zero T
	if b.defaults == nil {
		return zero, nil
	}
	val, err := b.defaults()
	if err != nil {
		return zero, stageError(stageDefaults, ErrDefaults, err, nil)
	}
	cloned, err := cloneValue(val)
	if err != nil {
		return zero, stageError(stageDefaults, ErrDefaults, err, map[string]any{"reason": "clone"})
	}
	return cloned, nil
}

func (b *builder[T]) applyPreprocessors(input any) (any, error) {
	current := input
	for idx, pre := range b.preprocessors {
		next, err := pre(current)
		if err != nil {
			return nil, stageError(stagePreprocess, ErrPreprocess, err, map[string]any{
				"preprocessor_index": idx,
			})
		}
		current = next
	}
	if current == nil {
		return input, nil
	}
	return current, nil
}

func (b *builder[T]) decode(input any, result *T) error {
	config := b.decoderConfig
	config.Result = decodeTarget(result)
	config.DecodeHook = b.composeDecodeHooks()

	decoder, err := mapstructure.NewDecoder(&config)
	if err != nil {
		return stageError(stageDecode, ErrDecode, err, map[string]any{"reason": "decoder_config"})
	}
	if err := decoder.Decode(input); err != nil {
		return stageError(stageDecode, ErrDecode, err, nil)
	}
	return nil
}

func (b *builder[T]) composeDecodeHooks() mapstructure.DecodeHookFunc {
	var hooks []mapstructure.DecodeHookFunc
	if b.defaultHooks {
		hooks = append(hooks, DefaultDecodeHooks()...)
	}
	hooks = append(hooks, b.decodeHooks...)
	switch len(hooks) {
	case 0:
		return nil
	case 1:
		return hooks[0]
	default:
		return mapstructure.ComposeDecodeHookFunc(hooks...)
	}
}

// decodeTarget allocates nil pointer targets so Build[*T] works.
func decodeTarget[T any](result *T) any {
	val := reflect.ValueOf(result).Elem()
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			val.Set(reflect.New(val.Type().Elem()))
		}
		return val.Interface()
	}
	return val.Addr().Interface()
}

func cloneValue[T any](value T) (T, error) {
	var zero T
	cloned, err := copystructure.Copy(value)
	if err != nil {
		return zero, err
	}
	casted, ok := cloned.(T)
	if !ok {
		return zero, fmt.Errorf("cfgx: failed to cast cloned value %T to target type", cloned)
	}
	return casted, nil
}
