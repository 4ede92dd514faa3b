package cfgx

import (
	"github.com/go-viper/mapstructure/v2"
)

// Option tweaks a single Build call.
type Option[T any] func(*builder[T])

// Validator runs after decoding completes.
type Validator[T any] func(*T) error

// WithDefaults seeds the result with a deep copy of value before decoding
// overlays it.
func WithDefaults[T any](value T) Option[T] {
	return func(b *builder[T]) {
		b.defaults = func() (T, error) {
			return value, nil
		}
	}
}

// WithDefaultFunc generates defaults lazily.
func WithDefaultFunc[T any](fn func() (T, error)) Option[T] {
	return func(b *builder[T]) {
		b.defaults = fn
	}
}

// WithPreprocess appends preprocessors, run in order before decode.
func WithPreprocess[T any](pre ...Preprocessor) Option[T] {
	return func(b *builder[T]) {
		for _, p := range pre {
			if p != nil {
				b.preprocessors = append(b.preprocessors, p)
			}
		}
	}
}

func WithPreprocessFunc[T any](fn func(any) (any, error)) Option[T] {
	if fn == nil {
		return func(*builder[T]) {}
	}
	return WithPreprocess[T](Preprocessor(fn))
}

// WithLowerKeys lowercases every map key before decode.
func WithLowerKeys[T any]() Option[T] {
	return WithPreprocess[T](PreprocessLowerKeys())
}

// WithDecodeHooks appends decode hooks after the default set.
func WithDecodeHooks[T any](hooks ...mapstructure.DecodeHookFunc) Option[T] {
	return func(b *builder[T]) {
		for _, hook := range hooks {
			if hook != nil {
				b.decodeHooks = append(b.decodeHooks, hook)
			}
		}
	}
}

// WithoutDefaultHooks drops DefaultDecodeHooks from the chain.
func WithoutDefaultHooks[T any]() Option[T] {
	return func(b *builder[T]) {
		b.defaultHooks = false
	}
}

// WithStrictKeys rejects keys that map to no field.
func WithStrictKeys[T any]() Option[T] {
	return func(b *builder[T]) {
		b.decoderConfig.ErrorUnused = true
	}
}

func WithWeakTyping[T any](enabled bool) Option[T] {
	return func(b *builder[T]) {
		b.decoderConfig.WeaklyTypedInput = enabled
	}
}

// WithTagName overrides the struct tag read while decoding.
func WithTagName[T any](tag string) Option[T] {
	return func(b *builder[T]) {
		if tag != "" {
			b.decoderConfig.TagName = tag
		}
	}
}

// WithValidator registers the validator. Only one is allowed per build.
func WithValidator[T any](validator Validator[T]) Option[T] {
	return func(b *builder[T]) {
		if validator == nil {
			return
		}
		if b.validator != nil {
			b.setOptionError("validator already registered")
			return
		}
		b.validator = validator
	}
}

// WithValidatorFunc adapts a value based validator.
func WithValidatorFunc[T any](validator func(T) error) Option[T] {
	if validator == nil {
		return func(*builder[T]) {}
	}
	return WithValidator(func(cfg *T) error {
		return validator(*cfg)
	})
}
