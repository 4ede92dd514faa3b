package config

import (
	"fmt"
	"reflect"
	"strings"
)

// WithStringTransformers adds transformers applied to every string and
// []string field after decoding.
func (c *Container[C]) WithStringTransformers(transformers ...StringTransformer) *Container[C] {
	for _, t := range transformers {
		if t != nil {
			c.globalStringTransformers = append(c.globalStringTransformers, t)
		}
	}
	return c
}

// WithKeyedStringTransformers adds transformers for the field whose koanf key
// path is key. They run after the global ones.
func (c *Container[C]) WithKeyedStringTransformers(key string, transformers ...StringTransformer) *Container[C] {
	if c.keyedStringTransformers == nil {
		c.keyedStringTransformers = make(map[string][]StringTransformer)
	}
	for _, t := range transformers {
		if t != nil {
			c.keyedStringTransformers[key] = append(c.keyedStringTransformers[key], t)
		}
	}
	return c
}

func (c *Container[C]) runStringTransformers() error {
	if len(c.globalStringTransformers) == 0 && len(c.keyedStringTransformers) == 0 {
		return nil
	}
	return c.transformValue(reflect.ValueOf(&c.base).Elem(), "")
}

func (c *Container[C]) transformValue(value reflect.Value, path string) error {
	switch value.Kind() {
	case reflect.Pointer, reflect.Interface:
		if value.IsNil() {
			return nil
		}
		return c.transformValue(value.Elem(), path)
	case reflect.Struct:
		t := value.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.PkgPath != "" {
				continue
			}
			name, ignore := koanfFieldName(field)
			if ignore {
				continue
			}
			if err := c.transformValue(value.Field(i), joinKeyPath(path, name)); err != nil {
				return err
			}
		}
	case reflect.String:
		if !value.CanSet() {
			return nil
		}
		next, err := c.applyStringTransformers(path, path, value.String())
		if err != nil {
			return err
		}
		value.SetString(next)
	case reflect.Slice:
		if value.Type().Elem().Kind() != reflect.String {
			return nil
		}
		for i := 0; i < value.Len(); i++ {
			item := value.Index(i)
			next, err := c.applyStringTransformers(path, fmt.Sprintf("%s[%d]", path, i), item.String())
			if err != nil {
				return err
			}
			item.SetString(next)
		}
	}
	return nil
}

func (c *Container[C]) applyStringTransformers(keyPath, issuePath, value string) (string, error) {
	current := value
	chain := append(append([]StringTransformer(nil), c.globalStringTransformers...), c.keyedStringTransformers[keyPath]...)
	for _, transformer := range chain {
		next, err := invokeStringTransformer(transformer, current)
		if err != nil {
			return value, fmt.Errorf("%s: %w", issuePath, err)
		}
		current = next
	}
	return current, nil
}

func invokeStringTransformer(transformer StringTransformer, value string) (out string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			out = value
			err = fmt.Errorf("string transformer panic: %v", recovered)
		}
	}()
	return transformer(value)
}

func koanfFieldName(field reflect.StructField) (name string, ignore bool) {
	tag := strings.TrimSpace(strings.Split(field.Tag.Get("koanf"), ",")[0])
	switch tag {
	case "-":
		return "", true
	case "":
		return field.Name, false
	}
	return tag, false
}

func joinKeyPath(base, segment string) string {
	if base == "" {
		return segment
	}
	return base + "." + segment
}
