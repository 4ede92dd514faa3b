// Package cfgx decodes loosely typed documents (koanf snapshots, parsed YAML,
// JSON or TOML) into typed structs.
//
// A build runs four stages in order: defaults, preprocess, decode and
// validate. Failures wrap the matching stage sentinel so callers can branch
// with errors.Is and still reach StageError metadata through errors.As.
//
// Option catalog:
//   - Defaults: WithDefaults, WithDefaultFunc.
//   - Preprocessing: WithPreprocess, WithPreprocessFunc, WithLowerKeys.
//   - Decoder behavior: WithDecodeHooks, WithoutDefaultHooks, WithStrictKeys,
//     WithWeakTyping, WithTagName.
//   - Validation: WithValidator, WithValidatorFunc.
//
// Hook helpers:
//   - StringifyHook renders scalars and lists into the flag-style strings used
//     for option defaults, so `default: [a, b]` decodes to "[a,b]".
//   - StringToSliceHook splits comma separated strings for slice targets.
//   - TextUnmarshalerHook supports encoding.TextUnmarshaler targets.
package cfgx
