package solvers

import (
	"encoding/base64"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/v2"
)

// ProtocolFunc resolves the payload of a "<start><protocol><end><payload>"
// value.
type ProtocolFunc func(fsys fs.FS, payload string) (string, error)

type uris struct {
	fs         fs.FS
	delimeters *delimiters
	protocols  map[string]ProtocolFunc
}

// NewURISolver resolves values like @file://notes.txt against the working
// directory.
func NewURISolver(s, e string) ConfigSolver {
	return NewURISolverWithFS(s, e, os.DirFS("."))
}

// NewURISolverWithFS resolves file references against f. Supported
// protocols are file, base64 and env.
func NewURISolverWithFS(s, e string, f fs.FS) ConfigSolver {
	return &uris{
		fs: f,
		delimeters: &delimiters{
			Start: s,
			End:   e,
		},
		protocols: map[string]ProtocolFunc{
			"file":   SolveFileProtocol,
			"base64": SolveBase64DecodeProtocol,
			"env":    SolveEnvProtocol,
		},
	}
}

func (s uris) Solve(config *koanf.Koanf) *koanf.Koanf {
	keys, values := stringValues(config)
	for _, key := range keys {
		s.keypath(key, values[key], config)
	}
	return config
}

func (s uris) keypath(key, val string, config *koanf.Koanf) {
	rest, ok := strings.CutPrefix(val, s.delimeters.Start)
	if !ok {
		return
	}
	protocol, payload, ok := strings.Cut(rest, s.delimeters.End)
	if !ok {
		return
	}

	solve, ok := s.protocols[protocol]
	if !ok {
		return
	}
	if content, err := solve(s.fs, payload); err == nil {
		config.Set(key, content)
	}
}

// SolveFileProtocol returns the file content without trailing newlines.
func SolveFileProtocol(f fs.FS, uri string) (string, error) {
	b, err := fs.ReadFile(f, uri)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}

func SolveBase64DecodeProtocol(_ fs.FS, uri string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(uri)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SolveEnvProtocol reads an environment variable; unset variables are an
// error so the original value is kept.
func SolveEnvProtocol(_ fs.FS, name string) (string, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", fs.ErrNotExist
	}
	return v, nil
}
