package discovery

import (
	"context"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-confdoc/logger"
	"github.com/goliatone/go-confdoc/registry"
)

// DefaultExcludeDirs are skipped unless the caller provides its own list.
var DefaultExcludeDirs = []string{"tests", "locale", "cmd", "db/migration", "transfer"}

// Result is the outcome of a scan.
type Result struct {
	// Source holds every option found, grouped, in discovery order.
	Source *registry.Catalog
	// Packages lists the directories, relative to the root, that parsed.
	Packages []string
	// Failed lists the files that did not parse.
	Failed []string
}

// Scanner walks a source tree collecting pflag registrations.
type Scanner struct {
	root      string
	excludes  []string
	logger    logger.Logger
	verbosity int
}

func NewScanner(root string) *Scanner {
	return &Scanner{
		root:     root,
		excludes: append([]string(nil), DefaultExcludeDirs...),
		logger:   logger.Nop{},
	}
}

// WithExcludes replaces the excluded directories. Entries are slash
// separated paths relative to the root.
func (s *Scanner) WithExcludes(dirs ...string) *Scanner {
	s.excludes = nil
	for _, d := range dirs {
		d = strings.Trim(filepath.ToSlash(d), "/")
		if d != "" {
			s.excludes = append(s.excludes, d)
		}
	}
	return s
}

func (s *Scanner) WithLogger(l logger.Logger) *Scanner {
	s.logger = logger.OrNop(l)
	return s
}

// WithVerbosity sets the reporting level: parsed packages from 1, parse
// failures from 2.
func (s *Scanner) WithVerbosity(v int) *Scanner {
	s.verbosity = v
	return s
}

// Scan walks the tree. Files that fail to parse are skipped. A tree with no
// parseable package is an error.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	res := &Result{Source: registry.NewCatalog()}
	fset := token.NewFileSet()

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel != "." && s.skipDir(rel, d.Name()) {
			return filepath.SkipDir
		}
		return s.scanDir(fset, path, rel, res)
	})
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "source scan failed").
			WithMetadata(map[string]any{"root": s.root})
	}

	if len(res.Packages) == 0 {
		return nil, goerrors.New("no Go packages found", goerrors.CategoryValidation).
			WithTextCode(TextCodeNoPackagesFound).
			WithMetadata(map[string]any{"root": s.root})
	}
	return res, nil
}

func (s *Scanner) skipDir(rel, name string) bool {
	if name == "testdata" || name == "vendor" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return true
	}
	for _, ex := range s.excludes {
		if rel == ex || strings.HasPrefix(rel, ex+"/") {
			return true
		}
	}
	return false
}

func (s *Scanner) scanDir(fset *token.FileSet, dir, rel string, res *Result) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)

	parsed := 0
	for _, name := range files {
		path := filepath.Join(dir, name)
		file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if err != nil {
			res.Failed = append(res.Failed, filepath.ToSlash(filepath.Join(rel, name)))
			if s.verbosity >= 2 {
				s.logger.Debug("Failed to parse %s: %v", path, err)
			}
			continue
		}
		parsed++
		for _, reg := range collect(file) {
			res.Source.Add(reg.group, reg.option)
		}
	}

	if parsed > 0 {
		res.Packages = append(res.Packages, rel)
		if s.verbosity >= 1 {
			s.logger.Info("Imported %s", rel)
		}
	}
	return nil
}
