// Package render turns a finalized flagmapping store into per category
// documentation tables.
//
// Each table lists options in canonical order with a header row whenever the
// configuration group changes. Cells read "name = default" and
// "(type) description", with defaults sanitized so the output does not depend
// on the machine that generated it.
package render

import (
	"bytes"
	"io"
	"path/filepath"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-confdoc/flagmap"
	"github.com/goliatone/go-confdoc/internal/fsutil"
	"github.com/goliatone/go-confdoc/logger"
)

const TextCodeWriteFailed = "RENDER_WRITE_FAILED"

type cells struct {
	name  string
	value string
	typ   string
	help  string
}

type tableWriter interface {
	header(w io.Writer, category string) error
	group(w io.Writer, group string) error
	row(w io.Writer, c cells) error
	footer(w io.Writer) error
}

// Renderer writes tables in one format.
type Renderer struct {
	Format    Format
	Sanitizer *Sanitizer
	logger    logger.Logger
}

func New(format Format, sanitizer *Sanitizer) *Renderer {
	return &Renderer{
		Format:    format,
		Sanitizer: sanitizer,
		logger:    logger.Nop{},
	}
}

func (r *Renderer) WithLogger(l logger.Logger) *Renderer {
	r.logger = logger.OrNop(l)
	return r
}

// WriteTable renders a single table to w.
func (r *Renderer) WriteTable(w io.Writer, table Table) error {
	tw := r.Format.writer()
	if err := tw.header(w, table.Category); err != nil {
		return err
	}

	curGroup := ""
	for i, row := range table.Rows {
		if i == 0 || row.Group != curGroup {
			curGroup = row.Group
			if err := tw.group(w, curGroup); err != nil {
				return err
			}
		}
		opt := row.Option
		err := tw.row(w, cells{
			name:  opt.Name,
			value: r.Sanitizer.Default(opt.Default, opt.Type),
			typ:   opt.Type,
			help:  Help(opt.Help),
		})
		if err != nil {
			return err
		}
	}
	return tw.footer(w)
}

// FileName returns the table file name for pkg and category.
func (r *Renderer) FileName(pkg, category string) string {
	return pkg + "-" + category + r.Format.Extension()
}

// WriteFiles renders every table into dir and returns the written paths.
// Files are replaced atomically.
func (r *Renderer) WriteFiles(dir, pkg string, tables []Table) ([]string, error) {
	paths := make([]string, 0, len(tables))
	for _, table := range tables {
		path := filepath.Join(dir, r.FileName(pkg, table.Category))

		var buf bytes.Buffer
		if err := r.WriteTable(&buf, table); err != nil {
			return paths, writeError(path, "failed to render table", err)
		}
		if err := fsutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
			return paths, writeError(path, "failed to write table", err)
		}

		r.logger.Debug("Wrote %d options to %s", len(table.Rows), path)
		paths = append(paths, path)
	}
	return paths, nil
}

// Store groups the entries of store and writes one file per category.
func (r *Renderer) Store(dir, pkg string, store *flagmap.Store, lookup Lookup) ([]string, error) {
	tables, err := GroupByCategory(store.Entries(), lookup, r.logger)
	if err != nil {
		return nil, err
	}
	return r.WriteFiles(dir, pkg, tables)
}

func writeError(path, msg string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, msg).
		WithTextCode(TextCodeWriteFailed).
		WithMetadata(map[string]any{"path": path})
}
