// Package reconcile merges the options currently registered by a package
// against its curated flagmappings, keeping every category that can still be
// attributed unambiguously and marking the rest Unknown for review.
package reconcile

import (
	"fmt"
	"io"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-confdoc/flagmap"
	"github.com/goliatone/go-confdoc/logger"
	"github.com/goliatone/go-confdoc/registry"
)

// History is the read side of a flagmapping store.
type History interface {
	Categories(flag string) []string
	Flags() []string
}

// Result is the outcome of one reconciliation pass.
type Result struct {
	// Entries holds one line per current option, in the order names were given.
	Entries []flagmap.Entry
	// Added lists current options absent from history, in canonical order.
	Added []string
	// Removed lists historical flags no longer registered, in canonical order.
	Removed []string
	// Bootstrapped is set when no usable history existed.
	Bootstrapped bool
}

// Resolve picks the category for name:
//  1. a single historical category is carried forward;
//  2. otherwise a grouped name inherits the single category of its bare name;
//  3. otherwise Unknown.
func Resolve(name string, hist History) string {
	if hist == nil {
		return flagmap.Unknown
	}
	if cats := hist.Categories(name); len(cats) == 1 {
		return cats[0]
	}
	if registry.IsGrouped(name) {
		_, bare := registry.SplitName(name)
		if cats := hist.Categories(bare); len(cats) == 1 {
			return cats[0]
		}
	}
	return flagmap.Unknown
}

// Merge resolves every name against hist and computes the add/remove diff.
// Neither input is modified.
func Merge(names []string, hist History) Result {
	res := Result{Entries: make([]flagmap.Entry, 0, len(names))}

	current := make(map[string]struct{}, len(names))
	for _, name := range names {
		current[name] = struct{}{}
		res.Entries = append(res.Entries, flagmap.Entry{
			Flag:     name,
			Category: Resolve(name, hist),
		})
	}

	historical := make(map[string]struct{})
	if hist != nil {
		for _, flag := range hist.Flags() {
			historical[flag] = struct{}{}
			if _, ok := current[flag]; !ok {
				res.Removed = append(res.Removed, flag)
			}
		}
	}
	for _, name := range names {
		if _, ok := historical[name]; !ok {
			res.Added = append(res.Added, name)
		}
	}

	res.Added = dedupSorted(res.Added)
	res.Removed = dedupSorted(res.Removed)
	return res
}

// Bootstrap maps every name to Unknown without consulting any history.
func Bootstrap(names []string) Result {
	return Result{
		Entries:      flagmap.BootstrapEntries(names),
		Added:        dedupSorted(append([]string(nil), names...)),
		Bootstrapped: true,
	}
}

// Update reads the store at inPath, merges names against it and writes the
// result to outPath. A missing or unreadable store falls back to bootstrap.
// inPath is never written.
func Update(names []string, inPath, outPath string, l logger.Logger) (Result, error) {
	l = logger.OrNop(l)

	if inPath == outPath {
		return Result{}, goerrors.New("reconciled output must not overwrite the curated flagmappings", goerrors.CategoryBadInput).
			WithTextCode("INVALID_OUTPUT_PATH").
			WithMetadata(map[string]any{"path": inPath})
	}

	var res Result
	store, err := flagmap.Read(inPath)
	if err != nil {
		l.Warn("No usable flagmappings at %s, bootstrapping: %v", inPath, err)
		res = Bootstrap(names)
	} else {
		res = Merge(names, store)
	}

	if err := flagmap.Write(outPath, res.Entries); err != nil {
		return res, err
	}
	return res, nil
}

// Report prints the removed and added flags for human review.
func (r Result) Report(w io.Writer) error {
	if len(r.Removed) > 0 {
		if _, err := fmt.Fprintln(w, "Removed Flags"); err != nil {
			return err
		}
		for _, name := range r.Removed {
			if _, err := fmt.Fprintf(w, "%-50s\n", name); err != nil {
				return err
			}
		}
	}
	if len(r.Added) > 0 {
		if len(r.Removed) > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "Added Flags"); err != nil {
			return err
		}
		for _, name := range r.Added {
			if _, err := fmt.Fprintf(w, "%-50s\n", name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Unknown returns the flags left for manual curation.
func (r Result) Unknown() []string {
	var out []string
	for _, e := range r.Entries {
		if e.Category == flagmap.Unknown {
			out = append(out, e.Flag)
		}
	}
	return out
}

func dedupSorted(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	registry.SortNames(names)
	out := names[:1]
	for _, n := range names[1:] {
		if n != out[len(out)-1] {
			out = append(out, n)
		}
	}
	return out
}
