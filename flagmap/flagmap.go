// Package flagmap reads and writes flagmapping files: one "<flag> <category>"
// pair per line, mapping a qualified option name to its curated category.
//
// Reading is permissive. A line without a category maps the flag to Unknown,
// and repeated flags accumulate every category seen so ambiguity survives
// into reconciliation. Writing is strict and always emits well formed lines.
package flagmap

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-confdoc/internal/fsutil"
)

// Unknown marks a flag that still needs manual curation.
const Unknown = "Unknown"

const (
	// Extension is the suffix of a curated flagmapping file.
	Extension = ".flagmappings"
	// PendingExtension is appended to the curated name for reconciled output
	// awaiting review.
	PendingExtension = ".new"

	TextCodeWriteFailed = "FLAGMAP_WRITE_FAILED"
)

// Entry is one persisted (flag, category) pair.
type Entry struct {
	Flag     string
	Category string
}

// Categories splits the category text on whitespace. An option may be listed
// under several categories this way.
func (e Entry) Categories() []string {
	fields := strings.Fields(e.Category)
	if len(fields) == 0 {
		return []string{Unknown}
	}
	return fields
}

func (e Entry) String() string {
	category := e.Category
	if category == "" {
		category = Unknown
	}
	return e.Flag + " " + category
}

// ParseLine splits line at its first space or tab. Everything after the
// separator is the category; a missing or blank category becomes Unknown.
// Blank lines report ok=false.
func ParseLine(line string) (flag, category string, ok bool) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return "", "", false
	}

	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return line, Unknown, true
	}

	flag = line[:idx]
	category = strings.TrimSpace(line[idx+1:])
	if category == "" {
		category = Unknown
	}
	return flag, category, true
}

// Path returns the curated flagmapping path for pkg inside dir.
func Path(dir, pkg string) string {
	return filepath.Join(dir, pkg+Extension)
}

// PendingPath returns the reconciled output path for pkg inside dir.
func PendingPath(dir, pkg string) string {
	return Path(dir, pkg) + PendingExtension
}

// Read parses the flagmapping file at path.
func Read(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	store, err := ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("read flagmappings %s: %w", path, err)
	}
	return store, nil
}

// ReadFrom parses flagmapping lines from r.
func ReadFrom(r io.Reader) (*Store, error) {
	store := NewStore()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		flag, category, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		store.Add(flag, category)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return store, nil
}

// WriteTo serializes entries to w, one line each.
func WriteTo(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := bw.WriteString(e.String() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Write replaces the file at path with entries. A failed write leaves any
// previous file untouched.
func Write(path string, entries []Entry) error {
	var buf bytes.Buffer
	if err := WriteTo(&buf, entries); err != nil {
		return writeError(path, "failed to serialize flagmappings", err)
	}
	if err := fsutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return writeError(path, "failed to write flagmappings", err)
	}
	return nil
}

// Bootstrap writes every name with the Unknown category.
func Bootstrap(path string, names []string) error {
	return Write(path, BootstrapEntries(names))
}

// BootstrapEntries maps every name to Unknown, keeping the given order.
func BootstrapEntries(names []string) []Entry {
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{Flag: name, Category: Unknown})
	}
	return entries
}

func writeError(path, msg string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, msg).
		WithTextCode(TextCodeWriteFailed).
		WithMetadata(map[string]any{"path": path})
}
