package flagmap

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name         string
		line         string
		wantFlag     string
		wantCategory string
		wantOK       bool
	}{
		{name: "flag and category", line: "debug logging", wantFlag: "debug", wantCategory: "logging", wantOK: true},
		{name: "missing category", line: "db/url", wantFlag: "db/url", wantCategory: Unknown, wantOK: true},
		{name: "trailing space only", line: "db/url ", wantFlag: "db/url", wantCategory: Unknown, wantOK: true},
		{name: "tab separator", line: "db/url\tstorage", wantFlag: "db/url", wantCategory: "storage", wantOK: true},
		{name: "rest of line is category", line: "port api network", wantFlag: "port", wantCategory: "api network", wantOK: true},
		{name: "carriage return stripped", line: "port api\r", wantFlag: "port", wantCategory: "api", wantOK: true},
		{name: "blank line", line: "   ", wantOK: false},
		{name: "empty line", line: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag, category, ok := ParseLine(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantFlag, flag)
			assert.Equal(t, tt.wantCategory, category)
		})
	}
}

func TestReadFromAccumulatesHistory(t *testing.T) {
	input := strings.Join([]string{
		"a Net",
		"b/c Unknown",
		"",
		"b/c Storage",
		"orphan",
	}, "\n")

	store, err := ReadFrom(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b/c", "orphan"}, store.Flags())
	assert.Equal(t, []string{"Net"}, store.Categories("a"))
	assert.Equal(t, []string{"Unknown", "Storage"}, store.Categories("b/c"))
	assert.Equal(t, []string{Unknown}, store.Categories("orphan"))
	assert.Nil(t, store.Categories("missing"))
	assert.Len(t, store.Entries(), 4)

	cat, ok := store.Category("a")
	assert.True(t, ok)
	assert.Equal(t, "Net", cat)

	_, ok = store.Category("b/c")
	assert.False(t, ok, "ambiguous flags have no single category")
}

func TestNilStoreIsEmpty(t *testing.T) {
	var store *Store
	assert.Zero(t, store.Len())
	assert.False(t, store.Has("x"))
	assert.Nil(t, store.Categories("x"))
	assert.Nil(t, store.Flags())
}

func TestEntryCategories(t *testing.T) {
	assert.Equal(t, []string{"api", "network"}, Entry{Flag: "port", Category: "api  network"}.Categories())
	assert.Equal(t, []string{Unknown}, Entry{Flag: "port"}.Categories())
	assert.Equal(t, "port Unknown", Entry{Flag: "port"}.String())
}

func TestWriteToIsStrict(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTo(&buf, []Entry{
		{Flag: "a", Category: "Net"},
		{Flag: "b/c"},
	})
	require.NoError(t, err)
	assert.Equal(t, "a Net\nb/c Unknown\n", buf.String())
}

func TestWriteReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "pkg.flagmappings")

	require.NoError(t, Write(path, []Entry{{Flag: "a", Category: "Net"}}))
	require.NoError(t, Write(path, []Entry{{Flag: "b", Category: "Storage"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "b Storage\n", string(data))

	leftovers, err := filepath.Glob(filepath.Join(dir, "nested", "*.tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestWriteFailureIsTagged(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := Write(filepath.Join(blocker, "pkg.flagmappings"), nil)
	require.Error(t, err)

	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	assert.Equal(t, TextCodeWriteFailed, richErr.TextCode)
}

func TestBootstrapThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkg.flagmappings")
	names := []string{"debug", "db/url"}

	require.NoError(t, Bootstrap(path, names))

	store, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, names, store.Flags())
	for _, name := range names {
		cat, ok := store.Category(name)
		assert.True(t, ok)
		assert.Equal(t, Unknown, cat)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.flagmappings"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("doc", "nova.flagmappings"), Path("doc", "nova"))
	assert.Equal(t, filepath.Join("doc", "nova.flagmappings.new"), PendingPath("doc", "nova"))
}
