package extension

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-confdoc/registry"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSetRegisterAndFind(t *testing.T) {
	set := NewSet().
		RegisterStatic("acme.messaging", registry.Contribution{
			Group:   "rabbit",
			Options: []registry.Option{{Name: "host", Default: "localhost"}},
		}).
		Register("acme.messaging", func() ([]registry.Contribution, error) {
			return []registry.Contribution{{Options: []registry.Option{{Name: "transport_url"}}}}, nil
		})

	fns, err := set.Find("acme.messaging")
	require.NoError(t, err)
	require.Len(t, fns, 2)

	fns, err = set.Find("missing")
	require.NoError(t, err)
	assert.Empty(t, fns)

	assert.Equal(t, []string{"acme.messaging"}, set.IDs())
}

func TestSetRegisterNilPanics(t *testing.T) {
	assert.Panics(t, func() { NewSet().Register("x", nil) })
}

func TestSetWithRegistry(t *testing.T) {
	set := NewSet().RegisterStatic("ext", registry.Contribution{
		Group:   "rabbit",
		Options: []registry.Option{{Name: "host"}, {Name: "port"}},
	})

	reg := registry.New()
	reg.Populate(registry.NewCatalog().Add("rabbit", registry.Option{Name: "host", Help: "core"}))

	added, err := reg.LoadExtensions("ext", set)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	_, opt, err := reg.Lookup("rabbit/host")
	require.NoError(t, err)
	assert.Equal(t, "core", opt.Help)
	assert.True(t, reg.Has("rabbit/port"))
}

func TestChainConcatenatesAndStopsOnError(t *testing.T) {
	a := NewSet().RegisterStatic("ext")
	b := NewSet().RegisterStatic("ext").RegisterStatic("ext")

	fns, err := Chain(a, nil, b).Find("ext")
	require.NoError(t, err)
	assert.Len(t, fns, 3)

	boom := errors.New("boom")
	_, err = Chain(a, failing{boom}, b).Find("ext")
	assert.ErrorIs(t, err, boom)
}

type failing struct{ err error }

func (f failing) Find(string) ([]registry.ExtensionFunc, error) { return nil, f.err }

func TestDirLoadsYAMLDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cache.yaml", `
groups:
  - name: cache
    options:
      - name: servers
        default: ["a:1", "b:2"]
        help: Memcached servers
        type: stringSlice
      - name: ttl
        default: 300
        type: int
  - name: ""
    options:
      - name: Use_Cache
        default: true
        type: bool
`)

	fns, err := Dir{Path: dir}.Find("cache")
	require.NoError(t, err)
	require.Len(t, fns, 1)

	contributions, err := fns[0]()
	require.NoError(t, err)
	require.Len(t, contributions, 2)

	cache := contributions[0]
	assert.Equal(t, "cache", cache.Group)
	assert.Equal(t, []registry.Option{
		{Name: "servers", Default: "[a:1,b:2]", Help: "Memcached servers", Type: "stringSlice"},
		{Name: "ttl", Default: "300", Type: "int"},
	}, cache.Options)

	assert.Equal(t, "", contributions[1].Group)
	assert.Equal(t, "true", contributions[1].Options[0].Default)
	// Values keep their case, only keys are lowered.
	assert.Equal(t, "Use_Cache", contributions[1].Options[0].Name)
}

func TestDirLoadsJSONAndTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"Groups": [{"name": "api", "options": [{"name": "workers", "default": 4}]}]}`)
	writeFile(t, dir, "b.toml", "[[groups]]\nname = \"db\"\n\n[[groups.options]]\nname = \"url\"\ndefault = \"sqlite://\"\n")

	for id, want := range map[string]string{"a": "api/workers", "b": "db/url"} {
		reg := registry.New()
		_, err := reg.LoadExtensions(id, Dir{Path: dir})
		require.NoError(t, err, id)
		assert.Equal(t, []string{want}, reg.Names(), id)
	}
}

func TestDirUnknownID(t *testing.T) {
	fns, err := Dir{Path: t.TempDir()}.Find("nope")
	require.NoError(t, err)
	assert.Empty(t, fns)
}

func TestDirMissingDirectory(t *testing.T) {
	_, err := Dir{Path: filepath.Join(t.TempDir(), "missing")}.Find("x")
	require.Error(t, err)
	assert.True(t, goerrors.IsNotFound(err))

	var gerr *goerrors.Error
	require.True(t, goerrors.As(err, &gerr))
	assert.Equal(t, TextCodeNotFound, gerr.TextCode)
}

func TestDirInvalidDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "groups:\n  - name: x\n    options:\n      - help: no name\n")
	writeFile(t, dir, "broken.json", "{not json")

	for _, id := range []string{"bad", "broken"} {
		reg := registry.New()
		_, err := reg.LoadExtensions(id, Dir{Path: dir})
		require.Error(t, err, id)

		var gerr *goerrors.Error
		require.True(t, goerrors.As(err, &gerr), id)
		assert.Equal(t, TextCodeLoadFailed, gerr.TextCode, id)
	}
}
