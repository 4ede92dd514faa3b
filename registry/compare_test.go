package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "ungrouped lexical", a: "alpha", b: "beta", want: -1},
		{name: "equal ungrouped", a: "alpha", b: "alpha", want: 0},
		{name: "ungrouped before grouped", a: "zzz", b: "aaa/opt", want: -1},
		{name: "grouped after ungrouped", a: "aaa/opt", b: "zzz", want: 1},
		{name: "group name decides first", a: "db/zeta", b: "net/alpha", want: -1},
		{name: "same group compares full name", a: "db/b", b: "db/a", want: 1},
		{name: "group prefix shorter than sibling group", a: "db/x", b: "db_pool/a", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
		})
	}
}

func TestSortNamesPlacesUngroupedFirst(t *testing.T) {
	names := []string{"net/port", "verbose", "db/url", "debug", "db/pool_size", "a_b/c"}
	SortNames(names)

	assert.Equal(t, []string{
		"debug",
		"verbose",
		"a_b/c",
		"db/pool_size",
		"db/url",
		"net/port",
	}, names)
}

func TestSortNamesIsNotPlainLexical(t *testing.T) {
	// Plain lexical order would put "db/x" before "debug".
	names := []string{"db/x", "debug"}
	SortNames(names)
	assert.Equal(t, []string{"debug", "db/x"}, names)
}

func TestQualifiedAndSplitName(t *testing.T) {
	assert.Equal(t, "opt", QualifiedName("", "opt"))
	assert.Equal(t, "opt", QualifiedName(DefaultGroup, "opt"))
	assert.Equal(t, "grp/opt", QualifiedName("grp", "opt"))

	group, name := SplitName("grp/opt")
	assert.Equal(t, "grp", group)
	assert.Equal(t, "opt", name)

	group, name = SplitName("opt")
	assert.Equal(t, DefaultGroup, group)
	assert.Equal(t, "opt", name)
}
