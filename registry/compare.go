package registry

import (
	"sort"
	"strings"
)

// DefaultGroup names the unnamed configuration section. Options registered
// under it are keyed by their bare name.
const DefaultGroup = "DEFAULT"

// QualifiedName returns the registry key for name in group.
func QualifiedName(group, name string) string {
	if group == "" || group == DefaultGroup {
		return name
	}
	return group + "/" + name
}

// SplitName splits a qualified name into group and bare name. Ungrouped names
// return DefaultGroup.
func SplitName(qualified string) (group, name string) {
	idx := strings.IndexByte(qualified, '/')
	if idx < 0 {
		return DefaultGroup, qualified
	}
	return qualified[:idx], qualified[idx+1:]
}

// IsGrouped reports whether qualified carries a group prefix.
func IsGrouped(qualified string) bool {
	return strings.IndexByte(qualified, '/') >= 0
}

// Compare orders qualified names canonically. Ungrouped names come before
// grouped ones; grouped names compare by group, then by the full name.
// It returns -1, 0 or +1.
func Compare(a, b string) int {
	aGrouped, bGrouped := IsGrouped(a), IsGrouped(b)

	switch {
	case !aGrouped && !bGrouped:
		return strings.Compare(a, b)
	case !aGrouped:
		return -1
	case !bGrouped:
		return 1
	}

	ag, _ := SplitName(a)
	bg, _ := SplitName(b)
	if c := strings.Compare(ag, bg); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// SortNames sorts names in place using Compare.
func SortNames(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return Compare(names[i], names[j]) < 0
	})
}
