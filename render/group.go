package render

import (
	"sort"

	"github.com/goliatone/go-confdoc/flagmap"
	"github.com/goliatone/go-confdoc/logger"
	"github.com/goliatone/go-confdoc/registry"
)

// Lookup resolves a qualified name to its group and option.
type Lookup interface {
	Lookup(qualified string) (string, registry.Option, error)
	Has(qualified string) bool
}

// Row is one option in a table.
type Row struct {
	Name   string
	Group  string
	Option registry.Option
}

// Table holds the rows filed under one category, in canonical order.
type Table struct {
	Category string
	Rows     []Row
}

// GroupByCategory files each entry under every category its category text
// names. Flags the registry no longer knows are skipped with a warning, so a
// stale store still renders. Tables come back sorted by category.
func GroupByCategory(entries []flagmap.Entry, lookup Lookup, l logger.Logger) ([]Table, error) {
	l = logger.OrNop(l)

	byCategory := make(map[string]map[string]struct{})
	for _, e := range entries {
		if !lookup.Has(e.Flag) {
			l.Warn("Skipping %s: not a registered option", e.Flag)
			continue
		}
		for _, cat := range e.Categories() {
			if byCategory[cat] == nil {
				byCategory[cat] = make(map[string]struct{})
			}
			byCategory[cat][e.Flag] = struct{}{}
		}
	}

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	tables := make([]Table, 0, len(categories))
	for _, cat := range categories {
		names := make([]string, 0, len(byCategory[cat]))
		for name := range byCategory[cat] {
			names = append(names, name)
		}
		registry.SortNames(names)

		table := Table{Category: cat, Rows: make([]Row, 0, len(names))}
		for _, name := range names {
			group, opt, err := lookup.Lookup(name)
			if err != nil {
				return nil, err
			}
			table.Rows = append(table.Rows, Row{Name: name, Group: group, Option: opt})
		}
		tables = append(tables, table)
	}
	return tables, nil
}
