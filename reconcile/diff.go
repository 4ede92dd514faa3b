package reconcile

import (
	"bytes"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/goliatone/go-confdoc/flagmap"
)

// UnifiedDiff renders the line changes between the curated store and the
// reconciled entries. It returns an empty string when nothing changed.
func UnifiedDiff(curated, reconciled []flagmap.Entry, fromFile, toFile string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        entryLines(curated),
		B:        entryLines(reconciled),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  1,
	}
	return difflib.GetUnifiedDiffString(diff)
}

func entryLines(entries []flagmap.Entry) []string {
	var buf bytes.Buffer
	_ = flagmap.WriteTo(&buf, entries)
	return difflib.SplitLines(buf.String())
}
