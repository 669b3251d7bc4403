// Package history derives the filtered, display-ordered transaction list.
package history

import (
	"strings"

	"dompet/internal/core"
)

const (
	// AllCategories disables the category constraint.
	AllCategories = "All"

	rangeSeparator = " to "
)

// Range is an inclusive date interval compared lexicographically on
// zero-padded ISO dates.
type Range struct {
	Start string
	End   string
}

// Filter holds the raw values of the history filter inputs.
type Filter struct {
	Query    string
	Range    string
	Category string
}

// Entry pairs a matching transaction with its position in the store so a
// later load round-trips to the right record.
type Entry struct {
	Index       int
	Transaction core.Transaction
}

// ParseRange splits a "<start> to <end>" value. Input without the
// separator, or with an empty start, means no range at all.
func ParseRange(raw string) (Range, bool) {
	if !strings.Contains(raw, rangeSeparator) {
		return Range{}, false
	}
	parts := strings.Split(raw, rangeSeparator)
	r := Range{Start: parts[0], End: parts[1]}
	if r.Start == "" {
		return Range{}, false
	}
	return r, true
}

// Contains reports whether date lies within the range, both ends included.
func (r Range) Contains(date string) bool {
	return date >= r.Start && date <= r.End
}

// Apply returns the transactions matching every constraint, in store order.
func (f Filter) Apply(txs []core.Transaction) []Entry {
	query := strings.ToLower(f.Query)
	category := f.Category
	if category == "" {
		category = AllCategories
	}
	dates, hasRange := ParseRange(f.Range)

	out := make([]Entry, 0, len(txs))
	for i, t := range txs {
		if query != "" && !strings.Contains(strings.ToLower(t.Category), query) {
			continue
		}
		if category != AllCategories && t.Category != category {
			continue
		}
		if hasRange && !dates.Contains(t.Date) {
			continue
		}
		out = append(out, Entry{Index: i, Transaction: t})
	}
	return out
}

// Categories lists the distinct categories in first-seen order.
func Categories(txs []core.Transaction) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, t := range txs {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	return out
}
