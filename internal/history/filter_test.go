package history

import (
	"testing"

	"github.com/shopspring/decimal"

	"dompet/internal/core"
)

func sample() []core.Transaction {
	mk := func(amount int64, typ core.TransactionType, date, cat string) core.Transaction {
		return core.Transaction{Amount: decimal.NewFromInt(amount), Type: typ, Date: date, Category: cat}
	}
	return []core.Transaction{
		mk(100, core.Income, "2025-01-01", "Gaji"),
		mk(40, core.Expense, "2025-01-05", "Makan"),
		mk(15, core.Expense, "2025-01-10", "makan malam"),
		mk(10, core.Income, "2025-02-01", "Bonus"),
	}
}

func indices(entries []Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Index
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   Range
		wantOK bool
	}{
		{"full range", "2025-01-01 to 2025-01-31", Range{"2025-01-01", "2025-01-31"}, true},
		{"single date", "2025-01-01", Range{}, false},
		{"empty", "", Range{}, false},
		{"wrong separator", "2025-01-01 - 2025-01-31", Range{}, false},
		{"empty start", " to 2025-01-31", Range{}, false},
		{"empty end", "2025-01-01 to ", Range{Start: "2025-01-01"}, true},
		{"extra pieces ignored", "2025-01-01 to 2025-01-31 to 2025-12-31", Range{"2025-01-01", "2025-01-31"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRange(tt.raw)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseRange(%q) = %+v, %v; want %+v, %v", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestApply(t *testing.T) {
	txs := sample()
	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"no constraints", Filter{Category: AllCategories}, []int{0, 1, 2, 3}},
		{"empty category means all", Filter{}, []int{0, 1, 2, 3}},
		{"query is case-insensitive substring", Filter{Query: "MAKAN", Category: AllCategories}, []int{1, 2}},
		{"category is exact and case-sensitive", Filter{Category: "Makan"}, []int{1}},
		{"category lower-case does not match", Filter{Category: "makan"}, []int{}},
		{"range inclusive both ends", Filter{Range: "2025-01-05 to 2025-01-10", Category: AllCategories}, []int{1, 2}},
		{"range exact day", Filter{Range: "2025-02-01 to 2025-02-01", Category: AllCategories}, []int{3}},
		{"malformed range ignored", Filter{Range: "2025-01-05", Category: AllCategories}, []int{0, 1, 2, 3}},
		{"range with empty end matches nothing", Filter{Range: "2025-01-01 to ", Category: AllCategories}, []int{}},
		{"query is not trimmed", Filter{Query: " makan", Category: AllCategories}, []int{}},
		{"all constraints", Filter{Query: "mak", Range: "2025-01-06 to 2025-01-31", Category: "makan malam"}, []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := indices(tt.filter.Apply(txs))
			if !equalInts(got, tt.want) {
				t.Errorf("Apply() indices = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyKeepsStoreIndex(t *testing.T) {
	txs := sample()
	entries := Filter{Category: "Bonus"}.Apply(txs)
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].Index != 3 || entries[0].Transaction.Category != "Bonus" {
		t.Fatalf("entry must carry its store index: %+v", entries[0])
	}
}

func TestCategories(t *testing.T) {
	txs := append(sample(), sample()...)
	got := Categories(txs)
	want := []string{"Gaji", "Makan", "makan malam", "Bonus"}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Categories() = %v, want %v", got, want)
		}
	}
}
