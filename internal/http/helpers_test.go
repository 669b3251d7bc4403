package http

import (
	"testing"

	"github.com/shopspring/decimal"

	"dompet/internal/core"
	"dompet/internal/history"
)

func TestSanitizeInput(t *testing.T) {
	tests := map[string]string{
		"  Makan  ":       "  Makan  ",
		"a\x00b\x07c":     "abc",
		"line\nbreak\tok": "line\nbreak\tok",
	}
	for in, want := range tests {
		if got := sanitizeInput(in); got != want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHistoryRows(t *testing.T) {
	rows := historyRows([]history.Entry{
		{Index: 4, Transaction: core.Transaction{Amount: decimal.NewFromInt(25000), Type: core.Expense, Date: "2025-01-03", Category: "Makan"}},
	}, "Rp ")
	if len(rows) != 1 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0].Text != "Makan - Rp 25000 (2025-01-03)" {
		t.Errorf("Text = %q", rows[0].Text)
	}
	if rows[0].Index != 4 || rows[0].Income {
		t.Errorf("unexpected row: %+v", rows[0])
	}
}

func TestTypeOptions(t *testing.T) {
	opts := typeOptions("expense")
	if opts[0].Selected || !opts[1].Selected {
		t.Errorf("expense should be selected: %+v", opts)
	}
	opts = typeOptions("")
	if !opts[0].Selected {
		t.Errorf("income is the default: %+v", opts)
	}
}
