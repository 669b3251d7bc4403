package http

import (
	"strings"

	"dompet/internal/core"
	"dompet/internal/history"
)

// sanitizeInput removes control characters except tab, newline and
// carriage return. Whitespace is kept as typed.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

type typeOption struct {
	Value    string
	Label    string
	Selected bool
}

// typeOptions lists the transaction types for the form select.
func typeOptions(selected string) []typeOption {
	if core.ParseType(selected) != core.Expense {
		selected = string(core.Income)
	}
	return []typeOption{
		{Value: string(core.Income), Label: "Pemasukan", Selected: selected == string(core.Income)},
		{Value: string(core.Expense), Label: "Pengeluaran", Selected: selected == string(core.Expense)},
	}
}

type historyRow struct {
	Index    int
	Text     string
	Category string
	Amount   string
	Date     string
	Income   bool
}

// historyRows renders entries as "<category> - <amount> (<date>)".
func historyRows(entries []history.Entry, prefix string) []historyRow {
	rows := make([]historyRow, 0, len(entries))
	for _, e := range entries {
		tx := e.Transaction
		amount := core.FormatAmount(prefix, tx.Amount)
		rows = append(rows, historyRow{
			Index:    e.Index,
			Text:     tx.Category + " - " + amount + " (" + tx.Date + ")",
			Category: tx.Category,
			Amount:   amount,
			Date:     tx.Date,
			Income:   tx.IsIncome(),
		})
	}
	return rows
}
