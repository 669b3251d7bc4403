// Package summary derives totals and chart series from the transaction list.
package summary

import (
	"github.com/shopspring/decimal"

	"dompet/internal/core"
)

// Totals holds unformatted aggregate amounts.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// Aggregate sums every transaction in a single pass. Anything that is not
// income counts as expense.
func Aggregate(txs []core.Transaction) Totals {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txs {
		if t.IsIncome() {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}
	}
	return Totals{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}
