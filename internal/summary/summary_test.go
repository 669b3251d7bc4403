package summary

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"dompet/internal/core"
)

func mk(amount int64, typ core.TransactionType, date string) core.Transaction {
	return core.Transaction{Amount: decimal.NewFromInt(amount), Type: typ, Date: date, Category: "x"}
}

func TestAggregate(t *testing.T) {
	got := Aggregate([]core.Transaction{
		mk(100, core.Income, "2025-01-01"),
		mk(40, core.Expense, "2025-01-02"),
		mk(10, core.Income, "2025-01-03"),
	})
	if !got.Income.Equal(decimal.NewFromInt(110)) {
		t.Errorf("income = %s, want 110", got.Income)
	}
	if !got.Expense.Equal(decimal.NewFromInt(40)) {
		t.Errorf("expense = %s, want 40", got.Expense)
	}
	if !got.Balance.Equal(decimal.NewFromInt(70)) {
		t.Errorf("balance = %s, want 70", got.Balance)
	}
}

func TestAggregateUnknownTypeIsExpense(t *testing.T) {
	got := Aggregate([]core.Transaction{mk(5, "transfer", "2025-01-01")})
	if !got.Expense.Equal(decimal.NewFromInt(5)) || !got.Income.IsZero() {
		t.Fatalf("unexpected totals: %+v", got)
	}
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil)
	if !got.Income.IsZero() || !got.Expense.IsZero() || !got.Balance.IsZero() {
		t.Fatalf("expected zero totals, got %+v", got)
	}
}

func TestBuildSeries(t *testing.T) {
	s := BuildSeries([]core.Transaction{
		mk(5, core.Expense, "2025-01-03"),
		mk(50, core.Income, "2025-01-01"),
		mk(20, core.Expense, "2025-01-01"),
		mk(7, "other", "2025-01-02"),
	})

	wantLabels := []string{"2025-01-01", "2025-01-02", "2025-01-03"}
	if strings.Join(s.Labels, ",") != strings.Join(wantLabels, ",") {
		t.Fatalf("labels = %v, want %v", s.Labels, wantLabels)
	}
	wantIncome := []int64{50, 0, 0}
	wantExpense := []int64{20, 7, 5}
	for i := range wantLabels {
		if !s.Income[i].Equal(decimal.NewFromInt(wantIncome[i])) {
			t.Errorf("income[%d] = %s, want %d", i, s.Income[i], wantIncome[i])
		}
		if !s.Expense[i].Equal(decimal.NewFromInt(wantExpense[i])) {
			t.Errorf("expense[%d] = %s, want %d", i, s.Expense[i], wantExpense[i])
		}
	}
}

func TestNewLineChartJSON(t *testing.T) {
	s := BuildSeries([]core.Transaction{
		mk(50, core.Income, "2025-01-01"),
		mk(20, core.Expense, "2025-01-01"),
	})
	cfg := NewLineChart(s, DefaultChartStyle())

	raw, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)
	for _, want := range []string{
		`"type":"line"`,
		`"labels":["2025-01-01"]`,
		`"label":"Pemasukan","data":[50],"borderColor":"#22c55e","tension":0.3`,
		`"label":"Pengeluaran","data":[20],"borderColor":"#ef4444","tension":0.3`,
		`"legend":{"position":"bottom"}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("chart JSON missing %s: %s", want, body)
		}
	}
}
