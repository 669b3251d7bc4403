package summary

import (
	"sort"

	"github.com/shopspring/decimal"

	"dompet/internal/core"
)

// Series is the per-date income/expense data, aligned to Labels.
type Series struct {
	Labels  []string
	Income  []decimal.Decimal
	Expense []decimal.Decimal
}

type dayTotals struct {
	income  decimal.Decimal
	expense decimal.Decimal
}

// BuildSeries groups amounts by date using the same income/else-expense
// classification as Aggregate. Labels are the distinct dates, ascending.
func BuildSeries(txs []core.Transaction) Series {
	byDate := make(map[string]*dayTotals)
	for _, t := range txs {
		d, ok := byDate[t.Date]
		if !ok {
			d = &dayTotals{income: decimal.Zero, expense: decimal.Zero}
			byDate[t.Date] = d
		}
		if t.IsIncome() {
			d.income = d.income.Add(t.Amount)
		} else {
			d.expense = d.expense.Add(t.Amount)
		}
	}

	labels := make([]string, 0, len(byDate))
	for date := range byDate {
		labels = append(labels, date)
	}
	sort.Strings(labels)

	s := Series{
		Labels:  labels,
		Income:  make([]decimal.Decimal, len(labels)),
		Expense: make([]decimal.Decimal, len(labels)),
	}
	for i, date := range labels {
		s.Income[i] = byDate[date].income
		s.Expense[i] = byDate[date].expense
	}
	return s
}

// ChartStyle names and colours the two datasets.
type ChartStyle struct {
	IncomeLabel  string
	ExpenseLabel string
	IncomeColor  string
	ExpenseColor string
	Tension      float64
}

func DefaultChartStyle() ChartStyle {
	return ChartStyle{
		IncomeLabel:  "Pemasukan",
		ExpenseLabel: "Pengeluaran",
		IncomeColor:  "#22c55e",
		ExpenseColor: "#ef4444",
		Tension:      0.3,
	}
}

// ChartConfig is the configuration handed to the charting collaborator
// (Chart.js). Its JSON form is passed through unchanged.
type ChartConfig struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label       string    `json:"label"`
	Data        []float64 `json:"data"`
	BorderColor string    `json:"borderColor"`
	Tension     float64   `json:"tension"`
}

type ChartOptions struct {
	Responsive bool          `json:"responsive"`
	Plugins    PluginOptions `json:"plugins"`
}

type PluginOptions struct {
	Legend LegendOptions `json:"legend"`
}

type LegendOptions struct {
	Position string `json:"position"`
}

// NewLineChart wraps a series into a two-line chart configuration.
func NewLineChart(s Series, style ChartStyle) ChartConfig {
	return ChartConfig{
		Type: "line",
		Data: ChartData{
			Labels: s.Labels,
			Datasets: []Dataset{
				{Label: style.IncomeLabel, Data: floats(s.Income), BorderColor: style.IncomeColor, Tension: style.Tension},
				{Label: style.ExpenseLabel, Data: floats(s.Expense), BorderColor: style.ExpenseColor, Tension: style.Tension},
			},
		},
		Options: ChartOptions{
			Responsive: true,
			Plugins:    PluginOptions{Legend: LegendOptions{Position: "bottom"}},
		},
	}
}

// floats converts amounts to plot coordinates.
func floats(in []decimal.Decimal) []float64 {
	out := make([]float64, len(in))
	for i, d := range in {
		out[i] = d.InexactFloat64()
	}
	return out
}
