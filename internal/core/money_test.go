package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"1", "1"},
		{"1500", "1500"},
		{"12.5", "12.5"},
		{"12,5", "0"},
		{"1,000", "0"},
		{" 2.50 ", "2.5"},
		{"-3", "-3"},
		{"0", "0"},
		{"abc", "0"},
		{"1.2.3", "0"},
		{"", "0"},
	}
	for _, tc := range cases {
		got := ParseAmount(tc.in)
		want, _ := decimal.NewFromString(tc.out)
		if !got.Equal(want) {
			t.Fatalf("%q expected %s, got %s", tc.in, want, got)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		d    decimal.Decimal
		want string
	}{
		{decimal.NewFromInt(70), "Rp 70"},
		{decimal.NewFromInt(-40), "Rp -40"},
		{decimal.RequireFromString("12.50"), "Rp 12.5"},
		{decimal.Zero, "Rp 0"},
	}
	for _, tc := range cases {
		if got := FormatAmount(DefaultCurrencyPrefix, tc.d); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}
