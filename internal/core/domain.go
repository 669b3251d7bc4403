package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Transaction is a single income or expense record.
	//
	// Date is kept as a zero-padded ISO string (YYYY-MM-DD). Ordering and
	// range checks compare it lexicographically, which is only correct
	// because of the zero padding.
	Transaction struct {
		Amount   decimal.Decimal
		Type     TransactionType
		Date     string
		Category string
	}
)

var (
	ErrMissingAmount = errors.New("missing amount")
	ErrMissingDate   = errors.New("missing date")
)

// IsIncome reports whether the transaction counts as income. Any other
// type value is treated as an expense by the derivations.
func (t Transaction) IsIncome() bool {
	return t.Type == Income
}

// Validate performs the presence checks required before a record is
// accepted: a non-zero amount and a non-empty date.
func (t Transaction) Validate() error {
	if t.Amount.IsZero() {
		return ErrMissingAmount
	}
	if strings.TrimSpace(t.Date) == "" {
		return ErrMissingDate
	}
	return nil
}

// ParseType maps a form value onto a TransactionType. Unknown values are
// kept verbatim.
func ParseType(s string) TransactionType {
	return TransactionType(strings.TrimSpace(s))
}

func (tt TransactionType) String() string {
	return string(tt)
}
