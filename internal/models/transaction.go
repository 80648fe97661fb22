// Package models defines the records persisted by the ledger: users,
// budgets, transactions, and the report views computed from them.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TxType is the kind of money movement a transaction records.
type TxType string

const (
	TypeIncome  TxType = "income"
	TypeExpense TxType = "expense"
)

// ParseTxType normalizes s and reports whether it names a known type.
func ParseTxType(s string) (TxType, bool) {
	t := TxType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeIncome, TypeExpense:
		return t, true
	}
	return t, false
}

// Transaction is a single income or expense entry owned by UserID.
type Transaction struct {
	ID       int64
	UserID   int64
	Amount   decimal.Decimal
	Type     TxType
	Category string
	Month    int
	Year     int
}

// NormalizeCategory is the canonical form used for categories everywhere.
func NormalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
