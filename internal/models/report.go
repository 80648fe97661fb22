package models

import "github.com/shopspring/decimal"

// Filter narrows listings and reports to a period. Zero means "not set".
type Filter struct {
	Month int
	Year  int
}

// TypeTotal is the sum of all transaction amounts of one type.
type TypeTotal struct {
	Type  TxType
	Total decimal.Decimal
}

// CategoryTotal is the sum of amounts for one (type, category) pair.
type CategoryTotal struct {
	Type     TxType
	Category string
	Total    decimal.Decimal
}

// Report is the grouped summary produced for a user and a filter.
type Report struct {
	Filter Filter
	Totals []TypeTotal
}

// Total returns the sum for t, or zero when the group is absent.
func (r *Report) Total(t TxType) decimal.Decimal {
	for _, tt := range r.Totals {
		if tt.Type == t {
			return tt.Total
		}
	}
	return decimal.Zero
}

// Savings is income minus expense.
func (r *Report) Savings() decimal.Decimal {
	return r.Total(TypeIncome).Sub(r.Total(TypeExpense))
}
