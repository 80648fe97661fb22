package models

import "github.com/shopspring/decimal"

// Budget is the remaining spending cap of one user for one category.
// Category is always stored lowercased.
type Budget struct {
	ID        int64
	UserID    int64
	Category  string
	Remaining decimal.Decimal
}
