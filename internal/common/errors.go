// Package common defines the sentinel errors shared by the ledger services,
// repositories and the command-line surface. Callers should use errors.Is to
// match these values; errors.As is used for *BudgetExceededError.
package common

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Identity errors.
	ErrDuplicateUsername = errors.New("username already exists")
	ErrUnknownUser       = errors.New("unknown user")
	ErrBadCredentials    = errors.New("incorrect username or password")
	ErrNotLoggedIn       = errors.New("not logged in")

	// Ledger errors.
	ErrBudgetExceeded  = errors.New("budget exceeded")
	ErrOwnershipDenied = errors.New("transaction belongs to another user")

	// Validation errors.
	ErrInvalidField  = errors.New("invalid field")
	ErrInvalidFilter = errors.New("invalid filter")
	ErrValidation    = errors.New("validation error")

	// Storage faults.
	ErrPersistence = errors.New("persistence error")
)

// BudgetExceededError is returned when a transaction does not fit into the
// remaining budget of its category. Nothing is written when it is returned.
type BudgetExceededError struct {
	Category  string
	Remaining decimal.Decimal
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("budget exceeded for %s: remaining %s", e.Category, e.Remaining.String())
}

func (e *BudgetExceededError) Unwrap() error {
	return ErrBudgetExceeded
}

// Persistence marks err as a storage fault while keeping the cause reachable
// through errors.Is / errors.As.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, errors.Join(ErrPersistence, err))
}
