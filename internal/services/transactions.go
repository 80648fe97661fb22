package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/saitej-a/Innobyte-services/internal/common"
	"github.com/saitej-a/Innobyte-services/internal/dbx"
	"github.com/saitej-a/Innobyte-services/internal/logging"
	"github.com/saitej-a/Innobyte-services/internal/models"
	"github.com/saitej-a/Innobyte-services/internal/repositories/repomanager"
	"github.com/saitej-a/Innobyte-services/internal/repositories/transactions"
)

// TransactionInput is an unvalidated request to record money movement.
type TransactionInput struct {
	Amount   decimal.Decimal
	Type     string
	Category string
	Month    int
	Year     int
}

// Receipt describes a recorded transaction and the budget decision that
// let it through.
type Receipt struct {
	Transaction *models.Transaction
	Decision    Decision
}

// updatableFields maps user-facing field names onto repository columns.
var updatableFields = map[string]transactions.Column{
	"amount":   transactions.ColumnAmount,
	"type":     transactions.ColumnType,
	"category": transactions.ColumnCategory,
	"month":    transactions.ColumnMonth,
	"year":     transactions.ColumnYear,
}

type TransactionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	budgets     *BudgetService
	log         logging.Logger
}

func NewTransactionService(db *sql.DB, m repomanager.RepositoryManager, b *BudgetService, log logging.Logger) *TransactionService {
	return &TransactionService{db: db, repomanager: m, budgets: b, log: log}
}

// Record validates in, runs the budget admission check and stores the
// transaction. The insert and the budget debit commit together or not at
// all. A rejected transaction returns *common.BudgetExceededError and
// writes nothing.
//
// Admission is checked for income as well as expense.
func (s *TransactionService) Record(ctx context.Context, userID int64, in TransactionInput) (*Receipt, error) {
	t, err := normalizeInput(userID, in)
	if err != nil {
		return nil, err
	}

	var decision Decision
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		d, err := s.budgets.CheckAdmission(ctx, tx, userID, t.Category, t.Amount)
		if err != nil {
			return err
		}
		decision = d
		if !d.Admit {
			return &common.BudgetExceededError{Category: t.Category, Remaining: d.Remaining}
		}

		if _, err := s.repomanager.Transactions(tx).Insert(ctx, t); err != nil {
			return err
		}

		if d.Bounded {
			return s.budgets.Consume(ctx, tx, userID, t.Category, t.Amount)
		}
		return nil
	})

	var exceeded *common.BudgetExceededError
	if errors.As(err, &exceeded) {
		s.log.Info(ctx, "transaction rejected", "user_id", userID, "category", t.Category,
			"amount", t.Amount.String(), "remaining", exceeded.Remaining.String())
		return nil, exceeded
	}
	if errors.Is(err, common.ErrPersistence) {
		return nil, err
	}
	if err != nil {
		return nil, common.Persistence("record transaction", err)
	}

	s.log.Info(ctx, "transaction recorded", "user_id", userID, "transaction_id", t.ID,
		"type", string(t.Type), "category", t.Category, "amount", t.Amount.String())
	return &Receipt{Transaction: t, Decision: decision}, nil
}

// VerifyOwnership reports whether txID belongs to userID. It answers false
// whenever it cannot prove ownership. Update, Delete and Get run the same
// check through owned, which also tells a missing row from a foreign one.
func (s *TransactionService) VerifyOwnership(ctx context.Context, txID, userID int64) (bool, error) {
	if _, err := s.owned(ctx, txID, userID); err != nil {
		if errors.Is(err, common.ErrOwnershipDenied) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Update sets one field of an owned transaction. It never touches budgets,
// so a changed amount or category is not reconciled against them.
func (s *TransactionService) Update(ctx context.Context, txID int64, field, value string, userID int64) (*models.Transaction, error) {
	if _, err := s.owned(ctx, txID, userID); err != nil {
		return nil, err
	}

	field = strings.ToLower(strings.TrimSpace(field))
	column, ok := updatableFields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q (allowed: amount, type, category, month, year)", common.ErrInvalidField, field)
	}

	v, err := coerceField(column, value)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Transactions(s.db)
	if err := repo.Update(ctx, txID, column, v); err != nil {
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrInvalidField) {
			return nil, err
		}
		return nil, common.Persistence("update transaction", err)
	}

	s.log.Info(ctx, "transaction updated", "user_id", userID, "transaction_id", txID, "field", field)

	t, err := repo.GetByID(ctx, txID)
	if err != nil {
		return nil, common.Persistence("reload transaction", err)
	}
	return t, nil
}

// Delete removes an owned transaction. Budgets are left as they are.
func (s *TransactionService) Delete(ctx context.Context, txID, userID int64) error {
	if _, err := s.owned(ctx, txID, userID); err != nil {
		return err
	}

	if err := s.repomanager.Transactions(s.db).Delete(ctx, txID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return common.Persistence("delete transaction", err)
	}

	s.log.Info(ctx, "transaction deleted", "user_id", userID, "transaction_id", txID)
	return nil
}

func (s *TransactionService) Get(ctx context.Context, txID, userID int64) (*models.Transaction, error) {
	return s.owned(ctx, txID, userID)
}

func (s *TransactionService) List(ctx context.Context, userID int64, f models.Filter) ([]models.Transaction, error) {
	if err := validateFilter(f); err != nil {
		return nil, err
	}
	list, err := s.repomanager.Transactions(s.db).List(ctx, userID, f)
	if err != nil {
		return nil, common.Persistence("list transactions", err)
	}
	return list, nil
}

// owned loads txID and checks that userID owns it.
func (s *TransactionService) owned(ctx context.Context, txID, userID int64) (*models.Transaction, error) {
	t, err := s.repomanager.Transactions(s.db).GetByID(ctx, txID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("transaction %d: %w", txID, common.ErrNotFound)
		}
		return nil, common.Persistence("get transaction", err)
	}
	if t.UserID != userID {
		s.log.Warn(ctx, "ownership check failed", "user_id", userID, "transaction_id", txID)
		return nil, common.ErrOwnershipDenied
	}
	return t, nil
}

func normalizeInput(userID int64, in TransactionInput) (*models.Transaction, error) {
	typ, ok := models.ParseTxType(in.Type)
	if !ok {
		return nil, fmt.Errorf("%w: type must be income or expense, got %q", common.ErrValidation, in.Type)
	}

	t := &models.Transaction{
		UserID:   userID,
		Amount:   in.Amount,
		Type:     typ,
		Category: models.NormalizeCategory(in.Category),
		Month:    in.Month,
		Year:     in.Year,
	}

	switch {
	case !t.Amount.IsPositive():
		return nil, fmt.Errorf("%w: amount must be positive", common.ErrValidation)
	case t.Category == "":
		return nil, fmt.Errorf("%w: category is required", common.ErrValidation)
	case t.Month < 1 || t.Month > 12:
		return nil, fmt.Errorf("%w: month must be between 1 and 12", common.ErrValidation)
	case t.Year <= 0:
		return nil, fmt.Errorf("%w: year must be positive", common.ErrValidation)
	}
	return t, nil
}

// coerceField converts the raw text value into the column's storage type.
func coerceField(column transactions.Column, value string) (any, error) {
	value = strings.TrimSpace(value)

	switch column {
	case transactions.ColumnAmount:
		d, err := decimal.NewFromString(value)
		if err != nil || !d.IsPositive() {
			return nil, fmt.Errorf("%w: amount must be a positive number", common.ErrValidation)
		}
		return d, nil
	case transactions.ColumnMonth:
		m, err := strconv.Atoi(value)
		if err != nil || m < 1 || m > 12 {
			return nil, fmt.Errorf("%w: month must be between 1 and 12", common.ErrValidation)
		}
		return m, nil
	case transactions.ColumnYear:
		y, err := strconv.Atoi(value)
		if err != nil || y <= 0 {
			return nil, fmt.Errorf("%w: year must be positive", common.ErrValidation)
		}
		return y, nil
	case transactions.ColumnType:
		typ, ok := models.ParseTxType(value)
		if !ok {
			return nil, fmt.Errorf("%w: type must be income or expense", common.ErrValidation)
		}
		return string(typ), nil
	case transactions.ColumnCategory:
		c := models.NormalizeCategory(value)
		if c == "" {
			return nil, fmt.Errorf("%w: category is required", common.ErrValidation)
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", common.ErrInvalidField, string(column))
}
