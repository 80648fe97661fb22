package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/saitej-a/Innobyte-services/internal/common"
	"github.com/saitej-a/Innobyte-services/internal/dbx"
	"github.com/saitej-a/Innobyte-services/internal/logging"
	"github.com/saitej-a/Innobyte-services/internal/models"
	"github.com/saitej-a/Innobyte-services/internal/repositories/repomanager"
)

// Decision is the outcome of an admission check.
//
// Bounded is false when the category has no budget; Remaining is then
// meaningless. When Bounded, Remaining is the amount left before the
// transaction being checked.
type Decision struct {
	Admit     bool
	Bounded   bool
	Remaining decimal.Decimal
}

// BudgetService owns per-category spending caps.
type BudgetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewBudgetService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *BudgetService {
	return &BudgetService{db: db, repomanager: m, log: log}
}

// CheckAdmission decides whether amount fits into the user's budget for
// category without changing anything. Record passes its transaction as db
// so the check and the later Consume see the same row.
func (s *BudgetService) CheckAdmission(ctx context.Context, db dbx.DBTX, userID int64, category string, amount decimal.Decimal) (Decision, error) {
	category = models.NormalizeCategory(category)

	b, err := s.repomanager.Budgets(db).Get(ctx, userID, category)
	if errors.Is(err, common.ErrNotFound) {
		return Decision{Admit: true}, nil
	}
	if err != nil {
		return Decision{}, common.Persistence("check budget", err)
	}

	s.log.Debug(ctx, "budget admission", "user_id", userID, "category", category,
		"amount", amount.String(), "remaining", b.Remaining.String())
	return Decision{
		Admit:     amount.LessThanOrEqual(b.Remaining),
		Bounded:   true,
		Remaining: b.Remaining,
	}, nil
}

// Consume subtracts amount from the remaining budget. db must be the
// transaction that also inserts the entry being paid for.
func (s *BudgetService) Consume(ctx context.Context, db dbx.DBTX, userID int64, category string, amount decimal.Decimal) error {
	category = models.NormalizeCategory(category)
	repo := s.repomanager.Budgets(db)

	b, err := repo.Get(ctx, userID, category)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return common.Persistence("consume budget", err)
	}
	if err := repo.SetRemaining(ctx, userID, category, b.Remaining.Sub(amount)); err != nil {
		return common.Persistence("consume budget", err)
	}
	return nil
}

// SetOrUpdate creates the budget or overwrites its remaining amount.
func (s *BudgetService) SetOrUpdate(ctx context.Context, userID int64, category string, amount decimal.Decimal) (*models.Budget, error) {
	category = models.NormalizeCategory(category)
	if err := validateBudget(category, amount); err != nil {
		return nil, err
	}

	var result *models.Budget
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Budgets(tx)

		b, err := repo.Get(ctx, userID, category)
		if errors.Is(err, common.ErrNotFound) {
			result, err = repo.Insert(ctx, &models.Budget{UserID: userID, Category: category, Remaining: amount})
			return err
		}
		if err != nil {
			return err
		}

		if err := repo.SetRemaining(ctx, userID, category, amount); err != nil {
			return err
		}
		b.Remaining = amount
		result = b
		return nil
	})
	if err != nil {
		return nil, common.Persistence("set budget", err)
	}

	s.log.Info(ctx, "budget set", "user_id", userID, "category", category, "remaining", amount.String())
	return result, nil
}

// Update overwrites an existing budget; common.ErrNotFound when unset.
func (s *BudgetService) Update(ctx context.Context, userID int64, category string, amount decimal.Decimal) (*models.Budget, error) {
	category = models.NormalizeCategory(category)
	if err := validateBudget(category, amount); err != nil {
		return nil, err
	}

	repo := s.repomanager.Budgets(s.db)
	if err := repo.SetRemaining(ctx, userID, category, amount); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Persistence("update budget", err)
	}

	s.log.Info(ctx, "budget updated", "user_id", userID, "category", category, "remaining", amount.String())
	return s.Get(ctx, userID, category)
}

// Delete removes the budget if present. Deleting an unset budget is a no-op.
func (s *BudgetService) Delete(ctx context.Context, userID int64, category string) error {
	category = models.NormalizeCategory(category)

	existed, err := s.repomanager.Budgets(s.db).Delete(ctx, userID, category)
	if err != nil {
		return common.Persistence("delete budget", err)
	}
	if existed {
		s.log.Info(ctx, "budget deleted", "user_id", userID, "category", category)
	}
	return nil
}

func (s *BudgetService) Get(ctx context.Context, userID int64, category string) (*models.Budget, error) {
	b, err := s.repomanager.Budgets(s.db).Get(ctx, userID, models.NormalizeCategory(category))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Persistence("get budget", err)
	}
	return b, nil
}

func (s *BudgetService) List(ctx context.Context, userID int64) ([]models.Budget, error) {
	list, err := s.repomanager.Budgets(s.db).List(ctx, userID)
	if err != nil {
		return nil, common.Persistence("list budgets", err)
	}
	return list, nil
}

func validateBudget(category string, amount decimal.Decimal) error {
	if category == "" {
		return fmt.Errorf("%w: category is required", common.ErrValidation)
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: budget amount must not be negative", common.ErrValidation)
	}
	return nil
}
