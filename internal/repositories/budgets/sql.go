// Package budgets persists per-category remaining budgets in the budget table.
package budgets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/saitej-a/Innobyte-services/internal/common"
	"github.com/saitej-a/Innobyte-services/internal/dbx"
	"github.com/saitej-a/Innobyte-services/internal/models"
)

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Get(ctx context.Context, userID int64, category string) (*models.Budget, error) {
	query := dbx.Rebind(r.dialect,
		`SELECT id, user_id, category, amount FROM budget
		 WHERE user_id = ? AND category = ?`)

	b := &models.Budget{}
	err := r.db.QueryRowContext(ctx, query, userID, category).Scan(&b.ID, &b.UserID, &b.Category, &b.Remaining)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get budget[%s]: %w", category, err)
	}
	return b, nil
}

func (r *SQLRepository) Insert(ctx context.Context, b *models.Budget) (*models.Budget, error) {
	query := dbx.Rebind(r.dialect,
		`INSERT INTO budget (user_id, amount, category)
		 VALUES (?, ?, ?)
		 RETURNING id`)

	if err := r.db.QueryRowContext(ctx, query, b.UserID, b.Remaining, b.Category).Scan(&b.ID); err != nil {
		return nil, fmt.Errorf("failed to insert budget[%s]: %w", b.Category, err)
	}
	return b, nil
}

// SetRemaining overwrites the remaining amount. It returns common.ErrNotFound
// when the user has no budget for category.
func (r *SQLRepository) SetRemaining(ctx context.Context, userID int64, category string, remaining decimal.Decimal) error {
	query := dbx.Rebind(r.dialect,
		`UPDATE budget SET amount = ?
		 WHERE user_id = ? AND category = ?`)

	res, err := r.db.ExecContext(ctx, query, remaining, userID, category)
	if err != nil {
		return fmt.Errorf("failed to update budget[%s]: %w", category, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes the budget and reports whether a row existed.
func (r *SQLRepository) Delete(ctx context.Context, userID int64, category string) (bool, error) {
	query := dbx.Rebind(r.dialect, `DELETE FROM budget WHERE user_id = ? AND category = ?`)

	res, err := r.db.ExecContext(ctx, query, userID, category)
	if err != nil {
		return false, fmt.Errorf("failed to delete budget[%s]: %w", category, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) List(ctx context.Context, userID int64) ([]models.Budget, error) {
	query := dbx.Rebind(r.dialect,
		`SELECT id, user_id, category, amount FROM budget
		 WHERE user_id = ?
		 ORDER BY category`)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var result []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Remaining); err != nil {
			return nil, fmt.Errorf("failed to scan budget row: %w", err)
		}
		result = append(result, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budget rows: %w", err)
	}
	return result, nil
}
