// Package transactions persists ledger entries and computes grouped sums.
package transactions

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

// updateQueries is the only place column names appear in UPDATE statements.
var updateQueries = map[Column]string{
	ColumnAmount:   `UPDATE transactions SET amount = ? WHERE id = ?`,
	ColumnType:     `UPDATE transactions SET type = ? WHERE id = ?`,
	ColumnCategory: `UPDATE transactions SET category = ? WHERE id = ?`,
	ColumnMonth:    `UPDATE transactions SET month = ? WHERE id = ?`,
	ColumnYear:     `UPDATE transactions SET year = ? WHERE id = ?`,
}

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Insert(ctx context.Context, t *models.Transaction) (int64, error) {
	query := dbx.Rebind(r.dialect,
		`INSERT INTO transactions (user_id, amount, type, category, month, year)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING id`)

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		t.UserID, t.Amount, string(t.Type), t.Category, t.Month, t.Year).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}
	t.ID = id
	return id, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	query := dbx.Rebind(r.dialect,
		`SELECT id, user_id, amount, type, category, month, year FROM transactions
		 WHERE id = ?`)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction[%d]: %w", id, err)
	}
	return t, nil
}

// Update sets one column of a transaction. Columns outside the fixed set
// are rejected with common.ErrInvalidField before any SQL is issued.
func (r *SQLRepository) Update(ctx context.Context, id int64, column Column, value any) error {
	q, ok := updateQueries[column]
	if !ok {
		return fmt.Errorf("%w: %q", common.ErrInvalidField, string(column))
	}

	res, err := r.db.ExecContext(ctx, dbx.Rebind(r.dialect, q), value, id)
	if err != nil {
		return fmt.Errorf("failed to update transaction[%d].%s: %w", id, column, err)
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

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, dbx.Rebind(r.dialect, `DELETE FROM transactions WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction[%d]: %w", id, err)
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

func (r *SQLRepository) List(ctx context.Context, userID int64, f models.Filter) ([]models.Transaction, error) {
	where, args := whereClause(userID, f)
	query := dbx.Rebind(r.dialect,
		`SELECT id, user_id, amount, type, category, month, year FROM transactions`+
			where+` ORDER BY year, month, id`)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var result []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}
	return result, nil
}

// SumByType totals amounts per type. Amounts are added as decimals in Go,
// not with SQL SUM.
func (r *SQLRepository) SumByType(ctx context.Context, userID int64, f models.Filter) ([]models.TypeTotal, error) {
	where, args := whereClause(userID, f)
	query := dbx.Rebind(r.dialect,
		`SELECT type, amount FROM transactions`+where+` ORDER BY type`)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions: %w", err)
	}
	defer rows.Close()

	var result []models.TypeTotal
	for rows.Next() {
		var typ string
		var amount decimal.Decimal
		if err := rows.Scan(&typ, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan total row: %w", err)
		}
		if n := len(result); n > 0 && result[n-1].Type == models.TxType(typ) {
			result[n-1].Total = result[n-1].Total.Add(amount)
			continue
		}
		result = append(result, models.TypeTotal{Type: models.TxType(typ), Total: amount})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate total rows: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) SumByCategory(ctx context.Context, userID int64, f models.Filter) ([]models.CategoryTotal, error) {
	where, args := whereClause(userID, f)
	query := dbx.Rebind(r.dialect,
		`SELECT type, category, amount FROM transactions`+where+` ORDER BY type, category`)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions by category: %w", err)
	}
	defer rows.Close()

	var result []models.CategoryTotal
	for rows.Next() {
		var typ, category string
		var amount decimal.Decimal
		if err := rows.Scan(&typ, &category, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan category total row: %w", err)
		}
		if n := len(result); n > 0 && result[n-1].Type == models.TxType(typ) && result[n-1].Category == category {
			result[n-1].Total = result[n-1].Total.Add(amount)
			continue
		}
		result = append(result, models.CategoryTotal{Type: models.TxType(typ), Category: category, Total: amount})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category total rows: %w", err)
	}
	return result, nil
}

// whereClause builds the owner/period predicate from fixed fragments; only
// values travel as arguments.
func whereClause(userID int64, f models.Filter) (string, []any) {
	where := ` WHERE user_id = ?`
	args := []any{userID}
	if f.Year != 0 {
		where += ` AND year = ?`
		args = append(args, f.Year)
	}
	if f.Month != 0 {
		where += ` AND month = ?`
		args = append(args, f.Month)
	}
	return where, args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	var typ string
	if err := s.Scan(&t.ID, &t.UserID, &t.Amount, &typ, &t.Category, &t.Month, &t.Year); err != nil {
		return nil, err
	}
	t.Type = models.TxType(typ)
	return t, nil
}
