// Package users persists accounts in the users table.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

// Create inserts user and fills in its id. A taken username yields
// common.ErrDuplicateUsername.
func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := dbx.Rebind(r.dialect,
		`INSERT INTO users (username, password_hash)
		 VALUES (?, ?)
		 RETURNING id`)

	err := r.db.QueryRowContext(ctx, query, user.UserName, user.PasswordHash).Scan(&user.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := dbx.Rebind(r.dialect,
		`SELECT id, username, password_hash FROM users
		 WHERE username = ?`)

	return r.scanOne(ctx, query, username)
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := dbx.Rebind(r.dialect,
		`SELECT id, username, password_hash FROM users
		 WHERE id = ?`)

	return r.scanOne(ctx, query, id)
}

func (r *SQLRepository) scanOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.UserName, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
