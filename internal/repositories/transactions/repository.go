package transactions

import (
	"context"

	"github.com/saitej-a/Innobyte-services/internal/models"
)

// Column names an updatable transaction attribute.
type Column string

const (
	ColumnAmount   Column = "amount"
	ColumnType     Column = "type"
	ColumnCategory Column = "category"
	ColumnMonth    Column = "month"
	ColumnYear     Column = "year"
)

type Repository interface {
	Insert(ctx context.Context, t *models.Transaction) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Transaction, error)
	Update(ctx context.Context, id int64, column Column, value any) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, userID int64, f models.Filter) ([]models.Transaction, error)
	SumByType(ctx context.Context, userID int64, f models.Filter) ([]models.TypeTotal, error)
	SumByCategory(ctx context.Context, userID int64, f models.Filter) ([]models.CategoryTotal, error)
}
