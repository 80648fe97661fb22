package budgets

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/saitej-a/Innobyte-services/internal/models"
)

// Repository stores at most one budget row per (user, category). Categories
// passed in are expected to be normalized already.
type Repository interface {
	Get(ctx context.Context, userID int64, category string) (*models.Budget, error)
	Insert(ctx context.Context, b *models.Budget) (*models.Budget, error)
	SetRemaining(ctx context.Context, userID int64, category string, remaining decimal.Decimal) error
	Delete(ctx context.Context, userID int64, category string) (bool, error)
	List(ctx context.Context, userID int64) ([]models.Budget, error)
}
