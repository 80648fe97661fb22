package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/saitej-a/Innobyte-services/internal/cryptox"
	"github.com/saitej-a/Innobyte-services/internal/dbx"
	"github.com/saitej-a/Innobyte-services/internal/logging"
	"github.com/saitej-a/Innobyte-services/internal/repositories/repomanager"
	"github.com/saitej-a/Innobyte-services/internal/storage"
)

// --- helpers ---

type testEnv struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	users   *UserService
	budgets *BudgetService
	txs     *TransactionService
	reports *ReportService
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := storage.Open(context.Background(), dbx.DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm := repomanager.NewSQLRepositoryManager(dbx.DialectSQLite)
	log := logging.Nop()
	b := NewBudgetService(db, rm, log)

	return &testEnv{
		db:      db,
		rm:      rm,
		users:   NewUserService(db, rm, cryptox.NewBcryptHasher(bcrypt.MinCost), log),
		budgets: b,
		txs:     NewTransactionService(db, rm, b, log),
		reports: NewReportService(db, rm, log),
	}
}

func (e *testEnv) register(t *testing.T, name string) int64 {
	t.Helper()
	u, err := e.users.Register(context.Background(), name, []byte(name+"-pw"))
	require.NoError(t, err)
	return u.ID
}

func (e *testEnv) remaining(t *testing.T, userID int64, category string) decimal.Decimal {
	t.Helper()
	b, err := e.budgets.Get(context.Background(), userID, category)
	require.NoError(t, err)
	return b.Remaining
}

func (e *testEnv) transactionCount(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&n))
	return n
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func expense(amount, category string, month, year int) TransactionInput {
	return TransactionInput{Amount: dec(amount), Type: "expense", Category: category, Month: month, Year: year}
}

func income(amount, category string, month, year int) TransactionInput {
	return TransactionInput{Amount: dec(amount), Type: "income", Category: category, Month: month, Year: year}
}
