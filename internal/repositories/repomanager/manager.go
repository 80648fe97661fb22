// Package repomanager hands out repositories bound to either the shared
// *sql.DB or a transaction, so services can compose multi-step writes
// inside dbx.WithTx.
package repomanager

import (
	"github.com/saitej-a/Innobyte-services/internal/dbx"
	"github.com/saitej-a/Innobyte-services/internal/repositories/budgets"
	"github.com/saitej-a/Innobyte-services/internal/repositories/metadata"
	"github.com/saitej-a/Innobyte-services/internal/repositories/transactions"
	"github.com/saitej-a/Innobyte-services/internal/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Budgets(db dbx.DBTX) budgets.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	Metadata(db dbx.DBTX) metadata.Repository
}

// SQLRepositoryManager builds the SQL repositories for one dialect.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

func NewSQLRepositoryManager(dialect dbx.Dialect) *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: dialect}
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Budgets(db dbx.DBTX) budgets.Repository {
	return budgets.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Transactions(db dbx.DBTX) transactions.Repository {
	return transactions.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Metadata(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLRepository(db, m.dialect)
}
