package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saitej-a/Innobyte-services/internal/common"
	"github.com/saitej-a/Innobyte-services/internal/dbx"
	"github.com/saitej-a/Innobyte-services/internal/logging"
	"github.com/saitej-a/Innobyte-services/internal/models"
	"github.com/saitej-a/Innobyte-services/internal/repositories/budgets"
	"github.com/saitej-a/Innobyte-services/internal/repositories/metadata"
	"github.com/saitej-a/Innobyte-services/internal/repositories/repomanager"
	"github.com/saitej-a/Innobyte-services/internal/repositories/transactions"
	"github.com/saitej-a/Innobyte-services/internal/repositories/users"
)

func TestRegister_ThenAuthenticate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.users.Register(ctx, "alice", []byte("pw1"))
	require.NoError(t, err)
	assert.NotEqual(t, []byte("pw1"), u.PasswordHash, "password must be stored hashed")

	id, err := e.users.Authenticate(ctx, "alice", []byte("pw1"))
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	got, err := e.users.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserName)
}

func TestRegister_Duplicate(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice")

	_, err := e.users.Register(context.Background(), "alice", []byte("other"))
	require.ErrorIs(t, err, common.ErrDuplicateUsername)
}

func TestRegister_Validation(t *testing.T) {
	e := newEnv(t)

	_, err := e.users.Register(context.Background(), "  ", []byte("pw"))
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = e.users.Register(context.Background(), "bob", nil)
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestAuthenticate_Failures(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice")

	_, err := e.users.Authenticate(context.Background(), "carol", []byte("x"))
	require.ErrorIs(t, err, common.ErrUnknownUser)

	_, err = e.users.Authenticate(context.Background(), "alice", []byte("wrong"))
	require.ErrorIs(t, err, common.ErrBadCredentials)
}

func TestGetUser_Unknown(t *testing.T) {
	e := newEnv(t)
	_, err := e.users.GetUser(context.Background(), 99)
	require.ErrorIs(t, err, common.ErrUnknownUser)
}

// --- fakes for storage faults ---

type fakeHasher struct{}

func (fakeHasher) Hash(p []byte) ([]byte, error) { return append([]byte("h:"), p...), nil }
func (fakeHasher) Verify(h, p []byte) bool       { return string(h) == "h:"+string(p) }

type fakeUsersRepo struct {
	getOut    *models.User
	getErr    error
	createErr error
	created   *models.User
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = 1
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(context.Context, string) (*models.User, error) {
	return f.getOut, f.getErr
}

func (f *fakeUsersRepo) GetByID(context.Context, int64) (*models.User, error) {
	return f.getOut, f.getErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
}

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository               { return m.u }
func (m *fakeRepoManager) Budgets(dbx.DBTX) budgets.Repository           { return nil }
func (m *fakeRepoManager) Transactions(dbx.DBTX) transactions.Repository { return nil }
func (m *fakeRepoManager) Metadata(dbx.DBTX) metadata.Repository         { return nil }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

func newFakeUserService(repo *fakeUsersRepo) *UserService {
	return NewUserService((*sql.DB)(nil), &fakeRepoManager{u: repo}, fakeHasher{}, logging.Nop())
}

func TestRegister_StorageFaultIsPersistence(t *testing.T) {
	repo := &fakeUsersRepo{getErr: common.ErrNotFound, createErr: errors.New("disk full")}
	_, err := newFakeUserService(repo).Register(context.Background(), "alice", []byte("pw"))

	require.ErrorIs(t, err, common.ErrPersistence)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRegister_LookupFaultIsPersistence(t *testing.T) {
	repo := &fakeUsersRepo{getErr: errors.New("conn reset")}
	_, err := newFakeUserService(repo).Register(context.Background(), "alice", []byte("pw"))

	require.ErrorIs(t, err, common.ErrPersistence)
	assert.Nil(t, repo.created)
}

func TestRegister_RaceOnUniqueIndex(t *testing.T) {
	repo := &fakeUsersRepo{getErr: common.ErrNotFound, createErr: common.ErrDuplicateUsername}
	_, err := newFakeUserService(repo).Register(context.Background(), "alice", []byte("pw"))

	require.ErrorIs(t, err, common.ErrDuplicateUsername)
	assert.NotErrorIs(t, err, common.ErrPersistence)
}

func TestRegister_StoresHash(t *testing.T) {
	repo := &fakeUsersRepo{getErr: common.ErrNotFound}
	_, err := newFakeUserService(repo).Register(context.Background(), "alice", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, []byte("h:pw"), repo.created.PasswordHash)
}

func TestAuthenticate_LookupFaultIsPersistence(t *testing.T) {
	repo := &fakeUsersRepo{getErr: errors.New("timeout")}
	_, err := newFakeUserService(repo).Authenticate(context.Background(), "alice", []byte("pw"))

	require.ErrorIs(t, err, common.ErrPersistence)
	assert.NotErrorIs(t, err, common.ErrUnknownUser)
}

func TestRecord_RollsBackWhenDebitFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rm := repomanager.NewSQLRepositoryManager(dbx.DialectSQLite)
	b := NewBudgetService(db, rm, logging.Nop())
	svc := NewTransactionService(db, rm, b, logging.Nop())

	budgetRow := sqlmock.NewRows([]string{"id", "user_id", "category", "amount"}).AddRow(1, 7, "food", "100")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, user_id, category, amount FROM budget`).WillReturnRows(budgetRow)
	mock.ExpectQuery(`INSERT INTO transactions`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery(`SELECT id, user_id, category, amount FROM budget`).WillReturnError(errors.New("io error"))
	mock.ExpectRollback()

	_, err = svc.Record(context.Background(), 7, expense("40", "food", 6, 2024))
	require.ErrorIs(t, err, common.ErrPersistence)
	require.NoError(t, mock.ExpectationsWereMet())
}
