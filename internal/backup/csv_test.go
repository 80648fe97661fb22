package backup

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saitej-a/Innobyte-services/internal/dbx"
	"github.com/saitej-a/Innobyte-services/internal/logging"
	"github.com/saitej-a/Innobyte-services/internal/storage"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), dbx.DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seed(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, q := range []string{
		`INSERT INTO users (id, username, password_hash) VALUES (1, 'alice', x'2432612430')`,
		`INSERT INTO users (id, username, password_hash) VALUES (2, 'bob, jr', x'00ff')`,
		`INSERT INTO transactions (user_id, amount, type, category, month, year) VALUES (1, 40.5, 'expense', 'food', 6, 2024)`,
		`INSERT INTO transactions (user_id, amount, type, category, month, year) VALUES (2, 1000, 'income', 'salary', 1, 2024)`,
		`INSERT INTO budget (user_id, amount, category) VALUES (1, 59.5, 'food')`,
	} {
		_, err := db.Exec(q)
		require.NoError(t, err, q)
	}
}

func dump(t *testing.T, db *sql.DB, query string) [][]string {
	t.Helper()
	rows, err := db.Query(query)
	require.NoError(t, err)
	defer rows.Close()

	cols, err := rows.Columns()
	require.NoError(t, err)

	var out [][]string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		require.NoError(t, rows.Scan(ptrs...))
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = v.String
		}
		out = append(out, row)
	}
	require.NoError(t, rows.Err())
	return out
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := openDB(t)
	seed(t, src)
	dir := filepath.Join(t.TempDir(), "backup")
	ctx := context.Background()

	paths, err := NewService(src, dbx.DialectSQLite, logging.Nop()).Export(ctx, dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	header, err := os.ReadFile(filepath.Join(dir, "budget.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(header), "id,user_id,amount,category\n")

	dst := openDB(t)
	counts, err := NewService(dst, dbx.DialectSQLite, logging.Nop()).Restore(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"users": 2, "transactions": 2, "budget": 1}, counts)

	for _, q := range []string{
		`SELECT id, username, hex(password_hash) FROM users ORDER BY id`,
		`SELECT id, user_id, amount, type, category, month, year FROM transactions ORDER BY id`,
		`SELECT id, user_id, amount, category FROM budget ORDER BY id`,
	} {
		assert.Equal(t, dump(t, src, q), dump(t, dst, q), q)
	}
}

func TestExport_EmptyDatabaseWritesHeaders(t *testing.T) {
	dir := t.TempDir()
	_, err := NewService(openDB(t), dbx.DialectSQLite, logging.Nop()).Export(context.Background(), dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "users.csv"))
	require.NoError(t, err)
	assert.Equal(t, "id,username,password_hash\n", string(data))
}

func TestImport_UnknownTable(t *testing.T) {
	_, err := NewService(openDB(t), dbx.DialectSQLite, logging.Nop()).Import(context.Background(), t.TempDir(), "sqlite_master")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown table")
}

func TestImport_UnknownColumn(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "budget.csv"),
		[]byte("user_id,amount,category,owner\n1,10,food,x\n"), 0o600))

	_, err := NewService(openDB(t), dbx.DialectSQLite, logging.Nop()).Import(context.Background(), dir, "budget")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unexpected column "owner"`)
}

func TestImport_BadRowRollsBackWholeFile(t *testing.T) {
	db := openDB(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.csv"),
		[]byte("username,password_hash\nalice,00\nbob,zz\n"), 0o600))

	_, err := NewService(db, dbx.DialectSQLite, logging.Nop()).Import(context.Background(), dir, "users")
	require.Error(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Zero(t, n)
}

func TestImport_AppendsWithoutIDs(t *testing.T) {
	db := openDB(t)
	seed(t, db)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transactions.csv"),
		[]byte("user_id,amount,type,category,month,year\n1,5,expense,food,7,2024\n"), 0o600))

	n, err := NewService(db, dbx.DialectSQLite, logging.Nop()).Import(context.Background(), dir, "transactions")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&count))
	assert.Equal(t, 3, count)
}

func TestInsertQuery_Postgres(t *testing.T) {
	tb, err := lookupTable("budget")
	require.NoError(t, err)

	got := insertQuery(dbx.DialectPostgres, tb.name, tb.columns[1:])
	assert.Equal(t, `INSERT INTO budget (user_id, amount, category) VALUES ($1, $2, $3)`, got)
}

func TestRestore_FailureLeavesDatabaseUnchanged(t *testing.T) {
	db := openDB(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.csv"),
		[]byte("id,username,password_hash\n1,alice,00\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transactions.csv"),
		[]byte("user_id,amount,type,category,month,year\n1,5,gift,food,7,2024\n"), 0o600))

	counts, err := NewService(db, dbx.DialectSQLite, logging.Nop()).Restore(context.Background(), dir)
	require.Error(t, err)
	assert.Nil(t, counts)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Zero(t, n, "users imported before the failing file are rolled back")
}
