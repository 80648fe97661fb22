package metadata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saitej-a/Innobyte-services/internal/dbx"
	"github.com/saitej-a/Innobyte-services/internal/storage"
)

func newRepo(t *testing.T) *SQLRepository {
	t.Helper()
	db, err := storage.Open(context.Background(), dbx.DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db, dbx.DialectSQLite)
}

func TestSetGetOverwrite(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	v, err := r.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Set(ctx, "k", []byte("one")))
	require.NoError(t, r.Set(ctx, "k", []byte("two")))

	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), v)
}

func TestDelete(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte("1")))
	require.NoError(t, r.Set(ctx, "b", []byte("2")))
	require.NoError(t, r.Delete(ctx, "a"))
	require.NoError(t, r.Delete(ctx, "a"))

	v, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = r.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)
}
