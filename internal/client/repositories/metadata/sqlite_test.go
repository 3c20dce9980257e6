package metadata

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/beefboard/boardclient/internal/client/migrations"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func backends(t *testing.T) map[string]Repository {
	_, rdb := setupRedis(t)
	return map[string]Repository{
		"sqlite": NewSQLiteRepository(setupDB(t)),
		"redis":  NewRedisRepository(rdb, ""),
	}
}

func TestRepository_Contract(t *testing.T) {
	for name, r := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			v, err := r.Get(ctx, "token")
			require.NoError(t, err)
			require.Nil(t, v, "missing key reads as nil, nil")

			require.NoError(t, r.Set(ctx, "token", []byte("old")))
			require.NoError(t, r.Set(ctx, "token", []byte("new")))
			require.NoError(t, r.Set(ctx, "user_auth", []byte(`{"username":"bob"}`)))

			v, err = r.Get(ctx, "token")
			require.NoError(t, err)
			assert.Equal(t, []byte("new"), v)

			all, err := r.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string][]byte{
				"token":     []byte("new"),
				"user_auth": []byte(`{"username":"bob"}`),
			}, all)

			require.NoError(t, r.Delete(ctx, "token"))
			require.NoError(t, r.Delete(ctx, "token"))
			v, err = r.Get(ctx, "token")
			require.NoError(t, err)
			assert.Nil(t, v)

			require.NoError(t, r.Clear(ctx))
			all, err = r.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestSQLiteRepository_EmptyValue(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", nil))
	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.NotNil(t, v)
	assert.Empty(t, v)
}

func TestSQLiteRepository_ClosedDB(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	assert.ErrorContains(t, err, "failed to get metadata[k]")
	assert.ErrorContains(t, r.Set(ctx, "k", []byte("v")), "failed to set metadata[k]")
	assert.ErrorContains(t, r.Delete(ctx, "k"), "failed to delete metadata[k]")
	assert.ErrorContains(t, r.Clear(ctx), "failed to clear metadata")
	_, err = r.List(ctx)
	assert.ErrorContains(t, err, "failed to list metadata")
}

func TestSQLiteRepository_ListRowError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("a", []byte("1")).
		RowError(0, errors.New("corrupt page"))
	mock.ExpectQuery(`SELECT key, value FROM metadata`).WillReturnRows(rows)

	_, err = NewSQLiteRepository(db).List(context.Background())
	require.ErrorContains(t, err, "failed to iterate metadata rows")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRepository_PrefixIsolation(t *testing.T) {
	mr, rdb := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("unrelated", "keep"))

	r := NewRedisRepository(rdb, "bb:")
	require.NoError(t, r.Set(ctx, "token", []byte("t")))
	assert.True(t, mr.Exists("bb:token"))

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"token": []byte("t")}, all)

	require.NoError(t, r.Clear(ctx))
	assert.False(t, mr.Exists("bb:token"))
	got, err := mr.Get("unrelated")
	require.NoError(t, err)
	assert.Equal(t, "keep", got)
}

func TestRedisRepository_ServerDown(t *testing.T) {
	mr, rdb := setupRedis(t)
	r := NewRedisRepository(rdb, "")
	mr.Close()

	ctx := context.Background()
	_, err := r.Get(ctx, "k")
	assert.ErrorContains(t, err, "failed to get metadata[k]")
	assert.ErrorContains(t, r.Set(ctx, "k", []byte("v")), "failed to set metadata[k]")
	assert.ErrorContains(t, r.Clear(ctx), "failed to clear metadata")
}
