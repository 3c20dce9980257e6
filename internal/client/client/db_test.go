package client

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beefboard/boardclient/internal/client/models/fixtures"
)

func TestInitDatabase(t *testing.T) {
	ctx := context.Background()
	db, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('metadata', 'posts')`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestInitDatabase_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "client.db")

	repos, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, repos.Metadata.Set(ctx, "token", []byte("t")))
	require.NoError(t, repos.Posts.ReplaceAll(ctx, fixtures.Posts(1, 2)))
	require.NoError(t, repos.Close())

	repos, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer repos.Close()

	v, err := repos.Metadata.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("t"), v)

	posts, err := repos.Posts.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	ctx := context.Background()

	repos, err := OpenRedis(ctx, addr)
	require.NoError(t, err)
	defer repos.Close()

	require.NoError(t, repos.Posts.ReplaceAll(ctx, fixtures.Posts(1, 3)))
	assert.True(t, mr.Exists("beefboard:posts"))

	mr.Close()
	_, err = OpenRedis(ctx, addr)
	require.Error(t, err)
}
