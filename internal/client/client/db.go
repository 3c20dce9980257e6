package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/beefboard/boardclient/internal/client/migrations"
	"github.com/beefboard/boardclient/internal/client/repositories/metadata"
	"github.com/beefboard/boardclient/internal/client/repositories/posts"
)

// Repositories are the local stores behind the coordinators.
type Repositories struct {
	Metadata metadata.Repository
	Posts    posts.Repository

	close func() error
}

func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// InitDatabase opens the SQLite database at dsn and applies migrations.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer keeps :memory: databases on a single connection
	db.SetMaxOpenConns(1)

	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenSQLite builds both stores on a local SQLite file.
func OpenSQLite(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := InitDatabase(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Repositories{
		Metadata: metadata.NewSQLiteRepository(db),
		Posts:    posts.NewSQLiteRepository(db),
		close:    db.Close,
	}, nil
}

// OpenRedis builds both stores on a Redis server; the feed is kept as one
// JSON value.
func OpenRedis(ctx context.Context, addr string) (*Repositories, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	kv := metadata.NewRedisRepository(rdb, metadata.DefaultPrefix)
	return &Repositories{
		Metadata: kv,
		Posts:    posts.NewKVRepository(kv),
		close:    rdb.Close,
	}, nil
}
