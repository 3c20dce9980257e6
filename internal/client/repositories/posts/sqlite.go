package posts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/beefboard/boardclient/internal/client/models"
	"github.com/beefboard/boardclient/internal/dbx"
)

// SQLiteRepository keeps the snapshot in the posts table, one row per list
// entry keyed by position. A post the server lists twice is stored twice;
// Update and Delete act on every row with the id.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectPosts = `SELECT id, title, content, author, created_at, num_images,
	approved, pinned, grade, user_grade FROM posts ORDER BY position`

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, posts []models.Post) error {
	err := dbx.WithTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
			return err
		}
		for i, p := range posts {
			if err := insert(ctx, tx, i, p); err != nil {
				return fmt.Errorf("post %s: %w", p.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace posts: %w", err)
	}
	return nil
}

func insert(ctx context.Context, tx dbx.DBTX, pos int, p models.Post) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO posts (id, position, title, content, author, created_at,
			num_images, approved, pinned, grade, user_grade)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, pos, p.Title, p.Content, p.Author, p.CreatedAt.UTC().Format(time.RFC3339Nano),
		p.ImageCount, p.Approved, p.Pinned, p.Votes.Grade, nullInt(p.Votes.UserGrade))
	return err
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, selectPosts)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	defer rows.Close()

	out := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate post rows: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, p models.Post) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE posts SET title = ?, content = ?, author = ?, created_at = ?,
			num_images = ?, approved = ?, pinned = ?, grade = ?, user_grade = ?
		WHERE id = ?`,
		p.Title, p.Content, p.Author, p.CreatedAt.UTC().Format(time.RFC3339Nano),
		p.ImageCount, p.Approved, p.Pinned, p.Votes.Grade, nullInt(p.Votes.UserGrade), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update post[%s]: %w", p.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete post[%s]: %w", id, err)
	}
	return nil
}

func scanPost(rows *sql.Rows) (models.Post, error) {
	var (
		p         models.Post
		createdAt string
		userGrade sql.NullInt64
	)
	err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Author, &createdAt, &p.ImageCount,
		&p.Approved, &p.Pinned, &p.Votes.Grade, &userGrade)
	if err != nil {
		return models.Post{}, err
	}

	p.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return models.Post{}, fmt.Errorf("created_at %q: %w", createdAt, err)
	}
	if userGrade.Valid {
		g := int(userGrade.Int64)
		p.Votes.UserGrade = &g
	}
	return p, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
