// Package store reads from the demo MySQL database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/tsc11539/iaas-webhost/internal/config"
)

// ErrDataAccess marks every connection or query failure returned by Store.
var ErrDataAccess = errors.New("data access failure")

const (
	livenessQuery  = "SELECT NOW()"
	listPostsQuery = "SELECT id, title, content, created_at FROM posts ORDER BY created_at DESC"
)

// Post is a row of the posts table. NULL columns are left at their zero
// value.
type Post struct {
	ID        int64
	Title     string
	Content   string
	CreatedAt time.Time
}

// Store runs the read-only queries used by the HTTP handlers.
type Store struct {
	db *sql.DB
}

// Open prepares a small MySQL connection pool. No connection is made until
// the first query.
func Open(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ErrDataAccess, err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Now runs the liveness query and returns the database server's clock.
func (s *Store) Now(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := s.db.QueryRowContext(ctx, livenessQuery).Scan(&now); err != nil {
		return time.Time{}, fmt.Errorf("%w: liveness query: %w", ErrDataAccess, err)
	}
	return now, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %w", ErrDataAccess, err)
	}
	return nil
}

// ListPosts returns all posts, newest first.
func (s *Store) ListPosts(ctx context.Context) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, listPostsQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: list posts: %w", ErrDataAccess, err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var (
			p       Post
			title   sql.NullString
			content sql.NullString
			created sql.NullTime
		)
		if err := rows.Scan(&p.ID, &title, &content, &created); err != nil {
			return nil, fmt.Errorf("%w: scan post: %w", ErrDataAccess, err)
		}
		p.Title = title.String
		p.Content = content.String
		p.CreatedAt = created.Time
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list posts: %w", ErrDataAccess, err)
	}
	return posts, nil
}
