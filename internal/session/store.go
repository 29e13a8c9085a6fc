// Package session persists the mapping between the opaque session id
// handed to the browser and the backend-issued token. The browser never
// sees the backend token; it only carries the session id, so session
// validity stays a server-side question.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"tracker/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string
	Token     string
	User      core.User
	CreatedAt time.Time
	ExpiresAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the session database at dbPath and
// applies pending migrations.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create session db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping session database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping reports whether the underlying database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Create stores a new session for user with the given backend token and
// returns it. The session id is the only value that leaves the server.
func (s *Store) Create(ctx context.Context, token string, user core.User, ttl time.Duration) (Session, error) {
	now := time.Now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		Token:     token,
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, token, user_id, user_name, user_email, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Token, user.ID, user.Name, user.Email, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}

	slog.InfoContext(ctx, "Session created",
		"component", "session", "session_id", sess.ID, "user_email", user.Email)
	return sess, nil
}

// Get returns the session for id. Expired sessions are deleted on sight
// and reported as ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, token, user_id, user_name, user_email, created_at, expires_at
		 FROM sessions WHERE id = ?`, id).
		Scan(&sess.ID, &sess.Token, &sess.User.ID, &sess.User.Name, &sess.User.Email,
			&sess.CreatedAt, &sess.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("select session: %w", err)
	}

	if time.Now().UTC().After(sess.ExpiresAt) {
		if err := s.Delete(ctx, id); err != nil {
			slog.WarnContext(ctx, "Failed to delete expired session",
				"component", "session", "session_id", id, "error", err)
		}
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Delete removes the session with id. Deleting an unknown id is not an
// error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session past its expiry and returns how
// many were removed.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
