package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/minf07l/olympiad-abyss/auth"
	"github.com/minf07l/olympiad-abyss/cliparse"
)

// Open connects to the configured store: Postgres when DATABASE_URL is set,
// otherwise a local SQLite file (the directory is created if needed).
func Open(cfg cliparse.Config) (*sql.DB, error) {
	if !cfg.UsesSQLite() {
		conn, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		return conn, nil
	}

	if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// modernc.org/sqlite serializes writes per connection; a single
	// connection avoids SQLITE_BUSY under concurrent requests.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL sticks to the subset shared by Postgres and SQLite: app-generated
// TEXT primary keys, no serial columns, no NOW().
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Accounts
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    is_god BOOLEAN NOT NULL DEFAULT FALSE,
    points INTEGER NOT NULL DEFAULT 0,
    avatar TEXT NOT NULL DEFAULT '🐼',
    bio TEXT NOT NULL DEFAULT '',
    joined_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
CREATE INDEX IF NOT EXISTS idx_users_points ON users(points);

-- Chat feed (append-only; user_id survives as NULL if ever cleared)
CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    user_id TEXT REFERENCES users(id),
    username TEXT NOT NULL,
    text TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_messages_user_id ON messages(user_id);
CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at);

-- Polls (options is a JSON-encoded list, fixed at creation)
CREATE TABLE IF NOT EXISTS polls (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    options TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Votes: at most one per (user, poll)
CREATE TABLE IF NOT EXISTS votes (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    poll_id TEXT NOT NULL REFERENCES polls(id),
    option_index INTEGER NOT NULL,
    UNIQUE (user_id, poll_id)
);

CREATE INDEX IF NOT EXISTS idx_votes_poll_id ON votes(poll_id);
CREATE INDEX IF NOT EXISTS idx_votes_user_id ON votes(user_id);

-- Server-side sessions carrying the per-session admin_mode toggle
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    admin_mode BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    expires_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
`

// EnsureGodAccount creates the god account on first run. The one-god
// invariant is enforced here only: if any god-flagged row exists, or the
// configured username is already taken, nothing happens.
func EnsureGodAccount(db *sql.DB, cfg cliparse.Config) error {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE is_god = $1)`, true).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check for god account: %w", err)
	}
	if exists {
		return nil
	}

	if cfg.GodUsername == "" || cfg.GodPassword == "" {
		return nil
	}

	err = db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, cfg.GodUsername).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check god username: %w", err)
	}
	if exists {
		return nil
	}

	userID, err := auth.GenerateID(16)
	if err != nil {
		return fmt.Errorf("failed to generate god user ID: %w", err)
	}
	hash, err := auth.HashPassword(cfg.GodPassword)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO users (id, username, password_hash, is_admin, is_god, points, avatar, bio, joined_at)
		VALUES ($1, $2, $3, $4, $5, 0, '🐼', '', $6)
	`, userID, cfg.GodUsername, hash, true, true, time.Now())
	if err != nil {
		return fmt.Errorf("failed to create god account: %w", err)
	}

	slog.Info("created god user", "username", cfg.GodUsername)
	return nil
}
