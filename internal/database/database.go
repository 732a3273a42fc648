package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		fullname TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tokens (
		key TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS boards (
		id TEXT NOT NULL PRIMARY KEY,
		title TEXT NOT NULL,
		owner_id TEXT NOT NULL REFERENCES users(id),
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS board_members (
		board_id TEXT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL REFERENCES users(id),
		PRIMARY KEY (board_id, user_id)
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT NOT NULL PRIMARY KEY,
		board_id TEXT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'to-do',
		priority TEXT NOT NULL DEFAULT 'medium',
		assignee_id TEXT REFERENCES users(id),
		reviewer_id TEXT REFERENCES users(id),
		due_date TEXT, -- YYYY-MM-DD
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS comments (
		id TEXT NOT NULL PRIMARY KEY,
		task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		author_id TEXT NOT NULL REFERENCES users(id),
		content TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_board_members_user ON board_members(user_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_board ON tasks(board_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_reviewer ON tasks(reviewer_id);
	CREATE INDEX IF NOT EXISTS idx_comments_task ON comments(task_id);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
