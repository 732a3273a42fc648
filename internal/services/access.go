package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kanmind/kanmind-be/internal/apperrors"
)

// timeLayout is the storage format for timestamps. Fixed-width fractional
// seconds keep lexicographic and chronological order identical.
const timeLayout = "2006-01-02 15:04:05.000000000"

func now() string {
	return time.Now().UTC().Format(timeLayout)
}

// AccessPolicy is the single board-access predicate shared by the board, task
// and comment services: a user may access a board iff they own it or are a
// member. Keeping it in one place prevents the policy drifting per resource.
type AccessPolicy struct {
	db *sql.DB
}

// NewAccessPolicy creates a new AccessPolicy.
func NewAccessPolicy(db *sql.DB) *AccessPolicy {
	return &AccessPolicy{db: db}
}

// CanAccessBoard reports whether the user is the owner or a member of the
// board.
func (p *AccessPolicy) CanAccessBoard(boardID, userID string) (bool, error) {
	var allowed bool
	err := p.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM boards WHERE id = ? AND owner_id = ?
			UNION
			SELECT 1 FROM board_members WHERE board_id = ? AND user_id = ?
		)`, boardID, userID, boardID, userID).Scan(&allowed)
	if err != nil {
		return false, fmt.Errorf("board access check: %w", err)
	}
	return allowed, nil
}

// BoardIDForTask resolves the board a task belongs to, so task and comment
// operations can apply the board predicate transitively.
func (p *AccessPolicy) BoardIDForTask(taskID string) (string, error) {
	var boardID string
	err := p.db.QueryRow("SELECT board_id FROM tasks WHERE id = ?", taskID).Scan(&boardID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", apperrors.NotFound("task")
		}
		return "", err
	}
	return boardID, nil
}
