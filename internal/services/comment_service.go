package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/kanmind/kanmind-be/internal/apperrors"
	"github.com/kanmind/kanmind-be/internal/models"
)

// CommentServiceProvider defines the interface for comment services.
type CommentServiceProvider interface {
	ListComments(userID, taskID string) ([]models.Comment, error)
	CreateComment(userID, taskID, content string) (models.Comment, error)
	DeleteComment(userID, taskID, commentID string) error
}

// CommentService provides business logic for task comments.
type CommentService struct {
	db     *sql.DB
	access *AccessPolicy
}

// NewCommentService creates a new CommentService.
func NewCommentService(db *sql.DB, access *AccessPolicy) *CommentService {
	return &CommentService{db: db, access: access}
}

// ListComments returns a task's comments ordered by creation time, oldest
// first. Requires board membership.
func (s *CommentService) ListComments(userID, taskID string) ([]models.Comment, error) {
	if err := s.checkTaskAccess(userID, taskID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT c.id, c.created_at, u.fullname, c.content
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.task_id = ?
		ORDER BY c.created_at, c.id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows.Scan)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// CreateComment attaches a comment to a task, authored by the requester.
func (s *CommentService) CreateComment(userID, taskID, content string) (models.Comment, error) {
	if content == "" {
		return models.Comment{}, apperrors.Validation("content must not be empty")
	}
	if err := s.checkTaskAccess(userID, taskID); err != nil {
		return models.Comment{}, err
	}

	id := uuid.New().String()
	_, err := s.db.Exec("INSERT INTO comments (id, task_id, author_id, content, created_at) VALUES (?, ?, ?, ?, ?)",
		id, taskID, userID, content, now())
	if err != nil {
		return models.Comment{}, err
	}

	row := s.db.QueryRow(`
		SELECT c.id, c.created_at, u.fullname, c.content
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = ?`, id)
	return scanComment(row.Scan)
}

// DeleteComment removes a comment. Only the author may delete; anyone else on
// the board gets a 403, and comments that do not belong to the task are
// reported as not found.
func (s *CommentService) DeleteComment(userID, taskID, commentID string) error {
	if err := s.checkTaskAccess(userID, taskID); err != nil {
		return err
	}

	var authorID string
	err := s.db.QueryRow("SELECT author_id FROM comments WHERE id = ? AND task_id = ?", commentID, taskID).Scan(&authorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperrors.NotFound("comment")
		}
		return err
	}
	if authorID != userID {
		return apperrors.Forbidden("only the author may delete a comment")
	}

	_, err = s.db.Exec("DELETE FROM comments WHERE id = ?", commentID)
	return err
}

// checkTaskAccess resolves the task's board and applies the shared access
// predicate. Unknown tasks are a 404, known tasks on foreign boards a 403.
func (s *CommentService) checkTaskAccess(userID, taskID string) error {
	boardID, err := s.access.BoardIDForTask(taskID)
	if err != nil {
		return err
	}
	allowed, err := s.access.CanAccessBoard(boardID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.Forbidden("you must be a member of the board to access these comments")
	}
	return nil
}

func scanComment(scan func(dest ...any) error) (models.Comment, error) {
	var comment models.Comment
	var createdAt string
	if err := scan(&comment.ID, &createdAt, &comment.Author, &comment.Content); err != nil {
		return models.Comment{}, err
	}
	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return models.Comment{}, err
	}
	comment.CreatedAt = ts
	return comment, nil
}
