package services

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kanmind/kanmind-be/internal/apperrors"
	"github.com/kanmind/kanmind-be/internal/models"
)

const dueDateLayout = "2006-01-02"

// TaskInput carries the fields for task creation.
type TaskInput struct {
	Board       string
	Title       string
	Description string
	Status      string
	Priority    string
	AssigneeID  *string
	ReviewerID  *string
	DueDate     *string
}

// TaskUpdate carries a partial task update; nil fields are left unchanged.
type TaskUpdate struct {
	Board       *string
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssigneeID  *string
	ReviewerID  *string
	DueDate     *string
}

// TaskServiceProvider defines the interface for task services.
type TaskServiceProvider interface {
	ListTasks(userID string) ([]models.Task, error)
	TasksForBoard(boardID string) ([]models.Task, error)
	CreateTask(userID string, in TaskInput) (models.Task, error)
	GetTask(userID, taskID string) (models.Task, error)
	UpdateTask(userID, taskID string, in TaskUpdate) (models.Task, error)
	DeleteTask(userID, taskID string) error
	ListAssignedTo(userID string, page, pageSize int) (models.TaskPage, error)
	ListReviewing(userID string, page, pageSize int) (models.TaskPage, error)
}

// TaskService provides business logic for task management.
type TaskService struct {
	db     *sql.DB
	access *AccessPolicy
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *sql.DB, access *AccessPolicy) *TaskService {
	return &TaskService{db: db, access: access}
}

// taskSelect expands assignee and reviewer and aggregates the comment count
// per task at read time.
const taskSelect = `
	SELECT t.id, t.board_id, t.title, t.description, t.status, t.priority, t.due_date,
	       a.id, a.email, a.fullname,
	       r.id, r.email, r.fullname,
	       (SELECT COUNT(*) FROM comments c WHERE c.task_id = t.id) AS comments_count
	FROM tasks t
	LEFT JOIN users a ON a.id = t.assignee_id
	LEFT JOIN users r ON r.id = t.reviewer_id
`

// ListTasks returns every task on a board the user can access.
func (s *TaskService) ListTasks(userID string) ([]models.Task, error) {
	rows, err := s.db.Query(taskSelect+`
		WHERE t.board_id IN (
			SELECT id FROM boards WHERE owner_id = ?
			UNION
			SELECT board_id FROM board_members WHERE user_id = ?
		)
		ORDER BY t.created_at, t.id`, userID, userID)
	if err != nil {
		return nil, err
	}
	return scanTasks(rows)
}

// TasksForBoard returns the tasks of a single board, for the board detail view.
func (s *TaskService) TasksForBoard(boardID string) ([]models.Task, error) {
	rows, err := s.db.Query(taskSelect+" WHERE t.board_id = ? ORDER BY t.created_at, t.id", boardID)
	if err != nil {
		return nil, err
	}
	return scanTasks(rows)
}

// CreateTask creates a task on a board the user is a member or owner of.
// Assignee and reviewer, when given, must be members or the owner of that
// board.
func (s *TaskService) CreateTask(userID string, in TaskInput) (models.Task, error) {
	if in.Title == "" {
		return models.Task{}, apperrors.Validation("title must not be empty")
	}
	if in.Status == "" {
		in.Status = models.StatusToDo
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !models.ValidStatus(in.Status) {
		return models.Task{}, apperrors.Validation("%q is not a valid status", in.Status)
	}
	if !models.ValidPriority(in.Priority) {
		return models.Task{}, apperrors.Validation("%q is not a valid priority", in.Priority)
	}
	if err := validateDueDate(in.DueDate); err != nil {
		return models.Task{}, err
	}

	var boardExists bool
	if err := s.db.QueryRow("SELECT EXISTS (SELECT 1 FROM boards WHERE id = ?)", in.Board).Scan(&boardExists); err != nil {
		return models.Task{}, err
	}
	if !boardExists {
		return models.Task{}, apperrors.Validation("board does not exist")
	}

	allowed, err := s.access.CanAccessBoard(in.Board, userID)
	if err != nil {
		return models.Task{}, err
	}
	if !allowed {
		return models.Task{}, apperrors.Forbidden("you must be a member of the board to create tasks")
	}

	if err := s.validateBoardUsers(in.Board, in.AssigneeID, in.ReviewerID); err != nil {
		return models.Task{}, err
	}

	id := uuid.New().String()
	_, err = s.db.Exec(`
		INSERT INTO tasks (id, board_id, title, description, status, priority, assignee_id, reviewer_id, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.Board, in.Title, in.Description, in.Status, in.Priority, nullable(in.AssigneeID), nullable(in.ReviewerID), nullable(in.DueDate), now())
	if err != nil {
		return models.Task{}, err
	}
	return s.getTask(id)
}

// GetTask retrieves a task. Tasks on boards the user cannot access are
// reported as not found rather than forbidden.
func (s *TaskService) GetTask(userID, taskID string) (models.Task, error) {
	task, err := s.getTask(taskID)
	if err != nil {
		return models.Task{}, err
	}
	allowed, err := s.access.CanAccessBoard(task.Board, userID)
	if err != nil {
		return models.Task{}, err
	}
	if !allowed {
		return models.Task{}, apperrors.NotFound("task")
	}
	return task, nil
}

// UpdateTask applies a partial update. The board of a task cannot be changed;
// assignee and reviewer changes are validated against board membership.
func (s *TaskService) UpdateTask(userID, taskID string, in TaskUpdate) (models.Task, error) {
	boardID, err := s.access.BoardIDForTask(taskID)
	if err != nil {
		return models.Task{}, err
	}
	allowed, err := s.access.CanAccessBoard(boardID, userID)
	if err != nil {
		return models.Task{}, err
	}
	if !allowed {
		return models.Task{}, apperrors.Forbidden("you must be a member of the board to update this task")
	}

	if in.Board != nil && *in.Board != boardID {
		return models.Task{}, apperrors.Validation("the board of a task must not be changed")
	}
	if in.Title != nil && *in.Title == "" {
		return models.Task{}, apperrors.Validation("title must not be empty")
	}
	if in.Status != nil && !models.ValidStatus(*in.Status) {
		return models.Task{}, apperrors.Validation("%q is not a valid status", *in.Status)
	}
	if in.Priority != nil && !models.ValidPriority(*in.Priority) {
		return models.Task{}, apperrors.Validation("%q is not a valid priority", *in.Priority)
	}
	if err := validateDueDate(in.DueDate); err != nil {
		return models.Task{}, err
	}
	if err := s.validateBoardUsers(boardID, in.AssigneeID, in.ReviewerID); err != nil {
		return models.Task{}, err
	}

	var sets []string
	var args []any
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if in.Title != nil {
		set("title", *in.Title)
	}
	if in.Description != nil {
		set("description", *in.Description)
	}
	if in.Status != nil {
		set("status", *in.Status)
	}
	if in.Priority != nil {
		set("priority", *in.Priority)
	}
	// Empty strings clear the optional fields.
	if in.AssigneeID != nil {
		set("assignee_id", nullable(in.AssigneeID))
	}
	if in.ReviewerID != nil {
		set("reviewer_id", nullable(in.ReviewerID))
	}
	if in.DueDate != nil {
		set("due_date", nullable(in.DueDate))
	}

	if len(sets) > 0 {
		args = append(args, taskID)
		_, err = s.db.Exec("UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
		if err != nil {
			return models.Task{}, err
		}
	}
	return s.getTask(taskID)
}

// DeleteTask removes a task and, by cascade, its comments.
func (s *TaskService) DeleteTask(userID, taskID string) error {
	boardID, err := s.access.BoardIDForTask(taskID)
	if err != nil {
		return err
	}
	allowed, err := s.access.CanAccessBoard(boardID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.Forbidden("you must be a member of the board to delete this task")
	}
	_, err = s.db.Exec("DELETE FROM tasks WHERE id = ?", taskID)
	return err
}

// ListAssignedTo returns a page of tasks where the user is the assignee.
func (s *TaskService) ListAssignedTo(userID string, page, pageSize int) (models.TaskPage, error) {
	return s.pagedTasks("assignee_id", userID, page, pageSize)
}

// ListReviewing returns a page of tasks where the user is the reviewer.
func (s *TaskService) ListReviewing(userID string, page, pageSize int) (models.TaskPage, error) {
	return s.pagedTasks("reviewer_id", userID, page, pageSize)
}

func (s *TaskService) pagedTasks(column, userID string, page, pageSize int) (models.TaskPage, error) {
	if page < 1 {
		page = 1
	}
	result := models.TaskPage{Page: page, PageSize: pageSize, Results: []models.Task{}}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM tasks WHERE "+column+" = ?", userID).Scan(&result.Count); err != nil {
		return models.TaskPage{}, err
	}

	rows, err := s.db.Query(taskSelect+" WHERE t."+column+" = ? ORDER BY t.created_at, t.id LIMIT ? OFFSET ?",
		userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return models.TaskPage{}, err
	}
	tasks, err := scanTasks(rows)
	if err != nil {
		return models.TaskPage{}, err
	}
	result.Results = tasks
	return result, nil
}

func (s *TaskService) getTask(taskID string) (models.Task, error) {
	row := s.db.QueryRow(taskSelect+" WHERE t.id = ?", taskID)
	task, err := scanTask(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Task{}, apperrors.NotFound("task")
		}
		return models.Task{}, err
	}
	return task, nil
}

// validateBoardUsers checks that the given user ids, when set and non-empty,
// are members or the owner of the board.
func (s *TaskService) validateBoardUsers(boardID string, userIDs ...*string) error {
	for _, id := range userIDs {
		if id == nil || *id == "" {
			continue
		}
		member, err := s.access.CanAccessBoard(boardID, *id)
		if err != nil {
			return err
		}
		if !member {
			return apperrors.Validation("user with ID %s is not a member of the board", *id)
		}
	}
	return nil
}

// nullable maps absent or empty strings to NULL.
func nullable(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func validateDueDate(d *string) error {
	if d == nil || *d == "" {
		return nil
	}
	if _, err := time.Parse(dueDateLayout, *d); err != nil {
		return apperrors.Validation("due_date must have the format YYYY-MM-DD")
	}
	return nil
}

func scanTask(scan func(dest ...any) error) (models.Task, error) {
	var task models.Task
	var dueDate sql.NullString
	var aID, aEmail, aName sql.NullString
	var rID, rEmail, rName sql.NullString

	err := scan(&task.ID, &task.Board, &task.Title, &task.Description, &task.Status, &task.Priority, &dueDate,
		&aID, &aEmail, &aName, &rID, &rEmail, &rName, &task.CommentsCount)
	if err != nil {
		return models.Task{}, err
	}

	if dueDate.Valid {
		task.DueDate = &dueDate.String
	}
	if aID.Valid {
		task.Assignee = &models.User{ID: aID.String, Email: aEmail.String, Fullname: aName.String}
	}
	if rID.Valid {
		task.Reviewer = &models.User{ID: rID.String, Email: rEmail.String, Fullname: rName.String}
	}
	return task, nil
}

func scanTasks(rows *sql.Rows) ([]models.Task, error) {
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
