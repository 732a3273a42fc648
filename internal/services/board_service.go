package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/kanmind/kanmind-be/internal/apperrors"
	"github.com/kanmind/kanmind-be/internal/models"
)

// BoardUpdate carries a partial board update; nil fields are left unchanged.
type BoardUpdate struct {
	Title   *string
	Members *[]string
}

// BoardServiceProvider defines the interface for board services.
type BoardServiceProvider interface {
	ListBoards(userID string) ([]models.BoardSummary, error)
	CreateBoard(ownerID, title string, memberIDs []string) (models.BoardSummary, error)
	GetBoard(userID, boardID string) (models.BoardDetail, error)
	UpdateBoard(userID, boardID string, in BoardUpdate) (models.BoardUpdateResponse, error)
	DeleteBoard(userID, boardID string) error
}

// BoardService provides business logic for board management.
type BoardService struct {
	db     *sql.DB
	access *AccessPolicy
	tasks  TaskServiceProvider
}

// NewBoardService creates a new BoardService.
func NewBoardService(db *sql.DB, access *AccessPolicy, tasks TaskServiceProvider) *BoardService {
	return &BoardService{db: db, access: access, tasks: tasks}
}

// summarySelect computes the member and task counts by aggregation at read
// time. The owner counts as a member because creation and every membership
// update keep the owner in the member set.
const summarySelect = `
	SELECT b.id, b.title, b.owner_id,
	       (SELECT COUNT(*) FROM board_members m WHERE m.board_id = b.id) AS member_count,
	       (SELECT COUNT(*) FROM tasks t WHERE t.board_id = b.id) AS ticket_count,
	       (SELECT COUNT(*) FROM tasks t WHERE t.board_id = b.id AND t.status = 'to-do') AS tasks_to_do_count,
	       (SELECT COUNT(*) FROM tasks t WHERE t.board_id = b.id AND t.priority = 'high') AS tasks_high_prio_count
	FROM boards b
`

// ListBoards returns summaries of every board the user owns or is a member of.
func (s *BoardService) ListBoards(userID string) ([]models.BoardSummary, error) {
	rows, err := s.db.Query(summarySelect+`
		WHERE b.owner_id = ?
		   OR EXISTS (SELECT 1 FROM board_members m WHERE m.board_id = b.id AND m.user_id = ?)
		ORDER BY b.created_at, b.id`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := []models.BoardSummary{}
	for rows.Next() {
		var b models.BoardSummary
		if err := rows.Scan(&b.ID, &b.Title, &b.OwnerID, &b.MemberCount, &b.TicketCount, &b.TasksToDoCount, &b.TasksHighPrioCount); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// CreateBoard creates a board owned by ownerID. The owner is always added to
// the member set; unknown member ids are rejected.
func (s *BoardService) CreateBoard(ownerID, title string, memberIDs []string) (models.BoardSummary, error) {
	if title == "" {
		return models.BoardSummary{}, apperrors.Validation("title must not be empty")
	}
	if err := s.checkUsersExist(memberIDs); err != nil {
		return models.BoardSummary{}, err
	}

	boardID := uuid.New().String()

	tx, err := s.db.Begin()
	if err != nil {
		return models.BoardSummary{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT INTO boards (id, title, owner_id, created_at) VALUES (?, ?, ?, ?)",
		boardID, title, ownerID, now()); err != nil {
		return models.BoardSummary{}, err
	}
	if err := replaceMembers(tx, boardID, ownerID, memberIDs); err != nil {
		return models.BoardSummary{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.BoardSummary{}, err
	}

	return s.getSummary(boardID)
}

// GetBoard returns the board detail with expanded members and tasks. Boards
// the user cannot access are reported as not found, hiding their existence.
func (s *BoardService) GetBoard(userID, boardID string) (models.BoardDetail, error) {
	board, err := s.getBoard(boardID)
	if err != nil {
		return models.BoardDetail{}, err
	}
	allowed, err := s.access.CanAccessBoard(boardID, userID)
	if err != nil {
		return models.BoardDetail{}, err
	}
	if !allowed {
		return models.BoardDetail{}, apperrors.NotFound("board")
	}

	members, err := s.boardMembers(boardID)
	if err != nil {
		return models.BoardDetail{}, err
	}
	tasks, err := s.tasks.TasksForBoard(boardID)
	if err != nil {
		return models.BoardDetail{}, err
	}

	return models.BoardDetail{
		ID:      board.ID,
		Title:   board.Title,
		OwnerID: board.OwnerID,
		Members: members,
		Tasks:   tasks,
	}, nil
}

// UpdateBoard updates title and membership. Membership updates always re-add
// the owner, so the owner-is-a-member invariant survives any input.
func (s *BoardService) UpdateBoard(userID, boardID string, in BoardUpdate) (models.BoardUpdateResponse, error) {
	board, err := s.getBoard(boardID)
	if err != nil {
		return models.BoardUpdateResponse{}, err
	}
	allowed, err := s.access.CanAccessBoard(boardID, userID)
	if err != nil {
		return models.BoardUpdateResponse{}, err
	}
	if !allowed {
		return models.BoardUpdateResponse{}, apperrors.Forbidden("you must be a member of this board to update it")
	}

	if in.Title != nil && *in.Title == "" {
		return models.BoardUpdateResponse{}, apperrors.Validation("title must not be empty")
	}
	if in.Members != nil {
		if err := s.checkUsersExist(*in.Members); err != nil {
			return models.BoardUpdateResponse{}, err
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.BoardUpdateResponse{}, err
	}
	defer tx.Rollback()

	if in.Title != nil {
		if _, err := tx.Exec("UPDATE boards SET title = ? WHERE id = ?", *in.Title, boardID); err != nil {
			return models.BoardUpdateResponse{}, err
		}
		board.Title = *in.Title
	}
	if in.Members != nil {
		if _, err := tx.Exec("DELETE FROM board_members WHERE board_id = ?", boardID); err != nil {
			return models.BoardUpdateResponse{}, err
		}
		if err := replaceMembers(tx, boardID, board.OwnerID, *in.Members); err != nil {
			return models.BoardUpdateResponse{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return models.BoardUpdateResponse{}, err
	}

	owner, err := s.userByID(board.OwnerID)
	if err != nil {
		return models.BoardUpdateResponse{}, err
	}
	members, err := s.boardMembers(boardID)
	if err != nil {
		return models.BoardUpdateResponse{}, err
	}

	return models.BoardUpdateResponse{
		ID:          board.ID,
		Title:       board.Title,
		OwnerData:   owner,
		MembersData: members,
	}, nil
}

// DeleteBoard removes a board; tasks and their comments go with it via
// cascade. Owner and members may delete.
func (s *BoardService) DeleteBoard(userID, boardID string) error {
	if _, err := s.getBoard(boardID); err != nil {
		return err
	}
	allowed, err := s.access.CanAccessBoard(boardID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.Forbidden("you must be a member of this board to delete it")
	}
	_, err = s.db.Exec("DELETE FROM boards WHERE id = ?", boardID)
	return err
}

func (s *BoardService) getBoard(boardID string) (models.Board, error) {
	var board models.Board
	row := s.db.QueryRow("SELECT id, title, owner_id FROM boards WHERE id = ?", boardID)
	if err := row.Scan(&board.ID, &board.Title, &board.OwnerID); err != nil {
		if err == sql.ErrNoRows {
			return models.Board{}, apperrors.NotFound("board")
		}
		return models.Board{}, err
	}
	return board, nil
}

func (s *BoardService) getSummary(boardID string) (models.BoardSummary, error) {
	var b models.BoardSummary
	row := s.db.QueryRow(summarySelect+" WHERE b.id = ?", boardID)
	err := row.Scan(&b.ID, &b.Title, &b.OwnerID, &b.MemberCount, &b.TicketCount, &b.TasksToDoCount, &b.TasksHighPrioCount)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.BoardSummary{}, apperrors.NotFound("board")
		}
		return models.BoardSummary{}, err
	}
	return b, nil
}

func (s *BoardService) boardMembers(boardID string) ([]models.User, error) {
	rows, err := s.db.Query(`
		SELECT u.id, u.email, u.fullname
		FROM board_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.board_id = ?
		ORDER BY u.fullname, u.id`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Fullname); err != nil {
			return nil, err
		}
		members = append(members, u)
	}
	return members, rows.Err()
}

func (s *BoardService) userByID(id string) (models.User, error) {
	var u models.User
	row := s.db.QueryRow("SELECT id, email, fullname FROM users WHERE id = ?", id)
	if err := row.Scan(&u.ID, &u.Email, &u.Fullname); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// checkUsersExist rejects member lists containing unknown user ids.
func (s *BoardService) checkUsersExist(userIDs []string) error {
	for _, id := range userIDs {
		var exists bool
		if err := s.db.QueryRow("SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)", id).Scan(&exists); err != nil {
			return fmt.Errorf("member lookup: %w", err)
		}
		if !exists {
			return apperrors.Validation("user with ID %s does not exist", id)
		}
	}
	return nil
}

// replaceMembers inserts the given members plus the owner, de-duplicated.
func replaceMembers(tx *sql.Tx, boardID, ownerID string, memberIDs []string) error {
	seen := map[string]bool{}
	for _, id := range append([]string{ownerID}, memberIDs...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if _, err := tx.Exec("INSERT INTO board_members (board_id, user_id) VALUES (?, ?)", boardID, id); err != nil {
			return err
		}
	}
	return nil
}
