package models

// Task statuses.
const (
	StatusToDo       = "to-do"
	StatusInProgress = "in-progress"
	StatusReview     = "review"
	StatusDone       = "done"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidStatus reports whether s is one of the fixed task statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the fixed task priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a unit of work belonging to exactly one board.
type Task struct {
	ID            string  `json:"id"`
	Board         string  `json:"board"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Status        string  `json:"status"`
	Priority      string  `json:"priority"`
	Assignee      *User   `json:"assignee"`
	Reviewer      *User   `json:"reviewer"`
	DueDate       *string `json:"due_date"` // YYYY-MM-DD
	CommentsCount int     `json:"comments_count"`
}

// TaskPage is the response shape of the paginated task views.
type TaskPage struct {
	Count    int    `json:"count"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Results  []Task `json:"results"`
}
