package models

import "time"

// Comment represents an author-attributed note attached to a task. Author
// carries the author's fullname, not a nested user object.
type Comment struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
}
