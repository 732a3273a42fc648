package models

// User represents a user account in the system.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Fullname     string `json:"fullname"`
	PasswordHash string `json:"-"` // Never expose this to the client
}
