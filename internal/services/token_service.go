package services

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/kanmind/kanmind-be/internal/apperrors"
	"github.com/kanmind/kanmind-be/internal/models"
)

// TokenServiceProvider defines the interface for the opaque-token store.
type TokenServiceProvider interface {
	GetOrCreateToken(userID string) (string, error)
	ResolveToken(key string) (models.User, error)
}

// TokenService manages opaque bearer tokens, one per user. Login and
// registration reuse an existing token instead of minting a new one.
type TokenService struct {
	db *sql.DB
}

// NewTokenService creates a new TokenService.
func NewTokenService(db *sql.DB) *TokenService {
	return &TokenService{db: db}
}

// GetOrCreateToken returns the user's token, creating one on first use.
func (s *TokenService) GetOrCreateToken(userID string) (string, error) {
	var key string
	err := s.db.QueryRow("SELECT key FROM tokens WHERE user_id = ?", userID).Scan(&key)
	if err == nil {
		return key, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	key = uuid.New().String()
	if _, err := s.db.Exec("INSERT INTO tokens (key, user_id, created_at) VALUES (?, ?, ?)", key, userID, now()); err != nil {
		return "", err
	}
	return key, nil
}

// ResolveToken looks up the user a token belongs to. Unknown tokens yield an
// authentication error.
func (s *TokenService) ResolveToken(key string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow(`
		SELECT u.id, u.email, u.fullname
		FROM tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.key = ?`, key)
	if err := row.Scan(&user.ID, &user.Email, &user.Fullname); err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperrors.ErrAuth
		}
		return models.User{}, err
	}
	return user, nil
}
