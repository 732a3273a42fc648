package services

import (
	"database/sql"
	"fmt"
	"net/mail"

	"github.com/google/uuid"
	"github.com/kanmind/kanmind-be/internal/apperrors"
	"github.com/kanmind/kanmind-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(fullname, email, password string) (models.User, error)
	AuthenticateUser(email, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
}

// UserService provides business logic for registration and authentication.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a new user with a bcrypt-hashed password. The email must
// be well-formed and not already taken.
func (s *UserService) Register(fullname, email, password string) (models.User, error) {
	if fullname == "" {
		return models.User{}, apperrors.Validation("fullname must not be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.User{}, apperrors.Validation("enter a valid email address")
	}
	if password == "" {
		return models.User{}, apperrors.Validation("password must not be empty")
	}

	var exists bool
	if err := s.db.QueryRow("SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)", email).Scan(&exists); err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, apperrors.Validation("this email address already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New().String(),
		Email:    email,
		Fullname: fullname,
	}

	_, err = s.db.Exec("INSERT INTO users (id, fullname, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Fullname, user.Email, string(hashedPassword), now())
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// AuthenticateUser verifies a user's credentials. Bad credentials surface as
// a validation error, matching the login endpoint's 400 contract.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	user, hash, err := s.getUserWithHash(email)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperrors.Validation("invalid email or password")
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return models.User{}, apperrors.Validation("invalid email or password")
	}
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, fullname FROM users WHERE id = ?", id)
	if err := row.Scan(&user.ID, &user.Email, &user.Fullname); err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperrors.NotFound("user")
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, fullname FROM users WHERE email = ?", email)
	if err := row.Scan(&user.ID, &user.Email, &user.Fullname); err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperrors.NotFound("user")
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) getUserWithHash(email string) (models.User, string, error) {
	var user models.User
	var hash string
	row := s.db.QueryRow("SELECT id, email, fullname, password_hash FROM users WHERE email = ?", email)
	if err := row.Scan(&user.ID, &user.Email, &user.Fullname, &hash); err != nil {
		return models.User{}, "", err
	}
	return user, hash, nil
}
