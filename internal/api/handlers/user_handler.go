package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kanmind/kanmind-be/internal/models"
	"github.com/kanmind/kanmind-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles registration, login and the email lookup.
type UserHandler struct {
	users  services.UserServiceProvider
	tokens services.TokenServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServiceProvider, tokens services.TokenServiceProvider) *UserHandler {
	return &UserHandler{users: users, tokens: tokens}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Fullname         string `json:"fullname"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	RepeatedPassword string `json:"repeated_password"`
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration and issues the user's token.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Password != payload.RepeatedPassword {
		writeError(w, http.StatusBadRequest, "passwords do not match")
		return
	}

	user, err := h.users.Register(payload.Fullname, payload.Email, payload.Password)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, user)
}

// Login handles user authentication. Bad credentials are a 400, matching the
// login endpoint contract.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.AuthenticateUser(payload.Email, payload.Password)
	if err != nil {
		log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
		serviceError(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusOK, user)
}

// EmailCheck looks up a user summary by email, for validating an address
// before inviting it to a board.
func (h *UserHandler) EmailCheck(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email parameter is required")
		return
	}

	user, err := h.users.GetUserByEmail(email)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user models.User) {
	token, err := h.tokens.GetOrCreateToken(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue token")
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	writeJSON(w, status, map[string]any{
		"token":    token,
		"fullname": user.Fullname,
		"email":    user.Email,
		"user_id":  user.ID,
	})
}
