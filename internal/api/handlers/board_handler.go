package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kanmind/kanmind-be/internal/auth"
	"github.com/kanmind/kanmind-be/internal/services"
)

// BoardHandler handles HTTP requests for boards.
type BoardHandler struct {
	service services.BoardServiceProvider
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(service services.BoardServiceProvider) *BoardHandler {
	return &BoardHandler{service: service}
}

// GetAll lists the requester's boards with aggregated counts.
func (h *BoardHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	boards, err := h.service.ListBoards(user.ID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

// Create creates a board owned by the requester.
func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	var payload struct {
		Title   string   `json:"title"`
		Members []string `json:"members"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	board, err := h.service.CreateBoard(user.ID, payload.Title, payload.Members)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, board)
}

// Get returns the board detail with members and tasks expanded.
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	board, err := h.service.GetBoard(user.ID, chi.URLParam(r, "boardID"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// Update applies a partial update to title and membership.
func (h *BoardHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	var payload struct {
		Title   *string   `json:"title"`
		Members *[]string `json:"members"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	board, err := h.service.UpdateBoard(user.ID, chi.URLParam(r, "boardID"), services.BoardUpdate{
		Title:   payload.Title,
		Members: payload.Members,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// Delete removes a board and everything on it.
func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	if err := h.service.DeleteBoard(user.ID, chi.URLParam(r, "boardID")); err != nil {
		serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
