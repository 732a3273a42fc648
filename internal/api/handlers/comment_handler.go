package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kanmind/kanmind-be/internal/auth"
	"github.com/kanmind/kanmind-be/internal/services"
)

// CommentHandler handles HTTP requests for task comments.
type CommentHandler struct {
	service services.CommentServiceProvider
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service services.CommentServiceProvider) *CommentHandler {
	return &CommentHandler{service: service}
}

// List returns a task's comments, oldest first.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	comments, err := h.service.ListComments(user.ID, chi.URLParam(r, "taskID"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// Create adds a comment authored by the requester.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.service.CreateComment(user.ID, chi.URLParam(r, "taskID"), payload.Content)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// Delete removes a comment; only its author may do so.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	err := h.service.DeleteComment(user.ID, chi.URLParam(r, "taskID"), chi.URLParam(r, "commentID"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
