package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kanmind/kanmind-be/internal/auth"
	"github.com/kanmind/kanmind-be/internal/models"
	"github.com/kanmind/kanmind-be/internal/services"
)

// TaskHandler handles HTTP requests for tasks.
type TaskHandler struct {
	service         services.TaskServiceProvider
	defaultPageSize int
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider, defaultPageSize int) *TaskHandler {
	return &TaskHandler{service: service, defaultPageSize: defaultPageSize}
}

// TaskPayload defines the structure for task create requests.
type TaskPayload struct {
	Board       string  `json:"board"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	AssigneeID  *string `json:"assignee_id"`
	ReviewerID  *string `json:"reviewer_id"`
	DueDate     *string `json:"due_date"`
}

// TaskUpdatePayload defines the structure for partial task updates.
type TaskUpdatePayload struct {
	Board       *string `json:"board"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	AssigneeID  *string `json:"assignee_id"`
	ReviewerID  *string `json:"reviewer_id"`
	DueDate     *string `json:"due_date"`
}

// GetAll lists every task on boards the requester can access.
func (h *TaskHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	tasks, err := h.service.ListTasks(user.ID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Create creates a task on one of the requester's boards.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	var payload TaskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.service.CreateTask(user.ID, services.TaskInput{
		Board:       payload.Board,
		Title:       payload.Title,
		Description: payload.Description,
		Status:      payload.Status,
		Priority:    payload.Priority,
		AssigneeID:  payload.AssigneeID,
		ReviewerID:  payload.ReviewerID,
		DueDate:     payload.DueDate,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// Get returns a single task.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	task, err := h.service.GetTask(user.ID, chi.URLParam(r, "taskID"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Update applies a partial update to a task.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	var payload TaskUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.service.UpdateTask(user.ID, chi.URLParam(r, "taskID"), services.TaskUpdate{
		Board:       payload.Board,
		Title:       payload.Title,
		Description: payload.Description,
		Status:      payload.Status,
		Priority:    payload.Priority,
		AssigneeID:  payload.AssigneeID,
		ReviewerID:  payload.ReviewerID,
		DueDate:     payload.DueDate,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Delete removes a task and its comments.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	if err := h.service.DeleteTask(user.ID, chi.URLParam(r, "taskID")); err != nil {
		serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssignedToMe returns a page of tasks the requester is assigned to.
func (h *TaskHandler) AssignedToMe(w http.ResponseWriter, r *http.Request) {
	h.pagedList(w, r, h.service.ListAssignedTo)
}

// Reviewing returns a page of tasks the requester reviews.
func (h *TaskHandler) Reviewing(w http.ResponseWriter, r *http.Request) {
	h.pagedList(w, r, h.service.ListReviewing)
}

func (h *TaskHandler) pagedList(w http.ResponseWriter, r *http.Request, list func(string, int, int) (models.TaskPage, error)) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing auth token")
		return
	}

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", h.defaultPageSize)

	tasks, err := list(user.ID, page, pageSize)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
