package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kanmind/kanmind-be/internal/database"
	"github.com/kanmind/kanmind-be/internal/services"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	access := services.NewAccessPolicy(db)
	taskService := services.NewTaskService(db, access)
	return NewRouter(
		services.NewTokenService(db),
		services.NewUserService(db),
		services.NewBoardService(db, access, taskService),
		taskService,
		services.NewCommentService(db, access),
		20,
	)
}

func do(t *testing.T, router http.Handler, method, path, token string, body any) (int, map[string]any, []map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	raw := rec.Body.Bytes()
	var obj map[string]any
	var list []map[string]any
	if len(raw) > 0 {
		if raw[0] == '[' {
			json.Unmarshal(raw, &list)
		} else {
			json.Unmarshal(raw, &obj)
		}
	}
	return rec.Code, obj, list
}

func register(t *testing.T, router http.Handler, fullname, email string) (token, userID string) {
	t.Helper()
	code, obj, _ := do(t, router, http.MethodPost, "/api/registration/", "", map[string]string{
		"fullname":          fullname,
		"email":             email,
		"password":          "secret123",
		"repeated_password": "secret123",
	})
	if code != http.StatusCreated {
		t.Fatalf("registration returned %d: %v", code, obj)
	}
	return obj["token"].(string), obj["user_id"].(string)
}

// Walks the full collaboration flow: two users, a shared board, a high
// priority task, comments, and the author-only comment delete rule.
func TestBoardCollaborationFlow(t *testing.T) {
	router := newTestRouter(t)

	tokenA, userA := register(t, router, "Alice Example", "alice@example.com")
	tokenB, userB := register(t, router, "Bob Example", "bob@example.com")

	// Unauthenticated requests are rejected up front.
	code, _, _ := do(t, router, http.MethodGet, "/api/boards/", "", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("no token: got %d, want 401", code)
	}

	// A creates "Sprint 1" with B as a member.
	code, board, _ := do(t, router, http.MethodPost, "/api/boards/", tokenA, map[string]any{
		"title":   "Sprint 1",
		"members": []string{userB},
	})
	if code != http.StatusCreated {
		t.Fatalf("create board: got %d: %v", code, board)
	}
	boardID := board["id"].(string)
	if board["owner_id"] != userA {
		t.Fatalf("owner_id = %v, want %s", board["owner_id"], userA)
	}

	// A creates a high priority to-do task assigned to B.
	code, task, _ := do(t, router, http.MethodPost, "/api/tasks/", tokenA, map[string]any{
		"board":       boardID,
		"title":       "Ship the release",
		"description": "All hands",
		"status":      "to-do",
		"priority":    "high",
		"assignee_id": userB,
	})
	if code != http.StatusCreated {
		t.Fatalf("create task: got %d: %v", code, task)
	}
	taskID := task["id"].(string)
	assignee := task["assignee"].(map[string]any)
	if assignee["id"] != userB {
		t.Fatalf("assignee = %v, want %s", assignee["id"], userB)
	}

	// The board summary reflects the new task.
	code, _, boards := do(t, router, http.MethodGet, "/api/boards/", tokenA, nil)
	if code != http.StatusOK || len(boards) != 1 {
		t.Fatalf("list boards: got %d with %d entries", code, len(boards))
	}
	summary := boards[0]
	for key, want := range map[string]float64{
		"member_count":          2,
		"ticket_count":          1,
		"tasks_to_do_count":     1,
		"tasks_high_prio_count": 1,
	} {
		if summary[key] != want {
			t.Fatalf("%s = %v, want %v", key, summary[key], want)
		}
	}

	// B comments on the task.
	code, comment, _ := do(t, router, http.MethodPost, "/api/tasks/"+taskID+"/comments/", tokenB, map[string]string{
		"content": "On it",
	})
	if code != http.StatusCreated {
		t.Fatalf("create comment: got %d: %v", code, comment)
	}
	commentID := comment["id"].(string)
	if comment["author"] != "Bob Example" {
		t.Fatalf("author = %v, want Bob Example", comment["author"])
	}

	code, _, comments := do(t, router, http.MethodGet, "/api/tasks/"+taskID+"/comments/", tokenA, nil)
	if code != http.StatusOK || len(comments) != 1 {
		t.Fatalf("list comments: got %d with %d entries", code, len(comments))
	}

	// A cannot delete B's comment; B can.
	code, _, _ = do(t, router, http.MethodDelete, "/api/tasks/"+taskID+"/comments/"+commentID+"/", tokenA, nil)
	if code != http.StatusForbidden {
		t.Fatalf("non-author delete: got %d, want 403", code)
	}
	code, _, _ = do(t, router, http.MethodDelete, "/api/tasks/"+taskID+"/comments/"+commentID+"/", tokenB, nil)
	if code != http.StatusNoContent {
		t.Fatalf("author delete: got %d, want 204", code)
	}
	code, _, comments = do(t, router, http.MethodGet, "/api/tasks/"+taskID+"/comments/", tokenA, nil)
	if code != http.StatusOK || len(comments) != 0 {
		t.Fatalf("comments after delete: got %d with %d entries", code, len(comments))
	}
}

func TestHiddenResourcesAndFilteredViews(t *testing.T) {
	router := newTestRouter(t)

	tokenA, _ := register(t, router, "Alice Example", "alice@example.com")
	tokenC, userC := register(t, router, "Carol Example", "carol@example.com")

	code, board, _ := do(t, router, http.MethodPost, "/api/boards/", tokenA, map[string]any{"title": "Private"})
	if code != http.StatusCreated {
		t.Fatalf("create board: got %d", code)
	}
	boardID := board["id"].(string)
	code, task, _ := do(t, router, http.MethodPost, "/api/tasks/", tokenA, map[string]any{
		"board": boardID,
		"title": "Secret work",
	})
	if code != http.StatusCreated {
		t.Fatalf("create task: got %d", code)
	}
	taskID := task["id"].(string)

	// Existence is hidden from outsiders on the read paths.
	code, _, _ = do(t, router, http.MethodGet, "/api/boards/"+boardID+"/", tokenC, nil)
	if code != http.StatusNotFound {
		t.Fatalf("outsider board read: got %d, want 404", code)
	}
	code, _, _ = do(t, router, http.MethodGet, "/api/tasks/"+taskID+"/", tokenC, nil)
	if code != http.StatusNotFound {
		t.Fatalf("outsider task read: got %d, want 404", code)
	}

	// Write paths answer with 403 instead.
	code, _, _ = do(t, router, http.MethodPatch, "/api/boards/"+boardID+"/", tokenC, map[string]string{"title": "Mine now"})
	if code != http.StatusForbidden {
		t.Fatalf("outsider board update: got %d, want 403", code)
	}
	code, _, _ = do(t, router, http.MethodDelete, "/api/tasks/"+taskID+"/", tokenC, nil)
	if code != http.StatusForbidden {
		t.Fatalf("outsider task delete: got %d, want 403", code)
	}

	// The filtered views are scoped to the requester and paginated.
	code, page, _ := do(t, router, http.MethodGet, "/api/tasks/assigned_to_me/?page=1&page_size=5", tokenC, nil)
	if code != http.StatusOK {
		t.Fatalf("assigned_to_me: got %d", code)
	}
	if page["count"] != float64(0) || page["page_size"] != float64(5) {
		t.Fatalf("unexpected page shape: %v", page)
	}
	code, page, _ = do(t, router, http.MethodGet, "/api/tasks/reviewing/", tokenC, nil)
	if code != http.StatusOK || page["count"] != float64(0) {
		t.Fatalf("reviewing: got %d (%v)", code, page)
	}

	// Email check is public and distinguishes 400/404/200.
	code, _, _ = do(t, router, http.MethodGet, "/api/email-check/", "", nil)
	if code != http.StatusBadRequest {
		t.Fatalf("email-check without param: got %d, want 400", code)
	}
	code, _, _ = do(t, router, http.MethodGet, "/api/email-check/?email=nobody@example.com", "", nil)
	if code != http.StatusNotFound {
		t.Fatalf("email-check unknown: got %d, want 404", code)
	}
	code, user, _ := do(t, router, http.MethodGet, "/api/email-check/?email=carol@example.com", "", nil)
	if code != http.StatusOK || user["id"] != userC {
		t.Fatalf("email-check known: got %d (%v)", code, user)
	}
}

func TestLoginContract(t *testing.T) {
	router := newTestRouter(t)
	tokenA, _ := register(t, router, "Alice Example", "alice@example.com")

	code, obj, _ := do(t, router, http.MethodPost, "/api/login/", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	if code != http.StatusOK {
		t.Fatalf("login: got %d (%v)", code, obj)
	}
	if obj["token"] != tokenA {
		t.Fatal("login minted a new token instead of reusing the registration one")
	}
	if obj["fullname"] != "Alice Example" {
		t.Fatalf("fullname = %v", obj["fullname"])
	}

	code, _, _ = do(t, router, http.MethodPost, "/api/login/", "", map[string]string{
		"email":    "alice@example.com",
		"password": "nope",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("bad credentials: got %d, want 400", code)
	}

	code, _, _ = do(t, router, http.MethodPost, "/api/registration/", "", map[string]string{
		"fullname":          "Alice Again",
		"email":             "alice2@example.com",
		"password":          "secret123",
		"repeated_password": "different",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("password mismatch: got %d, want 400", code)
	}
}
