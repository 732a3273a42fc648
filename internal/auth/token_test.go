package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kanmind/kanmind-be/internal/models"
)

type stubResolver struct {
	key  string
	user models.User
}

func (s stubResolver) ResolveToken(key string) (models.User, error) {
	if key == s.key {
		return s.user, nil
	}
	return models.User{}, errors.New("unknown token")
}

func TestTokenMiddleware(t *testing.T) {
	resolver := stubResolver{key: "valid-key", user: models.User{ID: "u1", Fullname: "Alice"}}

	var gotUser models.User
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotUser, _ = CurrentUser(r)
	})
	handler := TokenMiddleware(resolver)(next)

	cases := []struct {
		name       string
		header     string
		wantStatus int
		wantCalled bool
	}{
		{"token scheme", "Token valid-key", http.StatusOK, true},
		{"bearer scheme", "Bearer valid-key", http.StatusOK, true},
		{"missing header", "", http.StatusUnauthorized, false},
		{"wrong scheme", "Basic valid-key", http.StatusUnauthorized, false},
		{"unknown key", "Token nope", http.StatusUnauthorized, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called = false
			gotUser = models.User{}

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if called != tc.wantCalled {
				t.Fatalf("next called = %v, want %v", called, tc.wantCalled)
			}
			if tc.wantCalled && gotUser.ID != "u1" {
				t.Fatalf("context user = %+v", gotUser)
			}
		})
	}
}
