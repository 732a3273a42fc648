package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrValidation, http.StatusBadRequest},
		{ErrAuth, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrNotFound, http.StatusNotFound},
		{Validation("bad %s", "field"), http.StatusBadRequest},
		{NotFound("board"), http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", Forbidden("nope")), http.StatusForbidden},
		{errors.New("plain"), http.StatusInternalServerError},
		{nil, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusCode(tc.err); got != tc.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestIsMatchesByClass(t *testing.T) {
	if !Is(Validation("anything"), ErrValidation) {
		t.Error("Validation instance should match ErrValidation")
	}
	if !Is(fmt.Errorf("outer: %w", NotFound("task")), ErrNotFound) {
		t.Error("wrapped NotFound should match ErrNotFound")
	}
	if Is(NotFound("task"), ErrForbidden) {
		t.Error("NotFound must not match ErrForbidden")
	}
	if Is(errors.New("plain"), ErrValidation) {
		t.Error("plain errors are outside the taxonomy")
	}
}
