package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kanmind/kanmind-be/internal/apperrors"
	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// serviceError maps a service error onto its HTTP status. Errors outside the
// taxonomy are logged and hidden behind a generic 500.
func serviceError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled service error")
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}
