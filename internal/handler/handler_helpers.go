package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Laolu02/Linq/internal/apperr"
	"github.com/Laolu02/Linq/internal/entity"
	"github.com/Laolu02/Linq/internal/middleware"
)

func writeJSON(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps a service error onto its HTTP status and a JSON body.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.HTTPStatus(err), map[string]interface{}{
		"error": err.Error(),
	})
}

// requireUser pulls the authenticated user from the request context; when
// absent it has already written the 401.
func requireUser(w http.ResponseWriter, r *http.Request) (entity.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return entity.User{}, false
	}
	return user, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "malformed request body",
		})
		return false
	}
	return true
}
