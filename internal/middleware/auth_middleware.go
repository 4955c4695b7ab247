package middleware

import (
	"context"
	"net/http"

	"github.com/Laolu02/Linq/internal/entity"

	"github.com/gorilla/sessions"
)

type contextKey string

// UserKey holds the authenticated user entity in the request context.
const UserKey contextKey = "user"

func AuthMiddleware(store *sessions.CookieStore, next func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := store.Get(r, "auth-session")
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		userUUID, ok1 := session.Values["user_uuid"].(string)
		name, ok2 := session.Values["name"].(string)
		if !(ok1 && ok2) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		user := entity.User{
			UUID: userUUID,
			Name: name,
		}

		ctx := context.WithValue(r.Context(), UserKey, user)
		next(w, r.WithContext(ctx))
	}
}

// UserFromContext extracts the authenticated user placed by AuthMiddleware.
func UserFromContext(ctx context.Context) (entity.User, bool) {
	user, ok := ctx.Value(UserKey).(entity.User)
	return user, ok
}
