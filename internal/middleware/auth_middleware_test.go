package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
)

func TestAuthMiddlewareRejectsAnonymous(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-secret"))

	toTest := AuthMiddleware(store, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler ran without a session")
	})

	req := httptest.NewRequest("GET", "/users", nil)
	rr := httptest.NewRecorder()

	toTest(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rr.Code)
	}
}

func TestAuthMiddlewarePassesSessionUser(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-secret"))

	// Build a request carrying a valid session cookie.
	seedReq := httptest.NewRequest("GET", "/", nil)
	seedRec := httptest.NewRecorder()
	session, _ := store.Get(seedReq, "auth-session")
	session.Values["user_uuid"] = "u1"
	session.Values["name"] = "ann"
	if err := session.Save(seedReq, seedRec); err != nil {
		t.Fatalf("Could not seed the session: %v", err)
	}

	called := false
	toTest := AuthMiddleware(store, func(w http.ResponseWriter, r *http.Request) {
		called = true
		user, ok := UserFromContext(r.Context())
		if !ok {
			t.Fatal("User missing from context")
		}
		if user.UUID != "u1" || user.Name != "ann" {
			t.Errorf("Wrong user in context: %+v", user)
		}
	})

	req := httptest.NewRequest("GET", "/users", nil)
	for _, cookie := range seedRec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()

	toTest(rr, req)

	if !called {
		t.Error("Handler was not reached despite a valid session")
	}
}
