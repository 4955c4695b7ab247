package handler

import (
	"net/http"

	"github.com/Laolu02/Linq/internal/repository"
	"github.com/Laolu02/Linq/internal/service"

	"github.com/gorilla/mux"
)

type profileFields struct {
	Name   *string `json:"name"`
	Avatar *string `json:"image"`
}

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (u *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	users, err := u.userService.GetAll()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"count": len(users),
	})
}

func (u *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	vars := mux.Vars(r)

	user, err := u.userService.GetByUUID(vars["uuid"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": user,
	})
}

// UpdateProfile lets the session user change their own name and avatar.
func (u *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	thisUser, ok := requireUser(w, r)
	if !ok {
		return
	}

	var request profileFields
	if !decodeBody(w, r, &request) {
		return
	}

	user, err := u.userService.UpdateProfile(thisUser.UUID, repository.UserPatch{
		Name:   request.Name,
		Avatar: request.Avatar,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":   user,
		"status": "success",
	})
}

// Ping is the presence heartbeat: it marks the session user online.
func (u *UserHandler) Ping(w http.ResponseWriter, r *http.Request) {
	thisUser, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := u.userService.Ping(thisUser.UUID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
	})
}
