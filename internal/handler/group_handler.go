package handler

import (
	"net/http"

	"github.com/Laolu02/Linq/internal/repository"
	"github.com/Laolu02/Linq/internal/service"

	"github.com/gorilla/mux"
)

type createGroupFields struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is-public"`
}

type updateGroupFields struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Avatar      *string `json:"avatar"`
	IsPublic    *bool   `json:"is-public"`
}

type memberRoleFields struct {
	UserUUID string `json:"user-uuid"`
	Role     string `json:"role"`
}

type GroupHandler struct {
	groupService   service.GroupService
	messageService service.MessageService
}

func NewGroupHandler(groupService service.GroupService, messageService service.MessageService) *GroupHandler {
	return &GroupHandler{
		groupService:   groupService,
		messageService: messageService,
	}
}

// GetGroups lists groups with the explicit filters the query string allows:
// a search term, private visibility, and membership of the session user.
func (g *GroupHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	thisUser, ok := requireUser(w, r)
	if !ok {
		return
	}

	query := repository.GroupQuery{
		Search:         r.URL.Query().Get("search"),
		IncludePrivate: r.URL.Query().Get("includePrivate") == "true",
	}
	if r.URL.Query().Get("mine") == "true" {
		query.MemberUUID = thisUser.UUID
	}

	groups, err := g.groupService.ListGroups(query)
	if err != nil {
		writeError(w, err)
		return
	}

	// Last-message previews; a failed preview never fails the listing.
	previews := map[string]interface{}{}
	for _, group := range groups {
		if last, err := g.messageService.LastGroupMessage(group.UUID); err == nil && last != nil {
			previews[group.UUID] = last
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"groups":   groups,
		"previews": previews,
		"count":    len(groups),
	})
}

func (g *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	vars := mux.Vars(r)

	group, err := g.groupService.GetGroup(vars["uuid"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"group": group,
	})
}

func (g *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	thisUser, ok := requireUser(w, r)
	if !ok {
		return
	}

	var request createGroupFields
	if !decodeBody(w, r, &request) {
		return
	}
	isPublic := true
	if request.IsPublic != nil {
		isPublic = *request.IsPublic
	}

	group, err := g.groupService.CreateGroup(thisUser.UUID, request.Name, request.Description, isPublic)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"group":  group,
		"status": "success",
	})
}

func (g *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	thisUser, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)

	var request updateGroupFields
	if !decodeBody(w, r, &request) {
		return
	}

	group, err := g.groupService.UpdateGroup(thisUser.UUID, vars["uuid"], repository.GroupPatch{
		Name:        request.Name,
		Description: request.Description,
		Avatar:      request.Avatar,
		IsPublic:    request.IsPublic,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"group":  group,
		"status": "success",
	})
}

func (g *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	thisUser, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)

	if err := g.groupService.DeleteGroup(thisUser.UUID, vars["uuid"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
	})
}

func (g *GroupHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	thisUser, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)

	member, err := g.groupService.JoinGroup(thisUser.UUID, vars["uuid"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"member": member,
		"status": "success",
	})
}

func (g *GroupHandler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	thisUser, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)

	if err := g.groupService.LeaveGroup(thisUser.UUID, vars["uuid"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
	})
}

func (g *GroupHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	vars := mux.Vars(r)

	members, err := g.groupService.GetMembers(vars["uuid"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"members": members,
		"count":   len(members),
	})
}

func (g *GroupHandler) SetMemberRole(w http.ResponseWriter, r *http.Request) {
	thisUser, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)

	var request memberRoleFields
	if !decodeBody(w, r, &request) {
		return
	}

	if err := g.groupService.SetMemberRole(thisUser.UUID, vars["uuid"], request.UserUUID, request.Role); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
	})
}
