package handler

import (
	"net/http"

	"github.com/Laolu02/Linq/internal/service"

	"github.com/gorilla/mux"
)

type directMessageFields struct {
	ReceiverUUID string `json:"receiver-uuid"`
	Body         string `json:"body"`
}

type groupMessageFields struct {
	Body string `json:"body"`
}

type editMessageFields struct {
	Body string `json:"body"`
}

// MessageHandler is the REST side of the delivery core. Sends go through
// the same service path as the socket events, so a REST send still fans
// out live.
type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// CreateDMMessage sends a message in a private chat.
func (m *MessageHandler) CreateDMMessage(w http.ResponseWriter, r *http.Request) {
	thisUser, ok := requireUser(w, r)
	if !ok {
		return
	}

	var request directMessageFields
	if !decodeBody(w, r, &request) {
		return
	}

	message, err := m.messageService.SendDirect(thisUser.UUID, request.ReceiverUUID, request.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": message,
		"status":  "success",
	})
}

// GetConversations lists the caller's private chats, each with the peer and
// a last-message preview.
func (m *MessageHandler) GetConversations(w http.ResponseWriter, r *http.Request) {
	thisUser, ok := requireUser(w, r)
	if !ok {
		return
	}

	conversations, err := m.messageService.ListConversations(thisUser.UUID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"conversations": conversations,
		"count":         len(conversations),
	})
}

// GetDMMessages retrieves the history of a private chat.
func (m *MessageHandler) GetDMMessages(w http.ResponseWriter, r *http.Request) {
	thisUser, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)

	messages, err := m.messageService.GetDirect(thisUser.UUID, vars["uuid"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
		"count":    len(messages),
	})
}

// CreateGroupMessage sends a message to a group.
func (m *MessageHandler) CreateGroupMessage(w http.ResponseWriter, r *http.Request) {
	thisUser, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)

	var request groupMessageFields
	if !decodeBody(w, r, &request) {
		return
	}

	message, err := m.messageService.SendGroup(thisUser.UUID, vars["uuid"], request.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": message,
		"status":  "success",
	})
}

// GetGroupMessages retrieves the history of a group chat.
func (m *MessageHandler) GetGroupMessages(w http.ResponseWriter, r *http.Request) {
	thisUser, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)

	messages, err := m.messageService.GetGroup(thisUser.UUID, vars["uuid"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
		"count":    len(messages),
	})
}

// EditMessage rewrites the body of the caller's own message.
func (m *MessageHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
	thisUser, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)

	var request editMessageFields
	if !decodeBody(w, r, &request) {
		return
	}

	message, err := m.messageService.Edit(thisUser.UUID, vars["uuid"], request.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": message,
		"status":  "success",
	})
}

// DeleteMessage soft-deletes the caller's own message.
func (m *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	thisUser, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)

	if err := m.messageService.Delete(thisUser.UUID, vars["uuid"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
	})
}
