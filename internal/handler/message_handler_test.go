package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Laolu02/Linq/internal/apperr"
	"github.com/Laolu02/Linq/internal/entity"
	"github.com/Laolu02/Linq/internal/middleware"
	"github.com/Laolu02/Linq/internal/service"

	"github.com/gorilla/mux"
)

type MockMessageService struct {
	sentDirect    []string
	sentGroup     []string
	conversations []*service.ConversationSummary
	failWith      error
}

func (m *MockMessageService) SendDirect(senderUUID, receiverUUID, body string) (*entity.Message, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.sentDirect = append(m.sentDirect, body)
	return &entity.Message{UUID: "m1", Body: body, SenderUUID: senderUUID}, nil
}

func (m *MockMessageService) SendGroup(senderUUID, groupUUID, body string) (*entity.Message, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.sentGroup = append(m.sentGroup, body)
	return &entity.Message{UUID: "m1", Body: body, SenderUUID: senderUUID, GroupUUID: groupUUID}, nil
}

func (m *MockMessageService) GetDirect(userUUID, otherUUID string) ([]*entity.Message, error) {
	return []*entity.Message{}, nil
}

func (m *MockMessageService) GetGroup(userUUID, groupUUID string) ([]*entity.Message, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return []*entity.Message{}, nil
}

func (m *MockMessageService) ListConversations(userUUID string) ([]*service.ConversationSummary, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.conversations, nil
}

func (m *MockMessageService) LastGroupMessage(groupUUID string) (*entity.Message, error) {
	return nil, nil
}

func (m *MockMessageService) Edit(userUUID, messageUUID, body string) (*entity.Message, error) {
	return &entity.Message{UUID: messageUUID, Body: body, IsEdited: true}, nil
}

func (m *MockMessageService) Delete(userUUID, messageUUID string) error {
	return m.failWith
}

func asUser(r *http.Request, uuid string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserKey, entity.User{UUID: uuid, Name: "ann"})
	return r.WithContext(ctx)
}

func TestCreateDMMessage(t *testing.T) {
	svc := &MockMessageService{}
	h := NewMessageHandler(svc)

	body := `{"receiver-uuid": "u2", "body": "hello"}`
	req := asUser(httptest.NewRequest("POST", "/messages/private", strings.NewReader(body)), "u1")
	rr := httptest.NewRecorder()

	h.CreateDMMessage(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", rr.Code)
	}
	if len(svc.sentDirect) != 1 || svc.sentDirect[0] != "hello" {
		t.Errorf("Service received %v", svc.sentDirect)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("Response is not JSON: %v", err)
	}
	if response["status"] != "success" {
		t.Errorf("Expected success status, got %v", response["status"])
	}
}

func TestCreateDMMessageWithoutUser(t *testing.T) {
	h := NewMessageHandler(&MockMessageService{})

	req := httptest.NewRequest("POST", "/messages/private", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()

	h.CreateDMMessage(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rr.Code)
	}
}

func TestCreateDMMessageMalformedBody(t *testing.T) {
	svc := &MockMessageService{}
	h := NewMessageHandler(svc)

	req := asUser(httptest.NewRequest("POST", "/messages/private", strings.NewReader("{not json")), "u1")
	rr := httptest.NewRecorder()

	h.CreateDMMessage(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
	if len(svc.sentDirect) != 0 {
		t.Error("Service was called with a malformed body")
	}
}

func TestCreateGroupMessageServiceErrorMapped(t *testing.T) {
	svc := &MockMessageService{failWith: apperr.Authorization("user is not a member of this group")}
	h := NewMessageHandler(svc)

	req := asUser(httptest.NewRequest("POST", "/messages/group/g1", strings.NewReader(`{"body": "hi"}`)), "u1")
	req = mux.SetURLVars(req, map[string]string{"uuid": "g1"})
	rr := httptest.NewRecorder()

	h.CreateGroupMessage(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rr.Code)
	}

	var response map[string]interface{}
	json.NewDecoder(rr.Body).Decode(&response)
	if response["error"] == nil {
		t.Error("Error body is missing the error field")
	}
}

func TestDeleteMessageConflictMapped(t *testing.T) {
	svc := &MockMessageService{failWith: apperr.Conflict("message was already deleted")}
	h := NewMessageHandler(svc)

	req := asUser(httptest.NewRequest("DELETE", "/messages/m1", nil), "u1")
	req = mux.SetURLVars(req, map[string]string{"uuid": "m1"})
	rr := httptest.NewRecorder()

	h.DeleteMessage(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", rr.Code)
	}
}

func TestGetConversations(t *testing.T) {
	svc := &MockMessageService{
		conversations: []*service.ConversationSummary{{
			Conversation: &entity.Conversation{UUID: "c1", UserAUUID: "u1", UserBUUID: "u2"},
			Peer:         &entity.User{UUID: "u2", Name: "bob"},
			LastMessage:  &entity.Message{UUID: "m1", Body: "hi", SenderUUID: "u2"},
		}},
	}
	h := NewMessageHandler(svc)

	req := asUser(httptest.NewRequest("GET", "/conversations", nil), "u1")
	rr := httptest.NewRecorder()

	h.GetConversations(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rr.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("Response is not JSON: %v", err)
	}
	if count, ok := response["count"].(float64); !ok || count != 1 {
		t.Errorf("Expected count 1, got %v", response["count"])
	}
	listed, ok := response["conversations"].([]interface{})
	if !ok || len(listed) != 1 {
		t.Fatalf("Expected one listed conversation, got %v", response["conversations"])
	}
}

func TestGetDMMessagesEmptyHistory(t *testing.T) {
	h := NewMessageHandler(&MockMessageService{})

	req := asUser(httptest.NewRequest("GET", "/messages/private/u2", nil), "u1")
	req = mux.SetURLVars(req, map[string]string{"uuid": "u2"})
	rr := httptest.NewRecorder()

	h.GetDMMessages(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rr.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("Response is not JSON: %v", err)
	}
	if count, ok := response["count"].(float64); !ok || count != 0 {
		t.Errorf("Expected count 0, got %v", response["count"])
	}
}
