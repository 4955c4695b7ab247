package realtime

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/Laolu02/Linq/internal/entity"
)

type MockLogger struct{}

func (m *MockLogger) Logf(format string, v ...any) {
	fmt.Printf(format+"\n", v)
}

type MockConn struct {
	pushed []string
	broken bool
}

func (m *MockConn) Push(event string, payload any) error {
	if m.broken {
		return errors.New("connection is closed")
	}
	m.pushed = append(m.pushed, event)
	return nil
}

func (m *MockConn) Close() {}

func TestRegisterMultipleConnections(t *testing.T) {
	r := NewRegistry()

	c1 := &MockConn{}
	c2 := &MockConn{}
	r.Register("u1", c1)
	r.Register("u1", c2)
	r.Register("u1", c2) // duplicate register is a no-op

	if got := len(r.ConnsFor("u1")); got != 2 {
		t.Errorf("Expected 2 connections for u1, got %d", got)
	}
	if r.ConnectionCount() != 2 {
		t.Errorf("Expected connection count 2, got %d", r.ConnectionCount())
	}
}

func TestUnregisterKeepsOtherConnections(t *testing.T) {
	r := NewRegistry()

	c1 := &MockConn{}
	c2 := &MockConn{}
	r.Register("u1", c1)
	r.Register("u1", c2)
	r.JoinGroup("u1", "g1")

	_, last, _ := r.Unregister(c1)
	if last {
		t.Error("Reported last connection while another remains")
	}
	if got := len(r.GroupInterest("g1")); got != 1 {
		t.Errorf("Group interest dropped while a connection remains; got %d listeners", got)
	}
}

func TestUnregisterLastConnectionDropsGroups(t *testing.T) {
	r := NewRegistry()

	c := &MockConn{}
	r.Register("u1", c)
	r.JoinGroup("u1", "g1")
	r.JoinGroup("u1", "g2")

	user, last, groups := r.Unregister(c)
	if user != "u1" || !last {
		t.Errorf("Expected last connection of u1, got user=%s last=%v", user, last)
	}
	sort.Strings(groups)
	if len(groups) != 2 || groups[0] != "g1" || groups[1] != "g2" {
		t.Errorf("Expected dropped groups [g1 g2], got %v", groups)
	}
	if len(r.GroupInterest("g1")) != 0 || len(r.GroupInterest("g2")) != 0 {
		t.Error("Group interest survived the last disconnect")
	}
	if r.ConnectionCount() != 0 {
		t.Errorf("Expected empty registry, got %d connections", r.ConnectionCount())
	}
}

func TestUnregisterUnknownConnection(t *testing.T) {
	r := NewRegistry()

	user, last, groups := r.Unregister(&MockConn{})
	if user != "" || last || groups != nil {
		t.Errorf("Unknown connection should be a no-op, got user=%s last=%v groups=%v", user, last, groups)
	}
}

func TestLeaveGroupRemovesInterest(t *testing.T) {
	r := NewRegistry()

	r.Register("u1", &MockConn{})
	r.JoinGroup("u1", "g1")
	r.LeaveGroup("u1", "g1")

	if got := len(r.GroupInterest("g1")); got != 0 {
		t.Errorf("Expected no listeners after leave, got %d", got)
	}
}

func TestDispatcherPushesToEveryConnection(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r, &MockLogger{})

	c1 := &MockConn{}
	c2 := &MockConn{}
	c3 := &MockConn{}
	r.Register("u1", c1)
	r.Register("u1", c2)
	r.Register("u2", c3)

	env := &entity.Envelope{
		Message:         &entity.Message{UUID: "m1", Body: "hi", SenderUUID: "u1"},
		SenderUUID:      "u1",
		DestinationType: entity.DestinationPrivate,
		DestinationUUID: "c1",
	}
	d.ToUsers(env, "u1", "u2", "u2") // duplicate target delivered once

	for i, c := range []*MockConn{c1, c2, c3} {
		if len(c.pushed) != 1 || c.pushed[0] != EventNewMessage {
			t.Errorf("Connection %d: expected one %s push, got %v", i, EventNewMessage, c.pushed)
		}
	}
}

func TestDispatcherSurvivesBrokenConnection(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r, &MockLogger{})

	broken := &MockConn{broken: true}
	healthy := &MockConn{}
	r.Register("u1", broken)
	r.Register("u2", healthy)

	d.ToUsers(&entity.Envelope{Message: &entity.Message{UUID: "m1"}}, "u1", "u2")

	if len(healthy.pushed) != 1 {
		t.Errorf("Healthy connection missed the push, got %v", healthy.pushed)
	}
}

func TestAnnounceReachesGroupListeners(t *testing.T) {
	r := NewRegistry()
	d := NewDispatcher(r, &MockLogger{})

	member := &MockConn{}
	outsider := &MockConn{}
	r.Register("u1", member)
	r.Register("u2", outsider)
	r.JoinGroup("u1", "g1")

	d.Announce("g1", EventUserJoined, map[string]string{"userId": "u3", "groupId": "g1"})

	if len(member.pushed) != 1 || member.pushed[0] != EventUserJoined {
		t.Errorf("Listener missed the announcement, got %v", member.pushed)
	}
	if len(outsider.pushed) != 0 {
		t.Errorf("Non-listener received the announcement: %v", outsider.pushed)
	}
}
