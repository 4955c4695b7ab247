package realtime

import (
	"encoding/json"
	"net/http"

	"github.com/Laolu02/Linq/internal/nlog"
	"github.com/Laolu02/Linq/internal/service"

	"github.com/gorilla/websocket"
)

// Hub owns the websocket endpoint: it upgrades connections, decodes the
// wire events and routes them to the delivery core and the registry.
type Hub struct {
	registry   *Registry
	dispatcher *Dispatcher

	messageService service.MessageService
	groupService   service.GroupService
	userService    service.UserService

	logger   nlog.Logger
	upgrader websocket.Upgrader
}

func NewHub(
	registry *Registry,
	dispatcher *Dispatcher,
	messageService service.MessageService,
	groupService service.GroupService,
	userService service.UserService,
	logger nlog.Logger,
	allowedOrigins []string,
) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &Hub{
		registry:       registry,
		dispatcher:     dispatcher,
		messageService: messageService,
		groupService:   groupService,
		userService:    userService,
		logger:         logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// No Origin header means a non-browser client; only
				// cross-origin browser requests are filtered.
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

func (h *Hub) Logf(format string, v ...any) {
	h.logger.Logf(format, v...)
}

// ServeWS upgrades the request for the authenticated user and runs the
// connection until it closes. Teardown always unregisters the connection,
// abnormal closure included.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userUUID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logf("Websocket upgrade failed {%v}", err)
		return
	}

	client := newClient(conn)
	go client.writePump()

	h.Logf("User %s opened a live connection", userUUID)
	client.readPump(func(frame Frame) {
		h.handleFrame(client, userUUID, frame)
	})

	h.disconnect(client)
}

func (h *Hub) handleFrame(client *Client, userUUID string, frame Frame) {
	switch frame.Event {
	case EventRegister:
		h.handleRegister(client, userUUID, frame.Payload)
	case EventJoinGroup:
		h.handleJoinGroup(client, userUUID, frame.Payload)
	case EventGroupMessage:
		h.handleGroupMessage(client, userUUID, frame.Payload)
	case EventPrivateMessage:
		h.handlePrivateMessage(client, userUUID, frame.Payload)
	default:
		h.pushError(client, "unknown event")
	}
}

func (h *Hub) handleRegister(client *Client, userUUID string, payload json.RawMessage) {
	var claimed string
	if err := json.Unmarshal(payload, &claimed); err != nil || claimed == "" {
		h.pushError(client, "register needs a user id")
		return
	}
	if claimed != userUUID {
		h.pushError(client, "cannot register as another user")
		return
	}

	h.registry.Register(userUUID, client)
	if err := h.userService.Ping(userUUID); err != nil {
		h.Logf("Presence update failed for user %s {%v}", userUUID, err)
	}
}

func (h *Hub) handleJoinGroup(client *Client, userUUID string, payload json.RawMessage) {
	var join joinGroupPayload
	if err := json.Unmarshal(payload, &join); err != nil || join.GroupUUID == "" {
		h.pushError(client, "joinGroup needs a group id")
		return
	}

	// Live interest does not imply membership: the persisted row decides.
	if _, err := h.groupService.GetMember(join.GroupUUID, userUUID); err != nil {
		h.pushError(client, "user is not a member of this group")
		return
	}

	h.registry.JoinGroup(userUUID, join.GroupUUID)
	h.dispatcher.Announce(join.GroupUUID, EventUserJoined, memberEventPayload{
		UserUUID:  userUUID,
		GroupUUID: join.GroupUUID,
	})
}

func (h *Hub) handleGroupMessage(client *Client, userUUID string, payload json.RawMessage) {
	var msg groupMessagePayload
	if err := json.Unmarshal(payload, &msg); err != nil {
		h.pushError(client, "malformed group message")
		return
	}

	if _, err := h.messageService.SendGroup(userUUID, msg.GroupUUID, msg.Text); err != nil {
		h.pushError(client, err.Error())
	}
}

func (h *Hub) handlePrivateMessage(client *Client, userUUID string, payload json.RawMessage) {
	var msg privateMessagePayload
	if err := json.Unmarshal(payload, &msg); err != nil {
		h.pushError(client, "malformed private message")
		return
	}

	if _, err := h.messageService.SendDirect(userUUID, msg.ReceiverUUID, msg.Text); err != nil {
		h.pushError(client, err.Error())
	}
}

func (h *Hub) disconnect(client *Client) {
	userUUID, lastConn, groups := h.registry.Unregister(client)
	if userUUID == "" {
		return
	}
	h.Logf("User %s closed a live connection", userUUID)

	if !lastConn {
		return
	}
	if err := h.userService.SetOffline(userUUID); err != nil {
		h.Logf("Presence update failed for user %s {%v}", userUUID, err)
	}
	for _, groupUUID := range groups {
		h.dispatcher.Announce(groupUUID, EventUserLeft, memberEventPayload{
			UserUUID:  userUUID,
			GroupUUID: groupUUID,
		})
	}
}

func (h *Hub) pushError(client *Client, message string) {
	if err := client.Push(EventError, errorPayload{Message: message}); err != nil {
		h.Logf("Could not push error event {%v}", err)
	}
}
