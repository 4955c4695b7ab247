package realtime

import "encoding/json"

// Wire event names. These are fixed by the client protocol.
const (
	EventRegister       = "register"
	EventJoinGroup      = "joinGroup"
	EventGroupMessage   = "groupMessage"
	EventPrivateMessage = "privateMessage"
	EventNewMessage     = "newMessage"
	EventUserJoined     = "userJoinedGroup"
	EventUserLeft       = "userLeftGroup"
	EventError          = "error"
)

// Frame is one JSON message on the socket, in either direction.
type Frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type joinGroupPayload struct {
	UserUUID  string `json:"userId"`
	GroupUUID string `json:"groupId"`
}

type groupMessagePayload struct {
	GroupUUID string `json:"groupId"`
	Text      string `json:"text"`
}

type privateMessagePayload struct {
	ReceiverUUID string `json:"receiverId"`
	Text         string `json:"text"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type memberEventPayload struct {
	UserUUID  string `json:"userId"`
	GroupUUID string `json:"groupId"`
}
