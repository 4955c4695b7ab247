package entity

import "time"

const (
	DestinationPrivate = "PRIVATE"
	DestinationGroup   = "GROUP"
)

// Envelope is the transient push payload carrying a persisted message to
// live connections. It is never stored; the durable copy is the Message row.
type Envelope struct {
	Message         *Message  `json:"message"`
	SenderUUID      string    `json:"sender"`
	SenderName      string    `json:"sender-name"`
	SenderAvatar    string    `json:"sender-avatar,omitempty"`
	DestinationType string    `json:"destination-type"`
	DestinationUUID string    `json:"destination-uuid"`
	DeliveredAt     time.Time `json:"delivered-at"`
}
