package entity

import "time"

// Message is the durable copy of a chat message. Exactly one of
// ConversationUUID and GroupUUID is set. Rows are never hard-deleted:
// IsDeleted hides the message from history reads but keeps the row.
type Message struct {
	UUID             string    `gorm:"primaryKey" json:"id"`
	Body             string    `gorm:"not null" json:"body"`
	SenderUUID       string    `gorm:"not null;index" json:"sender"`
	ConversationUUID string    `gorm:"index" json:"conversation-uuid,omitempty"`
	GroupUUID        string    `gorm:"index" json:"group-uuid,omitempty"`
	CreatedAt        time.Time `gorm:"not null;index" json:"created-at"`
	IsEdited         bool      `gorm:"not null;default:false" json:"is-edited"`
	IsDeleted        bool      `gorm:"not null;default:false" json:"is-deleted"`
}
