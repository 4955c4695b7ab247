package entity

import "time"

// Conversation is a private 1:1 chat. The member pair is stored normalized
// (UserAUUID < UserBUUID) so that exactly one row can exist per unordered
// pair of users, whichever order the two ids are supplied in.
type Conversation struct {
	UUID      string    `gorm:"primaryKey" json:"uuid"`
	UserAUUID string    `gorm:"not null;uniqueIndex:conversation_pair_index" json:"user-a"`
	UserBUUID string    `gorm:"not null;uniqueIndex:conversation_pair_index" json:"user-b"`
	CreatedAt time.Time `gorm:"not null;index" json:"created-at"`
}

// NormalizePair orders two user uuids lexicographically.
func NormalizePair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
