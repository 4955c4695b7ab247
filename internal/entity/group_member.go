package entity

import "time"

const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

type GroupMember struct {
	GroupUUID string    `gorm:"primaryKey" json:"group-uuid"`
	UserUUID  string    `gorm:"primaryKey" json:"user-uuid"`
	Role      string    `gorm:"not null;default:'MEMBER'" json:"role"`
	JoinedAt  time.Time `gorm:"not null" json:"joined-at"`
}
