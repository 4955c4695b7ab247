package entity

import (
	"time"

	"gorm.io/gorm"
)

type Group struct {
	UUID        string         `gorm:"primaryKey" json:"uuid"`
	Name        string         `gorm:"not null;index" json:"name"`
	Description string         `json:"description"`
	Avatar      string         `json:"avatar"`
	IsPublic    bool           `gorm:"not null;default:true" json:"is-public"`
	CreatorUUID string         `gorm:"index" json:"creator"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"created-at"`
	UpdatedAt   time.Time      `json:"updated-at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Members []GroupMember `gorm:"foreignKey:GroupUUID;references:UUID" json:"members"`
}
