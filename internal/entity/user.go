package entity

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	UUID      string         `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;index" json:"name"`
	Email     string         `gorm:"not null;uniqueIndex" json:"email"`
	Avatar    string         `json:"image"`
	Online    bool           `gorm:"not null;default:false" json:"online"`
	LastSeen  time.Time      `json:"last-seen"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created-at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Secret UserSecret `gorm:"foreignKey:UserUUID;references:UUID" json:"-"`
}
