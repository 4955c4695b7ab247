package repository

import (
	"time"

	"github.com/Laolu02/Linq/internal/entity"

	"gorm.io/gorm"
)

// UserPatch carries the profile fields a user may change. Nil fields are
// left untouched.
type UserPatch struct {
	Name   *string
	Avatar *string
}

type UserRepository interface {
	Create(user *entity.User) error

	GetByUUID(uuid string) (*entity.User, error)
	GetForLogin(email string) (*entity.User, error)
	GetAll() ([]*entity.User, error)

	UpdateProfile(uuid string, patch UserPatch) error
	SetPresence(uuid string, online bool, at time.Time) error
}

type SQLiteUserRepository struct {
	db *gorm.DB
}

func NewSQLiteUserRepository(db *gorm.DB) UserRepository {
	return &SQLiteUserRepository{db}
}

func (repo *SQLiteUserRepository) Create(user *entity.User) error {
	return repo.db.Create(user).Error
}

func (repo *SQLiteUserRepository) GetByUUID(uuid string) (*entity.User, error) {
	var user entity.User
	err := repo.db.Where("uuid = ?", uuid).First(&user).Error
	return &user, err
}

// GetForLogin loads the user with the secret row needed to verify a password.
func (repo *SQLiteUserRepository) GetForLogin(email string) (*entity.User, error) {
	var user entity.User
	err := repo.db.Preload("Secret").Where("email = ?", email).First(&user).Error
	return &user, err
}

func (repo *SQLiteUserRepository) GetAll() ([]*entity.User, error) {
	var users []*entity.User
	err := repo.db.Order("name ASC").Find(&users).Error
	return users, err
}

func (repo *SQLiteUserRepository) UpdateProfile(uuid string, patch UserPatch) error {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Avatar != nil {
		updates["avatar"] = *patch.Avatar
	}
	if len(updates) == 0 {
		return nil
	}
	return repo.db.Model(&entity.User{}).Where("uuid = ?", uuid).Updates(updates).Error
}

func (repo *SQLiteUserRepository) SetPresence(uuid string, online bool, at time.Time) error {
	return repo.db.Model(&entity.User{}).Where("uuid = ?", uuid).
		Updates(map[string]interface{}{"online": online, "last_seen": at}).Error
}
