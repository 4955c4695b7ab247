package repository

import (
	"github.com/Laolu02/Linq/internal/entity"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(message *entity.Message) error

	GetByUUID(uuid string) (*entity.Message, error)
	GetByConversation(conversationUUID string, excludeDeleted bool) ([]*entity.Message, error)
	GetByGroup(groupUUID string, excludeDeleted bool) ([]*entity.Message, error)
	LastForConversation(conversationUUID string) (*entity.Message, error)
	LastForGroup(groupUUID string) (*entity.Message, error)

	UpdateBody(uuid, body string) error
	SoftDelete(uuid string) error
}

type SQLiteMessageRepository struct {
	db *gorm.DB
}

func NewSQLiteMessageRepository(db *gorm.DB) MessageRepository {
	return &SQLiteMessageRepository{db}
}

func (repo *SQLiteMessageRepository) Create(message *entity.Message) error {
	return repo.db.Create(message).Error
}

func (repo *SQLiteMessageRepository) GetByUUID(uuid string) (*entity.Message, error) {
	var message entity.Message
	err := repo.db.Where("uuid = ?", uuid).First(&message).Error
	return &message, err
}

// History reads are ordered ascending by creation time; rows created in the
// same millisecond keep insertion order via the rowid tie-break.
func (repo *SQLiteMessageRepository) GetByConversation(conversationUUID string, excludeDeleted bool) ([]*entity.Message, error) {
	var messages []*entity.Message
	query := repo.db.Where("conversation_uuid = ?", conversationUUID)
	if excludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	err := query.Order("created_at ASC, rowid ASC").Find(&messages).Error
	return messages, err
}

func (repo *SQLiteMessageRepository) GetByGroup(groupUUID string, excludeDeleted bool) ([]*entity.Message, error) {
	var messages []*entity.Message
	query := repo.db.Where("group_uuid = ?", groupUUID)
	if excludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	err := query.Order("created_at ASC, rowid ASC").Find(&messages).Error
	return messages, err
}

func (repo *SQLiteMessageRepository) LastForConversation(conversationUUID string) (*entity.Message, error) {
	var message entity.Message
	err := repo.db.Where("conversation_uuid = ? AND is_deleted = ?", conversationUUID, false).
		Order("created_at DESC, rowid DESC").First(&message).Error
	return &message, err
}

func (repo *SQLiteMessageRepository) LastForGroup(groupUUID string) (*entity.Message, error) {
	var message entity.Message
	err := repo.db.Where("group_uuid = ? AND is_deleted = ?", groupUUID, false).
		Order("created_at DESC, rowid DESC").First(&message).Error
	return &message, err
}

func (repo *SQLiteMessageRepository) UpdateBody(uuid, body string) error {
	return repo.db.Model(&entity.Message{}).Where("uuid = ?", uuid).
		Updates(map[string]interface{}{"body": body, "is_edited": true}).Error
}

func (repo *SQLiteMessageRepository) SoftDelete(uuid string) error {
	return repo.db.Model(&entity.Message{}).Where("uuid = ?", uuid).
		Update("is_deleted", true).Error
}
