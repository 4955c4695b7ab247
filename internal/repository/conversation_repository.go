package repository

import (
	"time"

	"github.com/Laolu02/Linq/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConversationRepository manages the private 1:1 chats. A conversation is
// created at most once per unordered pair of users: both lookups and the
// create path normalize the pair before touching the table.
type ConversationRepository interface {
	GetByMemberPair(userA, userB string) (*entity.Conversation, error)
	GetOrCreate(userA, userB string) (*entity.Conversation, error)
	GetForUser(userUUID string) ([]*entity.Conversation, error)
}

type SQLiteConversationRepository struct {
	db *gorm.DB
}

func NewSQLiteConversationRepository(db *gorm.DB) ConversationRepository {
	return &SQLiteConversationRepository{db}
}

func (repo *SQLiteConversationRepository) GetByMemberPair(userA, userB string) (*entity.Conversation, error) {
	a, b := entity.NormalizePair(userA, userB)
	var conversation entity.Conversation
	err := repo.db.Where("user_a_uuid = ? AND user_b_uuid = ?", a, b).First(&conversation).Error
	return &conversation, err
}

func (repo *SQLiteConversationRepository) GetOrCreate(userA, userB string) (*entity.Conversation, error) {
	a, b := entity.NormalizePair(userA, userB)
	conversation := entity.Conversation{UserAUUID: a, UserBUUID: b}
	err := repo.db.Where("user_a_uuid = ? AND user_b_uuid = ?", a, b).
		Attrs(entity.Conversation{UUID: uuid.New().String(), CreatedAt: time.Now()}).
		FirstOrCreate(&conversation).Error
	return &conversation, err
}

func (repo *SQLiteConversationRepository) GetForUser(userUUID string) ([]*entity.Conversation, error) {
	var conversations []*entity.Conversation
	err := repo.db.Where("user_a_uuid = ? OR user_b_uuid = ?", userUUID, userUUID).
		Order("created_at DESC").Find(&conversations).Error
	return conversations, err
}
