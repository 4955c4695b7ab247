package data

import (
	"github.com/Laolu02/Linq/internal/entity"
	"github.com/Laolu02/Linq/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// StorageManager gathers all the repositories needed for the chat system in
// a single container.
type StorageManager struct {
	db *gorm.DB // Under the hood we use the SQLite implementation

	userRepo         repository.UserRepository
	conversationRepo repository.ConversationRepository
	groupRepo        repository.GroupRepository
	messageRepo      repository.MessageRepository
}

// OpenDatabase opens the SQLite database at path and migrates the schema.
func OpenDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	err = db.AutoMigrate(
		&entity.User{},
		&entity.UserSecret{},
		&entity.Conversation{},
		&entity.Group{},
		&entity.GroupMember{},
		&entity.Message{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func NewStorageManager(db *gorm.DB) *StorageManager {
	return &StorageManager{
		db:               db,
		userRepo:         repository.NewSQLiteUserRepository(db),
		conversationRepo: repository.NewSQLiteConversationRepository(db),
		groupRepo:        repository.NewSQLiteGroupRepository(db),
		messageRepo:      repository.NewSQLiteMessageRepository(db),
	}
}

func (s *StorageManager) GetUserRepository() repository.UserRepository {
	return s.userRepo
}

func (s *StorageManager) GetConversationRepository() repository.ConversationRepository {
	return s.conversationRepo
}

func (s *StorageManager) GetGroupRepository() repository.GroupRepository {
	return s.groupRepo
}

func (s *StorageManager) GetMessageRepository() repository.MessageRepository {
	return s.messageRepo
}
