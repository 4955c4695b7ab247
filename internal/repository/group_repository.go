package repository

import (
	"github.com/Laolu02/Linq/internal/entity"

	"gorm.io/gorm"
)

// GroupQuery narrows a group listing. Fields are explicit and optional, so
// callers never assemble ad hoc where clauses.
type GroupQuery struct {
	Search         string // matches name or description, case-insensitive
	IncludePrivate bool
	MemberUUID     string // only groups this user belongs to
}

// GroupPatch carries the mutable group fields. Nil fields are left untouched.
type GroupPatch struct {
	Name        *string
	Description *string
	Avatar      *string
	IsPublic    *bool
}

type GroupRepository interface {
	Create(group *entity.Group) error
	GetByUUID(uuid string) (*entity.Group, error)
	List(query GroupQuery) ([]*entity.Group, error)
	Update(uuid string, patch GroupPatch) error
	SoftDelete(uuid string) error

	AddMember(member *entity.GroupMember) error
	RemoveMember(groupUUID, userUUID string) error
	GetMember(groupUUID, userUUID string) (*entity.GroupMember, error)
	GetMembers(groupUUID string) ([]*entity.GroupMember, error)
	UpdateMemberRole(groupUUID, userUUID, role string) error
	CountAdmins(groupUUID string) (int64, error)
	CountMembers(groupUUID string) (int64, error)
}

type SQLiteGroupRepository struct {
	db *gorm.DB
}

func NewSQLiteGroupRepository(db *gorm.DB) GroupRepository {
	return &SQLiteGroupRepository{db}
}

// Create inserts the group together with its initial member rows.
func (repo *SQLiteGroupRepository) Create(group *entity.Group) error {
	return repo.db.Transaction(func(tx *gorm.DB) error {
		members := group.Members
		group.Members = nil
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		group.Members = members
		for _, member := range members {
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (repo *SQLiteGroupRepository) GetByUUID(uuid string) (*entity.Group, error) {
	var group entity.Group
	err := repo.db.Preload("Members").Where("uuid = ?", uuid).First(&group).Error
	return &group, err
}

func (repo *SQLiteGroupRepository) List(query GroupQuery) ([]*entity.Group, error) {
	tx := repo.db.Preload("Members")
	if !query.IncludePrivate {
		tx = tx.Where("is_public = ?", true)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		tx = tx.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if query.MemberUUID != "" {
		tx = tx.Where("uuid IN (?)",
			repo.db.Model(&entity.GroupMember{}).Select("group_uuid").Where("user_uuid = ?", query.MemberUUID))
	}

	var groups []*entity.Group
	err := tx.Order("updated_at DESC, created_at DESC").Find(&groups).Error
	return groups, err
}

func (repo *SQLiteGroupRepository) Update(uuid string, patch GroupPatch) error {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Avatar != nil {
		updates["avatar"] = *patch.Avatar
	}
	if patch.IsPublic != nil {
		updates["is_public"] = *patch.IsPublic
	}
	if len(updates) == 0 {
		return nil
	}
	return repo.db.Model(&entity.Group{}).Where("uuid = ?", uuid).Updates(updates).Error
}

func (repo *SQLiteGroupRepository) SoftDelete(uuid string) error {
	return repo.db.Where("uuid = ?", uuid).Delete(&entity.Group{}).Error
}

func (repo *SQLiteGroupRepository) AddMember(member *entity.GroupMember) error {
	return repo.db.Create(member).Error
}

func (repo *SQLiteGroupRepository) RemoveMember(groupUUID, userUUID string) error {
	return repo.db.Where("group_uuid = ? AND user_uuid = ?", groupUUID, userUUID).
		Delete(&entity.GroupMember{}).Error
}

func (repo *SQLiteGroupRepository) GetMember(groupUUID, userUUID string) (*entity.GroupMember, error) {
	var member entity.GroupMember
	err := repo.db.Where("group_uuid = ? AND user_uuid = ?", groupUUID, userUUID).
		First(&member).Error
	return &member, err
}

func (repo *SQLiteGroupRepository) GetMembers(groupUUID string) ([]*entity.GroupMember, error) {
	var members []*entity.GroupMember
	err := repo.db.Where("group_uuid = ?", groupUUID).Order("joined_at ASC").Find(&members).Error
	return members, err
}

func (repo *SQLiteGroupRepository) UpdateMemberRole(groupUUID, userUUID, role string) error {
	return repo.db.Model(&entity.GroupMember{}).
		Where("group_uuid = ? AND user_uuid = ?", groupUUID, userUUID).
		Update("role", role).Error
}

func (repo *SQLiteGroupRepository) CountAdmins(groupUUID string) (int64, error) {
	var count int64
	err := repo.db.Model(&entity.GroupMember{}).
		Where("group_uuid = ? AND role = ?", groupUUID, entity.RoleAdmin).
		Count(&count).Error
	return count, err
}

func (repo *SQLiteGroupRepository) CountMembers(groupUUID string) (int64, error) {
	var count int64
	err := repo.db.Model(&entity.GroupMember{}).
		Where("group_uuid = ?", groupUUID).
		Count(&count).Error
	return count, err
}
