package service

import (
	"errors"
	"strings"
	"time"

	"github.com/Laolu02/Linq/internal/apperr"
	"github.com/Laolu02/Linq/internal/entity"
	"github.com/Laolu02/Linq/internal/nlog"
	"github.com/Laolu02/Linq/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupService handles groups and user-group interaction. The standing
// invariant: while any member remains, at least one of them is an ADMIN.
type GroupService interface {
	CreateGroup(creatorUUID, name, description string, isPublic bool) (*entity.Group, error)
	GetGroup(uuid string) (*entity.Group, error)
	ListGroups(query repository.GroupQuery) ([]*entity.Group, error)
	UpdateGroup(actorUUID, groupUUID string, patch repository.GroupPatch) (*entity.Group, error)
	DeleteGroup(actorUUID, groupUUID string) error

	JoinGroup(userUUID, groupUUID string) (*entity.GroupMember, error)
	LeaveGroup(userUUID, groupUUID string) error
	GetMembers(groupUUID string) ([]*entity.GroupMember, error)
	GetMember(groupUUID, userUUID string) (*entity.GroupMember, error)
	SetMemberRole(actorUUID, groupUUID, targetUUID, role string) error
}

type localGroupService struct {
	groupRepository repository.GroupRepository
	userRepository  repository.UserRepository
	logger          nlog.Logger
}

func NewGroupService(groupRepo repository.GroupRepository, userRepo repository.UserRepository, logger nlog.Logger) GroupService {
	return &localGroupService{
		groupRepository: groupRepo,
		userRepository:  userRepo,
		logger:          logger,
	}
}

func (g *localGroupService) Logf(format string, v ...any) {
	g.logger.Logf(format, v...)
}

func (g *localGroupService) CreateGroup(creatorUUID, name, description string, isPublic bool) (*entity.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("group name must not be empty")
	}
	if _, err := g.userRepository.GetByUUID(creatorUUID); err != nil {
		return nil, apperr.NotFound("user was not found")
	}

	group := &entity.Group{
		UUID:        uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		IsPublic:    isPublic,
		CreatorUUID: creatorUUID,
		CreatedAt:   time.Now(),
		Members: []entity.GroupMember{{
			UserUUID: creatorUUID,
			Role:     entity.RoleAdmin,
			JoinedAt: time.Now(),
		}},
	}
	for i := range group.Members {
		group.Members[i].GroupUUID = group.UUID
	}

	if err := g.groupRepository.Create(group); err != nil {
		return nil, apperr.Persistence(err, "could not create the group")
	}
	g.Logf("Group %s created by user %s", group.UUID, creatorUUID)
	return group, nil
}

func (g *localGroupService) GetGroup(id string) (*entity.Group, error) {
	group, err := g.groupRepository.GetByUUID(id)
	if err != nil {
		return nil, apperr.NotFound("group was not found")
	}
	return group, nil
}

func (g *localGroupService) ListGroups(query repository.GroupQuery) ([]*entity.Group, error) {
	groups, err := g.groupRepository.List(query)
	if err != nil {
		return nil, apperr.Persistence(err, "could not load the groups")
	}
	return groups, nil
}

func (g *localGroupService) UpdateGroup(actorUUID, groupUUID string, patch repository.GroupPatch) (*entity.Group, error) {
	if err := g.requireAdmin(groupUUID, actorUUID); err != nil {
		return nil, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperr.Validation("group name must not be empty")
	}

	if err := g.groupRepository.Update(groupUUID, patch); err != nil {
		return nil, apperr.Persistence(err, "could not update the group")
	}
	group, err := g.groupRepository.GetByUUID(groupUUID)
	if err != nil {
		return nil, apperr.Persistence(err, "could not reload the group")
	}
	return group, nil
}

func (g *localGroupService) DeleteGroup(actorUUID, groupUUID string) error {
	if err := g.requireAdmin(groupUUID, actorUUID); err != nil {
		return err
	}
	if err := g.groupRepository.SoftDelete(groupUUID); err != nil {
		return apperr.Persistence(err, "could not delete the group")
	}
	g.Logf("Group %s deleted by user %s", groupUUID, actorUUID)
	return nil
}

func (g *localGroupService) JoinGroup(userUUID, groupUUID string) (*entity.GroupMember, error) {
	if _, err := g.userRepository.GetByUUID(userUUID); err != nil {
		return nil, apperr.NotFound("user was not found")
	}
	group, err := g.groupRepository.GetByUUID(groupUUID)
	if err != nil {
		return nil, apperr.NotFound("group was not found")
	}
	if !group.IsPublic {
		return nil, apperr.Authorization("this group is private, you need an invitation to join")
	}
	if _, err := g.groupRepository.GetMember(groupUUID, userUUID); err == nil {
		return nil, apperr.Conflict("you are already a member of this group")
	}

	member := &entity.GroupMember{
		GroupUUID: groupUUID,
		UserUUID:  userUUID,
		Role:      entity.RoleMember,
		JoinedAt:  time.Now(),
	}
	if err := g.groupRepository.AddMember(member); err != nil {
		// Two concurrent joins race on the membership key; losing is benign.
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, apperr.Conflict("you are already a member of this group")
		}
		return nil, apperr.Persistence(err, "could not join the group")
	}
	g.Logf("User %s joined group %s", userUUID, groupUUID)
	return member, nil
}

func (g *localGroupService) LeaveGroup(userUUID, groupUUID string) error {
	member, err := g.groupRepository.GetMember(groupUUID, userUUID)
	if err != nil {
		return apperr.Validation("you are not a member of this group")
	}

	if member.Role == entity.RoleAdmin {
		admins, err := g.groupRepository.CountAdmins(groupUUID)
		if err != nil {
			return apperr.Persistence(err, "could not verify the group admins")
		}
		members, err := g.groupRepository.CountMembers(groupUUID)
		if err != nil {
			return apperr.Persistence(err, "could not verify the group members")
		}
		if admins == 1 && members > 1 {
			return apperr.Validation("please assign another admin before leaving or delete the group")
		}
	}

	if err := g.groupRepository.RemoveMember(groupUUID, userUUID); err != nil {
		return apperr.Persistence(err, "could not leave the group")
	}
	g.Logf("User %s left group %s", userUUID, groupUUID)
	return nil
}

func (g *localGroupService) GetMembers(groupUUID string) ([]*entity.GroupMember, error) {
	if _, err := g.groupRepository.GetByUUID(groupUUID); err != nil {
		return nil, apperr.NotFound("group was not found")
	}
	members, err := g.groupRepository.GetMembers(groupUUID)
	if err != nil {
		return nil, apperr.Persistence(err, "could not load the group members")
	}
	return members, nil
}

func (g *localGroupService) GetMember(groupUUID, userUUID string) (*entity.GroupMember, error) {
	member, err := g.groupRepository.GetMember(groupUUID, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user is not a member of this group")
		}
		return nil, apperr.Persistence(err, "could not verify group membership")
	}
	return member, nil
}

func (g *localGroupService) SetMemberRole(actorUUID, groupUUID, targetUUID, role string) error {
	if role != entity.RoleAdmin && role != entity.RoleMember {
		return apperr.Validation("role must be ADMIN or MEMBER")
	}
	if err := g.requireAdmin(groupUUID, actorUUID); err != nil {
		return err
	}

	target, err := g.groupRepository.GetMember(groupUUID, targetUUID)
	if err != nil {
		return apperr.NotFound("user is not a member of this group")
	}
	if target.Role == entity.RoleAdmin && role == entity.RoleMember {
		admins, err := g.groupRepository.CountAdmins(groupUUID)
		if err != nil {
			return apperr.Persistence(err, "could not verify the group admins")
		}
		if admins == 1 {
			return apperr.Validation("cannot demote the last admin of the group")
		}
	}

	if err := g.groupRepository.UpdateMemberRole(groupUUID, targetUUID, role); err != nil {
		return apperr.Persistence(err, "could not change the member role")
	}
	g.Logf("User %s is now %s in group %s", targetUUID, role, groupUUID)
	return nil
}

func (g *localGroupService) requireAdmin(groupUUID, userUUID string) error {
	member, err := g.groupRepository.GetMember(groupUUID, userUUID)
	if err != nil {
		return apperr.Authorization("user is not a member of this group")
	}
	if member.Role != entity.RoleAdmin {
		return apperr.Authorization("only a group admin can do this")
	}
	return nil
}
